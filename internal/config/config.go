package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort  string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis     Redis  `yaml:"redis"`
	BoardPath string `yaml:"board-path" env:"BOARD_PATH"`
	Game      Game   `yaml:"game"`
	Feed      Feed   `yaml:"feed"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Game holds the rules every new game is created with.
type Game struct {
	PromptTimeout    time.Duration `yaml:"prompt-timeout" env:"GAME_PROMPT_TIMEOUT" env-default:"120s"`
	StartPause       time.Duration `yaml:"start-pause" env:"GAME_START_PAUSE" env-default:"3s"`
	EndPause         time.Duration `yaml:"end-pause" env:"GAME_END_PAUSE" env-default:"3s"`
	InitialCash      int           `yaml:"initial-cash" env:"GAME_INITIAL_CASH" env-default:"1500"`
	PassStartBonus   int           `yaml:"pass-start-bonus" env:"GAME_PASS_START_BONUS" env-default:"200"`
	LandOnStartBonus int           `yaml:"land-on-start-bonus" env:"GAME_LAND_ON_START_BONUS" env-default:"400"`
	ShuffleSwaps     int           `yaml:"shuffle-swaps" env:"GAME_SHUFFLE_SWAPS" env-default:"100"`
}

type Feed struct {
	TTL    time.Duration `yaml:"ttl" env:"FEED_TTL" env-default:"1h"`
	Buffer int           `yaml:"buffer" env:"FEED_BUFFER" env-default:"256"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
