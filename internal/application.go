package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/monopoly-backend/internal/board"
	"github.com/rocketscienceinc/monopoly-backend/internal/config"
	"github.com/rocketscienceinc/monopoly-backend/internal/monopoly"
	"github.com/rocketscienceinc/monopoly-backend/internal/repository"
	"github.com/rocketscienceinc/monopoly-backend/internal/repository/storage"
	"github.com/rocketscienceinc/monopoly-backend/internal/service"
	"github.com/rocketscienceinc/monopoly-backend/internal/usecase"
	"github.com/rocketscienceinc/monopoly-backend/transport/rest"
)

const gameStopTimeout = 10 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	def, err := loadBoard(conf.BoardPath)
	if err != nil {
		return fmt.Errorf("could not load board: %w", err)
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage.Connection)
	eventRepo := repository.NewEventRepository(redisStorage.Connection)
	feed := service.NewFeedService(logger, eventRepo, conf.Feed.Buffer, conf.Feed.TTL)
	gameManager := usecase.NewGameManager(logger, def, rulesFrom(conf.Game), conf.Feed.TTL, gameRepo, feed)

	group, groupCtx := errgroup.WithContext(ctx)

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(groupCtx, logger, conf.HTTPPort, rest.NewHandlers(logger, gameManager), rest.NewPingHandler(logger, redisStorage)); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}

		return nil
	})

	// the feed stops only after the game has been shut down
	feedCtx, feedCancel := context.WithCancel(context.WithoutCancel(groupCtx))

	// run event feed
	group.Go(func() error {
		return feed.Run(feedCtx)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		defer feedCancel()

		stopCtx, stopCancel := context.WithTimeout(context.Background(), gameStopTimeout)
		defer stopCancel()

		if stopErr := gameManager.Shutdown(stopCtx); stopErr != nil {
			log.Error("could not stop the game", "error", stopErr)
		}

		return nil
	})

	if err = group.Wait(); err != nil {
		return fmt.Errorf("application stopped: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func loadBoard(path string) (*board.Definition, error) {
	if path == "" {
		return board.Default(), nil
	}

	def, err := board.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load board from %s: %w", path, err)
	}

	return def, nil
}

func rulesFrom(conf config.Game) monopoly.Rules {
	return monopoly.Rules{
		InitialCash:      conf.InitialCash,
		PassStartBonus:   conf.PassStartBonus,
		LandOnStartBonus: conf.LandOnStartBonus,
		ShuffleSwaps:     conf.ShuffleSwaps,
		PromptTimeout:    conf.PromptTimeout,
		StartPause:       conf.StartPause,
		EndPause:         conf.EndPause,
	}
}
