package monopoly

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/board"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

const (
	MinPlayers = 2
	MaxPlayers = 6
)

type Settings struct {
	ID        string
	Name      string
	Humans    int
	Computers int
	AutoDice  bool
}

// Rules holds the economic constants and the timing of a game.
type Rules struct {
	InitialCash      int
	PassStartBonus   int
	LandOnStartBonus int
	ShuffleSwaps     int
	PromptTimeout    time.Duration
	StartPause       time.Duration
	EndPause         time.Duration
}

func DefaultRules() Rules {
	return Rules{
		InitialCash:      1500,
		PassStartBonus:   200,
		LandOnStartBonus: 400,
		ShuffleSwaps:     100,
		PromptTimeout:    120 * time.Second,
		StartPause:       3 * time.Second,
		EndPause:         3 * time.Second,
	}
}

type Option func(*Game)

func WithRules(rules Rules) Option {
	return func(game *Game) { game.rules = rules }
}

func WithRoller(roller Roller) Option {
	return func(game *Game) { game.roller = roller }
}

func WithRand(rnd *rand.Rand) Option {
	return func(game *Game) { game.rnd = rnd }
}

// WithEventHook registers a callback invoked for every emitted event. It runs on the
// game worker and must not block.
func WithEventHook(hook func(entity.Event)) Option {
	return func(game *Game) { game.hook = hook }
}

// Game is one live game. A single worker started by Run owns the simulation state;
// the exported methods are safe to call concurrently from request handlers.
type Game struct {
	logger   *slog.Logger
	settings Settings
	rules    Rules

	mu           sync.RWMutex
	status       string
	board        []Square
	ledger       *Ledger
	players      []*Player
	joinedHumans int
	activeHumans int
	nextHumanID  int

	events *EventLog
	gate   *DecisionGate
	roller Roller
	rnd    *rand.Rand
	hook   func(entity.Event)
}

func NewGame(logger *slog.Logger, def *board.Definition, settings Settings, opts ...Option) (*Game, error) {
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	if def == nil {
		return nil, fmt.Errorf("%w: board definition is missing", apperror.ErrConfig)
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate board: %w", err)
	}

	game := &Game{
		logger:   logger.With("component", "game", "game", settings.Name),
		settings: settings,
		rules:    DefaultRules(),
		status:   entity.StatusWaiting,
		events:   NewEventLog(),
		gate:     NewDecisionGate(),
	}

	for _, opt := range opts {
		opt(game)
	}

	if game.rnd == nil {
		game.rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // it's ok
	}

	if game.roller == nil {
		game.roller = NewRandomRoller(game.rnd)
	}

	game.buildBoard(def)

	for i := 1; i <= settings.Computers; i++ {
		game.addPlayer(fmt.Sprintf("comp%d", i), false)
	}

	return game, nil
}

func validateSettings(settings Settings) error {
	if strings.TrimSpace(settings.Name) == "" {
		return apperror.ErrIllegalGameName
	}

	total := settings.Humans + settings.Computers
	if settings.Humans < 1 || settings.Computers < 0 || total < MinPlayers || total > MaxPlayers {
		return fmt.Errorf("%w: %d humans and %d computers, want %d-%d players with at least one human",
			apperror.ErrIllegalPlayerCount, settings.Humans, settings.Computers, MinPlayers, MaxPlayers)
	}

	return nil
}

func (that *Game) buildBoard(def *board.Definition) {
	that.ledger = newLedger(def)

	surprise := newDeck(board.KindSurprise, def.SurpriseCards)
	surprise.Shuffle(that.rnd, that.rules.ShuffleSwaps)

	warrant := newDeck(board.KindWarrant, def.WarrantCards)
	warrant.Shuffle(that.rnd, that.rules.ShuffleSwaps)

	that.board = make([]Square, len(def.Layout))
	for i, square := range def.Layout {
		plain := plainSquare{kind: square.Kind}

		switch square.Kind {
		case board.KindStart:
			that.board[i] = &startSquare{plainSquare: plain}
		case board.KindJail:
			that.board[i] = &jailSquare{plainSquare: plain}
		case board.KindParking:
			that.board[i] = &parkingSquare{plainSquare: plain}
		case board.KindGoToJail:
			that.board[i] = &goToJailSquare{plainSquare: plain}
		case board.KindSurprise:
			that.board[i] = &actionSquare{plainSquare: plain, deck: surprise}
		case board.KindWarrant:
			that.board[i] = &actionSquare{plainSquare: plain, deck: warrant}
		case board.KindCity, board.KindSimple:
			asset, _ := that.ledger.lookup(square)
			that.board[i] = &assetSquare{plainSquare: plain, asset: asset}
		}
	}
}

func (that *Game) addPlayer(name string, human bool) *Player {
	id := computerID
	if human {
		id = that.nextHumanID
		that.nextHumanID++
		that.joinedHumans++
		that.activeHumans++
	}

	player := newPlayer(len(that.players), id, name, human, that.rules.InitialCash)
	that.players = append(that.players, player)

	return player
}

func (that *Game) ID() string {
	return that.settings.ID
}

func (that *Game) Name() string {
	return that.settings.Name
}

func (that *Game) Status() string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.status
}

func (that *Game) IsFull() bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.joinedHumans == that.settings.Humans
}

func (that *Game) Details() entity.GameDetails {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return entity.GameDetails{
		ID:           that.settings.ID,
		Name:         that.settings.Name,
		Status:       that.status,
		TotalHumans:  that.settings.Humans,
		Computers:    that.settings.Computers,
		JoinedHumans: that.joinedHumans,
		AutoDice:     that.settings.AutoDice,
		Players:      that.playersLocked(),
	}
}

func (that *Game) Players() []entity.PlayerDetails {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.playersLocked()
}

func (that *Game) playersLocked() []entity.PlayerDetails {
	players := make([]entity.PlayerDetails, 0, len(that.players))
	for _, player := range that.players {
		details := player.details()
		for _, asset := range that.ledger.OwnedBy(player.index) {
			details.Assets = append(details.Assets, asset.name)
		}
		players = append(players, details)
	}

	return players
}

// Join adds a human player before the game starts and returns their id.
func (that *Game) Join(name string) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status != entity.StatusWaiting {
		return 0, apperror.ErrCannotJoinActiveGame
	}

	if strings.TrimSpace(name) == "" || that.playerByName(name) != nil {
		return 0, fmt.Errorf("%w: %q", apperror.ErrIllegalPlayerName, name)
	}

	if that.joinedHumans >= that.settings.Humans {
		return 0, apperror.ErrGameFull
	}

	player := that.addPlayer(name, true)
	that.logger.Info("player joined", "player", name, "id", player.id)

	return player.id, nil
}

// Run starts the game worker. onOver is called once, after the game has ended and
// the drain pause has elapsed.
func (that *Game) Run(ctx context.Context, onOver func()) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status != entity.StatusWaiting {
		return fmt.Errorf("%w: game %s is already %s", apperror.ErrPrecondition, that.settings.Name, that.status)
	}

	if that.joinedHumans < that.settings.Humans {
		return fmt.Errorf("%w: %d of %d humans joined", apperror.ErrPrecondition, that.joinedHumans, that.settings.Humans)
	}

	that.status = entity.StatusActive
	go that.run(ctx, onOver)

	return nil
}

// Events returns the events emitted after since. The game must have started.
func (that *Game) Events(since int) ([]entity.Event, error) {
	details := entity.GameDetails{Status: that.Status()}
	if err := details.ConfirmStarted(); err != nil {
		return nil, err
	}

	events, err := that.events.Since(since)
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return events, nil
}

// SubmitDice answers a dice prompt. Values outside 1..6 are rejected without touching the game.
func (that *Game) SubmitDice(playerID, eventID, first, second int) error {
	if _, err := that.activePlayer(playerID); err != nil {
		return err
	}

	if !validDie(first) || !validDie(second) {
		return fmt.Errorf("%w: %d, %d", apperror.ErrIllegalDice, first, second)
	}

	if err := that.gate.Submit(eventID, playerID, true, decision{first: first, second: second}); err != nil {
		return fmt.Errorf("failed to submit dice: %w", err)
	}

	return nil
}

// SubmitBuy answers a buy-asset or buy-house prompt.
func (that *Game) SubmitBuy(playerID, eventID int, buy bool) error {
	if _, err := that.activePlayer(playerID); err != nil {
		return err
	}

	if err := that.gate.Submit(eventID, playerID, false, decision{buy: buy}); err != nil {
		return fmt.Errorf("failed to submit buy decision: %w", err)
	}

	return nil
}

// Resign flags the player. The scheduler removes them at the end of their next turn;
// a prompt they are currently holding is released as unanswered.
func (that *Game) Resign(playerID int) error {
	player, err := that.activePlayer(playerID)
	if err != nil {
		return err
	}

	player.resigned.Store(true)
	that.gate.Cancel(playerID)

	that.logger.Info("player resigned", "player", player.name)

	return nil
}

func (that *Game) activePlayer(playerID int) (*Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.status != entity.StatusActive {
		return nil, apperror.ErrNoActiveGame
	}

	player := that.humanByID(playerID)
	if player == nil {
		return nil, fmt.Errorf("%w: %d", apperror.ErrIllegalPlayerID, playerID)
	}

	if !player.inGame {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotInGame, player.name)
	}

	return player, nil
}

func (that *Game) humanByID(id int) *Player {
	for _, player := range that.players {
		if player.human && player.id == id {
			return player
		}
	}

	return nil
}

func (that *Game) playerByName(name string) *Player {
	for _, player := range that.players {
		if player.name == name {
			return player
		}
	}

	return nil
}
