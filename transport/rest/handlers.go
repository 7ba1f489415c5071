package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/board"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

type Handlers interface {
	Board(w http.ResponseWriter, r *http.Request)

	StartGame(w http.ResponseWriter, r *http.Request)
	WaitingGames(w http.ResponseWriter, r *http.Request)
	ActiveGames(w http.ResponseWriter, r *http.Request)
	GameDetails(w http.ResponseWriter, r *http.Request)
	PlayersDetails(w http.ResponseWriter, r *http.Request)
	JoinGame(w http.ResponseWriter, r *http.Request)

	Events(w http.ResponseWriter, r *http.Request)
	SetDiceRollResults(w http.ResponseWriter, r *http.Request)
	Buy(w http.ResponseWriter, r *http.Request)
	Resign(w http.ResponseWriter, r *http.Request)

	Feed(w http.ResponseWriter, r *http.Request)
	Snapshot(w http.ResponseWriter, r *http.Request)
}

type gameManager interface {
	StartGame(ctx context.Context, name string, humans, computers int, autoDice bool) (entity.GameDetails, error)
	GameDetails(name string) (entity.GameDetails, error)
	WaitingGames() []string
	ActiveGames() []string
	JoinGame(ctx context.Context, gameName, playerName string) (int, error)
	PlayersDetails(name string) ([]entity.PlayerDetails, error)
	Events(since int) ([]entity.Event, error)
	SetDiceRollResults(playerID, eventID, first, second int) error
	Buy(playerID, eventID int, buy bool) error
	Resign(playerID int) error
	Board() *board.Definition
	Feed(ctx context.Context, gameID string, since int) ([]entity.Event, error)
	Snapshot(ctx context.Context, gameID string) (*entity.GameDetails, error)
}

type startGameRequest struct {
	Name      string `json:"name"`
	Humans    int    `json:"humans"`
	Computers int    `json:"computers"`
	AutoDice  bool   `json:"auto_dice"`
}

type joinGameRequest struct {
	Name string `json:"name"`
}

type joinGameResponse struct {
	ID int `json:"id"`
}

type diceRequest struct {
	EventID int `json:"event_id"`
	First   int `json:"first"`
	Second  int `json:"second"`
}

type buyRequest struct {
	EventID int  `json:"event_id"`
	Buy     bool `json:"buy"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger      *slog.Logger
	gameManager gameManager
}

func NewHandlers(logger *slog.Logger, gameManager gameManager) Handlers {
	return &handlers{
		logger:      logger.With("component", "rest"),
		gameManager: gameManager,
	}
}

func (that *handlers) Board(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.gameManager.Board())
}

func (that *handlers) StartGame(w http.ResponseWriter, r *http.Request) {
	var request startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, fmt.Errorf("%w: %w", apperror.ErrPrecondition, err))
		return
	}

	game, err := that.gameManager.StartGame(r.Context(), request.Name, request.Humans, request.Computers, request.AutoDice)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) WaitingGames(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.gameManager.WaitingGames())
}

func (that *handlers) ActiveGames(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.gameManager.ActiveGames())
}

func (that *handlers) GameDetails(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameManager.GameDetails(r.PathValue("name"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) PlayersDetails(w http.ResponseWriter, r *http.Request) {
	players, err := that.gameManager.PlayersDetails(r.PathValue("name"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, players)
}

func (that *handlers) JoinGame(w http.ResponseWriter, r *http.Request) {
	var request joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, fmt.Errorf("%w: %w", apperror.ErrPrecondition, err))
		return
	}

	playerID, err := that.gameManager.JoinGame(r.Context(), r.PathValue("name"), request.Name)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, joinGameResponse{ID: playerID})
}

func (that *handlers) Events(w http.ResponseWriter, r *http.Request) {
	since, err := queryInt(r, "since")
	if err != nil {
		that.writeError(w, err)
		return
	}

	events, err := that.gameManager.Events(since)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, events)
}

func (that *handlers) SetDiceRollResults(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathInt(r, "id")
	if err != nil {
		that.writeError(w, err)
		return
	}

	var request diceRequest
	if err = json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, fmt.Errorf("%w: %w", apperror.ErrPrecondition, err))
		return
	}

	if err = that.gameManager.SetDiceRollResults(playerID, request.EventID, request.First, request.Second); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) Buy(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathInt(r, "id")
	if err != nil {
		that.writeError(w, err)
		return
	}

	var request buyRequest
	if err = json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, fmt.Errorf("%w: %w", apperror.ErrPrecondition, err))
		return
	}

	if err = that.gameManager.Buy(playerID, request.EventID, request.Buy); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) Resign(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathInt(r, "id")
	if err != nil {
		that.writeError(w, err)
		return
	}

	if err = that.gameManager.Resign(playerID); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) Feed(w http.ResponseWriter, r *http.Request) {
	since, err := queryInt(r, "since")
	if err != nil {
		that.writeError(w, err)
		return
	}

	events, err := that.gameManager.Feed(r.Context(), r.PathValue("gameID"), since)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, events)
}

func (that *handlers) Snapshot(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameManager.Snapshot(r.Context(), r.PathValue("gameID"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrPrecondition):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameNotFound), errors.Is(err, apperror.ErrNoActiveGame):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrStaleRequest), errors.Is(err, apperror.ErrGameAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// queryInt reads an optional non-negative integer query parameter, 0 when absent.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", apperror.ErrPrecondition, key, raw)
	}

	return value, nil
}

func pathInt(r *http.Request, key string) (int, error) {
	value, err := strconv.Atoi(r.PathValue(key))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", apperror.ErrIllegalPlayerID, key, r.PathValue(key))
	}

	return value, nil
}
