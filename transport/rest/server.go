package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
)

const shutdownTimeout = 5 * time.Second

// NewRouter maps the game API onto a mux and allows cross-origin polling clients.
func NewRouter(handlers Handlers, ping PingHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", ping.Ping)
	mux.HandleFunc("GET /board", handlers.Board)

	mux.HandleFunc("POST /games", handlers.StartGame)
	mux.HandleFunc("GET /games/waiting", handlers.WaitingGames)
	mux.HandleFunc("GET /games/active", handlers.ActiveGames)
	mux.HandleFunc("GET /games/{name}", handlers.GameDetails)
	mux.HandleFunc("GET /games/{name}/players", handlers.PlayersDetails)
	mux.HandleFunc("POST /games/{name}/players", handlers.JoinGame)

	mux.HandleFunc("GET /events", handlers.Events)
	mux.HandleFunc("POST /players/{id}/dice", handlers.SetDiceRollResults)
	mux.HandleFunc("POST /players/{id}/buy", handlers.Buy)
	mux.HandleFunc("POST /players/{id}/resign", handlers.Resign)

	mux.HandleFunc("GET /feed/{gameID}", handlers.Feed)
	mux.HandleFunc("GET /feed/{gameID}/game", handlers.Snapshot)

	return cors.AllowAll().Handler(mux)
}

// Start serves until ctx is done, then shuts the server down gracefully.
func Start(ctx context.Context, logger *slog.Logger, port string, handlers Handlers, ping PingHandler) error {
	log := logger.With("method", "Start")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(handlers, ping),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
