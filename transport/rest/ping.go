package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const pingTimeout = time.Second

type storagePinger interface {
	Ping(ctx context.Context) error
}

// PingHandler answers liveness checks. It reports 503 while the event store is unreachable.
type PingHandler interface {
	Ping(w http.ResponseWriter, r *http.Request)
}

type pingHandler struct {
	logger  *slog.Logger
	storage storagePinger
}

func NewPingHandler(logger *slog.Logger, storage storagePinger) PingHandler {
	return &pingHandler{
		logger:  logger,
		storage: storage,
	}
}

func (that *pingHandler) Ping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := that.storage.Ping(ctx); err != nil {
		that.logger.Warn("storage is unreachable", "method", "Ping", "error", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)

		return
	}

	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "method", "Ping", "error", err)
	}
}
