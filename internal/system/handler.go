package system

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"marketingai-backend/internal/transport"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Handler serves the ops endpoints: process uptime and database health.
type Handler struct {
	client    *mongo.Client
	log       *slog.Logger
	startedAt time.Time
}

func NewHandler(client *mongo.Client, log *slog.Logger) *Handler {
	return &Handler{
		client:    client,
		log:       log,
		startedAt: time.Now(),
	}
}

func (h *Handler) Uptime(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startedAt)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"uptime":        uptime.Truncate(time.Second).String(),
		"uptimeSeconds": int64(uptime.Seconds()),
		"goVersion":     runtime.Version(),
		"goroutines":    runtime.NumGoroutine(),
	})
}

func (h *Handler) DBStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.client.Ping(ctx, readpref.Primary()); err != nil {
		h.log.Error("db status: ping failed", slog.String("error", err.Error()))
		transport.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{"message": "Not Connected"})
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Connected"})
}
