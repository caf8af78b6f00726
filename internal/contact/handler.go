package contact

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"marketingai-backend/internal/httpx"
	"marketingai-backend/internal/middleware"
	"marketingai-backend/internal/transport"
	"marketingai-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req SubmitRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("contact submit: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("contact submit: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	meta := RequestMeta{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msg, err := h.service.Submit(ctx, req, meta)
	if err != nil {
		log.Error("contact submit: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "failed to submit your message, please try again", nil)
		return
	}

	go func(saved Message) {
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer notifyCancel()
		if err := h.service.NotifySubmitted(notifyCtx, saved); err != nil {
			h.log.Warn("contact submit: reply enqueue failed",
				slog.String("message_id", saved.ID),
				slog.String("error", err.Error()),
			)
		}
	}(msg)

	log.Info("contact submit: saved",
		slog.String("message_id", msg.ID),
		slog.String("priority", msg.Priority),
		slog.Int("spam_score", msg.Metadata.SpamScore),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "your message has been sent successfully, we will get back to you within 24 hours",
		"data": map[string]interface{}{
			"id":          msg.ID,
			"submittedAt": msg.Metadata.CreatedAt,
		},
	})
}

func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	info, err := h.service.GetInfo(ctx)
	if err != nil {
		if errors.Is(err, ErrInfoNotFound) {
			transport.WriteError(w, http.StatusNotFound, "contact information not found", nil)
			return
		}
		log.Error("contact info: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "failed to fetch contact information", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": info})
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 10, 100)
	if err != nil {
		log.Warn("contact list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Status:      strings.TrimSpace(r.URL.Query().Get("status")),
		Priority:    strings.TrimSpace(r.URL.Query().Get("priority")),
		ServiceType: strings.TrimSpace(r.URL.Query().Get("serviceType")),
		Search:      strings.TrimSpace(r.URL.Query().Get("search")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListMessages(ctx, filter, page, limit)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"status": "oneof"})
			return
		}
		if errors.Is(err, ErrInvalidPriority) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"priority": "oneof"})
			return
		}
		log.Error("contact list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "failed to fetch contact messages", nil)
		return
	}

	log.Info("contact list: ok", slog.Int("count", len(items)))
	transport.WritePage(w, http.StatusOK, items, page, limit, total, len(items))
}

func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("contact update: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("contact update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("contact update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msg, err := h.service.UpdateMessage(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyUpdate):
			transport.WriteError(w, http.StatusBadRequest, "status or priority is required", nil)
		case errors.Is(err, ErrInvalidStatus):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"status": "oneof"})
		case errors.Is(err, ErrInvalidPriority):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"priority": "oneof"})
		case errors.Is(err, ErrNotFound):
			log.Warn("contact update: not found", slog.String("message_id", id))
			transport.WriteError(w, http.StatusNotFound, "message not found", nil)
		default:
			log.Error("contact update: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "failed to update message", nil)
		}
		return
	}

	log.Info("contact update: ok",
		slog.String("message_id", id),
		slog.String("status", msg.Status),
		slog.String("priority", msg.Priority),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "message updated successfully",
		"data":    msg,
	})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
