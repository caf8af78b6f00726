package demo

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
	service  *Service
	val      *validation.Validator
	log      *slog.Logger
	location *time.Location
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, location *time.Location) *Handler {
	return &Handler{
		service:  service,
		val:      val,
		log:      log,
		location: location,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("demo create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("demo create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	meta := RequestMeta{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	rec, err := h.service.Create(ctx, req, meta)
	if err != nil {
		switch {
		case errors.Is(err, ErrCustomTopicsRequired):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"customTopics": "required for custom demo type"})
		case errors.Is(err, ErrInvalidType):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"demoType": "oneof"})
		case errors.Is(err, ErrInvalidDate):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"preferredDate": "date"})
		case errors.Is(err, ErrMissingSchedule):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"preferredTime": "required"})
		default:
			log.Error("demo create: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "failed to schedule demo", nil)
		}
		return
	}

	// Notification is fire-and-forget: enqueue failures are logged and the
	// 201 stands.
	go func(created Record) {
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer notifyCancel()
		if err := h.service.NotifyCreated(notifyCtx, created); err != nil {
			h.log.Warn("demo create: notification enqueue failed",
				slog.String("demo_id", created.ID),
				slog.String("error", err.Error()),
			)
		}
	}(rec)

	log.Info("demo create: scheduled",
		slog.String("demo_id", rec.ID),
		slog.String("demo_type", rec.Details.DemoType),
		slog.String("date", rec.Details.PreferredDate.Format("2006-01-02")),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "demo scheduled successfully",
		"data": map[string]interface{}{
			"id":            rec.ID,
			"scheduledDate": rec.Details.PreferredDate,
			"demoType":      rec.Details.DemoType,
			"duration":      rec.Details.Duration,
		},
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 10, 100)
	if err != nil {
		log.Warn("demo list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Status:   strings.TrimSpace(r.URL.Query().Get("status")),
		Industry: strings.TrimSpace(r.URL.Query().Get("industry")),
		DemoType: strings.TrimSpace(r.URL.Query().Get("demoType")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("dateFrom")); raw != "" {
		from, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"dateFrom": "date"})
			return
		}
		filter.DateFrom = from
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("dateTo")); raw != "" {
		to, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"dateTo": "date"})
			return
		}
		filter.DateTo = to
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, page, limit)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"status": "oneof"})
			return
		}
		if errors.Is(err, ErrInvalidType) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"demoType": "oneof"})
			return
		}
		log.Error("demo list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "failed to fetch demo requests", nil)
		return
	}

	log.Info("demo list: ok", slog.Int("count", len(items)))
	transport.WritePage(w, http.StatusOK, items, page, limit, total, len(items))
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("demo get: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("demo get: not found", slog.String("demo_id", id))
			transport.WriteError(w, http.StatusNotFound, "demo request not found", nil)
			return
		}
		log.Error("demo get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "failed to fetch demo request", nil)
		return
	}

	log.Info("demo get: ok", slog.String("demo_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": rec})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("demo status: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req StatusUpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("demo status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("demo status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.service.TransitionStatus(ctx, id, req, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "invalid status value", map[string]string{"status": "oneof"})
			return
		}
		if errors.Is(err, ErrNotFound) {
			log.Warn("demo status: not found", slog.String("demo_id", id))
			transport.WriteError(w, http.StatusNotFound, "demo request not found", nil)
			return
		}
		log.Error("demo status: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "failed to update demo status", nil)
		return
	}

	log.Info("demo status: ok", slog.String("demo_id", id), slog.String("status", rec.Status.Current))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": rec})
}

func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("demo reschedule: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req RescheduleRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("demo reschedule: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("demo reschedule: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.service.Reschedule(ctx, id, req, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrMissingSchedule):
			transport.WriteError(w, http.StatusBadRequest, "new date and time are required", nil)
		case errors.Is(err, ErrNotFound):
			log.Warn("demo reschedule: not found", slog.String("demo_id", id))
			transport.WriteError(w, http.StatusNotFound, "demo request not found", nil)
		default:
			log.Error("demo reschedule: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "failed to reschedule demo", nil)
		}
		return
	}

	go func(updated Record) {
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer notifyCancel()
		if err := h.service.NotifyRescheduled(notifyCtx, updated); err != nil {
			h.log.Warn("demo reschedule: notification enqueue failed",
				slog.String("demo_id", updated.ID),
				slog.String("error", err.Error()),
			)
		}
	}(rec)

	log.Info("demo reschedule: ok",
		slog.String("demo_id", id),
		slog.String("date", rec.Details.PreferredDate.Format("2006-01-02")),
		slog.String("time", rec.Details.PreferredTime),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": rec})
}

func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("demo notes: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req NoteRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("demo notes: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("demo notes: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.service.AddNote(ctx, id, req.Content, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, ErrEmptyNote) {
			transport.WriteError(w, http.StatusBadRequest, "note content is required", nil)
			return
		}
		if errors.Is(err, ErrNotFound) {
			log.Warn("demo notes: not found", slog.String("demo_id", id))
			transport.WriteError(w, http.StatusNotFound, "demo request not found", nil)
			return
		}
		log.Error("demo notes: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "failed to add note", nil)
		return
	}

	log.Info("demo notes: added", slog.String("demo_id", id), slog.Int("count", len(rec.FollowUp.Notes)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": rec.FollowUp.Notes})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("demo delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("demo delete: not found", slog.String("demo_id", id))
			transport.WriteError(w, http.StatusNotFound, "demo request not found", nil)
			return
		}
		log.Error("demo delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "failed to delete demo request", nil)
		return
	}

	log.Info("demo delete: ok", slog.String("demo_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "demo request deleted"})
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
