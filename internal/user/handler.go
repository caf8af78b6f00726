package user

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
)

type Handler struct {
	service      *Service
	val          *validation.Validator
	log          *slog.Logger
	cookieTTL    time.Duration
	cookieSecure bool
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, cookieTTL time.Duration, cookieSecure bool) *Handler {
	return &Handler{
		service:      service,
		val:          val,
		log:          log,
		cookieTTL:    cookieTTL,
		cookieSecure: cookieSecure,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req RegisterRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("user register: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("user register: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	u, otp, err := h.service.Register(ctx, req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			log.Warn("user register: email taken")
			transport.WriteError(w, http.StatusConflict, "a user with this email already exists", nil)
			return
		}
		log.Error("user register: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "registration failed, please try again", nil)
		return
	}

	go func(created User, code string) {
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer notifyCancel()
		if err := h.service.NotifyRegistered(notifyCtx, created, code); err != nil {
			h.log.Warn("user register: otp enqueue failed",
				slog.String("user_id", created.ID),
				slog.String("error", err.Error()),
			)
		}
	}(u, otp)

	log.Info("user register: ok", slog.String("user_id", u.ID))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "registration successful, check your inbox for the verification code",
		"data":    map[string]interface{}{"id": u.ID},
	})
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req VerifyEmailRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("user verify: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("user verify: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.VerifyEmail(ctx, req); err != nil {
		if errors.Is(err, ErrInvalidOTP) {
			log.Warn("user verify: invalid otp")
			transport.WriteError(w, http.StatusBadRequest, "invalid or expired verification code", nil)
			return
		}
		log.Error("user verify: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "verification failed, please try again", nil)
		return
	}

	log.Info("user verify: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "email verification successful, you can now log in to your account",
	})
}

func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req ResendOTPRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("user resend otp: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("user resend otp: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, otp, err := h.service.ResendOTP(ctx, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same response either way so the endpoint cannot be used to
			// probe registered emails.
			transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"message": "if the account exists, a new code is on its way",
			})
			return
		}
		log.Error("user resend otp: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "failed to resend verification code", nil)
		return
	}

	go func(found User, code string) {
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer notifyCancel()
		if err := h.service.NotifyRegistered(notifyCtx, found, code); err != nil {
			h.log.Warn("user resend otp: enqueue failed",
				slog.String("user_id", found.ID),
				slog.String("error", err.Error()),
			)
		}
	}(u, otp)

	log.Info("user resend otp: ok", slog.String("user_id", u.ID))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "if the account exists, a new code is on its way",
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("user login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("user login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	u, token, err := h.service.Login(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			log.Warn("user login: invalid credentials")
			transport.WriteError(w, http.StatusUnauthorized, "invalid email or password", nil)
		case errors.Is(err, ErrEmailNotVerified):
			log.Warn("user login: email not verified")
			transport.WriteError(w, http.StatusForbidden, "email address not verified", nil)
		case errors.Is(err, ErrAuthUnavailable):
			log.Error("user login: token manager not configured")
			transport.WriteError(w, http.StatusServiceUnavailable, "login is temporarily unavailable", nil)
		default:
			log.Error("user login: failed", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "login failed, please try again", nil)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieTTL),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("user login: ok", slog.String("user_id", u.ID))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "login successful",
		"data": map[string]interface{}{
			"token": token,
			"user":  u,
		},
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "logged out",
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "user not found", nil)
			return
		}
		log.Error("user profile: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "failed to fetch profile", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": u})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req ProfileUpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("user profile update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("user profile update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.service.UpdateProfile(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyUpdate):
			transport.WriteError(w, http.StatusBadRequest, "no data provided for update", nil)
		case errors.Is(err, ErrNotFound):
			transport.WriteError(w, http.StatusNotFound, "user not found", nil)
		default:
			log.Error("user profile update: failed", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "failed to update profile", nil)
		}
		return
	}

	log.Info("user profile update: ok", slog.String("user_id", userID))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "profile updated successfully",
		"data":    u,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 10, 100)
	if err != nil {
		log.Warn("user list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		UserType: strings.TrimSpace(r.URL.Query().Get("userType")),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, page, limit)
	if err != nil {
		log.Error("user list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "failed to fetch users", nil)
		return
	}

	log.Info("user list: ok", slog.Int("count", len(items)))
	transport.WritePage(w, http.StatusOK, items, page, limit, total, len(items))
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
