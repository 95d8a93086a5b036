package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-commerce/meridian/internal/platform/httpx"
	"github.com/meridian-commerce/meridian/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	cookieName   string
	secureCookie bool
	guard        func(http.Handler) http.Handler
	validator    *validator.Validate
}

// NewHandler constructs a Handler instance. The guard middleware protects
// routes that require an authenticated caller.
func NewHandler(logger *slog.Logger, service *Service, cookieName string, secureCookie bool, guard func(http.Handler) http.Handler) *Handler {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Handler{
		logger:       logger,
		service:      service,
		cookieName:   cookieName,
		secureCookie: secureCookie,
		guard:        guard,
		validator:    validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	if h.guard != nil {
		r.Group(func(r chi.Router) {
			r.Use(h.guard)
			r.Get("/me", h.handleMe)
		})
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type profileResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	RoleID   int64  `json:"role_id"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "username and password are required")
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("login rejected", slog.String("username", req.Username))
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}

	if r.URL.Query().Get("set_cookie") == "true" {
		http.SetCookie(w, h.sessionCookie(token, int(h.service.LoginTTL().Seconds())))
	}
	h.logger.Info("login", slog.Int64("user_id", user.ID))
	httpx.JSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Stateless tokens cannot be revoked; logout just drops the cookie.
	http.SetCookie(w, h.sessionCookie("", -1))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	user, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		h.logger.Error("load profile", slog.Int64("user_id", userID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profileResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		RoleID:   user.RoleID,
	})
}

// sessionCookie builds the session cookie with attributes matching the
// token lifetime.
func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}
