package handler

import (
	"log/slog"
	"net/http"

	"github.com/chatterhq/chatter/internal/domain"
	"github.com/chatterhq/chatter/internal/httperr"
	"github.com/chatterhq/chatter/internal/observability/metrics"
	"github.com/chatterhq/chatter/internal/security/audit"
	"github.com/chatterhq/chatter/internal/security/middleware"
	"github.com/chatterhq/chatter/internal/service"
	"github.com/chatterhq/chatter/internal/validation"
)

// SignupRequest is the account creation payload.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password_strength"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the JWT token.
type LoginResponse struct {
	AuthToken string `json:"authToken"`
}

// UpdateUserRequest is the partial account patch; absent fields are left
// untouched.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,password_strength"`
}

// UserHandler handles signup, login, and account updates.
type UserHandler struct {
	users    *service.UserService
	validate *validation.Validator
	audit    *audit.Logger
	logger   *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *service.UserService, validate *validation.Validator, auditLog *audit.Logger, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		validate: validate,
		audit:    auditLog,
		logger:   logger,
	}
}

// Signup handles POST /user/signup.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[SignupRequest](h.validate, r)
	if err != nil {
		httperr.Write(w, h.logger, "Validation", err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.audit.LogSignup(r.Context(), req.Email, "failed")
		httperr.Write(w, h.logger, "Create new user", err)
		return
	}

	metrics.ObserveSignup()
	h.audit.LogSignup(r.Context(), user.ID.Hex(), "created")
	writeJSON(w, h.logger, http.StatusCreated, user)
}

// Login handles POST /user/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[LoginRequest](h.validate, r)
	if err != nil {
		httperr.Write(w, h.logger, "Validation", err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		metrics.ObserveLogin("failure")
		h.audit.LogLogin(r.Context(), req.Email, "failed")
		httperr.Write(w, h.logger, "Login user", err)
		return
	}

	metrics.ObserveLogin("success")
	h.audit.LogLogin(r.Context(), req.Email, "success")
	writeJSON(w, h.logger, http.StatusOK, LoginResponse{AuthToken: token})
}

// Update handles POST /user/update. Callers may only patch their own
// account; the target id comes from the token, never the request.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		httperr.Write(w, h.logger, "Update user", service.ErrUserNotFound)
		return
	}

	req, err := decodeBody[UpdateUserRequest](h.validate, r)
	if err != nil {
		httperr.Write(w, h.logger, "Validation", err)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), caller, domain.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httperr.Write(w, h.logger, "Update user", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, user)
}
