package handler

import (
	"log/slog"
	"net/http"

	"github.com/chatterhq/chatter/internal/httperr"
	"github.com/chatterhq/chatter/internal/observability/metrics"
	"github.com/chatterhq/chatter/internal/security/middleware"
	"github.com/chatterhq/chatter/internal/service"
	"github.com/chatterhq/chatter/internal/validation"
)

// CreateGroupRequest is the new-group payload.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// GroupHandler handles group creation and lookup.
type GroupHandler struct {
	groups   *service.GroupService
	validate *validation.Validator
	logger   *slog.Logger
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(groups *service.GroupService, validate *validation.Validator, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{
		groups:   groups,
		validate: validate,
		logger:   logger,
	}
}

// Create handles POST /group/create.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		httperr.Write(w, h.logger, "Create new group", service.ErrUserNotFound)
		return
	}

	req, err := decodeBody[CreateGroupRequest](h.validate, r)
	if err != nil {
		httperr.Write(w, h.logger, "Validation", err)
		return
	}

	group, err := h.groups.Create(r.Context(), caller, req.Name, req.Description)
	if err != nil {
		httperr.Write(w, h.logger, "Create new group", err)
		return
	}

	metrics.ObserveGroupCreated()
	writeJSON(w, h.logger, http.StatusCreated, group)
}

// Get handles GET /group/{id}.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httperr.InvalidID(w, h.logger, "Get one group")
		return
	}

	group, err := h.groups.GetByID(r.Context(), id)
	if err != nil {
		httperr.Write(w, h.logger, "Get one group", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, group)
}

// List handles GET /groups: every group the caller belongs to. No
// memberships is an empty list, not an error.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		httperr.Write(w, h.logger, "Get groups", service.ErrUserNotFound)
		return
	}

	groups, err := h.groups.GetAllByUserID(r.Context(), caller)
	if err != nil {
		httperr.Write(w, h.logger, "Get groups", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, groups)
}
