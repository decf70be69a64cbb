package handlers

import (
	"net/http"
	"strings"

	"finvault/internal/core/domain"
)

type updateProfileRequest struct {
	Email string  `json:"email" validate:"required,email"`
	Name  *string `json:"name" validate:"omitempty,max=200"`
}

type UserHandler struct {
	Repo domain.UserRepository
}

func NewUserHandler(repo domain.UserRepository) *UserHandler {
	return &UserHandler{Repo: repo}
}

// Me handles GET /api/v1/me. The middleware already provisioned the row, so
// this is just a readback.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateMe handles PUT /api/v1/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = emptyToNil(req.Name)
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	updated, err := h.Repo.UpdateProfile(r.Context(), user.ID, strings.TrimSpace(req.Email), req.Name)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
