package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"finvault/internal/core/domain"
)

// Single instance of Validate, it caches struct info.
var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// HandleError maps domain sentinels and validation failures onto status
// codes; anything unrecognized is a logged 500.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")

	case errors.Is(err, domain.ErrDuplicateCategory):
		respondError(w, http.StatusBadRequest, "Category name already exists")

	case errors.Is(err, domain.ErrInvalidCiphertext):
		respondError(w, http.StatusBadRequest, "Password data invalid")

	case domain.IsUploadError(err):
		respondError(w, http.StatusBadRequest, err.Error())

	case errors.As(err, &validationErrs):
		respondError(w, http.StatusBadRequest, "Validation failed: "+validationErrs.Error())

	default:
		slog.Error("unhandled request error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// currentUser pulls the authenticated user the middleware stashed; a miss
// means the route was wired outside RequireAuthentication.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return user, true
}

func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}

// emptyToNil folds the "" the frontend sends for cleared optional fields
// into a proper null before validation.
func emptyToNil(s *string) *string {
	if s != nil && *s == "" {
		return nil
	}
	return s
}
