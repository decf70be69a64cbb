package handlers

import (
	"net/http"
	"strings"

	"finvault/internal/core/domain"
)

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"required"`
}

type CategoryHandler struct {
	Repo domain.CategoryRepository
}

func NewCategoryHandler(repo domain.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{Repo: repo}
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	categories, err := h.Repo.List(r.Context(), user.ID)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	ctype, ok := parseCategoryType(req.Type)
	if !ok {
		respondError(w, http.StatusBadRequest, "Type must be EXPENSE, INCOME or INVESTMENT")
		return
	}

	category := &domain.Category{
		UserID: user.ID,
		Name:   strings.TrimSpace(req.Name),
		Type:   ctype,
	}
	if err := h.Repo.Create(r.Context(), category); err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// Update handles PUT /api/v1/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	ctype, ok := parseCategoryType(req.Type)
	if !ok {
		respondError(w, http.StatusBadRequest, "Type must be EXPENSE, INCOME or INVESTMENT")
		return
	}

	category, err := h.Repo.Update(r.Context(), user.ID, id, strings.TrimSpace(req.Name), ctype)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/v1/categories/{id}
//
// Transactions referencing the category keep existing; the schema nulls
// their category_id on delete.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.Repo.Delete(r.Context(), user.ID, id); err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Category removed successfully"})
}

func parseCategoryType(s string) (domain.CategoryType, bool) {
	switch domain.CategoryType(strings.ToUpper(strings.TrimSpace(s))) {
	case domain.CategoryExpense:
		return domain.CategoryExpense, true
	case domain.CategoryIncome:
		return domain.CategoryIncome, true
	case domain.CategoryInvestment:
		return domain.CategoryInvestment, true
	}
	return "", false
}
