package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"finvault/internal/core/domain"
	"finvault/internal/core/services"
)

// ==============================================================================
// 1. Request Payloads
// ==============================================================================

type transactionRequest struct {
	Type       string          `json:"type" validate:"required"`
	Title      string          `json:"title" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date" validate:"required"`
	CategoryID *string         `json:"categoryId" validate:"omitempty,uuid"`
	IsFixed    bool            `json:"isFixed"`
	Notes      *string         `json:"notes"`
}

// toDomain finishes the checks validator tags cannot express: enum type,
// positive amount, parseable date.
func (req *transactionRequest) toDomain(w http.ResponseWriter) (*domain.Transaction, bool) {
	txType, ok := domain.ParseTransactionType(req.Type)
	if !ok {
		respondError(w, http.StatusBadRequest, "Type must be EXPENSE or INCOME")
		return nil, false
	}

	if !req.Amount.IsPositive() {
		respondError(w, http.StatusBadRequest, "Amount must be positive")
		return nil, false
	}

	date, err := services.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date")
		return nil, false
	}

	t := &domain.Transaction{
		Type:    txType,
		Title:   req.Title,
		Amount:  req.Amount,
		Date:    date,
		IsFixed: req.IsFixed,
		Notes:   req.Notes,
	}
	if req.CategoryID != nil {
		id, err := parseUUID(*req.CategoryID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid categoryId")
			return nil, false
		}
		t.CategoryID = &id
	}
	return t, true
}

// ==============================================================================
// 2. The Handler
// ==============================================================================

type TransactionHandler struct {
	Repo domain.TransactionRepository
}

func NewTransactionHandler(repo domain.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{Repo: repo}
}

// List handles GET /api/v1/transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter, ok := parseListFilter(w, r)
	if !ok {
		return
	}

	transactions, err := h.Repo.List(r.Context(), user.ID, filter)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

// Summary handles GET /api/v1/transactions/summary
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter, ok := parseListFilter(w, r)
	if !ok {
		return
	}

	// Default to the current month when the query does not pick one.
	now := time.Now()
	month, year := filter.Month, filter.Year
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	transactions, err := h.Repo.ListRange(r.Context(), user.ID, from, to)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, services.ComputeMonthlySummary(transactions))
}

// Create handles POST /api/v1/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	transaction, ok := req.toDomain(w)
	if !ok {
		return
	}
	transaction.UserID = user.ID

	if err := h.Repo.Create(r.Context(), transaction); err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, transaction)
}

// Update handles PUT /api/v1/transactions/{id}
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	transaction, ok := req.toDomain(w)
	if !ok {
		return
	}

	updated, err := h.Repo.Update(r.Context(), user.ID, id, transaction)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/transactions/{id}
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, map[string]string{"message": "Transaction removed successfully"})
}

// parseListFilter reads the optional month/year/type query parameters.
func parseListFilter(w http.ResponseWriter, r *http.Request) (domain.TransactionFilter, bool) {
	var filter domain.TransactionFilter
	q := r.URL.Query()

	if raw := q.Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			respondError(w, http.StatusBadRequest, "Invalid month")
			return filter, false
		}
		filter.Month = month
	}
	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1970 || year > 2100 {
			respondError(w, http.StatusBadRequest, "Invalid year")
			return filter, false
		}
		filter.Year = year
	}
	if raw := q.Get("type"); raw != "" {
		txType, ok := domain.ParseTransactionType(raw)
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid type")
			return filter, false
		}
		filter.Type = txType
	}
	return filter, true
}
