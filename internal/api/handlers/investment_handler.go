package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finvault/internal/core/domain"
	"finvault/internal/core/services"
)

type investmentRequest struct {
	Name                string          `json:"name" validate:"required,max=200"`
	Type                string          `json:"type" validate:"required"`
	Principal           decimal.Decimal `json:"principal"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	AnnualRateBps       int             `json:"annualRateBps" validate:"min=0,max=100000"`
	StartDate           string          `json:"startDate" validate:"required"`
}

func (req *investmentRequest) toDomain(w http.ResponseWriter) (*domain.Investment, bool) {
	itype, ok := parseInvestmentType(req.Type)
	if !ok {
		respondError(w, http.StatusBadRequest, "Type must be CDI, FIXED, STOCKS, CRYPTO or OTHER")
		return nil, false
	}
	if req.Principal.IsNegative() || req.MonthlyContribution.IsNegative() {
		respondError(w, http.StatusBadRequest, "Amounts must not be negative")
		return nil, false
	}
	start, err := services.ParseDate(req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid startDate")
		return nil, false
	}

	return &domain.Investment{
		Name:                strings.TrimSpace(req.Name),
		Type:                itype,
		Principal:           req.Principal,
		MonthlyContribution: req.MonthlyContribution,
		AnnualRateBps:       req.AnnualRateBps,
		StartDate:           start,
	}, true
}

// investmentView enriches a stored position with the values computed on read.
type investmentView struct {
	domain.Investment
	EstimatedValue   decimal.Decimal `json:"estimatedValue"`
	MonthsSinceStart int             `json:"monthsSinceStart"`
}

func newInvestmentView(inv domain.Investment, now time.Time) investmentView {
	months := services.MonthsSinceStart(inv.StartDate, now)
	return investmentView{
		Investment:       inv,
		EstimatedValue:   services.EstimatedValue(inv, months),
		MonthsSinceStart: months,
	}
}

type InvestmentHandler struct {
	Repo domain.InvestmentRepository

	// now is swapped in tests to pin projection dates.
	now func() time.Time
}

func NewInvestmentHandler(repo domain.InvestmentRepository) *InvestmentHandler {
	return &InvestmentHandler{Repo: repo, now: time.Now}
}

// List handles GET /api/v1/investments
func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	investments, err := h.Repo.List(r.Context(), user.ID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	now := h.now()
	views := make([]investmentView, 0, len(investments))
	for _, inv := range investments {
		views = append(views, newInvestmentView(inv, now))
	}
	respondJSON(w, http.StatusOK, views)
}

// Get handles GET /api/v1/investments/{id}
func (h *InvestmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	inv, err := h.Repo.Get(r.Context(), user.ID, id)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newInvestmentView(*inv, h.now()))
}

// Projection handles GET /api/v1/investments/{id}/projection
func (h *InvestmentHandler) Projection(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	inv, err := h.Repo.Get(r.Context(), user.ID, id)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, services.Projection(*inv, h.now()))
}

// Create handles POST /api/v1/investments
func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req investmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	inv, ok := req.toDomain(w)
	if !ok {
		return
	}
	inv.UserID = user.ID

	if err := h.Repo.Create(r.Context(), inv); err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newInvestmentView(*inv, h.now()))
}

// Update handles PUT /api/v1/investments/{id}
func (h *InvestmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req investmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	inv, ok := req.toDomain(w)
	if !ok {
		return
	}

	updated, err := h.Repo.Update(r.Context(), user.ID, id, inv)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newInvestmentView(*updated, h.now()))
}

// Delete handles DELETE /api/v1/investments/{id}
func (h *InvestmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, map[string]string{"message": "Investment removed successfully"})
}

func parseInvestmentType(s string) (domain.InvestmentType, bool) {
	switch domain.InvestmentType(strings.ToUpper(strings.TrimSpace(s))) {
	case domain.InvestmentCDI:
		return domain.InvestmentCDI, true
	case domain.InvestmentFixed:
		return domain.InvestmentFixed, true
	case domain.InvestmentStocks:
		return domain.InvestmentStocks, true
	case domain.InvestmentCrypto:
		return domain.InvestmentCrypto, true
	case domain.InvestmentOther:
		return domain.InvestmentOther, true
	}
	return "", false
}
