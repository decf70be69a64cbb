package handlers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"finvault/internal/core/domain"
	"finvault/internal/core/services"
)

type subscriptionRequest struct {
	Name            string          `json:"name" validate:"required,max=200"`
	Email           *string         `json:"email" validate:"omitempty,email"`
	Password        *string         `json:"password"`
	PhotoURL        *string         `json:"photoUrl" validate:"omitempty,url"`
	Amount          decimal.Decimal `json:"amount"`
	Recurrence      string          `json:"recurrence" validate:"required"`
	PaymentDay      int             `json:"paymentDay" validate:"required,min=1,max=31"`
	NextPaymentDate *string         `json:"nextPaymentDate"`
}

func (req *subscriptionRequest) toDomain(w http.ResponseWriter) (*domain.Subscription, bool) {
	recurrence, ok := domain.ParseRecurrence(req.Recurrence)
	if !ok {
		respondError(w, http.StatusBadRequest, "Recurrence must be MONTHLY, QUARTERLY, SEMIANNUAL or ANNUAL")
		return nil, false
	}
	if !req.Amount.IsPositive() {
		respondError(w, http.StatusBadRequest, "Amount must be positive")
		return nil, false
	}

	sub := &domain.Subscription{
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		PhotoURL:   req.PhotoURL,
		Amount:     req.Amount,
		Recurrence: recurrence,
		PaymentDay: req.PaymentDay,
	}
	if req.NextPaymentDate != nil && *req.NextPaymentDate != "" {
		date, err := services.ParseDate(*req.NextPaymentDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid nextPaymentDate")
			return nil, false
		}
		sub.NextPaymentDate = &date
	}
	return sub, true
}

type SubscriptionHandler struct {
	Repo   domain.SubscriptionRepository
	Cipher domain.CredentialCipher
}

func NewSubscriptionHandler(repo domain.SubscriptionRepository, cipher domain.CredentialCipher) *SubscriptionHandler {
	return &SubscriptionHandler{Repo: repo, Cipher: cipher}
}

// List handles GET /api/v1/subscriptions
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	subs, err := h.Repo.List(r.Context(), user.ID)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	for i := range subs {
		subs[i].HasPassword = subs[i].PasswordEncrypted != ""
	}
	respondJSON(w, http.StatusOK, subs)
}

// Get handles GET /api/v1/subscriptions/{id}
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	sub, err := h.Repo.Get(r.Context(), user.ID, id)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	sub.HasPassword = sub.PasswordEncrypted != ""
	respondJSON(w, http.StatusOK, sub)
}

// RevealPassword handles GET /api/v1/subscriptions/{id}/password
func (h *SubscriptionHandler) RevealPassword(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	sub, err := h.Repo.Get(r.Context(), user.ID, id)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if sub.PasswordEncrypted == "" {
		respondError(w, http.StatusNotFound, "No password stored")
		return
	}

	plaintext, err := h.Cipher.Decrypt(sub.PasswordEncrypted)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"password": plaintext})
}

// Create handles POST /api/v1/subscriptions
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req subscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = emptyToNil(req.Email)
	req.PhotoURL = emptyToNil(req.PhotoURL)
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	sub, ok := req.toDomain(w)
	if !ok {
		return
	}
	sub.UserID = user.ID
	if req.Password != nil && *req.Password != "" {
		envelope, err := h.Cipher.Encrypt(*req.Password)
		if err != nil {
			HandleError(w, r, err)
			return
		}
		sub.PasswordEncrypted = envelope
	}

	if err := h.Repo.Create(r.Context(), sub); err != nil {
		HandleError(w, r, err)
		return
	}
	sub.HasPassword = sub.PasswordEncrypted != ""
	respondJSON(w, http.StatusCreated, sub)
}

// Update handles PUT /api/v1/subscriptions/{id}
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req subscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = emptyToNil(req.Email)
	req.PhotoURL = emptyToNil(req.PhotoURL)
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	sub, ok := req.toDomain(w)
	if !ok {
		return
	}

	existing, err := h.Repo.Get(r.Context(), user.ID, id)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	sub.PasswordEncrypted = existing.PasswordEncrypted
	if req.Password != nil && *req.Password != "" {
		envelope, err := h.Cipher.Encrypt(*req.Password)
		if err != nil {
			HandleError(w, r, err)
			return
		}
		sub.PasswordEncrypted = envelope
	}

	updated, err := h.Repo.Update(r.Context(), user.ID, id, sub)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	updated.HasPassword = updated.PasswordEncrypted != ""
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/subscriptions/{id}
func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, map[string]string{"message": "Subscription removed successfully"})
}
