package handlers

import (
	"net/http"
	"strings"

	"finvault/internal/core/domain"
)

type vaultAccountRequest struct {
	Name             string  `json:"name" validate:"required,max=200"`
	Email            *string `json:"email" validate:"omitempty,email"`
	Password         *string `json:"password"`
	PlatformPhotoURL *string `json:"platformPhotoUrl" validate:"omitempty,url"`
	Notes            *string `json:"notes"`
}

// VaultHandler serves the credential vault. Stored passwords stay sealed in
// their envelope; list and detail responses only ever expose hasPassword, and
// the plaintext is reachable solely through the explicit reveal endpoint.
type VaultHandler struct {
	Repo   domain.VaultAccountRepository
	Cipher domain.CredentialCipher
}

func NewVaultHandler(repo domain.VaultAccountRepository, cipher domain.CredentialCipher) *VaultHandler {
	return &VaultHandler{Repo: repo, Cipher: cipher}
}

// List handles GET /api/v1/vault-accounts
func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	accounts, err := h.Repo.List(r.Context(), user.ID)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	for i := range accounts {
		accounts[i].HasPassword = accounts[i].PasswordEncrypted != ""
	}
	respondJSON(w, http.StatusOK, accounts)
}

// Get handles GET /api/v1/vault-accounts/{id}
func (h *VaultHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	account, err := h.Repo.Get(r.Context(), user.ID, id)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	account.HasPassword = account.PasswordEncrypted != ""
	respondJSON(w, http.StatusOK, account)
}

// RevealPassword handles GET /api/v1/vault-accounts/{id}/password
func (h *VaultHandler) RevealPassword(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	account, err := h.Repo.Get(r.Context(), user.ID, id)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if account.PasswordEncrypted == "" {
		respondError(w, http.StatusNotFound, "No password stored")
		return
	}

	plaintext, err := h.Cipher.Decrypt(account.PasswordEncrypted)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"password": plaintext})
}

// Create handles POST /api/v1/vault-accounts
func (h *VaultHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req vaultAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = emptyToNil(req.Email)
	req.PlatformPhotoURL = emptyToNil(req.PlatformPhotoURL)
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	account := &domain.VaultAccount{
		UserID:           user.ID,
		Name:             strings.TrimSpace(req.Name),
		Email:            req.Email,
		PlatformPhotoURL: req.PlatformPhotoURL,
		Notes:            req.Notes,
	}
	if req.Password != nil && *req.Password != "" {
		envelope, err := h.Cipher.Encrypt(*req.Password)
		if err != nil {
			HandleError(w, r, err)
			return
		}
		account.PasswordEncrypted = envelope
	}

	if err := h.Repo.Create(r.Context(), account); err != nil {
		HandleError(w, r, err)
		return
	}
	account.HasPassword = account.PasswordEncrypted != ""
	respondJSON(w, http.StatusCreated, account)
}

// Update handles PUT /api/v1/vault-accounts/{id}
//
// An absent or empty password field leaves the stored envelope untouched;
// only a non-empty value re-encrypts.
func (h *VaultHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req vaultAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = emptyToNil(req.Email)
	req.PlatformPhotoURL = emptyToNil(req.PlatformPhotoURL)
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	existing, err := h.Repo.Get(r.Context(), user.ID, id)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	account := &domain.VaultAccount{
		Name:              strings.TrimSpace(req.Name),
		Email:             req.Email,
		PasswordEncrypted: existing.PasswordEncrypted,
		PlatformPhotoURL:  req.PlatformPhotoURL,
		Notes:             req.Notes,
	}
	if req.Password != nil && *req.Password != "" {
		envelope, err := h.Cipher.Encrypt(*req.Password)
		if err != nil {
			HandleError(w, r, err)
			return
		}
		account.PasswordEncrypted = envelope
	}

	updated, err := h.Repo.Update(r.Context(), user.ID, id, account)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	updated.HasPassword = updated.PasswordEncrypted != ""
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/vault-accounts/{id}
func (h *VaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, map[string]string{"message": "Account removed successfully"})
}
