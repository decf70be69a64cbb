package handlers

import (
	"io"
	"net/http"

	"finvault/internal/core/domain"
	"finvault/internal/core/services"
)

// maxImportSize caps one uploaded statement at 5 MiB.
const maxImportSize = 5 << 20

type ImportHandler struct {
	Service *services.ImportService
}

func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{Service: service}
}

// ImportCSV handles POST /api/v1/import/csv. The statement arrives
// as the multipart "file" part; file-level rejections come back as 400 while
// per-row failures land inside the 200 outcome payload.
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		HandleError(w, r, domain.ErrNoFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		HandleError(w, r, domain.ErrNoFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Could not read uploaded file")
		return
	}

	outcome, err := h.Service.ImportCSV(r.Context(), user.ID, header.Filename, data)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}
