package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/cryptobud/cryptobud/internal/adapter/http/dto"
	"github.com/cryptobud/cryptobud/internal/adapter/http/middleware"
	"github.com/cryptobud/cryptobud/internal/domain"
	"github.com/cryptobud/cryptobud/internal/importer"
	"github.com/cryptobud/cryptobud/internal/usecase"
)

// maxUploadBytes caps the size of an uploaded export file.
const maxUploadBytes = 10 << 20

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	PreviewImport(ctx context.Context, format string, file io.Reader) (*usecase.ImportPreview, error)
	ConfirmImport(ctx context.Context, userID string, transactions []domain.Transaction) (int, error)
}

// ImportHandler handles export file uploads.
type ImportHandler struct {
	transactionUC ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(transactionUC ImportService) *ImportHandler {
	return &ImportHandler{transactionUC: transactionUC}
}

// Preview parses an uploaded export file and returns the normalized
// transactions without persisting anything.
func (h *ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field", err.Error())
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "unsupported file type", "only .csv files are accepted")
		return
	}

	format := r.FormValue("format")
	if format == "" {
		format = importer.FormatBitcoin21
	}

	preview, err := h.transactionUC.PreviewImport(r.Context(), format, file)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to parse export", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportPreviewFromUseCase(preview))
}

// Confirm persists a previously previewed batch of transactions.
func (h *ImportHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.ConfirmImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(req.Transactions) == 0 {
		writeError(w, http.StatusBadRequest, "empty import", "no transactions to confirm")
		return
	}

	imported, err := h.transactionUC.ConfirmImport(r.Context(), user.ID, req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to import transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ConfirmImportResponse{
		Imported: imported,
		Skipped:  len(req.Transactions) - imported,
	})
}
