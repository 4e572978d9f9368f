// backend/src/handlers/import_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/username/paydash/backend/src/config"
	"github.com/username/paydash/backend/src/importer"
	"github.com/username/paydash/backend/src/logger"
	"github.com/username/paydash/backend/src/models"
	"github.com/username/paydash/backend/src/security/validation"
	"github.com/username/paydash/backend/src/services"
	"github.com/username/paydash/backend/src/storage"
	"github.com/username/paydash/backend/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
	saleStore     *storage.SaleStore
}

func NewImportHandler(service services.ImportService, saleStore *storage.SaleStore) *ImportHandler {
	return &ImportHandler{importService: service, saleStore: saleStore}
}

// HandleUpload accepts one or more acquirer export files in the "files"
// multipart field, processes them into a pending run and returns the preview:
// run id, per-file outcome, normalized records and warnings. Nothing is
// persisted yet.
func (h *ImportHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		utils.SendJSONError(w, "No files uploaded. Use the 'files' multipart field.", http.StatusBadRequest)
		return
	}

	var files []services.UploadedFile
	for _, fileHeader := range fileHeaders {
		if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
			logger.L.Warn("Uploaded file too large", "filename", fileHeader.Filename, "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
			utils.SendJSONError(w, fmt.Sprintf("File %s too large, max %d MB", fileHeader.Filename, config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
			return
		}

		if err := validation.ValidateClientContentType(fileHeader.Header.Get("Content-Type")); err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			logger.L.Warn("Failed to open uploaded file", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Failed to read file %s", fileHeader.Filename), http.StatusBadRequest)
			return
		}

		if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
			file.Close()
			logger.L.Warn("File content validation failed", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			logger.L.Warn("Failed to read uploaded file", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Failed to read file %s", fileHeader.Filename), http.StatusBadRequest)
			return
		}
		files = append(files, services.UploadedFile{Name: fileHeader.Filename, Content: content})
	}

	run, err := h.importService.ProcessFiles(r.Context(), files)
	if err != nil {
		logger.L.Error("Internal error processing import upload", "error", err)
		utils.SendJSONError(w, "An internal error occurred while processing the files. Please try again later.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(run); err != nil {
		logger.L.Error("Error encoding JSON response for import run", "runID", run.ID, "error", err)
	}
}

// HandleGetRun returns a pending run's preview again.
func (h *ImportHandler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.importService.GetRun(r.PathValue("runID"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(run); err != nil {
		logger.L.Error("Error encoding JSON response for import run", "runID", run.ID, "error", err)
	}
}

// HandleCommitRun applies operator approval: reconcile terminals, bulk insert
// the run's sales, report counts. A commit failure leaves the run pending and
// retryable.
func (h *ImportHandler) HandleCommitRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runID")

	ctx, cancel := context.WithTimeout(r.Context(), config.Cfg.StorageTimeout)
	defer cancel()

	result, err := h.importService.CommitRun(ctx, runID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRunNotFound):
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, importer.ErrCommitFailed):
			logger.L.Error("Import run commit failed, nothing was persisted", "runID", runID, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Commit failed, no sales were persisted: %v", err), http.StatusBadGateway)
		default:
			logger.L.Error("Internal error committing import run", "runID", runID, "error", err)
			utils.SendJSONError(w, "An internal error occurred while committing the run.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for commit result", "runID", runID, "error", err)
	}
}

// HandleExportRun streams the run's accepted records as a semicolon-delimited
// file for offline audit before commit.
func (h *ImportHandler) HandleExportRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runID")
	content, err := h.importService.ExportRun(runID)
	if err != nil {
		if errors.Is(err, services.ErrRunNotFound) {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.L.Error("Error exporting import run", "runID", runID, "error", err)
		utils.SendJSONError(w, "An internal error occurred while exporting the run.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"import-run-%s.csv\"", runID))
	if _, err := w.Write(content); err != nil {
		logger.L.Error("Error writing export response", "runID", runID, "error", err)
	}
}

// HandleListSales returns the most recently imported sales.
func (h *ImportHandler) HandleListSales(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			utils.SendJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.Cfg.StorageTimeout)
	defer cancel()

	sales, err := h.saleStore.List(ctx, limit)
	if err != nil {
		logger.L.Error("Error listing sales", "error", err)
		utils.SendJSONError(w, "An internal error occurred while listing sales.", http.StatusInternalServerError)
		return
	}
	if sales == nil {
		sales = []models.PersistedSale{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sales); err != nil {
		logger.L.Error("Error encoding JSON response for sales list", "error", err)
	}
}
