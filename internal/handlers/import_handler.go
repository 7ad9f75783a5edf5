package handlers

import (
	"errors"
	"io"
	"net/http"

	"shop-backend/internal/services"
	"shop-backend/pkg/utils"
)

type ImportHandler struct {
	service  *services.ImportService
	maxBytes int64
}

func NewImportHandler(service *services.ImportService, maxUploadMB int) *ImportHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &ImportHandler{service: service, maxBytes: int64(maxUploadMB) << 20}
}

// Upload handles POST /api/excel/upload (multipart field "file")
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.Error(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		utils.Error(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	result, err := h.service.Import(r.Context(), data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}
