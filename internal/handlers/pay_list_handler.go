package handlers

import (
	"net/http"

	"shop-backend/internal/models"
	"shop-backend/internal/services"
	"shop-backend/pkg/utils"
)

type PayListHandler struct {
	service *services.PayListService
}

func NewPayListHandler(service *services.PayListService) *PayListHandler {
	return &PayListHandler{service: service}
}

// List handles GET /api/paylist
func (h *PayListHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*models.PayListEntry{}
	}
	utils.JSON(w, http.StatusOK, entries)
}

// Total handles GET /api/paylist/total
func (h *PayListHandler) Total(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.Total(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, total)
}

// Create handles POST /api/paylist
func (h *PayListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePayListRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	entry, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, entry)
}

// ToggleDelete handles PATCH /api/paylist/{id}/toggle-delete
func (h *PayListHandler) ToggleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entry, err := h.service.ToggleDeleted(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /api/paylist/{id}
func (h *PayListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Entry permanently deleted"})
}
