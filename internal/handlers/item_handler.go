package handlers

import (
	"net/http"
	"strconv"

	"shop-backend/internal/models"
	"shop-backend/internal/services"
	"shop-backend/pkg/utils"
)

type ItemHandler struct {
	service *services.ItemService
}

func NewItemHandler(service *services.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// List handles GET /api/items[?categoryId=]
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	var categoryID *int
	if v := r.URL.Query().Get("categoryId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			utils.Error(w, http.StatusBadRequest, "Invalid categoryId")
			return
		}
		categoryID = &id
	}

	items, err := h.service.List(r.Context(), categoryID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}
	utils.JSON(w, http.StatusOK, items)
}

// ListOrdered handles GET /api/orders/items
func (h *ItemHandler) ListOrdered(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListOrdered(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}
	utils.JSON(w, http.StatusOK, items)
}

// Create handles POST /api/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, item)
}

// Rename handles PATCH /api/items/{id}
func (h *ItemHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.RenameItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.service.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, item)
}

// SetQuantity handles PATCH /api/items/{id}/quantity
func (h *ItemHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.SetQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.service.SetQuantity(r.Context(), id, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

// ResetQuantities handles PATCH /api/items/reset-quantities and
// POST /api/orders/reset-quantities
func (h *ItemHandler) ResetQuantities(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ResetAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"message": "All quantities reset to 0", "count": n})
}
