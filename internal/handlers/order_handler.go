package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"shop-backend/internal/middleware"
	"shop-backend/internal/models"
	"shop-backend/internal/services"
	"shop-backend/pkg/utils"
)

type OrderHandler struct {
	service *services.OrderService
}

func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Place handles POST /api/orders/place
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req models.PlaceOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.service.Place(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, order)
}

// History handles GET /api/orders/history
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	utils.JSON(w, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

// DownloadPDF handles GET /api/orders/{id}/pdf
func (h *OrderHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	data, err := h.service.RenderPDF(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeAttachment(w, "application/pdf", fmt.Sprintf("order-%d.pdf", id), data)
}

// DownloadSpreadsheet handles GET /api/orders/{id}/xlsx
func (h *OrderHandler) DownloadSpreadsheet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	data, err := h.service.RenderSpreadsheet(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		fmt.Sprintf("order-%d.xlsx", id), data)
}

// VerifyAndSend handles POST /api/orders/verify-and-send/{id}
func (h *OrderHandler) VerifyAndSend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	email, _ := middleware.GetEmailFromContext(r.Context())

	order, err := h.service.VerifyAndSend(r.Context(), id, email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"message": "Order verified and email sent successfully",
		"order":   order,
	})
}

// ConfirmSent handles POST /api/orders/{id}/mark-sent
func (h *OrderHandler) ConfirmSent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.service.ConfirmSent(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"message": "Order marked as sent",
		"order":   order,
	})
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
