package handlers

import (
	"net/http"

	"shop-backend/internal/middleware"
	"shop-backend/internal/models"
	"shop-backend/internal/services"
	"shop-backend/pkg/utils"
)

type AdminAuthHandler struct {
	service *services.AdminAuthService
}

func NewAdminAuthHandler(service *services.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{service: service}
}

// Login handles POST /api/admin/login
func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.service.Login(r.Context(), req, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}
