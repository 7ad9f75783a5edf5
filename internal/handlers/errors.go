package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"shop-backend/internal/models"
	"shop-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// writeServiceError maps service errors to status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.Error(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		utils.Error(w, http.StatusConflict, "Already exists")
	case errors.Is(err, models.ErrOrderAlreadySent):
		utils.Error(w, http.StatusConflict, "Order status does not allow this action")
	case errors.Is(err, models.ErrInvalidCredentials):
		utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, models.ErrTooManyAttempts):
		utils.Error(w, http.StatusTooManyRequests, "Too many failed attempts, try again later")
	case errors.Is(err, models.ErrMailDelivery):
		utils.Error(w, http.StatusBadGateway, "Failed to send order email")
	default:
		log.Printf("[API] %s %s failed: %v", r.Method, r.URL.Path, err)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		utils.Error(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}
