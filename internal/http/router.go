package http

import (
	"net/http"

	"shop-backend/internal/handlers"
	"shop-backend/internal/middleware"
	"shop-backend/internal/monitoring"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	adminAuthHandler *handlers.AdminAuthHandler,
	categoryHandler *handlers.CategoryHandler,
	itemHandler *handlers.ItemHandler,
	importHandler *handlers.ImportHandler,
	orderHandler *handlers.OrderHandler,
	payListHandler *handlers.PayListHandler,
	healthHandler *handlers.HealthHandler,
	hub *monitoring.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	admin := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAdmin(h)
	}

	api := r.PathPrefix("/api").Subrouter()

	// Admin login
	api.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	// Categories
	api.HandleFunc("/categories", categoryHandler.List).Methods("GET")
	api.Handle("/categories", admin(categoryHandler.Create)).Methods("POST")
	api.Handle("/categories/{id:[0-9]+}", admin(categoryHandler.Rename)).Methods("PATCH")
	api.Handle("/categories/{id:[0-9]+}", admin(categoryHandler.Delete)).Methods("DELETE")

	// Items - quantity edits are public (cart-style), catalog edits are admin only
	api.HandleFunc("/items", itemHandler.List).Methods("GET")
	api.Handle("/items", admin(itemHandler.Create)).Methods("POST")
	api.HandleFunc("/items/reset-quantities", itemHandler.ResetQuantities).Methods("PATCH")
	api.HandleFunc("/items/{id:[0-9]+}/quantity", itemHandler.SetQuantity).Methods("PATCH")
	api.Handle("/items/{id:[0-9]+}", admin(itemHandler.Rename)).Methods("PATCH")
	api.Handle("/items/{id:[0-9]+}", admin(itemHandler.Delete)).Methods("DELETE")

	// Workbook import
	api.Handle("/excel/upload", admin(importHandler.Upload)).Methods("POST")

	// Orders
	api.HandleFunc("/orders/items", itemHandler.ListOrdered).Methods("GET")
	api.HandleFunc("/orders/place", orderHandler.Place).Methods("POST")
	api.HandleFunc("/orders/reset-quantities", itemHandler.ResetQuantities).Methods("POST")
	api.Handle("/orders/history", admin(orderHandler.History)).Methods("GET")
	api.Handle("/orders/verify-and-send/{id:[0-9]+}", admin(orderHandler.VerifyAndSend)).Methods("POST")
	api.Handle("/orders/{id:[0-9]+}", admin(orderHandler.Get)).Methods("GET")
	api.Handle("/orders/{id:[0-9]+}/pdf", admin(orderHandler.DownloadPDF)).Methods("GET")
	api.Handle("/orders/{id:[0-9]+}/xlsx", admin(orderHandler.DownloadSpreadsheet)).Methods("GET")
	api.Handle("/orders/{id:[0-9]+}/mark-sent", admin(orderHandler.ConfirmSent)).Methods("POST")

	// Pay list
	api.HandleFunc("/paylist", payListHandler.List).Methods("GET")
	api.HandleFunc("/paylist/total", payListHandler.Total).Methods("GET")
	api.Handle("/paylist", admin(payListHandler.Create)).Methods("POST")
	api.Handle("/paylist/{id:[0-9]+}/toggle-delete", admin(payListHandler.ToggleDelete)).Methods("PATCH")
	api.Handle("/paylist/{id:[0-9]+}", admin(payListHandler.Delete)).Methods("DELETE")

	// Live inventory events
	if hub != nil {
		r.HandleFunc("/ws", hub.ServeWS)
	}

	// Health endpoints
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	return r
}
