package handler

import (
	"log/slog"
	"net/http"

	"github.com/soraformula/soraformula/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		slog.Error("failed to compute admin stats", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) Activities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.adminService.Activities(r.Context())
	if err != nil {
		slog.Error("failed to load activities", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *AdminHandler) Payments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.adminService.Payments(r.Context())
	if err != nil {
		slog.Error("failed to load payments", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.Users(r.Context())
	if err != nil {
		slog.Error("failed to build user rollup", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
