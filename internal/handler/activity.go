package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/soraformula/soraformula/internal/service"
)

type ActivityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

type trackActionRequest struct {
	UserID    string         `json:"userId"`
	UserEmail string         `json:"userEmail"`
	Type      string         `json:"type"`
	Details   string         `json:"details"`
	Metadata  map[string]any `json:"metadata"`
}

func (h *ActivityHandler) TrackAction(w http.ResponseWriter, r *http.Request) {
	var req trackActionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" || req.UserEmail == "" || req.Type == "" || req.Details == "" {
		writeFailure(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	_, err := h.activityService.LogActivity(r.Context(), req.UserID, req.UserEmail, req.Type, req.Details, req.Metadata)
	if err != nil {
		if errors.Is(err, service.ErrUnknownActivityType) {
			writeFailure(w, http.StatusBadRequest, "Invalid activity type")
			return
		}
		slog.Error("failed to track action", "error", err, "type", req.Type, "email", req.UserEmail)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, resultResponse{Success: true, Message: "Action tracked successfully"})
}
