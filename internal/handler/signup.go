package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/soraformula/soraformula/internal/service"
)

type SignupHandler struct {
	signupService *service.SignupService
}

func NewSignupHandler(signupService *service.SignupService) *SignupHandler {
	return &SignupHandler{signupService: signupService}
}

type signupRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	HowDidYouFindUs string `json:"howDidYouFindUs"`
	Timestamp       string `json:"timestamp"`
	UserAgent       string `json:"userAgent"`
	Referrer        string `json:"referrer"`
}

func (h *SignupHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in := service.SignupInput{
		FullName:        req.FullName,
		Email:           req.Email,
		HowDidYouFindUs: req.HowDidYouFindUs,
		UserAgent:       req.UserAgent,
		Referrer:        req.Referrer,
	}
	if in.UserAgent == "" {
		in.UserAgent = r.UserAgent()
	}
	if in.Referrer == "" {
		in.Referrer = r.Referer()
	}
	if req.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			in.Timestamp = ts
		}
	}

	res, err := h.signupService.Signup(r.Context(), in)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeFailure(w, http.StatusBadRequest, verr.Message)
			return
		}
		slog.Error("failed to process signup", "error", err, "email", req.Email)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	status := http.StatusCreated
	if res.Existing {
		status = http.StatusOK
	}
	writeJSON(w, status, resultResponse{Success: true, Message: res.Message, UserID: res.UserID})
}

func (h *SignupHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.signupService.Dashboard(r.Context())
	if err != nil {
		slog.Error("failed to build signup dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
