package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/soraformula/soraformula/internal/service"
	"github.com/soraformula/soraformula/internal/service/payment"
)

const maxWebhookBytes = 64 << 10

type BillingHandler struct {
	subscriptionService *service.SubscriptionService
	paymentService      payment.Provider // nil when payments are not configured
}

func NewBillingHandler(subscriptionService *service.SubscriptionService, paymentService payment.Provider) *BillingHandler {
	return &BillingHandler{
		subscriptionService: subscriptionService,
		paymentService:      paymentService,
	}
}

func (h *BillingHandler) requireProvider(w http.ResponseWriter) bool {
	if h.paymentService == nil {
		writeError(w, http.StatusServiceUnavailable, "Payments are not configured")
		return false
	}
	return true
}

type checkoutRequest struct {
	PriceID   string `json:"priceId"`
	UserEmail string `json:"userEmail"`
	PlanName  string `json:"planName"`
}

func (h *BillingHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	if !h.requireProvider(w) {
		return
	}

	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.PriceID) == "" {
		writeError(w, http.StatusBadRequest, "priceId is required")
		return
	}

	sess, err := h.paymentService.CreateCheckout(r.Context(), payment.CheckoutRequest{
		PriceID:   req.PriceID,
		UserEmail: strings.TrimSpace(req.UserEmail),
		PlanName:  req.PlanName,
	})
	if err != nil {
		slog.Error("failed to create checkout", "error", err, "email", req.UserEmail, "provider", h.paymentService.Name())
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": sess.URL, "sessionId": sess.ID})
}

func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if !h.requireProvider(w) {
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		slog.Error("failed to read webhook payload", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to read payload")
		return
	}
	defer func() {
		closeErr := r.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close request body", "error", closeErr)
		}
	}()

	err = h.paymentService.HandleWebhook(r.Context(), payload, r.Header)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			slog.Warn("webhook signature rejected", "error", err, "provider", h.paymentService.Name())
			writeError(w, http.StatusBadRequest, "Webhook Error: "+err.Error())
			return
		}
		slog.Error("failed to handle webhook", "error", err, "provider", h.paymentService.Name())
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *BillingHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireProvider(w) {
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	status, err := h.paymentService.SessionStatus(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionStatusUnsupported) {
			writeError(w, http.StatusNotImplemented, err.Error())
			return
		}
		slog.Error("failed to retrieve payment status", "error", err, "session_id", sessionID)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *BillingHandler) SubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("userEmail"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "userEmail is required")
		return
	}

	status, err := h.subscriptionService.Status(r.Context(), email)
	if err != nil {
		slog.Error("failed to compute subscription status", "error", err, "email", email)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, status)
}
