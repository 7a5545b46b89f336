package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	polargo "github.com/polarsource/polar-go"
	"github.com/polarsource/polar-go/models/components"
	"github.com/soraformula/soraformula/internal/config"
	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/service"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

// PolarProvider sells the plans as Polar products; CheckoutRequest.PriceID
// carries the product id
type PolarProvider struct {
	cfg      *config.Config
	services Services
	client   *polargo.Polar
	now      func() time.Time
}

func NewPolarProvider(cfg *config.Config, services Services) *PolarProvider {
	var serverOption polargo.SDKOption
	if cfg.PolarSandboxMode {
		serverOption = polargo.WithServer(polargo.ServerSandbox)
		slog.Info("polar using sandbox mode", "app_env", cfg.AppEnv)
	} else {
		serverOption = polargo.WithServer(polargo.ServerProduction)
		slog.Info("polar using production mode", "app_env", cfg.AppEnv)
	}

	client := polargo.New(
		polargo.WithSecurity(cfg.PolarAPIKey),
		serverOption,
	)

	return &PolarProvider{
		cfg:      cfg,
		services: services,
		client:   client,
		now:      time.Now,
	}
}

func (p *PolarProvider) Name() string {
	return model.ProviderPolar
}

func (p *PolarProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	successURL := fmt.Sprintf("%s/success?checkout_id={CHECKOUT_ID}", p.cfg.FrontendURL)
	returnURL := fmt.Sprintf("%s/pricing", p.cfg.FrontendURL)

	metadata := map[string]components.CheckoutCreateMetadata{
		"userEmail": components.CreateCheckoutCreateMetadataStr(req.UserEmail),
		"planName":  components.CreateCheckoutCreateMetadataStr(req.PlanName),
	}

	create := components.CheckoutCreate{
		Products:   []string{req.PriceID},
		SuccessURL: polargo.String(successURL),
		ReturnURL:  polargo.String(returnURL),
		Metadata:   metadata,
	}
	if req.UserEmail != "" {
		create.CustomerEmail = polargo.String(req.UserEmail)
	}

	res, err := p.client.Checkouts.Create(ctx, create)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout: %w", err)
	}
	if res == nil || res.Checkout == nil {
		return nil, fmt.Errorf("checkout response is nil")
	}

	p.services.logActivity(ctx, req.UserEmail, req.UserEmail, "Checkout started for "+req.PlanName, map[string]any{
		"sessionId": res.Checkout.ID,
		"amount":    0,
		"planName":  req.PlanName,
		"productId": req.PriceID,
	})

	slog.Info("polar checkout created", "email", req.UserEmail, "plan", req.PlanName, "checkout_id", res.Checkout.ID)
	return &CheckoutSession{ID: res.Checkout.ID, URL: res.Checkout.URL}, nil
}

func (p *PolarProvider) SessionStatus(context.Context, string) (*SessionStatus, error) {
	return nil, ErrSessionStatusUnsupported
}

func (p *PolarProvider) HandleWebhook(ctx context.Context, payload []byte, headers http.Header) error {
	if p.cfg.PolarWebhookSecret == "" {
		slog.Warn("polar no webhook secret configured, skipping signature verification")
	} else {
		wh, err := standardwebhooks.NewWebhookRaw([]byte(p.cfg.PolarWebhookSecret))
		if err != nil {
			return fmt.Errorf("failed to create webhook verifier: %w", err)
		}

		httpHeaders := http.Header{}
		httpHeaders.Set("webhook-id", headers.Get("webhook-id"))
		httpHeaders.Set("webhook-timestamp", headers.Get("webhook-timestamp"))
		httpHeaders.Set("webhook-signature", headers.Get("webhook-signature"))

		if err := wh.Verify(payload, httpHeaders); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
		}
	}

	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	slog.Info("polar webhook received", "event_type", event.Type)

	switch event.Type {
	case "order.paid":
		return p.handleOrderPaid(ctx, event.Data)
	case "subscription.revoked":
		return p.handleSubscriptionRevoked(ctx, event.Data)
	default:
		slog.Debug("polar webhook event ignored", "event_type", event.Type)
		return nil
	}
}

func (p *PolarProvider) handleOrderPaid(ctx context.Context, data json.RawMessage) error {
	var order struct {
		ID             string  `json:"id"`
		TotalAmount    int64   `json:"total_amount"`
		SubscriptionID *string `json:"subscription_id"`
		Customer       struct {
			Email string `json:"email"`
		} `json:"customer"`
		Product struct {
			Name string `json:"name"`
		} `json:"product"`
		Metadata map[string]any `json:"metadata"`
	}

	if err := json.Unmarshal(data, &order); err != nil {
		return fmt.Errorf("failed to parse order data: %w", err)
	}

	email, _ := order.Metadata["userEmail"].(string)
	if email == "" {
		email = order.Customer.Email
	}
	if email == "" {
		slog.Warn("polar order has no customer email, skipping", "order_id", order.ID)
		return nil
	}

	plan, _ := order.Metadata["planName"].(string)
	if plan == "" {
		plan = order.Product.Name
	}

	subscriptionID := ""
	if order.SubscriptionID != nil {
		subscriptionID = *order.SubscriptionID
	}

	amount := model.CentsToAmount(order.TotalAmount)
	return p.services.recordPayment(ctx, model.Payment{
		ID:             order.ID,
		UserEmail:      email,
		Amount:         amount,
		Status:         model.PaymentStatusCompleted,
		Plan:           plan,
		Timestamp:      p.now().UTC(),
		SubscriptionID: subscriptionID,
	}, paymentDetails("completed", amount, plan))
}

func (p *PolarProvider) handleSubscriptionRevoked(ctx context.Context, data json.RawMessage) error {
	var subscription struct {
		ID       string `json:"id"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
	}

	if err := json.Unmarshal(data, &subscription); err != nil {
		return fmt.Errorf("failed to parse subscription data: %w", err)
	}

	email := subscription.Customer.Email
	if email == "" {
		found, err := p.services.Subscriptions.EmailForSubscription(ctx, subscription.ID)
		if err != nil {
			if errors.Is(err, service.ErrSubscriptionNotFound) {
				slog.Warn("polar subscription not found, ignoring revoked event", "polar_sub_id", subscription.ID)
				return nil
			}
			return err
		}
		email = found
	}

	p.services.logActivity(ctx, email, email, "Subscription cancelled", map[string]any{
		"subscriptionId": subscription.ID,
	})

	slog.Info("polar subscription revoked", "email", email, "polar_sub_id", subscription.ID)
	return nil
}
