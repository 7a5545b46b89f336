package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/soraformula/soraformula/internal/config"
	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/repository"
	"github.com/soraformula/soraformula/internal/service"
)

const testWebhookSecret = "whsec_test"

func newTestStripe(t *testing.T) (*StripeProvider, *repository.Collections) {
	t.Helper()
	cols := repository.NewJSONCollections(t.TempDir())
	services := Services{
		Subscriptions: service.NewSubscriptionService(cols.Payments),
		Activities:    service.NewActivityService(cols.Activities),
	}
	cfg := &config.Config{
		AppEnv:              "development",
		FrontendURL:         "http://localhost:3000",
		StripeSecretKey:     "sk_test_unused",
		StripeWebhookSecret: testWebhookSecret,
	}
	return NewStripeProvider(cfg, services), cols
}

// signStripe builds a Stripe-Signature header for payload
func signStripe(t *testing.T, payload []byte, secret string) http.Header {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	h := http.Header{}
	h.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	return h
}

func event(eventType, object string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":"2024-09-30.acacia","type":%q,"data":{"object":%s}}`, eventType, object))
}

func TestStripeWebhookCheckoutCompleted(t *testing.T) {
	p, cols := newTestStripe(t)
	ctx := context.Background()

	payload := event("checkout.session.completed",
		`{"id":"cs_1","object":"checkout.session","amount_total":1999,"customer_email":"buyer@x.co","subscription":"sub_1","metadata":{"userEmail":"buyer@x.co","planName":"Pro"}}`)

	if err := p.HandleWebhook(ctx, payload, signStripe(t, payload, testWebhookSecret)); err != nil {
		t.Fatalf("HandleWebhook = %v", err)
	}
	// redelivery
	if err := p.HandleWebhook(ctx, payload, signStripe(t, payload, testWebhookSecret)); err != nil {
		t.Fatalf("HandleWebhook redelivery = %v", err)
	}

	payments, _ := cols.Payments.LoadAll(ctx)
	if len(payments) != 1 {
		t.Fatalf("len(payments) = %d, want 1", len(payments))
	}
	got := payments[0]
	if got.ID != "cs_1" || got.Amount != 19.99 || got.Status != model.PaymentStatusCompleted || got.Plan != "Pro" || got.SubscriptionID != "sub_1" {
		t.Errorf("payment = %+v", got)
	}

	activities, _ := cols.Activities.LoadAll(ctx)
	if len(activities) != 1 || activities[0].Type != model.ActivityPayment {
		t.Errorf("activities = %+v, want one payment activity", activities)
	}
}

func TestStripeWebhookInvoiceAndCancel(t *testing.T) {
	p, cols := newTestStripe(t)
	ctx := context.Background()

	send := func(payload []byte) {
		t.Helper()
		if err := p.HandleWebhook(ctx, payload, signStripe(t, payload, testWebhookSecret)); err != nil {
			t.Fatalf("HandleWebhook = %v", err)
		}
	}

	send(event("invoice.payment_succeeded", `{"id":"in_1","object":"invoice","customer_email":"sub@x.co","amount_paid":990,"subscription":"sub_9"}`))
	send(event("invoice.payment_failed", `{"id":"in_2","object":"invoice","amount_due":990,"subscription":"sub_9"}`))
	send(event("customer.subscription.deleted", `{"id":"sub_9","object":"subscription"}`))
	send(event("customer.subscription.deleted", `{"id":"sub_unknown","object":"subscription"}`))

	payments, _ := cols.Payments.LoadAll(ctx)
	if len(payments) != 2 {
		t.Fatalf("len(payments) = %d, want 2", len(payments))
	}
	if payments[0].Amount != 9.9 || payments[0].Status != model.PaymentStatusCompleted {
		t.Errorf("succeeded = %+v", payments[0])
	}
	if payments[1].UserEmail != "sub@x.co" || payments[1].Status != model.PaymentStatusFailed {
		t.Errorf("failed = %+v, want email resolved from subscription", payments[1])
	}

	activities, _ := cols.Activities.LoadAll(ctx)
	if len(activities) != 3 {
		t.Fatalf("len(activities) = %d, want 3", len(activities))
	}
	if activities[2].Details != "Subscription cancelled" || activities[2].UserEmail != "sub@x.co" {
		t.Errorf("cancel activity = %+v", activities[2])
	}
}

func TestStripeWebhookBadSignature(t *testing.T) {
	p, cols := newTestStripe(t)
	payload := event("checkout.session.completed", `{"id":"cs_1","object":"checkout.session"}`)

	err := p.HandleWebhook(context.Background(), payload, signStripe(t, payload, "whsec_other"))
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("HandleWebhook = %v, want ErrInvalidSignature", err)
	}

	payments, _ := cols.Payments.LoadAll(context.Background())
	if len(payments) != 0 {
		t.Errorf("len(payments) = %d, want 0", len(payments))
	}
}

func TestNewProvider(t *testing.T) {
	cases := []struct {
		cfg     config.Config
		wantErr bool
	}{
		{config.Config{PaymentProvider: "stripe", StripeSecretKey: "sk", StripeWebhookSecret: "wh"}, false},
		{config.Config{PaymentProvider: "stripe", StripeSecretKey: "sk"}, true},
		{config.Config{PaymentProvider: "polar"}, true},
		{config.Config{PaymentProvider: "polar", PolarAPIKey: "key", PolarSandboxMode: true}, false},
		{config.Config{PaymentProvider: "paypal"}, true},
	}
	for _, c := range cases {
		_, err := NewProvider(&c.cfg, Services{})
		if (err != nil) != c.wantErr {
			t.Errorf("NewProvider(%q) err = %v, wantErr %v", c.cfg.PaymentProvider, err, c.wantErr)
		}
	}
}
