package routes

import (
	"net/http"
	"time"

	"github.com/soraformula/soraformula/internal/app"
	"github.com/soraformula/soraformula/internal/handler"
	"github.com/soraformula/soraformula/internal/middleware"
	"github.com/soraformula/soraformula/internal/storage"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	signup := handler.NewSignupHandler(app.SignupService)
	activity := handler.NewActivityHandler(app.ActivityService)
	admin := handler.NewAdminHandler(app.AdminService)
	billing := handler.NewBillingHandler(app.SubscriptionService, app.PaymentService)
	prompt := handler.NewPromptHandler()
	reference := handler.NewReferenceHandler(app.ReferenceService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", handler.Healthz)

	// Uploaded reference images (local storage only; S3 serves presigned URLs)
	if local, ok := app.Storage.(*storage.LocalStorage); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Dir()))))
	}

	// Lead capture and analytics events (rate limited)
	signupLimiter := middleware.RateLimit(10, 15*time.Minute)
	trackLimiter := middleware.RateLimit(120, time.Minute)

	mux.HandleFunc("POST /api/signup", signupLimiter(signup.Signup))
	mux.HandleFunc("POST /api/track-action", trackLimiter(activity.TrackAction))

	// Prompt engine
	mux.HandleFunc("POST /api/prompt/formula", prompt.Formula)
	mux.HandleFunc("GET /api/prompt/categories", prompt.Categories)
	mux.HandleFunc("POST /api/reference-images", trackLimiter(reference.Upload))

	// Billing
	mux.HandleFunc("POST /api/create-checkout-session", billing.CreateCheckoutSession)
	mux.HandleFunc("POST /api/stripe/webhook", billing.Webhook)
	mux.HandleFunc("POST /api/polar/webhook", billing.Webhook)
	mux.HandleFunc("GET /api/payment-status", billing.PaymentStatus)
	mux.HandleFunc("GET /api/subscription-status", billing.SubscriptionStatus)

	// ============================================================================
	// ADMIN ROUTES (bearer token when ADMIN_JWT_SECRET is set)
	// ============================================================================

	requireAdmin := middleware.RequireAdmin(app.AuthService)

	mux.HandleFunc("GET /api/signup/dashboard", requireAdmin(signup.Dashboard))
	mux.HandleFunc("GET /api/admin/stats", requireAdmin(admin.Stats))
	mux.HandleFunc("GET /api/admin/activities", requireAdmin(admin.Activities))
	mux.HandleFunc("GET /api/admin/payments", requireAdmin(admin.Payments))
	mux.HandleFunc("GET /api/admin/users", requireAdmin(admin.Users))

	return middleware.Chain(mux,
		middleware.CORS(app.Cfg.FrontendURL),
		middleware.RequestLogging,
		middleware.Config(app.Cfg),
	)
}
