package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/repository"
	"github.com/soraformula/soraformula/internal/storage"
)

type fixture struct {
	cols          *repository.Collections
	activities    *ActivityService
	signups       *SignupService
	subscriptions *SubscriptionService
	admin         *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cols := repository.NewJSONCollections(t.TempDir())
	activities := NewActivityService(cols.Activities)
	email := NewEmailService("", "noreply@example.com", "", "http://localhost:3000", "Sora Formula", true)
	signups := NewSignupService(cols.Signups, cols.Users, activities, email)
	subscriptions := NewSubscriptionService(cols.Payments)
	admin := NewAdminService(signups, activities, subscriptions).WithSessionTime(func() int { return 12 })
	return &fixture{cols, activities, signups, subscriptions, admin}
}

func (f *fixture) signup(t *testing.T, name, email string) string {
	t.Helper()
	res, err := f.signups.Signup(context.Background(), SignupInput{FullName: name, Email: email, HowDidYouFindUs: "twitter"})
	if err != nil {
		t.Fatalf("Signup(%q) = %v", email, err)
	}
	return res.UserID
}

func TestSignupDuplicateIsWelcomeBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.signups.Signup(ctx, SignupInput{FullName: "Ada", Email: "ada@example.com", HowDidYouFindUs: "friend"})
	if err != nil {
		t.Fatal(err)
	}
	if first.Existing || first.UserID == "" {
		t.Errorf("first signup = %+v, want new with user id", first)
	}

	second, err := f.signups.Signup(ctx, SignupInput{FullName: "Ada L", Email: "ADA@example.com", HowDidYouFindUs: "search"})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Existing || second.Message != MessageWelcomeBack {
		t.Errorf("second signup = %+v, want welcome back", second)
	}
	if second.UserID != first.UserID {
		t.Errorf("UserID = %q, want %q", second.UserID, first.UserID)
	}

	signups, _ := f.cols.Signups.LoadAll(ctx)
	if len(signups) != 1 {
		t.Fatalf("len(signups) = %d, want 1", len(signups))
	}
	users, _ := f.cols.Users.LoadAll(ctx)
	if len(users) != 1 || users[0].Email != "ada@example.com" {
		t.Errorf("users = %+v", users)
	}
	activities, _ := f.cols.Activities.LoadAll(ctx)
	if len(activities) != 1 || activities[0].Type != model.ActivitySignup {
		t.Errorf("activities = %+v, want one signup", activities)
	}
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		in   SignupInput
		want string
	}{
		{SignupInput{Email: "a@b.co", HowDidYouFindUs: "x"}, "All fields are required"},
		{SignupInput{FullName: "A", Email: "a@b.co"}, "All fields are required"},
		{SignupInput{FullName: "A", Email: "not-an-email", HowDidYouFindUs: "x"}, "Invalid email address"},
	}
	for _, c := range cases {
		_, err := f.signups.Signup(context.Background(), c.in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Signup(%+v) = %v, want ValidationError", c.in, err)
			continue
		}
		if verr.Message != c.want {
			t.Errorf("message = %q, want %q", verr.Message, c.want)
		}
	}
}

func TestSignupDashboard(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.signups.now = func() time.Time { return now }
	ctx := context.Background()

	inputs := []SignupInput{
		{FullName: "A", Email: "a@x.co", HowDidYouFindUs: "twitter", Timestamp: now.Add(-48 * time.Hour)},
		{FullName: "B", Email: "b@x.co", HowDidYouFindUs: "twitter", Timestamp: now.Add(-time.Hour)},
		{FullName: "C", Email: "c@x.co", HowDidYouFindUs: "friend", Timestamp: now},
	}
	for _, in := range inputs {
		if _, err := f.signups.Signup(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	d, err := f.signups.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d.Stats.TotalSignups != 3 || d.Stats.TodaySignups != 2 {
		t.Errorf("stats = %+v, want total 3 today 2", d.Stats)
	}
	if d.Stats.SourceBreakdown["twitter"] != 2 || d.Stats.SourceBreakdown["friend"] != 1 {
		t.Errorf("sourceBreakdown = %v", d.Stats.SourceBreakdown)
	}
	if d.RecentSignups[0].Email != "c@x.co" {
		t.Errorf("newest = %q, want c@x.co", d.RecentSignups[0].Email)
	}
}

func TestLogActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	f.activities.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	a, err := f.activities.LogActivity(ctx, "u1", "a@x.co", model.ActivityOutput, "copied", nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "1767225601000" {
		t.Errorf("ID = %q, want epoch millis", a.ID)
	}
	if _, err := f.activities.LogActivity(ctx, "u1", "a@x.co", model.ActivityDownload, "saved", nil); err != nil {
		t.Fatal(err)
	}

	if _, err := f.activities.LogActivity(ctx, "u1", "a@x.co", "purchase", "", nil); !errors.Is(err, ErrUnknownActivityType) {
		t.Errorf("unknown type err = %v, want ErrUnknownActivityType", err)
	}

	recent, err := f.activities.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Type != model.ActivityDownload {
		t.Errorf("Recent(1) = %+v, want the download", recent)
	}
}

func TestSubscriptionStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	payments := []model.Payment{
		{ID: "cs_1", UserEmail: "Paid@x.co", Amount: 19.99, Status: model.PaymentStatusCompleted, Plan: "Pro", Timestamp: t0, SubscriptionID: "sub_1"},
		{ID: "in_2", UserEmail: "paid@x.co", Amount: 19.99, Status: model.PaymentStatusCompleted, Plan: "Pro", Timestamp: t0.Add(time.Hour), SubscriptionID: "sub_1"},
		{ID: "in_3", UserEmail: "paid@x.co", Amount: 19.99, Status: model.PaymentStatusFailed, Plan: "Pro", Timestamp: t0.Add(2 * time.Hour)},
		{ID: "cs_4", UserEmail: "pending@x.co", Status: model.PaymentStatusPending, Timestamp: t0},
	}
	for _, p := range payments {
		if _, err := f.subscriptions.RecordPayment(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	recorded, err := f.subscriptions.RecordPayment(ctx, payments[0])
	if err != nil || recorded {
		t.Errorf("RecordPayment(duplicate) = %v, %v, want false, nil", recorded, err)
	}

	st, err := f.subscriptions.Status(ctx, "PAID@x.co")
	if err != nil {
		t.Fatal(err)
	}
	if !st.HasActiveSubscription || st.SubscriptionStatus != model.SubscriptionStatusActive {
		t.Errorf("status = %+v, want active", st)
	}
	if st.LatestPayment == nil || st.LatestPayment.ID != "in_2" {
		t.Errorf("latestPayment = %+v, want in_2", st.LatestPayment)
	}
	if st.TotalSpent < 39.97 || st.TotalSpent > 39.99 {
		t.Errorf("totalSpent = %v, want 39.98", st.TotalSpent)
	}

	paid, _ := f.subscriptions.HasActiveSubscription(ctx, "pending@x.co")
	if paid {
		t.Error("pending payment counted as active")
	}

	email, err := f.subscriptions.EmailForSubscription(ctx, "sub_1")
	if err != nil || email != "paid@x.co" {
		t.Errorf("EmailForSubscription = %q, %v", email, err)
	}
	if _, err := f.subscriptions.EmailForSubscription(ctx, "sub_x"); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("unknown subscription err = %v", err)
	}
}

func TestAdminStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ids := []string{
		f.signup(t, "A", "a@x.co"),
		f.signup(t, "B", "b@x.co"),
		f.signup(t, "C", "c@x.co"),
	}
	f.activities.LogActivity(ctx, ids[0], "a@x.co", model.ActivityOutput, "", nil)
	f.activities.LogActivity(ctx, ids[0], "a@x.co", model.ActivityDownload, "", nil)
	f.activities.LogActivity(ctx, ids[1], "b@x.co", model.ActivityQuestion, "", nil)
	f.subscriptions.RecordPayment(ctx, model.Payment{ID: "cs_1", UserEmail: "A@x.co", Amount: 29, Status: model.PaymentStatusCompleted})
	f.subscriptions.RecordPayment(ctx, model.Payment{ID: "cs_2", UserEmail: "b@x.co", Amount: 0, Status: model.PaymentStatusPending})

	stats, err := f.admin.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSignups != 3 {
		t.Errorf("TotalSignups = %d, want 3", stats.TotalSignups)
	}
	if stats.TotalRevenue != 29 {
		t.Errorf("TotalRevenue = %v, want 29", stats.TotalRevenue)
	}
	if stats.TotalOutputs != 1 || stats.TotalDownloads != 1 || stats.TotalQuestions != 1 {
		t.Errorf("counts = %+v", stats)
	}
	// three signup activities plus the ones above, all by three users
	if stats.ActiveUsers != 3 {
		t.Errorf("ActiveUsers = %d, want 3", stats.ActiveUsers)
	}
	if stats.ConversionRate != 33.3 {
		t.Errorf("ConversionRate = %v, want 33.3", stats.ConversionRate)
	}
	if stats.AvgSessionTime != 12 {
		t.Errorf("AvgSessionTime = %d, want 12", stats.AvgSessionTime)
	}

	users, err := f.admin.Users(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 3 {
		t.Fatalf("len(users) = %d, want 3", len(users))
	}
	a := users[0]
	if a.SubscriptionStatus != model.UserStatusPaid || a.TotalSpent != 29 || a.Outputs != 1 || a.Downloads != 1 || a.TotalActivities != 3 {
		t.Errorf("user a = %+v", a)
	}
	if users[1].SubscriptionStatus != model.UserStatusFree {
		t.Errorf("user b status = %q, want free", users[1].SubscriptionStatus)
	}
	if users[2].LastActivity == nil {
		t.Error("user c has no last activity")
	}
}

func TestConversionRate(t *testing.T) {
	cases := []struct {
		paid, total int
		want        float64
	}{
		{0, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 8, 12.5},
		{5, 5, 100},
	}
	for _, c := range cases {
		if got := conversionRate(c.paid, c.total); got != c.want {
			t.Errorf("conversionRate(%d, %d) = %v, want %v", c.paid, c.total, got, c.want)
		}
	}
}

func TestAdminToken(t *testing.T) {
	auth := NewAuthService("secret", time.Hour)
	token, expiry, err := auth.GenerateAdminToken("ops")
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(expiry) <= 0 {
		t.Errorf("expiry %v in the past", expiry)
	}

	sub, err := auth.ValidateAdminToken(token)
	if err != nil || sub != "ops" {
		t.Errorf("ValidateAdminToken = %q, %v, want ops", sub, err)
	}

	other := NewAuthService("other", time.Hour)
	if _, err := other.ValidateAdminToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token err = %v, want ErrInvalidToken", err)
	}

	expired := NewAuthService("secret", -time.Minute)
	old, _, _ := expired.GenerateAdminToken("ops")
	if _, err := auth.ValidateAdminToken(old); err == nil {
		t.Error("expired token accepted")
	}

	if _, _, err := NewAuthService("", time.Hour).GenerateAdminToken("ops"); !errors.Is(err, ErrAdminAuthDisabled) {
		t.Errorf("disabled err = %v", err)
	}
}

type failingStorage struct{}

func (failingStorage) Save(context.Context, string, io.Reader, string) error {
	return errors.New("disk full")
}
func (failingStorage) Delete(context.Context, string) error { return nil }
func (failingStorage) URL(context.Context, string) (string, error) {
	return "", nil
}

func TestReferenceUpload(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	refs := NewReferenceService(local)

	file, err := refs.Upload(context.Background(), strings.NewReader("img"), "Sunset.PNG", 3, "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if file.ProcessingStatus != model.FileStatusComplete || !file.IsReferenceImage() {
		t.Errorf("file = %+v, want complete image", file)
	}
	payload, err := Payload(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(payload.URL, "/uploads/references/") || !strings.HasSuffix(payload.StoragePath, ".png") {
		t.Errorf("payload = %+v", payload)
	}

	broken := NewReferenceService(failingStorage{})
	file, err = broken.Upload(context.Background(), strings.NewReader("img"), "a.png", 3, "image/png")
	if err == nil || file.ProcessingStatus != model.FileStatusError {
		t.Errorf("Upload on failing storage = %+v, %v, want error status", file, err)
	}
}
