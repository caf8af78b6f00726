package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketingai-backend/internal/auth"
	"marketingai-backend/internal/demo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	users map[string]User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]User{}}
}

func (f *fakeRepo) Insert(ctx context.Context, u User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, mongo.ErrNoDocuments
	}
	return u, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range f.users {
		if u.Auth.Email == email {
			return u, nil
		}
	}
	return User{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) Update(ctx context.Context, id string, set bson.M) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, mongo.ErrNoDocuments
	}
	for key, value := range set {
		switch key {
		case "auth.emailVerified":
			u.Auth.EmailVerified = value.(bool)
		case "auth.otp":
			u.Auth.OTP = value.(string)
		case "auth.otpExpiresAt":
			if value == nil {
				u.Auth.OTPExpiresAt = nil
			} else if at, ok := value.(time.Time); ok {
				u.Auth.OTPExpiresAt = &at
			}
		case "auth.failedLoginAttempts":
			u.Auth.FailedLoginAttempts = value.(int)
		case "activity.lastLogin":
			at := value.(time.Time)
			u.Activity.LastLogin = &at
		case "personalInfo.firstName":
			u.PersonalInfo.FirstName = value.(string)
		case "business.companyName":
			u.Business.CompanyName = value.(string)
		}
	}
	f.users[id] = u
	return u, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]User, error) {
	items := make([]User, 0, len(f.users))
	for _, u := range f.users {
		items = append(items, u)
	}
	return items, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeRepo) StaffSummaries(ctx context.Context, ids []string) (map[string]demo.StaffSummary, error) {
	out := map[string]demo.StaffSummary{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = demo.StaffSummary{ID: id, Name: u.FullName(), Email: u.Auth.Email}
		}
	}
	return out, nil
}

func newTestService(repo *fakeRepo) *Service {
	manager := &auth.Manager{
		Secret:    []byte("test-secret"),
		AccessTTL: time.Hour,
		Issuer:    "test",
	}
	return NewService(repo, manager, nil, 10*time.Minute)
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		FirstName:       "Ada",
		LastName:        "Okafor",
		Email:           "Ada@Example.com",
		Password:        "Sup3r$ecret",
		ConfirmPassword: "Sup3r$ecret",
		CompanyName:     "Brightline",
		Industry:        "saas",
		BusinessType:    "b2b",
		Role:            "owner",
		ExperienceLevel: "advanced",
	}
}

func TestGenerateOTPFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP error: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("expected 6 digits, got %q", otp)
		}
		for _, c := range otp {
			if c < '0' || c > '9' {
				t.Fatalf("expected digits only, got %q", otp)
			}
		}
	}
}

func TestRegisterDefaultsAndHashing(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	u, otp, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if u.Auth.Email != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %s", u.Auth.Email)
	}
	if u.Auth.PasswordHash == "Sup3r$ecret" || u.Auth.PasswordHash == "" {
		t.Fatalf("expected hashed password")
	}
	if err := auth.ComparePassword(u.Auth.PasswordHash, "Sup3r$ecret"); err != nil {
		t.Fatalf("hash does not match original password: %v", err)
	}
	if u.Auth.EmailVerified {
		t.Fatalf("expected email unverified after registration")
	}
	if u.Billing.Credits.Available != freeTierCredits {
		t.Fatalf("expected %d free credits, got %d", freeTierCredits, u.Billing.Credits.Available)
	}
	if u.Billing.Plan != "free" {
		t.Fatalf("expected free plan, got %s", u.Billing.Plan)
	}
	if len(otp) != 6 {
		t.Fatalf("expected 6-digit otp, got %q", otp)
	}
	if u.PersonalInfo.DisplayName != "Ada Okafor" {
		t.Fatalf("expected derived display name, got %q", u.PersonalInfo.DisplayName)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	if _, _, err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), validRegisterRequest()); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestVerifyEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	u, otp, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{Email: u.Auth.Email, OTP: "000000"}); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP for wrong code, got %v", err)
	}

	if err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{Email: u.Auth.Email, OTP: otp}); err != nil {
		t.Fatalf("VerifyEmail error: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), u.ID)
	if !stored.Auth.EmailVerified {
		t.Fatalf("expected emailVerified true after verification")
	}
	if stored.Auth.OTP != "" {
		t.Fatalf("expected otp cleared after verification")
	}
}

func TestVerifyEmailExpiredOTP(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	u, otp, _ := svc.Register(context.Background(), validRegisterRequest())

	expired := time.Now().Add(-time.Minute)
	stored := repo.users[u.ID]
	stored.Auth.OTPExpiresAt = &expired
	repo.users[u.ID] = stored

	if err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{Email: u.Auth.Email, OTP: otp}); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP for expired code, got %v", err)
	}
}

func TestLoginFlow(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	u, otp, _ := svc.Register(context.Background(), validRegisterRequest())

	// Unverified accounts cannot log in even with the right password.
	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: u.Auth.Email, Password: "Sup3r$ecret"}); !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}

	if err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{Email: u.Auth.Email, OTP: otp}); err != nil {
		t.Fatalf("VerifyEmail error: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: u.Auth.Email, Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), u.ID)
	if stored.Auth.FailedLoginAttempts != 1 {
		t.Fatalf("expected failed login counter 1, got %d", stored.Auth.FailedLoginAttempts)
	}

	logged, token, err := svc.Login(context.Background(), LoginRequest{Email: u.Auth.Email, Password: "Sup3r$ecret"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected access token")
	}
	if logged.Auth.FailedLoginAttempts != 0 {
		t.Fatalf("expected failed login counter reset, got %d", logged.Auth.FailedLoginAttempts)
	}
	if logged.Activity.LastLogin == nil {
		t.Fatalf("expected lastLogin to be stamped")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginWithoutTokenManager(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil, 10*time.Minute)

	u, otp, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{Email: u.Auth.Email, OTP: otp}); err != nil {
		t.Fatalf("VerifyEmail error: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: u.Auth.Email, Password: "Sup3r$ecret"}); !errors.Is(err, ErrAuthUnavailable) {
		t.Fatalf("expected ErrAuthUnavailable, got %v", err)
	}
}

func TestUpdateProfileWhitelistsSections(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	u, _, _ := svc.Register(context.Background(), validRegisterRequest())

	if _, err := svc.UpdateProfile(context.Background(), u.ID, ProfileUpdateRequest{}); !errors.Is(err, ErrEmptyUpdate) {
		t.Fatalf("expected ErrEmptyUpdate, got %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), u.ID, ProfileUpdateRequest{
		PersonalInfo: &PersonalInfoUpdate{FirstName: "Adaeze"},
		Business:     &BusinessUpdate{CompanyName: "Brightline Labs"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if updated.PersonalInfo.FirstName != "Adaeze" {
		t.Fatalf("expected updated first name, got %s", updated.PersonalInfo.FirstName)
	}
	if updated.Business.CompanyName != "Brightline Labs" {
		t.Fatalf("expected updated company, got %s", updated.Business.CompanyName)
	}
	if updated.Auth.Email != "ada@example.com" {
		t.Fatalf("email must never change through profile updates, got %s", updated.Auth.Email)
	}
}

func TestRoleDerivation(t *testing.T) {
	u := User{}
	if u.Role() != TypeClient {
		t.Fatalf("expected client default, got %s", u.Role())
	}
	u.MarketingProfile.Role = "owner"
	if u.Role() != "owner" {
		t.Fatalf("expected owner, got %s", u.Role())
	}
	u.PersonalInfo.UserType = TypeAdmin
	if u.Role() != TypeAdmin {
		t.Fatalf("admin user type must win, got %s", u.Role())
	}
}

func TestStaffSummariesSkipsUnknownIDs(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	u, _, _ := svc.Register(context.Background(), validRegisterRequest())

	out, err := repo.StaffSummaries(context.Background(), []string{u.ID, "ghost"})
	if err != nil {
		t.Fatalf("StaffSummaries error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(out))
	}
	if out[u.ID].Name != "Ada Okafor" {
		t.Fatalf("unexpected summary: %+v", out[u.ID])
	}
}
