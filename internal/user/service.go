package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"marketingai-backend/internal/auth"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
	ErrEmailNotVerified   = errors.New("email address not verified")
	ErrAuthUnavailable    = errors.New("authentication is not configured")
	ErrEmptyUpdate        = errors.New("nothing to update")
)

const freeTierCredits = 100

// Notifier enqueues verification emails. Satisfied by the jobs dispatcher.
type Notifier interface {
	EnqueueOTPEmail(ctx context.Context, email, name, otp string) error
}

type Service struct {
	repo     Repository
	tokens   *auth.Manager
	notifier Notifier
	otpTTL   time.Duration
}

func NewService(repo Repository, tokens *auth.Manager, notifier Notifier, otpTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		otpTTL:   otpTTL,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, "", ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, "", err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return User{}, "", err
	}

	otp, err := GenerateOTP()
	if err != nil {
		return User{}, "", err
	}

	now := time.Now().UTC()
	otpExpiry := now.Add(s.otpTTL)
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)

	timezone := strings.TrimSpace(req.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}

	u := User{
		ID: primitive.NewObjectID().Hex(),
		PersonalInfo: PersonalInfo{
			FirstName:         firstName,
			LastName:          lastName,
			DisplayName:       firstName + " " + lastName,
			UserType:          TypeClient,
			Timezone:          timezone,
			PreferredLanguage: "en",
		},
		Auth: Auth{
			Email:        email,
			Phone:        strings.TrimSpace(req.Phone),
			PasswordHash: hash,
			OTP:          otp,
			OTPExpiresAt: &otpExpiry,
		},
		Business: Business{
			CompanyName:  strings.TrimSpace(req.CompanyName),
			Website:      strings.TrimSpace(req.Website),
			Industry:     req.Industry,
			BusinessType: req.BusinessType,
			CompanySize:  req.CompanySize,
		},
		MarketingProfile: MarketingProfile{
			Role:            req.Role,
			ExperienceLevel: req.ExperienceLevel,
			MonthlyAdBudget: req.MonthlyAdBudget,
			MarketingGoals:  normalizeList(req.MarketingGoals),
			Challenges:      normalizeList(req.Challenges),
		},
		Billing: Billing{
			Plan:         "free",
			BillingCycle: "monthly",
			Credits:      Credits{Available: freeTierCredits},
		},
		Metadata: Metadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if u.MarketingProfile.MonthlyAdBudget == "" {
		u.MarketingProfile.MonthlyAdBudget = "none"
	}
	if u.Business.CompanySize == "" {
		u.Business.CompanySize = "solopreneur"
	}

	if err := s.repo.Insert(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, "", ErrEmailTaken
		}
		return User{}, "", err
	}

	return u, otp, nil
}

// NotifyRegistered enqueues the verification email. Fire-and-forget from
// the handler.
func (s *Service) NotifyRegistered(ctx context.Context, u User, otp string) error {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.EnqueueOTPEmail(ctx, u.Auth.Email, u.PersonalInfo.FirstName, otp)
}

func (s *Service) VerifyEmail(ctx context.Context, req VerifyEmailRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidOTP
		}
		return err
	}

	if u.Auth.OTP == "" || u.Auth.OTP != req.OTP {
		return ErrInvalidOTP
	}
	if u.Auth.OTPExpiresAt != nil && time.Now().After(*u.Auth.OTPExpiresAt) {
		return ErrInvalidOTP
	}

	_, err = s.repo.Update(ctx, u.ID, bson.M{
		"auth.emailVerified": true,
		"auth.otp":           "",
		"auth.otpExpiresAt":  nil,
	})
	return err
}

func (s *Service) ResendOTP(ctx context.Context, req ResendOTPRequest) (User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, "", ErrNotFound
		}
		return User{}, "", err
	}

	otp, err := GenerateOTP()
	if err != nil {
		return User{}, "", err
	}
	otpExpiry := time.Now().UTC().Add(s.otpTTL)

	if _, err := s.repo.Update(ctx, u.ID, bson.M{
		"auth.otp":          otp,
		"auth.otpExpiresAt": otpExpiry,
	}); err != nil {
		return User{}, "", err
	}

	return u, otp, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (User, string, error) {
	if s.tokens == nil {
		return User{}, "", ErrAuthUnavailable
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}

	if err := auth.ComparePassword(u.Auth.PasswordHash, req.Password); err != nil {
		_, _ = s.repo.Update(ctx, u.ID, bson.M{
			"auth.failedLoginAttempts": u.Auth.FailedLoginAttempts + 1,
		})
		return User{}, "", ErrInvalidCredentials
	}

	if !u.Auth.EmailVerified {
		return User{}, "", ErrEmailNotVerified
	}

	token, err := s.tokens.NewAccessToken(u.ID, u.Role())
	if err != nil {
		return User{}, "", err
	}

	now := time.Now().UTC()
	updated, err := s.repo.Update(ctx, u.ID, bson.M{
		"auth.failedLoginAttempts": 0,
		"activity.lastLogin":       now,
	})
	if err != nil {
		return User{}, "", err
	}

	return updated, token, nil
}

func (s *Service) GetProfile(ctx context.Context, id string) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// UpdateProfile applies the whitelisted sections. Auth fields never move
// through this path.
func (s *Service) UpdateProfile(ctx context.Context, id string, req ProfileUpdateRequest) (User, error) {
	set := bson.M{}

	if p := req.PersonalInfo; p != nil {
		applyIfSet(set, "personalInfo.firstName", p.FirstName)
		applyIfSet(set, "personalInfo.lastName", p.LastName)
		applyIfSet(set, "personalInfo.displayName", p.DisplayName)
		applyIfSet(set, "personalInfo.bio", p.Bio)
		applyIfSet(set, "personalInfo.timezone", p.Timezone)
		applyIfSet(set, "personalInfo.preferredLanguage", p.PreferredLanguage)
	}
	if b := req.Business; b != nil {
		applyIfSet(set, "business.companyName", b.CompanyName)
		applyIfSet(set, "business.website", b.Website)
		applyIfSet(set, "business.industry", b.Industry)
		applyIfSet(set, "business.businessType", b.BusinessType)
		applyIfSet(set, "business.companySize", b.CompanySize)
	}
	if m := req.MarketingProfile; m != nil {
		applyIfSet(set, "marketingProfile.role", m.Role)
		applyIfSet(set, "marketingProfile.experienceLevel", m.ExperienceLevel)
		applyIfSet(set, "marketingProfile.monthlyAdBudget", m.MonthlyAdBudget)
		if m.MarketingGoals != nil {
			set["marketingProfile.marketingGoals"] = normalizeList(m.MarketingGoals)
		}
		if m.Challenges != nil {
			set["marketingProfile.challenges"] = normalizeList(m.Challenges)
		}
	}

	if len(set) == 0 {
		return User{}, ErrEmptyUpdate
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return updated, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page, limit int64) ([]User, int64, error) {
	skip := (page - 1) * limit
	items, err := s.repo.List(ctx, filter, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GenerateOTP returns a 6-digit zero-padded code from crypto/rand.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func applyIfSet(set bson.M, key, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		set[key] = trimmed
	}
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
