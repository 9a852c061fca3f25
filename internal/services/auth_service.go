package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sira/internal/authz"
	"sira/internal/models"
	"sira/internal/repositories"
)

var (
	ErrNoPendingRegistration = errors.New("no pending registration for phone")
	ErrModeNotAllowed        = errors.New("mode not allowed for role")
	ErrInvalidCredentials    = errors.New("invalid credentials")
)

const defaultPendingTTL = 30 * time.Minute

// AuthService turns a verified phone into a session: it loads the
// profile for the phone or creates one from the pending registration
// captured at send time.
type AuthService interface {
	StartRegistration(ctx context.Context, phone, fullName, username string) error
	CompleteVerification(ctx context.Context, rawPhone, code, requestedMode string) (*models.SessionUser, error)
	SwitchMode(ctx context.Context, userID, mode string) (*models.SessionUser, error)
	AdminLogin(ctx context.Context, rawPhone, password string) (*models.SessionUser, error)

	UpdateRefresh(ctx context.Context, userID, token string, expiresAt time.Time) error
	RotateRefresh(ctx context.Context, oldToken, newToken string, newExpiresAt time.Time) (*models.Profile, error)
	ClearRefresh(ctx context.Context, userID string) error

	HashPassword(plain string) (string, error)
}

type authService struct {
	profiles     repositories.ProfileRepository
	pending      repositories.PendingStore
	verification *VerificationService
	pendingTTL   time.Duration
}

func NewAuthService(profiles repositories.ProfileRepository, pending repositories.PendingStore, verification *VerificationService) AuthService {
	return &authService{
		profiles:     profiles,
		pending:      pending,
		verification: verification,
		pendingTTL:   defaultPendingTTL,
	}
}

// StartRegistration stashes the registration payload server-side and
// sends a verification code. Callers without a payload send the code
// directly through VerificationService.
func (s *authService) StartRegistration(ctx context.Context, rawPhone, fullName, username string) error {
	phone, err := s.verification.SendCode(ctx, rawPhone)
	if err != nil {
		return err
	}
	reg := &models.PendingRegistration{
		Phone:     phone,
		FullName:  strings.TrimSpace(fullName),
		Username:  strings.TrimSpace(username),
		CreatedAt: time.Now(),
	}
	if err := s.pending.Put(ctx, reg, s.pendingTTL); err != nil {
		return fmt.Errorf("store pending registration: %w", err)
	}
	return nil
}

// CompleteVerification checks the code and materializes the session
// user. The pending registration is consumed exactly once whether or
// not it ends up used; a profile that already exists wins over it.
func (s *authService) CompleteVerification(ctx context.Context, rawPhone, code, requestedMode string) (*models.SessionUser, error) {
	phone, err := s.verification.VerifyCode(ctx, rawPhone, code)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	reg, err := s.pending.Take(ctx, phone)
	if err != nil {
		log.Printf("[auth][verify] warning: pending take failed: phone=%s err=%v", phone, err)
	}

	if profile == nil {
		if reg == nil {
			return nil, ErrNoPendingRegistration
		}
		profile, err = s.createProfile(ctx, phone, reg)
		if err != nil {
			return nil, err
		}
		log.Printf("[auth][verify] new profile id=%s phone=%s", profile.ID, phone)
	}

	mode, err := s.resolveMode(profile, requestedMode)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.TouchLastActive(ctx, profile.ID); err != nil {
		log.Printf("[auth][verify] warning: touch last_active failed: id=%s err=%v", profile.ID, err)
	}

	return models.NewSessionUser(profile, mode), nil
}

func (s *authService) createProfile(ctx context.Context, phone string, reg *models.PendingRegistration) (*models.Profile, error) {
	username := reg.Username
	if username == "" {
		username = fmt.Sprintf("user_%06d", rand.Intn(1000000))
	}
	profile := &models.Profile{
		Phone:         phone,
		FullName:      reg.FullName,
		Username:      username,
		Role:          models.RoleCustomer,
		PhoneVerified: true,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

func (s *authService) resolveMode(profile *models.Profile, requested string) (models.Mode, error) {
	if requested == "" {
		return models.DefaultMode(profile.Role), nil
	}
	mode := models.Mode(requested)
	if !models.ValidMode(mode) {
		return "", ErrModeNotAllowed
	}
	if !authz.CanUseMode(profile.Role, mode) {
		return "", ErrModeNotAllowed
	}
	return mode, nil
}

// SwitchMode re-checks the role against the requested lens and hands
// back a session user for a fresh access token. Nothing is persisted.
func (s *authService) SwitchMode(ctx context.Context, userID, mode string) (*models.SessionUser, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrInvalidCredentials
	}
	resolved, err := s.resolveMode(profile, mode)
	if err != nil {
		return nil, err
	}
	return models.NewSessionUser(profile, resolved), nil
}

// AdminLogin authenticates console users by phone and password. Only
// profiles flagged is_admin with a stored hash can pass.
func (s *authService) AdminLogin(ctx context.Context, rawPhone, password string) (*models.SessionUser, error) {
	phone := FormatPhone(rawPhone)
	profile, err := s.profiles.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if profile == nil || !profile.IsAdmin || profile.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*profile.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, ErrInvalidCredentials
	}
	log.Printf("[auth][admin] login OK id=%s", profile.ID)
	return models.NewSessionUser(profile, models.DefaultMode(profile.Role)), nil
}

func (s *authService) UpdateRefresh(ctx context.Context, userID, token string, expiresAt time.Time) error {
	return s.profiles.UpdateRefresh(ctx, userID, token, expiresAt)
}

func (s *authService) RotateRefresh(ctx context.Context, oldToken, newToken string, newExpiresAt time.Time) (*models.Profile, error) {
	return s.profiles.RotateRefresh(ctx, oldToken, newToken, newExpiresAt)
}

func (s *authService) ClearRefresh(ctx context.Context, userID string) error {
	return s.profiles.ClearRefresh(ctx, userID)
}

func (s *authService) HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
