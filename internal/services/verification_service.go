package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"sira/internal/models"
	"sira/internal/repositories"
	"sira/internal/utils"
)

var (
	ErrPhoneInvalid = errors.New("phone number invalid")
	ErrCodeInvalid  = errors.New("code invalid")
)

const defaultCodeTTL = 5 * time.Minute

// VerificationService issues and checks one-time SMS codes. Sending a
// new code never invalidates earlier ones: any unused, unexpired code
// for the phone still verifies.
type VerificationService struct {
	Repo    repositories.VerificationRepository
	Client  *utils.SMSClient
	Alerts  Notifier // optional, sweep reports go here when set
	CodeTTL time.Duration // 0 means defaultCodeTTL
}

func NewVerificationService(repo repositories.VerificationRepository, client *utils.SMSClient, alerts Notifier) *VerificationService {
	return &VerificationService{
		Repo:    repo,
		Client:  client,
		Alerts:  alerts,
		CodeTTL: defaultCodeTTL,
	}
}

func (s *VerificationService) generateCode() string {
	return fmt.Sprintf("%d", 100000+rand.Intn(900000))
}

// SendCode normalizes the phone, stores a fresh code and pushes it out
// over SMS. Returns the normalized phone so callers key follow-up state
// on the same value the code was stored under.
func (s *VerificationService) SendCode(ctx context.Context, rawPhone string) (string, error) {
	phone := FormatPhone(rawPhone)
	if !IsValidPhone(phone) {
		return "", ErrPhoneInvalid
	}

	code := s.generateCode()
	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = defaultCodeTTL
	}
	now := time.Now()

	rec := &models.PhoneVerification{
		PhoneNumber: phone,
		Code:        code,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return "", fmt.Errorf("store verification: %w", err)
	}

	text := fmt.Sprintf("Your Sira verification code is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
	if _, err := s.Client.SendSMS(phone, text); err != nil {
		return "", fmt.Errorf("sms relay: %w", err)
	}

	log.Printf("[verify][send] ok: phone=%s", phone)
	return phone, nil
}

// VerifyCode checks the submitted code against the most recent unused,
// unexpired record for the phone. Marking the row used is best effort:
// a failure there does not undo a successful match.
func (s *VerificationService) VerifyCode(ctx context.Context, rawPhone, code string) (string, error) {
	phone := FormatPhone(rawPhone)
	if !IsValidPhone(phone) {
		return "", ErrPhoneInvalid
	}

	rec, err := s.Repo.FindMatch(ctx, phone, code)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrCodeInvalid
	}

	if err := s.Repo.MarkUsed(ctx, rec.ID); err != nil {
		log.Printf("[verify][confirm] warning: mark used failed: id=%s err=%v", rec.ID, err)
	}

	log.Printf("[verify][confirm] OK phone=%s", phone)
	return phone, nil
}

// CleanupExpired removes verification rows past their expiry.
func (s *VerificationService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.Repo.DeleteExpired(ctx, time.Now())
}

// RunCleanup sweeps expired codes on the given interval until the
// context is cancelled.
func (s *VerificationService) RunCleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.CleanupExpired(ctx)
			if err != nil {
				log.Printf("[verify][cleanup] error: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[verify][cleanup] removed %d expired codes", n)
				if s.Alerts != nil {
					s.Alerts.Notify(fmt.Sprintf("Verification sweep: removed %d expired codes", n))
				}
			}
		}
	}
}
