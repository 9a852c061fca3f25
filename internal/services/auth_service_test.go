package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sira/internal/models"
)

type authFixture struct {
	profiles *fakeProfileRepo
	pending  *fakePendingStore
	verifs   *fakeVerificationRepo
	svc      AuthService
}

func newAuthFixture() *authFixture {
	profiles := newFakeProfileRepo()
	pending := newFakePendingStore()
	verifs := &fakeVerificationRepo{}
	verification := newTestVerificationService(verifs)
	return &authFixture{
		profiles: profiles,
		pending:  pending,
		verifs:   verifs,
		svc:      NewAuthService(profiles, pending, verification),
	}
}

func (f *authFixture) lastCode() string {
	return f.verifs.records[len(f.verifs.records)-1].Code
}

func TestRegistrationFlow(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if err := f.svc.StartRegistration(ctx, "0912345678", "Abebe Bikila", "abebe"); err != nil {
		t.Fatalf("start registration: %v", err)
	}

	user, err := f.svc.CompleteVerification(ctx, "0912345678", f.lastCode(), "")
	if err != nil {
		t.Fatalf("complete verification: %v", err)
	}
	if user.Phone != "+251912345678" {
		t.Fatalf("expected normalized phone, got %s", user.Phone)
	}
	if user.Role != models.RoleCustomer {
		t.Fatalf("expected new accounts to start as customer, got %s", user.Role)
	}
	if user.CurrentMode != models.ModeCustomer {
		t.Fatalf("expected default customer mode, got %s", user.CurrentMode)
	}
	if user.Profile.Username != "abebe" || user.Profile.FullName != "Abebe Bikila" {
		t.Fatalf("registration details not applied: %+v", user.Profile)
	}
	if !user.Profile.PhoneVerified {
		t.Fatalf("expected phone_verified on new profile")
	}
}

func TestCompleteVerificationWithoutPendingFails(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	// code sent without any registration payload
	verification := newTestVerificationService(f.verifs)
	if _, err := verification.SendCode(ctx, "0912345678"); err != nil {
		t.Fatalf("send: %v", err)
	}

	_, err := f.svc.CompleteVerification(ctx, "0912345678", f.lastCode(), "")
	if !errors.Is(err, ErrNoPendingRegistration) {
		t.Fatalf("expected ErrNoPendingRegistration, got %v", err)
	}
}

func TestExistingProfileWinsOverPending(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	existing := &models.Profile{
		Phone:    "+251912345678",
		FullName: "Original Name",
		Username: "original",
		Role:     models.RoleBoth,
	}
	if err := f.profiles.Create(ctx, existing); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	if err := f.svc.StartRegistration(ctx, "0912345678", "Impostor", "impostor"); err != nil {
		t.Fatalf("start registration: %v", err)
	}
	user, err := f.svc.CompleteVerification(ctx, "0912345678", f.lastCode(), "")
	if err != nil {
		t.Fatalf("complete verification: %v", err)
	}
	if user.Profile.FullName != "Original Name" {
		t.Fatalf("existing profile should win, got %s", user.Profile.FullName)
	}
	// pending consumed either way
	if reg, _ := f.pending.Take(ctx, "+251912345678"); reg != nil {
		t.Fatalf("expected pending registration to be consumed")
	}
}

func TestUsernameFallbackWhenEmpty(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if err := f.svc.StartRegistration(ctx, "0912345678", "No Username", ""); err != nil {
		t.Fatalf("start registration: %v", err)
	}
	user, err := f.svc.CompleteVerification(ctx, "0912345678", f.lastCode(), "")
	if err != nil {
		t.Fatalf("complete verification: %v", err)
	}
	if !strings.HasPrefix(user.Profile.Username, "user_") || len(user.Profile.Username) != len("user_")+6 {
		t.Fatalf("expected generated user_XXXXXX username, got %q", user.Profile.Username)
	}
}

func TestModeRequiresRole(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	customer := &models.Profile{Phone: "+251911111111", FullName: "C", Username: "c", Role: models.RoleCustomer}
	both := &models.Profile{Phone: "+251922222222", FullName: "B", Username: "b", Role: models.RoleBoth}
	if err := f.profiles.Create(ctx, customer); err != nil {
		t.Fatal(err)
	}
	if err := f.profiles.Create(ctx, both); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.SwitchMode(ctx, customer.ID, "tasker"); !errors.Is(err, ErrModeNotAllowed) {
		t.Fatalf("customer should not enter tasker mode, got %v", err)
	}
	user, err := f.svc.SwitchMode(ctx, both.ID, "tasker")
	if err != nil {
		t.Fatalf("switch mode: %v", err)
	}
	if user.CurrentMode != models.ModeTasker {
		t.Fatalf("expected tasker mode, got %s", user.CurrentMode)
	}

	if _, err := f.svc.SwitchMode(ctx, both.ID, "pilot"); !errors.Is(err, ErrModeNotAllowed) {
		t.Fatalf("unknown mode should be rejected, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}
	hashStr := string(hash)
	admin := &models.Profile{
		Phone:        "+251933333333",
		FullName:     "Admin",
		Username:     "admin",
		Role:         models.RoleCustomer,
		IsAdmin:      true,
		PasswordHash: &hashStr,
	}
	if err := f.profiles.Create(ctx, admin); err != nil {
		t.Fatal(err)
	}
	regular := &models.Profile{Phone: "+251944444444", FullName: "R", Username: "r", Role: models.RoleCustomer, PasswordHash: &hashStr}
	if err := f.profiles.Create(ctx, regular); err != nil {
		t.Fatal(err)
	}

	user, err := f.svc.AdminLogin(ctx, "0933333333", "s3cret")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if user.ID != admin.ID {
		t.Fatalf("unexpected user %s", user.ID)
	}

	if _, err := f.svc.AdminLogin(ctx, "0933333333", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := f.svc.AdminLogin(ctx, "0944444444", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for non-admin, got %v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	p := &models.Profile{Phone: "+251955555555", FullName: "U", Username: "u", Role: models.RoleCustomer}
	if err := f.profiles.Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	exp := time.Now().Add(30 * 24 * time.Hour)
	if err := f.svc.UpdateRefresh(ctx, p.ID, "old-token", exp); err != nil {
		t.Fatalf("update refresh: %v", err)
	}

	rotated, err := f.svc.RotateRefresh(ctx, "old-token", "new-token", exp)
	if err != nil || rotated == nil {
		t.Fatalf("rotate refresh: %v %v", rotated, err)
	}
	// the old token is spent
	again, err := f.svc.RotateRefresh(ctx, "old-token", "another", exp)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if again != nil {
		t.Fatalf("expected old token to be unusable after rotation")
	}
}
