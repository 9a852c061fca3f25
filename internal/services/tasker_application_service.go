package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"sira/internal/models"
	"sira/internal/repositories"
)

var (
	ErrApplicationExists   = errors.New("tasker application already submitted")
	ErrApplicationNotFound = errors.New("tasker application not found")
	ErrApplicationDecided  = errors.New("tasker application already decided")
)

type TaskerApplicationService interface {
	Submit(ctx context.Context, app *models.TaskerApplication) error
	MyApplication(ctx context.Context, userID string) (*models.TaskerApplication, error)
	ListPending(ctx context.Context) ([]models.TaskerApplication, error)
	Approve(ctx context.Context, id, reviewerID string, adminNotes *string) error
	Reject(ctx context.Context, id, reviewerID string, reason string, adminNotes *string) error
}

type taskerApplicationService struct {
	apps     repositories.TaskerApplicationRepository
	profiles repositories.ProfileRepository
	email    EmailService
	alerts   *AlertService
}

func NewTaskerApplicationService(apps repositories.TaskerApplicationRepository, profiles repositories.ProfileRepository, email EmailService, alerts *AlertService) TaskerApplicationService {
	return &taskerApplicationService{apps: apps, profiles: profiles, email: email, alerts: alerts}
}

func (s *taskerApplicationService) Submit(ctx context.Context, app *models.TaskerApplication) error {
	if strings.TrimSpace(app.Bio) == "" || len(app.Skills) == 0 {
		return errors.New("bio and skills are required")
	}
	if app.HourlyRate <= 0 {
		return errors.New("hourly rate must be positive")
	}
	existing, err := s.apps.GetByUserID(ctx, app.UserID)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status != models.TaskerApplicationRejected {
		return ErrApplicationExists
	}
	app.Status = models.TaskerApplicationPending
	if err := s.apps.Create(ctx, app); err != nil {
		return err
	}

	s.alerts.Notify(fmt.Sprintf("New tasker application from %s (%s), rate %.0f/hr", app.FullName, app.Phone, app.HourlyRate))
	return nil
}

func (s *taskerApplicationService) MyApplication(ctx context.Context, userID string) (*models.TaskerApplication, error) {
	return s.apps.GetByUserID(ctx, userID)
}

func (s *taskerApplicationService) ListPending(ctx context.Context) ([]models.TaskerApplication, error) {
	return s.apps.ListByStatus(ctx, models.TaskerApplicationPending)
}

// Approve promotes the applicant's role so the tasker lens opens up,
// and copies the vetted professional details onto the profile.
func (s *taskerApplicationService) Approve(ctx context.Context, id, reviewerID string, adminNotes *string) error {
	app, err := s.pendingByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.apps.SetDecision(ctx, id, models.TaskerApplicationApproved, reviewerID, nil, adminNotes); err != nil {
		return err
	}

	profile, err := s.profiles.GetByID(ctx, app.UserID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}
	if profile.Role == models.RoleCustomer {
		if err := s.profiles.UpdateRole(ctx, profile.ID, models.RoleBoth); err != nil {
			return err
		}
	}
	profile.Bio = &app.Bio
	profile.Skills = app.Skills
	profile.HourlyRate = &app.HourlyRate
	profile.Languages = app.Languages
	profile.Certifications = app.Certifications
	profile.VerificationStatus = "verified"
	if err := s.profiles.Update(ctx, profile); err != nil {
		log.Printf("[taskerapp][approve] warning: profile enrich failed: user=%s err=%v", profile.ID, err)
	}

	if s.email != nil && app.Email != "" {
		if err := s.email.SendTaskerApprovedEmail(app.Email, app.FullName); err != nil {
			log.Printf("[taskerapp][approve] warning: email failed: to=%s err=%v", app.Email, err)
		}
	}
	log.Printf("[taskerapp][approve] id=%s user=%s by=%s", id, app.UserID, reviewerID)
	return nil
}

func (s *taskerApplicationService) Reject(ctx context.Context, id, reviewerID string, reason string, adminNotes *string) error {
	app, err := s.pendingByID(ctx, id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return errors.New("rejection reason is required")
	}
	if err := s.apps.SetDecision(ctx, id, models.TaskerApplicationRejected, reviewerID, &reason, adminNotes); err != nil {
		return err
	}
	if s.email != nil && app.Email != "" {
		if err := s.email.SendTaskerRejectedEmail(app.Email, app.FullName, reason); err != nil {
			log.Printf("[taskerapp][reject] warning: email failed: to=%s err=%v", app.Email, err)
		}
	}
	log.Printf("[taskerapp][reject] id=%s user=%s by=%s", id, app.UserID, reviewerID)
	return nil
}

func (s *taskerApplicationService) pendingByID(ctx context.Context, id string) (*models.TaskerApplication, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}
	if app.Status != models.TaskerApplicationPending {
		return nil, ErrApplicationDecided
	}
	return app, nil
}
