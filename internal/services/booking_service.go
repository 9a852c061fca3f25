package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"sira/internal/authz"
	"sira/internal/models"
	"sira/internal/pdf"
	"sira/internal/repositories"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotBookingParty = errors.New("not a party to this booking")
)

type BookingService interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id, requesterID string) (*models.Booking, error)
	ListBookings(ctx context.Context, userID string, status *models.BookingStatus) ([]models.Booking, error)
	SearchBookings(ctx context.Context, userID, query string) ([]models.Booking, error)
	UpcomingBookings(ctx context.Context, userID string) ([]models.Booking, error)
	BookingStats(ctx context.Context, userID string) (*models.BookingStats, error)
	UpdateStatus(ctx context.Context, id, actorID string, to models.BookingStatus) error
	UpdateNotes(ctx context.Context, id, actorID string, notes string) error
	Receipt(ctx context.Context, id, requesterID string) ([]byte, error)
}

type bookingService struct {
	bookings repositories.BookingRepository
	profiles repositories.ProfileRepository
}

func NewBookingService(bookings repositories.BookingRepository, profiles repositories.ProfileRepository) BookingService {
	return &bookingService{bookings: bookings, profiles: profiles}
}

func (s *bookingService) CreateBooking(ctx context.Context, b *models.Booking) error {
	if strings.TrimSpace(b.ServiceName) == "" {
		return errors.New("service name is required")
	}
	if b.CustomerID == b.TaskerID {
		return errors.New("cannot book yourself")
	}
	tasker, err := s.profiles.GetByID(ctx, b.TaskerID)
	if err != nil {
		return err
	}
	if tasker == nil || !authz.IsTasker(tasker.Role) {
		return errors.New("tasker not found")
	}
	if b.PriceType == "" {
		b.PriceType = models.PriceFixed
	}
	if b.AgreedPrice <= 0 {
		b.AgreedPrice = b.BasePrice
	}
	b.Status = models.BookingPending
	if b.PaymentStatus == "" {
		b.PaymentStatus = "unpaid"
	}
	return s.bookings.Create(ctx, b)
}

func (s *bookingService) GetBooking(ctx context.Context, id, requesterID string) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.CustomerID != requesterID && b.TaskerID != requesterID {
		return nil, ErrNotBookingParty
	}
	return b, nil
}

// ListBookings returns both sides of the user's bookings; the status
// filter is applied after the fetch since the list is small.
func (s *bookingService) ListBookings(ctx context.Context, userID string, status *models.BookingStatus) ([]models.Booking, error) {
	all, err := s.bookings.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return all, nil
	}
	filtered := make([]models.Booking, 0, len(all))
	for _, b := range all {
		if b.Status == *status {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// SearchBookings matches the query against the service name, the
// description and the other party's name, case-insensitively.
func (s *bookingService) SearchBookings(ctx context.Context, userID, query string) ([]models.Booking, error) {
	all, err := s.bookings.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}
	matched := make([]models.Booking, 0, len(all))
	for _, b := range all {
		if bookingMatches(&b, query) {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

func bookingMatches(b *models.Booking, query string) bool {
	if strings.Contains(strings.ToLower(b.ServiceName), query) {
		return true
	}
	if b.ServiceDescription != nil && strings.Contains(strings.ToLower(*b.ServiceDescription), query) {
		return true
	}
	return strings.Contains(strings.ToLower(b.CustomerName), query) ||
		strings.Contains(strings.ToLower(b.TaskerName), query)
}

// UpcomingBookings returns pending and confirmed bookings dated today
// or later, soonest first.
func (s *bookingService) UpcomingBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	all, err := s.bookings.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := time.Now().Truncate(24 * time.Hour)
	upcoming := make([]models.Booking, 0, len(all))
	for _, b := range all {
		if b.Status != models.BookingPending && b.Status != models.BookingConfirmed {
			continue
		}
		if b.BookingDate.Before(today) {
			continue
		}
		upcoming = append(upcoming, b)
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].BookingDate.Before(upcoming[j].BookingDate)
	})
	return upcoming, nil
}

func (s *bookingService) BookingStats(ctx context.Context, userID string) (*models.BookingStats, error) {
	all, err := s.bookings.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := time.Now().Truncate(24 * time.Hour)
	stats := &models.BookingStats{Total: len(all)}
	for _, b := range all {
		switch b.Status {
		case models.BookingCompleted:
			stats.Completed++
			if b.CustomerID == userID {
				stats.TotalSpent += b.AgreedPrice
			} else {
				stats.TotalEarned += b.AgreedPrice
			}
		case models.BookingCancelled:
			stats.Cancelled++
		case models.BookingPending, models.BookingConfirmed:
			if !b.BookingDate.Before(today) {
				stats.Upcoming++
			}
		}
	}
	return stats, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id, actorID string, to models.BookingStatus) error {
	b, err := s.GetBooking(ctx, id, actorID)
	if err != nil {
		return err
	}
	// confirmation is the tasker's move; cancellation open to both
	if to == models.BookingConfirmed && b.TaskerID != actorID {
		return ErrNotBookingParty
	}
	if !canTransitionBooking(b.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, b.Status, to)
	}
	return s.bookings.UpdateStatus(ctx, id, to)
}

func (s *bookingService) UpdateNotes(ctx context.Context, id, actorID string, notes string) error {
	b, err := s.GetBooking(ctx, id, actorID)
	if err != nil {
		return err
	}
	if b.CustomerID == actorID {
		return s.bookings.UpdateNotes(ctx, id, &notes, nil)
	}
	return s.bookings.UpdateNotes(ctx, id, nil, &notes)
}

func (s *bookingService) Receipt(ctx context.Context, id, requesterID string) ([]byte, error) {
	b, err := s.GetBooking(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingCompleted {
		return nil, errors.New("receipt is available for completed bookings only")
	}
	return pdf.BookingReceipt(b)
}
