package service

import (
	"context"
	"fmt"
	"time"

	"github.com/homebuddy/homebuddy-api/internal/domain"
	"github.com/homebuddy/homebuddy-api/internal/platform/mailer"
	"github.com/homebuddy/homebuddy-api/internal/repo/postgres"
	"github.com/homebuddy/homebuddy-api/pkg/events"
	"github.com/homebuddy/homebuddy-api/pkg/logger"
)

type BookingService interface {
	CreateBooking(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error)
	ListBookings(ctx context.Context, dateRange, status string) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) (*domain.Booking, error)
}

type bookingService struct {
	repo     postgres.BookingRepo
	eventBus events.Publisher
	mailer   mailer.Service
}

func NewBookingService(repo postgres.BookingRepo, eventBus events.Publisher, mailer mailer.Service) BookingService {
	return &bookingService{
		repo:     repo,
		eventBus: eventBus,
		mailer:   mailer,
	}
}

// CreateBooking persists an inbound customer request. The status is always
// NOT_CALLED regardless of what the payload claims.
func (s *bookingService) CreateBooking(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	booking, err := s.repo.Create(ctx, req, domain.BookingNotCalled)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := s.eventBus.Publish(ctx, events.BookingCreated, events.BookingCreatedEvent{
		BookingID:         booking.ID,
		Name:              booking.Name,
		Email:             booking.Email,
		Service:           booking.Service,
		PreferredDateTime: booking.PreferredDateTime,
		CreatedAt:         booking.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "failed to publish booking.created", "error", err)
	}

	// Acknowledgment mail is best-effort; the booking stands either way.
	if err := s.mailer.SendBookingReceived(booking.Email, booking.Name, booking.Service); err != nil {
		logger.WarnContext(ctx, "failed to send booking acknowledgment", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, dateRange, status string) ([]domain.Booking, error) {
	rng, ok := domain.ParseDateRange(dateRange)
	if !ok {
		return nil, fmt.Errorf("%w: dateRange must be one of all, today, week, month", domain.ErrValidation)
	}

	var st *domain.BookingStatus
	if status != "" && status != "all" {
		parsed, ok := domain.ParseBookingStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, status)
		}
		st = &parsed
	}

	bookings, err := s.repo.List(ctx, st, rng.Window(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	return booking, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, id int64, status string) (*domain.Booking, error) {
	parsed, ok := domain.ParseBookingStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, status)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	updated, err := s.repo.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.eventBus.Publish(ctx, events.BookingStatusChanged, events.BookingStatusChangedEvent{
		BookingID: updated.ID,
		OldStatus: string(current.Status),
		NewStatus: string(updated.Status),
		ChangedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "failed to publish booking.status_changed", "error", err)
	}

	return updated, nil
}
