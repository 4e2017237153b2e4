package domain

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending       BookingStatus = "PENDING"
	BookingNotCalled     BookingStatus = "NOT_CALLED"
	BookingCalledPending BookingStatus = "CALLED_PENDING"
	BookingCallAgain     BookingStatus = "CALL_AGAIN"
	BookingConfirmed     BookingStatus = "CONFIRMED"
	BookingCompleted     BookingStatus = "COMPLETED"
	BookingCancelled     BookingStatus = "CANCELLED"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingNotCalled, BookingCalledPending, BookingCallAgain,
		BookingConfirmed, BookingCompleted, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

type DateRange string

const (
	RangeAll   DateRange = "all"
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
)

func ParseDateRange(s string) (DateRange, bool) {
	if s == "" {
		return RangeAll, true
	}
	switch DateRange(s) {
	case RangeAll, RangeToday, RangeWeek, RangeMonth:
		return DateRange(s), true
	default:
		return "", false
	}
}

// Window returns the inclusive start of the range relative to now, or nil for
// the unbounded "all" range.
func (d DateRange) Window(now time.Time) *time.Time {
	var start time.Time
	switch d {
	case RangeToday:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case RangeWeek:
		start = now.AddDate(0, 0, -7)
	case RangeMonth:
		start = now.AddDate(0, -1, 0)
	default:
		return nil
	}
	return &start
}

type Booking struct {
	ID                int64         `json:"id"`
	Name              string        `json:"name"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone"`
	Service           string        `json:"service"`
	PreferredDateTime time.Time     `json:"preferred_date_time"`
	Message           string        `json:"message"`
	Status            BookingStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
}

type CreateBookingRequest struct {
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Service           string    `json:"service"`
	PreferredDateTime time.Time `json:"preferred_date_time"`
	Message           string    `json:"message"`
}

func (r *CreateBookingRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Service = strings.TrimSpace(r.Service)
}

func (r *CreateBookingRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Phone == "" || r.Service == "" {
		return fmt.Errorf("%w: name, email, phone and service are required", ErrValidation)
	}
	if r.PreferredDateTime.IsZero() {
		return fmt.Errorf("%w: preferred_date_time is required", ErrValidation)
	}
	if len(r.Message) > 1000 {
		return fmt.Errorf("%w: message must be at most 1000 characters", ErrValidation)
	}
	return nil
}
