package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/homebuddy/homebuddy-api/internal/domain"
)

func bookingPayload() domain.CreateBookingRequest {
	return domain.CreateBookingRequest{
		Name:              "Jamie Doe",
		Email:             "jamie@example.com",
		Phone:             "555-0101",
		Service:           "gutter cleaning",
		PreferredDateTime: time.Now().Add(72 * time.Hour),
		Message:           "second floor only",
	}
}

func TestCreateBookingEndpoint(t *testing.T) {
	env := newTestEnv(t)

	// The customer form needs no token.
	rec := env.do(t, http.MethodPost, "/api/bookings/", "", bookingPayload())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created domain.Booking
	decodeBody(t, rec, &created)
	if created.Status != domain.BookingNotCalled {
		t.Errorf("status = %q, want NOT_CALLED", created.Status)
	}
	if created.ID == 0 {
		t.Error("booking has no id")
	}

	// Missing fields come back as 400.
	bad := bookingPayload()
	bad.Phone = ""
	if rec := env.do(t, http.MethodPost, "/api/bookings/", "", bad); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid payload status = %d, want 400", rec.Code)
	}
}

func TestListBookingsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	super := env.seedSuperAdmin(t)
	token := tokenFor(t, super)

	env.do(t, http.MethodPost, "/api/bookings/", "", bookingPayload())
	env.do(t, http.MethodPost, "/api/bookings/", "", bookingPayload())

	// Listings are staff-only.
	if rec := env.do(t, http.MethodGet, "/api/bookings/", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/bookings/", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var all []domain.Booking
	decodeBody(t, rec, &all)
	if len(all) != 2 {
		t.Errorf("len = %d, want 2", len(all))
	}

	rec = env.do(t, http.MethodGet, "/api/bookings/?dateRange=today&status=NOT_CALLED", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered status = %d, body %s", rec.Code, rec.Body.String())
	}
	var filtered []domain.Booking
	decodeBody(t, rec, &filtered)
	if len(filtered) != 2 {
		t.Errorf("filtered len = %d, want 2", len(filtered))
	}

	if rec := env.do(t, http.MethodGet, "/api/bookings/?dateRange=fortnight", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad dateRange status = %d, want 400", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/bookings/?status=MAYBE", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad status filter status = %d, want 400", rec.Code)
	}
}

func TestGetBookingEndpoint(t *testing.T) {
	env := newTestEnv(t)
	super := env.seedSuperAdmin(t)
	token := tokenFor(t, super)

	env.do(t, http.MethodPost, "/api/bookings/", "", bookingPayload())

	if rec := env.do(t, http.MethodGet, "/api/bookings/1", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/bookings/1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got domain.Booking
	decodeBody(t, rec, &got)
	if got.ID != 1 || got.Name != "Jamie Doe" {
		t.Errorf("booking = %+v", got)
	}

	// Plain GET miss is a 404.
	if rec := env.do(t, http.MethodGet, "/api/bookings/999", token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestUpdateBookingStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)
	super := env.seedSuperAdmin(t)
	token := tokenFor(t, super)

	env.do(t, http.MethodPost, "/api/bookings/", "", bookingPayload())

	if rec := env.do(t, http.MethodPut, "/api/bookings/1/status?status=CONFIRMED", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	rec := env.do(t, http.MethodPut, "/api/bookings/1/status?status=CONFIRMED", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated domain.Booking
	decodeBody(t, rec, &updated)
	if updated.Status != domain.BookingConfirmed {
		t.Errorf("status = %q, want CONFIRMED", updated.Status)
	}

	if rec := env.do(t, http.MethodPut, "/api/bookings/1/status", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing status param status = %d, want 400", rec.Code)
	}
	if rec := env.do(t, http.MethodPut, "/api/bookings/1/status?status=DONE", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status value status = %d, want 400", rec.Code)
	}
	// Unknown id on the mutation path is a 400.
	if rec := env.do(t, http.MethodPut, "/api/bookings/999/status?status=CONFIRMED", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown id status = %d, want 400", rec.Code)
	}
}
