package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/homebuddy/homebuddy-api/internal/domain"
	"github.com/homebuddy/homebuddy-api/internal/http/handlers"
	"github.com/homebuddy/homebuddy-api/internal/http/middleware"
	"github.com/homebuddy/homebuddy-api/internal/platform/auth"
	"github.com/homebuddy/homebuddy-api/internal/platform/mailer"
	"github.com/homebuddy/homebuddy-api/internal/service"
	"github.com/homebuddy/homebuddy-api/pkg/config"
	"github.com/homebuddy/homebuddy-api/pkg/events"
)

const testSecret = "handler-test-secret"

// In-memory repositories backing the full handler stack.

type fakeAdminRepo struct {
	nextID int64
	admins map[int64]*domain.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{nextID: 1, admins: make(map[int64]*domain.Admin)}
}

func (f *fakeAdminRepo) Create(_ context.Context, username, passwordHash, email string, role domain.AdminRole, active bool) (*domain.Admin, error) {
	for _, a := range f.admins {
		if a.Username == username {
			return nil, domain.ErrDuplicateUsername
		}
		if a.Email == email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	id := f.nextID
	f.nextID++
	a := &domain.Admin{
		ID: id, Username: username, PasswordHash: passwordHash, Email: email,
		Role: role, Active: active, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	f.admins[id] = a
	out := *a
	return &out, nil
}

func (f *fakeAdminRepo) FindByUsername(_ context.Context, username string) (*domain.Admin, error) {
	for _, a := range f.admins {
		if a.Username == username {
			out := *a
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeAdminRepo) FindByID(_ context.Context, id int64) (*domain.Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (f *fakeAdminRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.admins)), nil
}

func (f *fakeAdminRepo) SetActive(_ context.Context, id int64, active bool) (*domain.Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, nil
	}
	a.Active = active
	out := *a
	return &out, nil
}

func (f *fakeAdminRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) (*domain.Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, nil
	}
	a.PasswordHash = passwordHash
	out := *a
	return &out, nil
}

func (f *fakeAdminRepo) List(_ context.Context) ([]domain.Admin, error) {
	out := make([]domain.Admin, 0, len(f.admins))
	for id := int64(1); id < f.nextID; id++ {
		if a, ok := f.admins[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	nextID int64
	rows   map[int64]*domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1, rows: make(map[int64]*domain.Booking)}
}

func (f *fakeBookingRepo) Create(_ context.Context, req *domain.CreateBookingRequest, status domain.BookingStatus) (*domain.Booking, error) {
	id := f.nextID
	f.nextID++
	b := &domain.Booking{
		ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone,
		Service: req.Service, PreferredDateTime: req.PreferredDateTime,
		Message: req.Message, Status: status, CreatedAt: time.Now(),
	}
	f.rows[id] = b
	out := *b
	return &out, nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	out := *b
	return &out, nil
}

func (f *fakeBookingRepo) List(_ context.Context, status *domain.BookingStatus, since *time.Time) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(f.rows))
	for id := int64(1); id < f.nextID; id++ {
		b, ok := f.rows[id]
		if !ok {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		if since != nil && b.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	b, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	b.Status = status
	out := *b
	return &out, nil
}

type fakeMessageRepo struct {
	nextID int64
	rows   map[int64]*domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1, rows: make(map[int64]*domain.Message)}
}

func (f *fakeMessageRepo) Create(_ context.Context, req *domain.CreateMessageRequest) (*domain.Message, error) {
	id := f.nextID
	f.nextID++
	m := &domain.Message{
		ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone,
		Message: req.Message, CreatedAt: time.Now(),
	}
	f.rows[id] = m
	out := *m
	return &out, nil
}

func (f *fakeMessageRepo) FindByID(_ context.Context, id int64) (*domain.Message, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	out := *m
	return &out, nil
}

func (f *fakeMessageRepo) List(_ context.Context) ([]domain.Message, error) {
	out := make([]domain.Message, 0, len(f.rows))
	for id := f.nextID - 1; id >= 1; id-- {
		if m, ok := f.rows[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkRead(_ context.Context, id int64) (*domain.Message, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	m.Read = true
	out := *m
	return &out, nil
}

// testEnv wires the real services and router over the fakes, mirroring the
// route layout the server uses.
type testEnv struct {
	router   chi.Router
	admins   service.AdminService
	bookings *fakeBookingRepo
	messages *fakeMessageRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Auth: config.AuthConfig{JWTSecret: testSecret, AccessTokenTTL: time.Hour},
		Seed: config.SeedConfig{Username: "lokesh", Password: "dhagratwar6893", Email: "home.buddy6893@gmail.com"},
	}
	bus := events.NewNoopEventBus()
	mail := mailer.NewDevMailer()
	hasher := &auth.BcryptHasher{Cost: bcrypt.MinCost}

	adminRepo := newFakeAdminRepo()
	bookingRepo := newFakeBookingRepo()
	messageRepo := newFakeMessageRepo()

	adminSvc := service.NewAdminService(adminRepo, hasher, bus, cfg)
	bookingSvc := service.NewBookingService(bookingRepo, bus, mail)
	messageSvc := service.NewMessageService(messageRepo, bus, mail, "staff@homebuddy.test")

	authHandler := handlers.NewAuthHandler(adminSvc)
	bookingHandler := handlers.NewBookingHandler(bookingSvc)
	messageHandler := handlers.NewMessageHandler(messageSvc)

	requireJWT := middleware.RequireJWT(testSecret)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Get("/check-admins", authHandler.CheckAdmins)
			r.Post("/register/super-admin", authHandler.RegisterSuperAdmin)
			r.Group(func(r chi.Router) {
				r.Use(requireJWT)
				r.Post("/register/admin", authHandler.RegisterAdmin)
				r.Post("/activate/{id}", authHandler.Activate)
				r.Post("/deactivate/{id}", authHandler.Deactivate)
				r.Post("/update-password/{id}", authHandler.UpdatePassword)
			})
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", bookingHandler.Create)
			r.Group(func(r chi.Router) {
				r.Use(requireJWT)
				r.Get("/", bookingHandler.List)
				r.Get("/{id}", bookingHandler.GetByID)
				r.Put("/{id}/status", bookingHandler.UpdateStatus)
			})
		})
		r.Route("/messages", func(r chi.Router) {
			r.Post("/", messageHandler.Create)
			r.Group(func(r chi.Router) {
				r.Use(requireJWT)
				r.Get("/", messageHandler.List)
				r.Get("/{id}", messageHandler.GetByID)
				r.Put("/{id}/read", messageHandler.MarkRead)
			})
		})
	})

	return &testEnv{router: r, admins: adminSvc, bookings: bookingRepo, messages: messageRepo}
}

// seedSuperAdmin creates the first (super) admin and returns it.
func (e *testEnv) seedSuperAdmin(t *testing.T) *domain.Admin {
	t.Helper()
	admin, err := e.admins.BootstrapSuperAdmin(context.Background(), &domain.CreateAdminRequest{
		Username: "lokesh",
		Password: "dhagratwar6893",
		Email:    "home.buddy6893@gmail.com",
	})
	if err != nil {
		t.Fatalf("seed super admin: %v", err)
	}
	return admin
}

func tokenFor(t *testing.T, admin *domain.Admin) string {
	t.Helper()
	token, err := auth.NewAccessToken(admin.ID, admin.Username, string(admin.Role), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

// do runs a request through the router. body is JSON-encoded when non-nil;
// token, when set, goes into the Authorization header.
func (e *testEnv) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
