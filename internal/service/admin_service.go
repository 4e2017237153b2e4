package service

import (
	"context"
	"fmt"
	"time"

	"github.com/homebuddy/homebuddy-api/internal/domain"
	"github.com/homebuddy/homebuddy-api/internal/platform/auth"
	"github.com/homebuddy/homebuddy-api/internal/repo/postgres"
	"github.com/homebuddy/homebuddy-api/pkg/config"
	"github.com/homebuddy/homebuddy-api/pkg/events"
	"github.com/homebuddy/homebuddy-api/pkg/logger"
)

// AdminService is the admin directory plus the authentication gate. Every
// mutating operation takes the acting identity resolved from the verified
// session token; caller-supplied roles are never trusted.
type AdminService interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	BootstrapSuperAdmin(ctx context.Context, req *domain.CreateAdminRequest) (*domain.Admin, error)
	CreateAdmin(ctx context.Context, acting domain.Identity, req *domain.CreateAdminRequest) (*domain.Admin, error)
	ActivateAdmin(ctx context.Context, acting domain.Identity, id int64) (*domain.Admin, error)
	DeactivateAdmin(ctx context.Context, acting domain.Identity, id int64) (*domain.Admin, error)
	UpdatePassword(ctx context.Context, acting domain.Identity, id int64, newPassword string) error
	ListAdmins(ctx context.Context) ([]domain.AdminInfo, error)
	EnsureSeedSuperAdmin(ctx context.Context) error
}

type adminService struct {
	repo     postgres.AdminRepo
	hasher   auth.PasswordHasher
	eventBus events.Publisher
	config   *config.Config
}

func NewAdminService(repo postgres.AdminRepo, hasher auth.PasswordHasher, eventBus events.Publisher, config *config.Config) AdminService {
	return &adminService{
		repo:     repo,
		hasher:   hasher,
		eventBus: eventBus,
		config:   config,
	}
}

func (s *adminService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, domain.ErrMissingCredentials
	}

	admin, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if admin == nil {
		// Same external error as a bad password so usernames can't be probed.
		logger.InfoContext(ctx, "login failed: unknown username", "username", req.Username)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Matches(req.Password, admin.PasswordHash) {
		logger.InfoContext(ctx, "login failed: wrong password", "username", req.Username)
		return nil, domain.ErrInvalidCredentials
	}

	if !admin.Active {
		logger.InfoContext(ctx, "login failed: account disabled", "username", req.Username)
		return nil, domain.ErrAccountDisabled
	}

	token, err := auth.NewAccessToken(admin.ID, admin.Username, string(admin.Role),
		s.config.Auth.JWTSecret, s.config.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &domain.LoginResponse{
		Token:    token,
		Username: admin.Username,
		Role:     admin.Role,
	}, nil
}

// BootstrapSuperAdmin creates the very first admin. Once any admin row
// exists this path is closed for good.
func (s *adminService) BootstrapSuperAdmin(ctx context.Context, req *domain.CreateAdminRequest) (*domain.Admin, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil, domain.ErrAlreadyInitialized
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hashIfNeeded(req.Password)
	if err != nil {
		return nil, err
	}

	admin, err := s.repo.Create(ctx, req.Username, hash, req.Email, domain.RoleSuperAdmin, true)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "super admin created", "username", admin.Username, "admin_id", admin.ID)
	s.publishAdminCreated(ctx, admin, "bootstrap")
	return admin, nil
}

func (s *adminService) CreateAdmin(ctx context.Context, acting domain.Identity, req *domain.CreateAdminRequest) (*domain.Admin, error) {
	if !acting.IsSuperAdmin() {
		logger.WarnContext(ctx, "admin creation denied", "acting", acting.Username)
		return nil, domain.ErrUnauthorized
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByUsername(ctx, req.Username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if existing != nil {
		return nil, domain.ErrDuplicateUsername
	}
	if existing, err := s.repo.FindByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := s.hashIfNeeded(req.Password)
	if err != nil {
		return nil, err
	}

	// New admins start inactive; a super admin activates them explicitly.
	admin, err := s.repo.Create(ctx, req.Username, hash, req.Email, domain.RoleAdmin, false)
	if err != nil {
		// The unique constraints are the real race guard; the lookups above
		// only give friendlier errors on the common path.
		return nil, err
	}

	logger.InfoContext(ctx, "admin created", "username", admin.Username, "created_by", acting.Username)
	s.publishAdminCreated(ctx, admin, acting.Username)
	return admin, nil
}

func (s *adminService) ActivateAdmin(ctx context.Context, acting domain.Identity, id int64) (*domain.Admin, error) {
	return s.setActive(ctx, acting, id, true)
}

func (s *adminService) DeactivateAdmin(ctx context.Context, acting domain.Identity, id int64) (*domain.Admin, error) {
	return s.setActive(ctx, acting, id, false)
}

func (s *adminService) setActive(ctx context.Context, acting domain.Identity, id int64, active bool) (*domain.Admin, error) {
	if !acting.IsSuperAdmin() {
		return nil, domain.ErrUnauthorized
	}
	admin, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}
	if admin == nil {
		return nil, domain.ErrNotFound
	}
	logger.InfoContext(ctx, "admin active flag updated",
		"username", admin.Username, "active", active, "acting", acting.Username)
	return admin, nil
}

// UpdatePassword always re-hashes the supplied plaintext; a caller-provided
// hash is not trusted on this path.
func (s *adminService) UpdatePassword(ctx context.Context, acting domain.Identity, id int64, newPassword string) error {
	if !acting.IsSuperAdmin() {
		return domain.ErrUnauthorized
	}
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin, err := s.repo.UpdatePassword(ctx, id, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if admin == nil {
		return domain.ErrNotFound
	}
	logger.InfoContext(ctx, "admin password updated", "username", admin.Username, "acting", acting.Username)
	return nil
}

func (s *adminService) ListAdmins(ctx context.Context) ([]domain.AdminInfo, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	infos := make([]domain.AdminInfo, 0, len(admins))
	for i := range admins {
		infos = append(infos, admins[i].Info())
	}
	return infos, nil
}

// EnsureSeedSuperAdmin runs at startup: when no admin exists yet, the
// configured seed super admin is created so the dashboard is reachable on
// first boot.
func (s *adminService) EnsureSeedSuperAdmin(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		logger.InfoContext(ctx, "admin accounts already exist, skipping seed", "count", count)
		return nil
	}

	admin, err := s.BootstrapSuperAdmin(ctx, &domain.CreateAdminRequest{
		Username: s.config.Seed.Username,
		Password: s.config.Seed.Password,
		Email:    s.config.Seed.Email,
	})
	if err != nil {
		return fmt.Errorf("failed to seed super admin: %w", err)
	}
	logger.InfoContext(ctx, "seed super admin created", "username", admin.Username, "admin_id", admin.ID)
	return nil
}

func (s *adminService) hashIfNeeded(password string) (string, error) {
	if s.hasher.LooksHashed(password) {
		return password, nil
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (s *adminService) publishAdminCreated(ctx context.Context, admin *domain.Admin, createdBy string) {
	err := s.eventBus.Publish(ctx, events.AdminCreated, events.AdminCreatedEvent{
		AdminID:   admin.ID,
		Username:  admin.Username,
		Role:      string(admin.Role),
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logger.WarnContext(ctx, "failed to publish admin.created", "error", err)
	}
}
