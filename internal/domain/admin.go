package domain

import (
	"fmt"
	"strings"
	"time"
)

type AdminRole string

const (
	RoleAdmin      AdminRole = "ADMIN"
	RoleSuperAdmin AdminRole = "SUPER_ADMIN"
)

func ParseAdminRole(s string) (AdminRole, bool) {
	switch AdminRole(s) {
	case RoleAdmin, RoleSuperAdmin:
		return AdminRole(s), true
	default:
		return "", false
	}
}

type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	Role         AdminRole `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the acting admin resolved from a verified token at the request
// boundary. Services take it explicitly instead of reading any ambient state.
type Identity struct {
	ID       int64
	Username string
	Role     AdminRole
}

func (i Identity) IsSuperAdmin() bool { return i.Role == RoleSuperAdmin }

func (a *Admin) Identity() Identity {
	return Identity{ID: a.ID, Username: a.Username, Role: a.Role}
}

// AdminInfo is the sanitized projection returned to API callers. The password
// hash never leaves the service layer.
type AdminInfo struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     AdminRole `json:"role"`
	Active   bool      `json:"active"`
}

func (a *Admin) Info() AdminInfo {
	return AdminInfo{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
		Active:   a.Active,
	}
}

type CreateAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (r *CreateAdminRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *CreateAdminRequest) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: valid email is required", ErrValidation)
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Role     AdminRole `json:"role"`
}

type AdminListResponse struct {
	Count  int         `json:"count"`
	Admins []AdminInfo `json:"admins"`
}
