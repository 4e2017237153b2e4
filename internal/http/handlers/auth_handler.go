package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/homebuddy/homebuddy-api/internal/domain"
	"github.com/homebuddy/homebuddy-api/internal/http/middleware"
	"github.com/homebuddy/homebuddy-api/internal/http/response"
	"github.com/homebuddy/homebuddy-api/internal/service"
	"github.com/homebuddy/homebuddy-api/pkg/logger"
)

type AuthHandler struct {
	Admins service.AdminService
}

func NewAuthHandler(admins service.AdminService) *AuthHandler {
	return &AuthHandler{Admins: admins}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	out, err := h.Admins.Login(r.Context(), &in)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusOK, out)
	case errors.Is(err, domain.ErrMissingCredentials):
		response.BadRequest(w, "Username and password are required")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid username or password")
	case errors.Is(err, domain.ErrAccountDisabled):
		response.Forbidden(w, "Account is not active. Please contact the administrator.")
	default:
		logger.ErrorContext(r.Context(), "login error", "error", err)
		response.InternalError(w, "An error occurred during login. Please try again later.")
	}
}

func (h *AuthHandler) CheckAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Admins.ListAdmins(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list admins", "error", err)
		response.InternalError(w, "Error checking admin accounts")
		return
	}
	response.WriteJSON(w, http.StatusOK, domain.AdminListResponse{
		Count:  len(admins),
		Admins: admins,
	})
}

// RegisterSuperAdmin is the bootstrap path; it only ever succeeds once.
func (h *AuthHandler) RegisterSuperAdmin(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	admin, err := h.Admins.BootstrapSuperAdmin(r.Context(), &in)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusCreated, admin.Info())
	case errors.Is(err, domain.ErrAlreadyInitialized):
		response.BadRequest(w, "Super admin already exists")
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	default:
		logger.ErrorContext(r.Context(), "failed to create super admin", "error", err)
		response.InternalError(w, "Failed to create super admin")
	}
}

func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	acting, ok := middleware.Identity(r)
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var in domain.CreateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	admin, err := h.Admins.CreateAdmin(r.Context(), acting, &in)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusCreated, admin.Info())
	case errors.Is(err, domain.ErrUnauthorized):
		response.Forbidden(w, "Only super admin can create new admins")
	case errors.Is(err, domain.ErrDuplicateUsername):
		response.BadRequest(w, "Username already exists")
	case errors.Is(err, domain.ErrDuplicateEmail):
		response.BadRequest(w, "Email already exists")
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	default:
		logger.ErrorContext(r.Context(), "failed to create admin", "error", err)
		response.InternalError(w, "Failed to create admin")
	}
}

func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *AuthHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *AuthHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	acting, ok := middleware.Identity(r)
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid admin id")
		return
	}

	var admin *domain.Admin
	if active {
		admin, err = h.Admins.ActivateAdmin(r.Context(), acting, id)
	} else {
		admin, err = h.Admins.DeactivateAdmin(r.Context(), acting, id)
	}
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusOK, admin.Info())
	case errors.Is(err, domain.ErrUnauthorized):
		response.Forbidden(w, "Only super admin can manage admin accounts")
	case errors.Is(err, domain.ErrNotFound):
		// Surfaced as bad request on mutation paths.
		response.BadRequest(w, "Admin not found")
	default:
		logger.ErrorContext(r.Context(), "failed to update admin", "error", err, "admin_id", id)
		response.InternalError(w, "Failed to update admin")
	}
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	acting, ok := middleware.Identity(r)
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid admin id")
		return
	}

	var in struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	err = h.Admins.UpdatePassword(r.Context(), acting, id, in.Password)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	case errors.Is(err, domain.ErrUnauthorized):
		response.Forbidden(w, "Only super admin can update passwords")
	case errors.Is(err, domain.ErrNotFound):
		response.BadRequest(w, "Admin not found")
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	default:
		logger.ErrorContext(r.Context(), "failed to update password", "error", err, "admin_id", id)
		response.InternalError(w, "Failed to update password")
	}
}
