package http

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

type AuthService interface {
	Login(ctx context.Context, cmd interfaces.LoginCommand) (interfaces.AuthResult, error)
	Register(ctx context.Context, cmd interfaces.RegisterCommand) (interfaces.AuthResult, error)
	Profile(ctx context.Context) (domain.User, error)
	UpdateProfile(ctx context.Context, cmd interfaces.UpdateProfileCommand) (domain.User, error)
}

type AuthHandler struct {
	service AuthService
	logger  logger.Logger
}

func NewAuthHandler(service AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/register", h.SignUp)
	mux.HandleFunc("GET /api/auth/profile", h.Profile)
	mux.HandleFunc("PUT /api/auth/profile", h.UpdateProfile)
}

func validateEmail(email string, errs []ValidationError) []ValidationError {
	if email == "" {
		return append(errs, ValidationError{Field: "email", Message: "email is required"})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return append(errs, ValidationError{Field: "email", Message: "email is invalid"})
	}
	return errs
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd interfaces.LoginCommand
	if err := decodeJSON(r, &cmd); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	cmd.Email = strings.TrimSpace(cmd.Email)

	errs := validateEmail(cmd.Email, nil)
	if cmd.Password == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "password is required"})
	}
	if len(errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errs)
		return
	}

	result, err := h.service.Login(r.Context(), cmd)
	if err != nil {
		respondServiceError(w, r, h.logger, "login_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "Login successful", result)
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var cmd interfaces.RegisterCommand
	if err := decodeJSON(r, &cmd); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = strings.TrimSpace(cmd.Email)
	cmd.Phone = strings.TrimSpace(cmd.Phone)

	var errs []ValidationError
	if cmd.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}
	errs = validateEmail(cmd.Email, errs)
	if cmd.Phone == "" {
		errs = append(errs, ValidationError{Field: "phone", Message: "phone is required"})
	}
	if len(cmd.Password) < 6 {
		errs = append(errs, ValidationError{Field: "password", Message: "password must be at least 6 characters"})
	}
	if len(errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errs)
		return
	}

	result, err := h.service.Register(r.Context(), cmd)
	if err != nil {
		respondServiceError(w, r, h.logger, "register_failed", err)
		return
	}
	respondOK(w, http.StatusCreated, "Registration successful", result)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Profile(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, "profile_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "", user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var cmd interfaces.UpdateProfileCommand
	if err := decodeJSON(r, &cmd); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if cmd.NewPassword != "" && cmd.CurrentPassword == "" {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field:   "currentPassword",
			Message: "current password is required to set a new one",
		}})
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), cmd)
	if err != nil {
		respondServiceError(w, r, h.logger, "profile_update_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "Profile updated", user)
}
