// File: internal/handlers/auth_handlers.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iyunix/go-saber/internal/dtos"
	"github.com/iyunix/go-saber/internal/middleware"
	"github.com/iyunix/go-saber/internal/services/user_services"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	AuthService *user_services.AuthService
	logger      Logger
}

func NewAuthHandler(service *user_services.AuthService, logger Logger) *AuthHandler {
	return &AuthHandler{AuthService: service, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if errs := dtos.Validate(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	u, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, user_services.ErrEmailTaken):
		writeError(w, "This email is already registered.", http.StatusConflict)
		return
	case errors.Is(err, user_services.ErrInvalidInput):
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.RegisterResponseDTO{
		Message: "User registered successfully.",
		User:    dtos.ToUserResponse(u),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if errs := dtos.Validate(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	u, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user_services.ErrInvalidCredentials) {
			writeError(w, "Invalid credentials.", http.StatusUnauthorized)
			return
		}
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.LoginResponseDTO{
		Message: "Login successful.",
		Token:   token,
		User:    dtos.ToUserResponse(u),
	})
}

// VerifyToken echoes the identity of a valid token.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, "Access token required.", http.StatusUnauthorized)
		return
	}
	name := claims.Name
	if name == "" {
		name = "User"
	}
	writeJSON(w, http.StatusOK, dtos.UserResponseDTO{ID: claims.UserID, Name: name, Email: claims.Email})
}
