package handlers

import (
	"net/http"

	"calmpath/internal/service"
)

// AuthHandler handles caregiver registration and login
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a caregiver account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caregiver, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password, req.Name)
	if err != nil {
		respondWithServiceError(w, "Error registering caregiver", err)
		return
	}
	respondJSON(w, http.StatusCreated, caregiver)
}

// Login exchanges a username (or email) and password for a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, "Error logging in", err)
		return
	}
	respondJSON(w, http.StatusOK, token)
}

// Me returns the authenticated caregiver
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caregiver := GetCaregiverFromContext(r.Context())
	if caregiver == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}
	respondJSON(w, http.StatusOK, caregiver)
}
