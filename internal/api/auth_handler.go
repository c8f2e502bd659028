package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sweethut/storefront/internal/auth"
)

type AuthHandler struct {
	store *auth.Store
}

func NewAuthHandler(store *auth.Store) *AuthHandler {
	return &AuthHandler{store: store}
}

type CredentialsDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MeResponseDTO struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	if err := h.store.SignIn(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "wrong email or password")
			return
		}
		respondError(w, http.StatusBadGateway, "auth_error", "sign in failed, please try again")
		return
	}

	h.Me(w, r)
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	if err := h.store.SignUp(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusBadRequest, "invalid_credentials", "account could not be created")
			return
		}
		respondError(w, http.StatusBadGateway, "auth_error", "sign up failed, please try again")
		return
	}

	h.Me(w, r)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SignOut(r.Context()); err != nil {
		respondError(w, http.StatusBadGateway, "auth_error", "sign out failed, please try again")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.store.CurrentUser()
	if !ok {
		respondError(w, http.StatusUnauthorized, "no_session", "not signed in")
		return
	}

	respondJSON(w, http.StatusOK, MeResponseDTO{
		ID:      user.ID,
		Email:   user.Email,
		IsAdmin: h.store.IsAdmin(),
	})
}
