package http

import (
	"errors"
	"net/http"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/session"
)

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponseDTO never carries the token, the UI only needs to know who is signed in.
type SessionResponseDTO struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
	// CheckoutActive is set when a checkout flow was begun and can be resumed.
	CheckoutActive bool `json:"checkoutActive"`
}

func sessionResponse(s *domain.Session) SessionResponseDTO {
	if s == nil {
		return SessionResponseDTO{}
	}
	u := s.User
	return SessionResponseDTO{Authenticated: true, User: &u}
}

// GET /api/v1/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	res := sessionResponse(c.Session.Current())
	res.CheckoutActive = res.Authenticated && c.Checkout.Active()
	respondJSON(w, r, http.StatusOK, res)
}

// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	c := clientFrom(r.Context())

	var req LoginRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	s, err := c.Session.Login(ctx, req.Email, req.Password)
	if err != nil {
		authError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, sessionResponse(s))
}

// POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	c := clientFrom(r.Context())

	var req domain.Registration
	if !decodeJSON(w, r, &req) {
		return
	}
	s, err := c.Session.Register(ctx, req)
	if err != nil {
		authError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, sessionResponse(s))
}

// POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	if err := c.Session.Logout(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/v1/seller/profile
func (h *Handler) CompleteSellerProfile(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	if c.Session.Current() == nil {
		loginRedirect(w, r, session.PathSellerRegistration)
		return
	}
	var req domain.SellerProfile
	if !decodeJSON(w, r, &req) {
		return
	}
	s, err := c.Session.CompleteSellerProfile(r.Context(), req)
	if errors.Is(err, domain.ErrUnauthenticated) {
		loginRedirect(w, r, session.PathSellerRegistration)
		return
	}
	if err != nil {
		authError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, sessionResponse(s))
}

// GET /api/v1/navigate?to=/checkout
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	to := r.URL.Query().Get("to")
	if to == "" {
		respondError(w, r, http.StatusBadRequest, "invalid_destination", "to is required")
		return
	}
	respondJSON(w, r, http.StatusOK, session.Navigate(c.Session.Current(), to))
}

func authError(w http.ResponseWriter, r *http.Request, err error) {
	var ferr *session.FormError
	switch {
	case errors.As(err, &ferr):
		respondFields(w, r, "validation_failed", err.Error(), ferr.Fields)
	case errors.Is(err, session.ErrInvalidCredentials):
		respondError(w, r, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, session.ErrEmailTaken):
		respondError(w, r, http.StatusConflict, "email_taken", err.Error())
	default:
		handleError(w, r, err)
	}
}
