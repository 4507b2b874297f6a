package server

import (
	"net/http"
	"time"

	"edumatch/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		s.respondValidation(w, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash password")
		s.respondError(w, err)
		return
	}

	user := &types.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}

	if err := s.users.CreateUser(r.Context(), user); err != nil {
		s.respondError(w, err)
		return
	}

	s.recordActivity(r.Context(), user.ID, types.ActivityUserRegister, "registered as "+string(user.Role), nil)

	s.respondJSON(w, http.StatusCreated, user)
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if err == types.ErrUserNotFound {
			// Same response as a bad password; don't reveal which one it was.
			s.respondUnauthenticated(w)
			return
		}
		s.respondError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.respondUnauthenticated(w)
		return
	}

	token, expires, err := s.issueToken(user)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue token")
		s.respondError(w, err)
		return
	}

	s.recordActivity(r.Context(), user.ID, types.ActivityUserLogin, "logged in", nil)

	s.respondJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expires,
	})
}

func (s *Service) handleGetMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	user, err := s.users.User(r.Context(), actor.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, user)
}
