package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"edumatch/pkg/types"
)

type apiError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// respondError maps domain sentinels onto the HTTP error taxonomy. Unknown
// errors become an opaque 500; internals never leak to the caller.
func (s *Service) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrNeedNotFound),
		errors.Is(err, types.ErrDonationNotFound),
		errors.Is(err, types.ErrStoryNotFound),
		errors.Is(err, types.ErrUserNotFound):
		s.respondJSON(w, http.StatusNotFound, apiError{Kind: "not_found", Message: err.Error()})

	case errors.Is(err, types.ErrNeedUnavailable),
		errors.Is(err, types.ErrNeedHasDonations),
		errors.Is(err, types.ErrDonationNotPending),
		errors.Is(err, types.ErrDonationClosed):
		s.respondJSON(w, http.StatusConflict, apiError{Kind: "conflict", Message: err.Error()})

	case errors.Is(err, types.ErrForbidden):
		s.respondJSON(w, http.StatusForbidden, apiError{Kind: "forbidden", Message: err.Error()})

	case errors.Is(err, types.ErrEmailTaken):
		s.respondJSON(w, http.StatusBadRequest, apiError{Kind: "validation", Message: err.Error()})

	default:
		s.logger.WithError(err).Error("internal error")
		s.respondJSON(w, http.StatusInternalServerError, apiError{Kind: "internal", Message: "internal server error"})
	}
}

func (s *Service) respondValidation(w http.ResponseWriter, msg string) {
	s.respondJSON(w, http.StatusBadRequest, apiError{Kind: "validation", Message: msg})
}

func (s *Service) respondForbidden(w http.ResponseWriter, msg string) {
	s.respondJSON(w, http.StatusForbidden, apiError{Kind: "forbidden", Message: msg})
}

func (s *Service) respondUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	s.respondJSON(w, http.StatusUnauthorized, apiError{Kind: "unauthenticated", Message: "missing or invalid credentials"})
}

func (s *Service) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondValidation(w, "malformed request body")
		return false
	}
	return true
}
