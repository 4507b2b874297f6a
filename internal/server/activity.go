package server

import (
	"net/http"

	"edumatch/pkg/types"
)

func (s *Service) handleMyActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	var params types.ActivityParams
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		s.respondValidation(w, "invalid query parameters")
		return
	}

	entries, err := s.activity.ByUser(r.Context(), actor.ID, params.Limit)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, entries)
}

func (s *Service) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	var params types.ActivityParams
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		s.respondValidation(w, "invalid query parameters")
		return
	}

	entries, err := s.activity.Recent(r.Context(), params.Limit)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, entries)
}
