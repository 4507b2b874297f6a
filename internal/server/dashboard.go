package server

import (
	"net/http"

	"edumatch/pkg/types"
)

func (s *Service) handleSchoolDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	if actor.Role != types.RoleSchool {
		s.respondForbidden(w, "only school users can access the school dashboard")
		return
	}

	stats, err := s.dashboard.SchoolStats(r.Context(), actor.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Service) handleCompanyDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	if actor.Role != types.RoleCompany {
		s.respondForbidden(w, "only company users can access the company dashboard")
		return
	}

	stats, err := s.dashboard.CompanyStats(r.Context(), actor.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, stats)
}
