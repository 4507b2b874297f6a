package server

import (
	"net/http"

	"edumatch/internal/utils"
	"edumatch/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleCreateNeed(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	if actor.Role != types.RoleSchool {
		s.respondForbidden(w, "only schools can create needs")
		return
	}

	var req types.NeedCreate
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		s.respondValidation(w, err.Error())
		return
	}

	need := &types.Need{
		SchoolID:     actor.ID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		StudentCount: req.StudentCount,
		ImageURL:     req.ImageURL,
		Urgency:      req.Urgency,
		SDGs:         req.SDGs,
	}

	if err := s.needs.CreateNeed(r.Context(), need); err != nil {
		s.respondError(w, err)
		return
	}

	extra := string(utils.MustMarshalJSON(map[string]string{"need_id": need.ID}))
	s.recordActivity(r.Context(), actor.ID, types.ActivityNeedCreated, "created need: "+need.Title, &extra)

	s.respondJSON(w, http.StatusCreated, need)
}

func (s *Service) handleListNeeds(w http.ResponseWriter, r *http.Request) {
	var params types.NeedListParams
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		s.respondValidation(w, "invalid query parameters")
		return
	}

	needs, err := s.needs.Needs(r.Context(), params)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, needs)
}

func (s *Service) handleMyNeeds(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	if actor.Role != types.RoleSchool {
		s.respondForbidden(w, "only schools can view their needs")
		return
	}

	var page types.PageParams
	if err := decoder.Decode(&page, r.URL.Query()); err != nil {
		s.respondValidation(w, "invalid query parameters")
		return
	}

	needs, err := s.needs.NeedsBySchool(r.Context(), actor.ID, page)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, needs)
}

func (s *Service) handleGetNeed(w http.ResponseWriter, r *http.Request) {
	needID := flow.Param(r.Context(), "needID")

	need, err := s.needs.Need(r.Context(), needID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, need)
}

func (s *Service) handleUpdateNeed(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	needID := flow.Param(r.Context(), "needID")

	need, err := s.needs.Need(r.Context(), needID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if need.SchoolID != actor.ID {
		s.respondForbidden(w, "not enough permissions to update this need")
		return
	}

	var req types.NeedUpdate
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		s.respondValidation(w, err.Error())
		return
	}

	updated, err := s.needs.UpdateNeed(r.Context(), needID, &req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	extra := string(utils.MustMarshalJSON(map[string]string{"need_id": needID}))
	s.recordActivity(r.Context(), actor.ID, types.ActivityNeedUpdated, "updated need: "+updated.Title, &extra)

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Service) handleDeleteNeed(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	needID := flow.Param(r.Context(), "needID")

	need, err := s.needs.Need(r.Context(), needID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if need.SchoolID != actor.ID {
		s.respondForbidden(w, "not enough permissions to delete this need")
		return
	}

	if err := s.needs.DeleteNeed(r.Context(), needID); err != nil {
		s.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
