package server

import (
	"net/http"

	"edumatch/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleListStories(w http.ResponseWriter, r *http.Request) {
	var page types.PageParams
	if err := decoder.Decode(&page, r.URL.Query()); err != nil {
		s.respondValidation(w, "invalid query parameters")
		return
	}

	stories, err := s.stories.Stories(r.Context(), page)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, stories)
}

func (s *Service) handleGetStory(w http.ResponseWriter, r *http.Request) {
	storyID := flow.Param(r.Context(), "storyID")

	story, err := s.stories.Story(r.Context(), storyID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, story)
}
