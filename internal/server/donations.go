package server

import (
	"net/http"

	"edumatch/internal/utils"
	"edumatch/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	if actor.Role != types.RoleCompany {
		s.respondForbidden(w, "only companies can create donations")
		return
	}

	var req types.DonationCreate
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		s.respondValidation(w, err.Error())
		return
	}

	donation := &types.Donation{
		NeedID:       req.NeedID,
		CompanyID:    actor.ID,
		DonationType: req.DonationType,
		Description:  req.Description,
	}

	// The claim either commits with the donation or fails whole; a lost race
	// surfaces as a conflict, which the caller should treat as final.
	if err := s.donations.ProposeDonation(r.Context(), donation); err != nil {
		s.respondError(w, err)
		return
	}

	extra := string(utils.MustMarshalJSON(map[string]string{
		"donation_id": donation.ID,
		"need_id":     donation.NeedID,
	}))
	s.recordActivity(r.Context(), actor.ID, types.ActivityDonationCreated, "committed a donation", &extra)

	s.respondJSON(w, http.StatusCreated, donation)
}

func (s *Service) handleMyDonations(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	if actor.Role != types.RoleCompany {
		s.respondForbidden(w, "only companies can view their donations")
		return
	}

	var page types.PageParams
	if err := decoder.Decode(&page, r.URL.Query()); err != nil {
		s.respondValidation(w, "invalid query parameters")
		return
	}

	donations, err := s.donations.DonationsByCompany(r.Context(), actor.ID, page)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, donations)
}

// handleApproveDonation lets the school that owns the claimed need accept a
// pending donation.
func (s *Service) handleApproveDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	donationID := flow.Param(r.Context(), "donationID")

	donation, err := s.donations.Donation(r.Context(), donationID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	need, err := s.needs.Need(r.Context(), donation.NeedID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if need.SchoolID != actor.ID {
		s.respondForbidden(w, "not enough permissions to approve this donation")
		return
	}

	approved, err := s.donations.ApproveDonation(r.Context(), donationID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	extra := string(utils.MustMarshalJSON(map[string]string{"donation_id": donationID}))
	s.recordActivity(r.Context(), actor.ID, types.ActivityDonationApproved, "approved a donation", &extra)

	s.respondJSON(w, http.StatusOK, approved)
}

// handleCompleteDonation lets the donating company record completion, which
// also closes out the need.
func (s *Service) handleCompleteDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorFromContext(r.Context())
	if !ok {
		s.respondUnauthenticated(w)
		return
	}

	donationID := flow.Param(r.Context(), "donationID")

	donation, err := s.donations.Donation(r.Context(), donationID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if donation.CompanyID != actor.ID {
		s.respondForbidden(w, "not enough permissions to complete this donation")
		return
	}

	completed, err := s.donations.CompleteDonation(r.Context(), donationID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	extra := string(utils.MustMarshalJSON(map[string]string{
		"donation_id": donationID,
		"need_id":     completed.NeedID,
	}))
	s.recordActivity(r.Context(), actor.ID, types.ActivityDonationCompleted, "completed a donation", &extra)

	s.respondJSON(w, http.StatusOK, completed)
}
