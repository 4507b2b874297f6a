package server

import (
	"net/http"
	"testing"

	"edumatch/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchoolDashboard(t *testing.T) {
	s, ms := newTestService(t)
	school := seedUser(t, ms, "school@example.com", types.RoleSchool)
	other := seedUser(t, ms, "other@example.com", types.RoleSchool)
	company := seedUser(t, ms, "company@example.com", types.RoleCompany)

	// Three needs for the school: two stay active, one runs to completion
	// with 40 students. The other school's need must not leak in.
	mustCreateNeed(t, s, ms, school, sampleNeedCreate())
	mustCreateNeed(t, s, ms, school, sampleNeedCreate())

	toComplete := sampleNeedCreate()
	toComplete.StudentCount = 40
	need := mustCreateNeed(t, s, ms, school, toComplete)

	mustCreateNeed(t, s, ms, other, sampleNeedCreate())

	rec := proposeDonation(t, s, company, need.ID)
	require.Equal(t, http.StatusCreated, rec.Code)
	donation := decodeBody[types.Donation](t, rec)

	rec = doRequest(t, s, http.MethodPut, "/api/v1/donations/"+donation.ID+"/complete", bearer(t, s, company), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/dashboard/school", bearer(t, s, school), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decodeBody[types.SchoolDashboardStats](t, rec)
	assert.Equal(t, 3, stats.TotalNeeds)
	assert.Equal(t, 2, stats.ActiveNeeds)
	assert.Equal(t, 1, stats.CompletedNeeds)
	assert.Equal(t, 40, stats.StudentsBenefited)
}

func TestCompanyDashboard(t *testing.T) {
	s, ms := newTestService(t)
	school := seedUser(t, ms, "school@example.com", types.RoleSchool)
	company := seedUser(t, ms, "company@example.com", types.RoleCompany)

	// Completed donation against a need tagged SDGs 4 and 10 with 25 students.
	completedNeed := sampleNeedCreate()
	completedNeed.StudentCount = 25
	completedNeed.SDGs = []int32{4, 10}
	needA := mustCreateNeed(t, s, ms, school, completedNeed)

	// A second donation stays pending against an SDG 4 need; it counts toward
	// SDG contributions but not toward completed projects or students helped.
	pendingNeed := sampleNeedCreate()
	pendingNeed.SDGs = []int32{4}
	needB := mustCreateNeed(t, s, ms, school, pendingNeed)

	rec := proposeDonation(t, s, company, needA.ID)
	require.Equal(t, http.StatusCreated, rec.Code)
	donation := decodeBody[types.Donation](t, rec)

	rec = doRequest(t, s, http.MethodPut, "/api/v1/donations/"+donation.ID+"/complete", bearer(t, s, company), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusCreated, proposeDonation(t, s, company, needB.ID).Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/dashboard/company", bearer(t, s, company), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decodeBody[types.CompanyDashboardStats](t, rec)
	assert.Equal(t, 1, stats.CompletedProjects)
	assert.Equal(t, 25, stats.StudentsHelped)
	assert.Equal(t, map[string]int{"4": 2, "10": 1}, stats.SDGContributions)

	// Stubbed until funding and volunteer data exist.
	assert.Zero(t, stats.TotalDonation)
	assert.Zero(t, stats.VolunteerHours)
}

func TestDashboardRoleGating(t *testing.T) {
	s, ms := newTestService(t)
	school := seedUser(t, ms, "school@example.com", types.RoleSchool)
	company := seedUser(t, ms, "company@example.com", types.RoleCompany)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/dashboard/school", bearer(t, s, company), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/dashboard/company", bearer(t, s, school), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/dashboard/school", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
