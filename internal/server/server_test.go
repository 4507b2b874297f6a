package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"edumatch/internal/utils"
	"edumatch/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the Postgres repositories. It mirrors
// the store semantics the handlers rely on, including the mutex-guarded
// conditional claim, so handler behavior can be exercised without a database.
type memStore struct {
	mu        sync.Mutex
	clock     time.Time
	users     map[string]*types.User
	needs     map[string]*types.Need
	donations map[string]*types.Donation
	stories   map[string]*types.ImpactStory
	activity  []*types.ActivityLog
}

func newMemStore() *memStore {
	return &memStore{
		clock:     time.Now(),
		users:     make(map[string]*types.User),
		needs:     make(map[string]*types.Need),
		donations: make(map[string]*types.Donation),
		stories:   make(map[string]*types.ImpactStory),
	}
}

// tick hands out strictly increasing timestamps so ordering is deterministic.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

func (m *memStore) User(ctx context.Context, userID string) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return user, nil
}

func (m *memStore) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (m *memStore) CreateUser(ctx context.Context, user *types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return types.ErrEmailTaken
		}
	}
	user.ID = utils.NanoID()
	user.CreatedAt = m.tick()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return nil
}

func (m *memStore) Need(ctx context.Context, needID string) (*types.Need, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	need, ok := m.needs[needID]
	if !ok {
		return nil, types.ErrNeedNotFound
	}
	copied := *need
	return &copied, nil
}

func (m *memStore) Needs(ctx context.Context, params types.NeedListParams) ([]*types.Need, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var needs []*types.Need
	for _, need := range m.needs {
		if params.Status != nil && need.Status != *params.Status {
			continue
		}
		copied := *need
		needs = append(needs, &copied)
	}
	sortNeeds(needs)
	return paginate(needs, params.Skip, params.Limit), nil
}

func (m *memStore) NeedsBySchool(ctx context.Context, schoolID string, page types.PageParams) ([]*types.Need, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var needs []*types.Need
	for _, need := range m.needs {
		if need.SchoolID != schoolID {
			continue
		}
		copied := *need
		needs = append(needs, &copied)
	}
	sortNeeds(needs)
	return paginate(needs, page.Skip, page.Limit), nil
}

func (m *memStore) CreateNeed(ctx context.Context, need *types.Need) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	need.ID = utils.NanoID()
	need.Status = types.NeedStatusActive
	need.CreatedAt = m.tick()
	need.UpdatedAt = nil
	copied := *need
	m.needs[need.ID] = &copied
	return nil
}

func (m *memStore) UpdateNeed(ctx context.Context, needID string, upd *types.NeedUpdate) (*types.Need, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	need, ok := m.needs[needID]
	if !ok {
		return nil, types.ErrNeedNotFound
	}
	if upd.Title != nil {
		need.Title = *upd.Title
	}
	if upd.Description != nil {
		need.Description = *upd.Description
	}
	if upd.Category != nil {
		need.Category = *upd.Category
	}
	if upd.Location != nil {
		need.Location = *upd.Location
	}
	if upd.StudentCount != nil {
		need.StudentCount = *upd.StudentCount
	}
	if upd.ImageURL != nil {
		need.ImageURL = upd.ImageURL
	}
	if upd.Urgency != nil {
		need.Urgency = *upd.Urgency
	}
	if upd.SDGs != nil {
		need.SDGs = upd.SDGs
	}
	if upd.Status != nil {
		need.Status = *upd.Status
	}
	need.UpdatedAt = utils.TimePtr(m.tick())
	copied := *need
	return &copied, nil
}

func (m *memStore) DeleteNeed(ctx context.Context, needID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.needs[needID]; !ok {
		return types.ErrNeedNotFound
	}
	for _, donation := range m.donations {
		if donation.NeedID == needID {
			return types.ErrNeedHasDonations
		}
	}
	delete(m.needs, needID)
	return nil
}

func (m *memStore) Donation(ctx context.Context, donationID string) (*types.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	donation, ok := m.donations[donationID]
	if !ok {
		return nil, types.ErrDonationNotFound
	}
	copied := *donation
	return &copied, nil
}

func (m *memStore) DonationsByCompany(ctx context.Context, companyID string, page types.PageParams) ([]*types.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var donations []*types.Donation
	for _, donation := range m.donations {
		if donation.CompanyID != companyID {
			continue
		}
		copied := *donation
		donations = append(donations, &copied)
	}
	sort.Slice(donations, func(i, j int) bool {
		if !donations[i].CreatedAt.Equal(donations[j].CreatedAt) {
			return donations[i].CreatedAt.After(donations[j].CreatedAt)
		}
		return donations[i].ID > donations[j].ID
	})
	return paginate(donations, page.Skip, page.Limit), nil
}

func (m *memStore) ProposeDonation(ctx context.Context, donation *types.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	need, ok := m.needs[donation.NeedID]
	if !ok {
		return types.ErrNeedNotFound
	}
	if need.Status != types.NeedStatusActive {
		return types.ErrNeedUnavailable
	}
	need.Status = types.NeedStatusInProgress
	need.UpdatedAt = utils.TimePtr(m.tick())

	donation.ID = utils.NanoID()
	donation.Status = types.DonationStatusPending
	donation.Progress = 0
	donation.CreatedAt = m.tick()
	donation.CompletionDate = nil
	copied := *donation
	m.donations[donation.ID] = &copied
	return nil
}

func (m *memStore) ApproveDonation(ctx context.Context, donationID string) (*types.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	donation, ok := m.donations[donationID]
	if !ok {
		return nil, types.ErrDonationNotFound
	}
	if donation.Status != types.DonationStatusPending {
		return nil, types.ErrDonationNotPending
	}
	donation.Status = types.DonationStatusApproved
	copied := *donation
	return &copied, nil
}

func (m *memStore) CompleteDonation(ctx context.Context, donationID string) (*types.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	donation, ok := m.donations[donationID]
	if !ok {
		return nil, types.ErrDonationNotFound
	}
	if donation.Status != types.DonationStatusPending && donation.Status != types.DonationStatusApproved {
		return nil, types.ErrDonationClosed
	}
	now := m.tick()
	donation.Status = types.DonationStatusCompleted
	donation.Progress = 100
	donation.CompletionDate = &now
	if need, ok := m.needs[donation.NeedID]; ok {
		need.Status = types.NeedStatusCompleted
		need.UpdatedAt = &now
	}
	copied := *donation
	return &copied, nil
}

func (m *memStore) SchoolStats(ctx context.Context, schoolID string) (*types.SchoolDashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats types.SchoolDashboardStats
	for _, need := range m.needs {
		if need.SchoolID != schoolID {
			continue
		}
		stats.TotalNeeds++
		switch need.Status {
		case types.NeedStatusActive:
			stats.ActiveNeeds++
		case types.NeedStatusCompleted:
			stats.CompletedNeeds++
			stats.StudentsBenefited += need.StudentCount
		}
	}
	return &stats, nil
}

func (m *memStore) CompanyStats(ctx context.Context, companyID string) (*types.CompanyDashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := types.CompanyDashboardStats{SDGContributions: make(map[string]int)}
	for _, donation := range m.donations {
		if donation.CompanyID != companyID {
			continue
		}
		need, ok := m.needs[donation.NeedID]
		if !ok {
			continue
		}
		if donation.Status == types.DonationStatusCompleted {
			stats.CompletedProjects++
			stats.StudentsHelped += need.StudentCount
		}
		for _, sdg := range need.SDGs {
			stats.SDGContributions[fmt.Sprintf("%d", sdg)]++
		}
	}
	return &stats, nil
}

func (m *memStore) Story(ctx context.Context, storyID string) (*types.ImpactStory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	story, ok := m.stories[storyID]
	if !ok {
		return nil, types.ErrStoryNotFound
	}
	copied := *story
	return &copied, nil
}

func (m *memStore) Stories(ctx context.Context, page types.PageParams) ([]*types.ImpactStory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stories []*types.ImpactStory
	for _, story := range m.stories {
		copied := *story
		stories = append(stories, &copied)
	}
	sort.Slice(stories, func(i, j int) bool {
		return stories[i].CreatedAt.After(stories[j].CreatedAt)
	})
	return paginate(stories, page.Skip, page.Limit), nil
}

func (m *memStore) Record(ctx context.Context, entry *types.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = utils.NanoID()
	entry.CreatedAt = m.tick()
	copied := *entry
	m.activity = append(m.activity, &copied)
	return nil
}

func (m *memStore) ByUser(ctx context.Context, userID string, limit uint64) ([]*types.ActivityLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit == 0 {
		limit = 20
	}
	var entries []*types.ActivityLog
	for i := len(m.activity) - 1; i >= 0 && uint64(len(entries)) < limit; i-- {
		if m.activity[i].UserID == userID {
			copied := *m.activity[i]
			entries = append(entries, &copied)
		}
	}
	if entries == nil {
		entries = []*types.ActivityLog{}
	}
	return entries, nil
}

func (m *memStore) Recent(ctx context.Context, limit uint64) ([]*types.ActivityLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit == 0 {
		limit = 50
	}
	var entries []*types.ActivityLog
	for i := len(m.activity) - 1; i >= 0 && uint64(len(entries)) < limit; i-- {
		copied := *m.activity[i]
		entries = append(entries, &copied)
	}
	if entries == nil {
		entries = []*types.ActivityLog{}
	}
	return entries, nil
}

func sortNeeds(needs []*types.Need) {
	sort.Slice(needs, func(i, j int) bool {
		if !needs[i].CreatedAt.Equal(needs[j].CreatedAt) {
			return needs[i].CreatedAt.After(needs[j].CreatedAt)
		}
		return needs[i].ID > needs[j].ID
	})
}

func paginate[T any](items []T, skip, limit uint64) []T {
	if skip >= uint64(len(items)) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < uint64(len(items)) {
		items = items[:limit]
	}
	return items
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		Environment: "test",
		JWTSecret:   "0123456789abcdef0123456789abcdef",
		TokenTTLMin: 60,
	}

	ms := newMemStore()

	s, err := New(config, logger, ms, ms, ms, ms, ms, ms)
	require.NoError(t, err)

	return s, ms
}

func seedUser(t *testing.T, ms *memStore, email string, role types.Role) *types.User {
	t.Helper()
	user := &types.User{Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, ms.CreateUser(context.Background(), user))
	return user
}

func bearer(t *testing.T, s *Service, user *types.User) string {
	t.Helper()
	token, _, err := s.issueToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(t *testing.T, s *Service, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(utils.MustMarshalJSON(body))
	}

	req := httptest.NewRequest(method, path, reader)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func mustCreateNeed(t *testing.T, s *Service, ms *memStore, school *types.User, req types.NeedCreate) types.Need {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/api/v1/needs", bearer(t, s, school), req)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody[types.Need](t, rec)
}

func sampleNeedCreate() types.NeedCreate {
	return types.NeedCreate{
		Title:        "Classroom laptops",
		Description:  "Laptops for the computer lab",
		Category:     "technology",
		Location:     "Taitung County",
		StudentCount: 30,
		Urgency:      types.UrgencyHigh,
		SDGs:         []int32{4, 10},
	}
}
