package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"edumatch/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

// Store interfaces are defined on the consumer side so handlers can be
// exercised against in-memory fakes.

type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	CreateUser(ctx context.Context, user *types.User) error
}

type NeedStore interface {
	Need(ctx context.Context, needID string) (*types.Need, error)
	Needs(ctx context.Context, params types.NeedListParams) ([]*types.Need, error)
	NeedsBySchool(ctx context.Context, schoolID string, page types.PageParams) ([]*types.Need, error)
	CreateNeed(ctx context.Context, need *types.Need) error
	UpdateNeed(ctx context.Context, needID string, upd *types.NeedUpdate) (*types.Need, error)
	DeleteNeed(ctx context.Context, needID string) error
}

type DonationStore interface {
	Donation(ctx context.Context, donationID string) (*types.Donation, error)
	DonationsByCompany(ctx context.Context, companyID string, page types.PageParams) ([]*types.Donation, error)
	ProposeDonation(ctx context.Context, donation *types.Donation) error
	ApproveDonation(ctx context.Context, donationID string) (*types.Donation, error)
	CompleteDonation(ctx context.Context, donationID string) (*types.Donation, error)
}

type DashboardStore interface {
	SchoolStats(ctx context.Context, schoolID string) (*types.SchoolDashboardStats, error)
	CompanyStats(ctx context.Context, companyID string) (*types.CompanyDashboardStats, error)
}

type StoryStore interface {
	Story(ctx context.Context, storyID string) (*types.ImpactStory, error)
	Stories(ctx context.Context, page types.PageParams) ([]*types.ImpactStory, error)
}

type ActivityStore interface {
	Record(ctx context.Context, entry *types.ActivityLog) error
	ByUser(ctx context.Context, userID string, limit uint64) ([]*types.ActivityLog, error)
	Recent(ctx context.Context, limit uint64) ([]*types.ActivityLog, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	users     UserStore
	needs     NeedStore
	donations DonationStore
	dashboard DashboardStore
	stories   StoryStore
	activity  ActivityStore

	signingKey jwk.Key
	tokenTTL   time.Duration

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	users UserStore,
	needs NeedStore,
	donations DonationStore,
	dashboard DashboardStore,
	stories StoryStore,
	activity ActivityStore,
) (*Service, error) {
	mux := flow.New()

	signingKey, err := jwk.Import([]byte(config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("import signing key: %w", err)
	}

	s := &Service{
		logger:  logger,
		config:  config,
		users:   users,
		needs:   needs,
		donations: donations,
		dashboard: dashboard,
		stories:   stories,
		activity:  activity,

		signingKey: signingKey,
		tokenTTL:   time.Duration(config.TokenTTLMin) * time.Minute,

		handler: mux,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.CORSMiddleware)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/v1/auth/register", s.handlePostRegister, http.MethodPost)
	r.HandleFunc("/api/v1/auth/login", s.handlePostLogin, http.MethodPost)

	r.HandleFunc("/api/v1/needs", s.handleListNeeds, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/v1/auth/users/me", s.handleGetMe, http.MethodGet)

		r.HandleFunc("/api/v1/needs", s.handleCreateNeed, http.MethodPost)
		r.HandleFunc("/api/v1/needs/my", s.handleMyNeeds, http.MethodGet)
		r.HandleFunc("/api/v1/needs/:needID", s.handleUpdateNeed, http.MethodPut)
		r.HandleFunc("/api/v1/needs/:needID", s.handleDeleteNeed, http.MethodDelete)

		r.HandleFunc("/api/v1/donations", s.handleCreateDonation, http.MethodPost)
		r.HandleFunc("/api/v1/donations/my", s.handleMyDonations, http.MethodGet)
		r.HandleFunc("/api/v1/donations/:donationID/approve", s.handleApproveDonation, http.MethodPut)
		r.HandleFunc("/api/v1/donations/:donationID/complete", s.handleCompleteDonation, http.MethodPut)

		r.HandleFunc("/api/v1/dashboard/school", s.handleSchoolDashboard, http.MethodGet)
		r.HandleFunc("/api/v1/dashboard/company", s.handleCompanyDashboard, http.MethodGet)

		r.HandleFunc("/api/v1/activity/my", s.handleMyActivity, http.MethodGet)
	})

	// Param routes registered after the group so /needs/my wins over /needs/:needID.
	r.HandleFunc("/api/v1/needs/:needID", s.handleGetNeed, http.MethodGet)

	r.HandleFunc("/api/v1/stories", s.handleListStories, http.MethodGet)
	r.HandleFunc("/api/v1/stories/:storyID", s.handleGetStory, http.MethodGet)

	r.HandleFunc("/api/v1/activity/recent", s.handleRecentActivity, http.MethodGet)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// recordActivity appends to the audit log. The sink is write-only; a failed
// write is logged and the triggering operation still succeeds.
func (s *Service) recordActivity(ctx context.Context, userID string, activityType types.ActivityType, description string, extra *string) {
	entry := &types.ActivityLog{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
		ExtraData:    extra,
	}

	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":       userID,
			"activity_type": activityType,
		}).Warn("failed to record activity")
	}
}
