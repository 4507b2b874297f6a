package types

import "time"

type ActivityType string

const (
	ActivityUserRegister       ActivityType = "user_register"
	ActivityUserLogin          ActivityType = "user_login"
	ActivityNeedCreated        ActivityType = "need_created"
	ActivityNeedUpdated        ActivityType = "need_updated"
	ActivityDonationCreated    ActivityType = "donation_created"
	ActivityDonationApproved   ActivityType = "donation_approved"
	ActivityDonationCompleted  ActivityType = "donation_completed"
	ActivityImpactStoryCreated ActivityType = "impact_story_created"
)

// ActivityLog is an append-only audit record. The application writes entries
// and serves them back verbatim; nothing downstream depends on reading them.
type ActivityLog struct {
	ID           string       `db:"id" json:"id"`
	UserID       string       `db:"user_id" json:"user_id"`
	ActivityType ActivityType `db:"activity_type" json:"activity_type"`
	Description  string       `db:"description" json:"description"`
	ExtraData    *string      `db:"extra_data" json:"extra_data,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}
