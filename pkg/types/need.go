package types

import "time"

type UrgencyLevel string

const (
	UrgencyHigh   UrgencyLevel = "high"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyLow    UrgencyLevel = "low"
)

func (u UrgencyLevel) Valid() bool {
	return u == UrgencyHigh || u == UrgencyMedium || u == UrgencyLow
}

type NeedStatus string

const (
	NeedStatusActive     NeedStatus = "active"
	NeedStatusInProgress NeedStatus = "in_progress"
	NeedStatusCompleted  NeedStatus = "completed"
)

// Need is a school's posted resource request, open for a company to claim.
// Status only ever moves active -> in_progress -> completed; the claim and
// completion transitions belong to the donation workflow, not to field edits.
type Need struct {
	ID           string       `db:"id" json:"id"`
	SchoolID     string       `db:"school_id" json:"school_id"`
	Title        string       `db:"title" json:"title"`
	Description  string       `db:"description" json:"description"`
	Category     string       `db:"category" json:"category"`
	Location     string       `db:"location" json:"location"`
	StudentCount int          `db:"student_count" json:"student_count"`
	ImageURL     *string      `db:"image_url" json:"image_url,omitempty"`
	Urgency      UrgencyLevel `db:"urgency" json:"urgency"`
	SDGs         []int32      `db:"sdgs" json:"sdgs"`
	Status       NeedStatus   `db:"status" json:"status"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time   `db:"updated_at" json:"updated_at"`
}
