package types

import "time"

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusApproved  DonationStatus = "approved"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusCancelled DonationStatus = "cancelled"
)

// Donation is a company's commitment against exactly one need. At most one
// non-cancelled donation may reference a given need at a time.
type Donation struct {
	ID             string         `db:"id" json:"id"`
	NeedID         string         `db:"need_id" json:"need_id"`
	CompanyID      string         `db:"company_id" json:"company_id"`
	DonationType   string         `db:"donation_type" json:"donation_type"`
	Description    string         `db:"description" json:"description"`
	Progress       int            `db:"progress" json:"progress"`
	Status         DonationStatus `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	CompletionDate *time.Time     `db:"completion_date" json:"completion_date"`
}
