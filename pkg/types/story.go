package types

import "time"

type ImpactStory struct {
	ID            string     `db:"id" json:"id"`
	DonationID    string     `db:"donation_id" json:"donation_id"`
	Title         string     `db:"title" json:"title"`
	Content       string     `db:"content" json:"content"`
	ImageURL      *string    `db:"image_url" json:"image_url,omitempty"`
	VideoURL      *string    `db:"video_url" json:"video_url,omitempty"`
	ImpactMetrics *string    `db:"impact_metrics" json:"impact_metrics,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at"`
}
