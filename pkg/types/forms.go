package types

import (
	"fmt"
	"net/mail"
	"strings"
)

const maxSDG = 17

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

func (r *RegisterRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("invalid email address")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if !r.Role.Valid() {
		return fmt.Errorf("role must be %q or %q", RoleSchool, RoleCompany)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type NeedCreate struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	Location     string       `json:"location"`
	StudentCount int          `json:"student_count"`
	ImageURL     *string      `json:"image_url"`
	Urgency      UrgencyLevel `json:"urgency"`
	SDGs         []int32      `json:"sdgs"`
}

func (n *NeedCreate) Validate() error {
	for field, v := range map[string]string{
		"title":       n.Title,
		"description": n.Description,
		"category":    n.Category,
		"location":    n.Location,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	if n.StudentCount <= 0 {
		return fmt.Errorf("student_count must be positive")
	}
	if !n.Urgency.Valid() {
		return fmt.Errorf("urgency must be high, medium or low")
	}
	return validateSDGs(n.SDGs)
}

// NeedUpdate carries PATCH semantics: nil fields are left untouched. Status
// may only be toggled between active and in_progress here; completed is
// reserved for the donation completion transition.
type NeedUpdate struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	Category     *string       `json:"category"`
	Location     *string       `json:"location"`
	StudentCount *int          `json:"student_count"`
	ImageURL     *string       `json:"image_url"`
	Urgency      *UrgencyLevel `json:"urgency"`
	SDGs         []int32       `json:"sdgs"`
	Status       *NeedStatus   `json:"status"`
}

func (n *NeedUpdate) Validate() error {
	if n.Title != nil && strings.TrimSpace(*n.Title) == "" {
		return fmt.Errorf("title cannot be blank")
	}
	if n.StudentCount != nil && *n.StudentCount <= 0 {
		return fmt.Errorf("student_count must be positive")
	}
	if n.Urgency != nil && !n.Urgency.Valid() {
		return fmt.Errorf("urgency must be high, medium or low")
	}
	if n.SDGs != nil {
		if err := validateSDGs(n.SDGs); err != nil {
			return err
		}
	}
	if n.Status != nil && *n.Status != NeedStatusActive && *n.Status != NeedStatusInProgress {
		return fmt.Errorf("status can only be set to %q or %q", NeedStatusActive, NeedStatusInProgress)
	}
	return nil
}

func validateSDGs(sdgs []int32) error {
	if len(sdgs) == 0 {
		return fmt.Errorf("at least one sdg is required")
	}
	for _, sdg := range sdgs {
		if sdg < 1 || sdg > maxSDG {
			return fmt.Errorf("sdg %d is out of range 1-%d", sdg, maxSDG)
		}
	}
	return nil
}

type DonationCreate struct {
	NeedID       string `json:"need_id"`
	DonationType string `json:"donation_type"`
	Description  string `json:"description"`
}

func (d *DonationCreate) Validate() error {
	if strings.TrimSpace(d.NeedID) == "" {
		return fmt.Errorf("need_id is required")
	}
	if strings.TrimSpace(d.DonationType) == "" {
		return fmt.Errorf("donation_type is required")
	}
	return nil
}

// NeedListParams are decoded from the query string of the public needs list.
type NeedListParams struct {
	Status *NeedStatus `form:"status"`
	Skip   uint64      `form:"skip"`
	Limit  uint64      `form:"limit"`
}

type PageParams struct {
	Skip  uint64 `form:"skip"`
	Limit uint64 `form:"limit"`
}

type ActivityParams struct {
	Limit uint64 `form:"limit"`
}
