package types

import "time"

type Role string

const (
	RoleSchool  Role = "school"
	RoleCompany Role = "company"
)

func (r Role) Valid() bool {
	return r == RoleSchool || r == RoleCompany
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
