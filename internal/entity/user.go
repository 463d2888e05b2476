package entity

import "time"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username,omitempty"`
	Role              Role      `json:"role"`
	Age               int       `json:"age,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	PhotoURL          string    `json:"photo_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	Disabled          bool      `json:"disabled"`
	NeedsProfileSetup bool      `json:"needs_profile_setup"`
}
