package models

import "github.com/google/uuid"

// User represents a persisted admin user record. The ID is assigned by the
// store on insert and is immutable afterwards.
type User struct {
	ID       uuid.UUID `json:"_id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// NewUser is the payload for creating a user. The store assigns the ID.
type NewUser struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UserUpdate carries a partial-field update. Nil fields are left unchanged.
type UserUpdate struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

// UserFilter is a conjunction of case-insensitive substring matches.
// Empty fields impose no constraint.
type UserFilter struct {
	FullName string
	Email    string
	Role     string
}

// UserQuery describes one page of a filtered, sorted listing.
type UserQuery struct {
	Filter        UserFilter
	SortKey       string
	SortDirection string
	Skip          int
	Limit         int
}

// UserPage is the listing result: one page of records plus the total number
// of records matching the filter regardless of pagination.
type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}
