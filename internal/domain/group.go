package domain

import "github.com/google/uuid"

// Group is the slice of a group the settlement engine needs.
type Group struct {
	ID      uuid.UUID
	Name    string
	OwnerID uuid.UUID
}

// UserSummary identifies a user in settlement output.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
