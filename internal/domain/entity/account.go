package entity

import "time"

// AccountInfo describes one member account of the organization.
type AccountInfo struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}
