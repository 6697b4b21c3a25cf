package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectOngoing   ProjectStatus = "ongoing"
	ProjectCompleted ProjectStatus = "completed"
)

// Project status is derived from the project's task set and is never set
// directly by a client.
type Project struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	OwnerID     uuid.UUID     `json:"owner"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type ProjectSummary struct {
	ID     uuid.UUID     `json:"id"`
	Title  string        `json:"title"`
	Status ProjectStatus `json:"status"`
}
