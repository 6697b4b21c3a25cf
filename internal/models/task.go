package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskOngoing   TaskStatus = "ongoing"
	TaskCompleted TaskStatus = "completed"
)

// ParseTaskStatus normalizes user input to a known status value.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(s))) {
	case TaskPending:
		return TaskPending, true
	case TaskOngoing:
		return TaskOngoing, true
	case TaskCompleted:
		return TaskCompleted, true
	}
	return "", false
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Status      TaskStatus `json:"status"`
	AssignedTo  uuid.UUID  `json:"assignedTo"`
	DueDate     time.Time  `json:"dueDate"`
	ProjectID   uuid.UUID  `json:"project"`
	InitiatedAt *time.Time `json:"initiatedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
