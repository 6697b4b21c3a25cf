package models

// Read views joined with their referenced users/projects, the shapes the
// listing endpoints return.

type ProjectWithOwner struct {
	Project
	Owner UserSummary `json:"owner"`
}

type TaskWithAssignee struct {
	Task
	Assignee UserSummary `json:"assignedTo"`
}

type TaskWithProject struct {
	Task
	Assignee UserSummary    `json:"assignedTo"`
	Project  ProjectSummary `json:"project"`
}
