package service

import (
	"github.com/chepyr/go-project-tracker/internal/apperrors"
	"github.com/chepyr/go-project-tracker/internal/models"
)

// Capability names a guarded operation class. Authorization is a single
// decision over (actor, capability, target) instead of ownership lookups
// duplicated per handler.
type Capability int

const (
	// CapManageProject: create, rename or delete a project. Admin only.
	CapManageProject Capability = iota + 1
	// CapManageTasks: create, list, edit or delete tasks under a project.
	// Only the PM owning that project.
	CapManageTasks
	// CapAdvanceTask: move a task through its status lifecycle. Only the
	// assignee.
	CapAdvanceTask
	// CapCreateAccount: register a new user with target.NewRole.
	CapCreateAccount
)

// Target carries the loaded entities a capability is checked against.
// Callers load targets before authorizing, so a missing entity surfaces as
// NotFound ahead of any Authorization error.
type Target struct {
	Project *models.Project
	Task    *models.Task
	NewRole models.Role
}

// Authorize is pure: it decides, it never loads or mutates.
func Authorize(actor Actor, cap Capability, target Target) error {
	switch cap {
	case CapManageProject:
		if actor.Role != models.RoleAdmin {
			return apperrors.New(apperrors.Authorization, "Only an admin can manage projects")
		}

	case CapManageTasks:
		if actor.Role != models.RolePM || target.Project == nil {
			return apperrors.New(apperrors.Authorization, "You do not own this project")
		}
		if target.Project.OwnerID != actor.ID {
			return apperrors.New(apperrors.Authorization, "You do not own this project")
		}

	case CapAdvanceTask:
		if target.Task == nil || target.Task.AssignedTo != actor.ID {
			return apperrors.New(apperrors.Authorization, "You are not authorized to update this task")
		}

	case CapCreateAccount:
		switch actor.Role {
		case models.RoleAdmin:
			// admin may create any pm or developer account
		case models.RolePM:
			if target.NewRole != models.RoleDeveloper {
				return apperrors.New(apperrors.Authorization,
					"Project Manager can only create Developer accounts")
			}
		default:
			return apperrors.New(apperrors.Authorization,
				"Developers are not authorized to create new accounts")
		}
	}
	return nil
}
