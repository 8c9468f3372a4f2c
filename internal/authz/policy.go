// Package authz implements the access policy as a total, storage-free
// function over (role × action × target). Services ask for a Decision
// before any mutation; a denied decision never partially applies.
package authz

import (
	"github.com/heartmarshall/timeclock-backend/internal/domain"
)

// Action is the closed set of operations the policy knows about.
type Action string

const (
	ActionClockIn       Action = "CLOCK_IN"
	ActionClockOut      Action = "CLOCK_OUT"
	ActionViewEntries   Action = "VIEW_ENTRIES"
	ActionEditEntry     Action = "EDIT_ENTRY"
	ActionForceClockOut Action = "FORCE_CLOCK_OUT"
	ActionCreateUser    Action = "CREATE_USER"
	ActionSuspendUser   Action = "SUSPEND_USER"
	ActionReactivate    Action = "REACTIVATE_USER"
	ActionDeleteUser    Action = "DELETE_USER"
	ActionViewUsers     Action = "VIEW_USERS"
	ActionViewAudit     Action = "VIEW_AUDIT"
)

func (a Action) String() string { return string(a) }

// Target describes what the action is aimed at. Self is true when the actor
// acts on their own entity (own session, own entries). Role is the role of
// the target user where relevant (suspension, account creation); zero
// otherwise.
type Target struct {
	Self bool
	Role domain.Role
}

// Self is the target for actions on the actor's own data.
var Self = Target{Self: true}

// Decision is the policy verdict. RequiredRole names the weakest role that
// would have been allowed, for diagnostics.
type Decision struct {
	Allowed      bool
	RequiredRole domain.Role
}

// Err returns the ForbiddenError for a denied decision, nil otherwise.
func (d Decision) Err(action Action) error {
	if d.Allowed {
		return nil
	}
	return &domain.ForbiddenError{Action: action.String(), RequiredRole: d.RequiredRole}
}

var allow = Decision{Allowed: true}

func deny(required domain.Role) Decision {
	return Decision{RequiredRole: required}
}

// Decide evaluates whether role may perform action on target.
//
// WORKER: clock in/out and view entries for self only.
// TIMEKEEPER: everything a worker can do, plus edit any entry, force
// clock-outs, view all entries/users/audit, and create, suspend or
// reactivate WORKER accounts.
// ADMIN: unrestricted.
func Decide(role domain.Role, action Action, target Target) Decision {
	if role == domain.RoleAdmin {
		return allow
	}

	switch action {
	case ActionClockIn, ActionClockOut:
		if target.Self {
			return allow
		}
		return deny(domain.RoleAdmin)

	case ActionViewEntries:
		if target.Self || role == domain.RoleTimekeeper {
			return allow
		}
		return deny(domain.RoleTimekeeper)

	case ActionEditEntry, ActionForceClockOut, ActionViewUsers, ActionViewAudit:
		if role == domain.RoleTimekeeper {
			return allow
		}
		return deny(domain.RoleTimekeeper)

	case ActionCreateUser, ActionSuspendUser, ActionReactivate:
		// Timekeepers manage WORKER accounts only.
		if role == domain.RoleTimekeeper && target.Role == domain.RoleWorker {
			return allow
		}
		if role == domain.RoleTimekeeper {
			return deny(domain.RoleAdmin)
		}
		return deny(domain.RoleTimekeeper)

	case ActionDeleteUser:
		return deny(domain.RoleAdmin)
	}

	// Unknown actions are denied outright.
	return deny(domain.RoleAdmin)
}
