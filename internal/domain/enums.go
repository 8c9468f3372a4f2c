package domain

// Role represents the authorization level of a user.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTimekeeper Role = "TIMEKEEPER"
	RoleWorker     Role = "WORKER"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTimekeeper, RoleWorker:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// UserStatus represents the account state of a user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

func (s UserStatus) String() string { return string(s) }

func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended:
		return true
	}
	return false
}

// EntryStatus represents the lifecycle state of a time entry.
// OPEN is the only intermediate state; CLOSED and EDITED are terminal
// for clock actions.
type EntryStatus string

const (
	EntryStatusOpen   EntryStatus = "OPEN"
	EntryStatusClosed EntryStatus = "CLOSED"
	EntryStatusEdited EntryStatus = "EDITED"
)

func (s EntryStatus) String() string { return string(s) }

func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusOpen, EntryStatusClosed, EntryStatusEdited:
		return true
	}
	return false
}

// TargetType identifies the kind of entity an audit note refers to.
type TargetType string

const (
	TargetTypeTimeEntry TargetType = "TIME_ENTRY"
	TargetTypeUser      TargetType = "USER"
)

func (t TargetType) String() string { return string(t) }

func (t TargetType) IsValid() bool {
	switch t {
	case TargetTypeTimeEntry, TargetTypeUser:
		return true
	}
	return false
}

// AuditAction represents the kind of correction recorded in the audit trail.
type AuditAction string

const (
	AuditActionEdit       AuditAction = "EDIT"
	AuditActionSuspend    AuditAction = "SUSPEND"
	AuditActionReactivate AuditAction = "REACTIVATE"
	AuditActionDelete     AuditAction = "DELETE"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionEdit, AuditActionSuspend, AuditActionReactivate, AuditActionDelete:
		return true
	}
	return false
}
