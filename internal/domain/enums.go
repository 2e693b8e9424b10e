package domain

// Role is the closed set of team roles. Stored as lowercase strings to
// match the seeded user data.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleBackend  Role = "backend"
	RoleFrontend Role = "frontend"
	RoleQA       Role = "qa"
	RoleDesigner Role = "designer"
	RolePM       Role = "pm"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleBackend, RoleFrontend, RoleQA, RoleDesigner, RolePM:
		return true
	}
	return false
}

// IsElevated reports whether the role carries administrative privilege:
// moderation, unrestricted delete, audit log access.
func (r Role) IsElevated() bool { return r == RoleOwner }

// Roles lists every valid role, in display order.
func Roles() []Role {
	return []Role{RoleOwner, RoleBackend, RoleFrontend, RoleQA, RoleDesigner, RolePM}
}

// ToolStatus is the moderation lifecycle state of a tool.
type ToolStatus string

const (
	ToolStatusPending  ToolStatus = "pending"
	ToolStatusApproved ToolStatus = "approved"
	ToolStatusRejected ToolStatus = "rejected"
)

func (s ToolStatus) String() string { return string(s) }

func (s ToolStatus) IsValid() bool {
	switch s {
	case ToolStatusPending, ToolStatusApproved, ToolStatusRejected:
		return true
	}
	return false
}

// InitialToolStatus returns the lifecycle state a freshly created tool
// starts in: elevated creators skip moderation.
func InitialToolStatus(creator Role) ToolStatus {
	if creator.IsElevated() {
		return ToolStatusApproved
	}
	return ToolStatusPending
}

// AuditAction is the kind of a recorded audit event.
type AuditAction string

const (
	AuditActionCreated  AuditAction = "created"
	AuditActionUpdated  AuditAction = "updated"
	AuditActionApproved AuditAction = "approved"
	AuditActionRejected AuditAction = "rejected"
	AuditActionDeleted  AuditAction = "deleted"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreated, AuditActionUpdated, AuditActionApproved,
		AuditActionRejected, AuditActionDeleted:
		return true
	}
	return false
}

// Action is an operation the authorization guard decides on.
type Action string

const (
	ActionRead     Action = "read"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionModerate Action = "moderate"
)

func (a Action) String() string { return string(a) }
