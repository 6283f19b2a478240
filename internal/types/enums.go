package types

// OrgRole is a user's role within an organization. Each (user, organization)
// pair carries exactly one role.
type OrgRole string

const (
	OrgRoleOwner  OrgRole = "owner"
	OrgRoleAdmin  OrgRole = "admin"
	OrgRoleMember OrgRole = "member"
)

// ProjectRole is a user's role within a project. It is derived, never stored:
// the project's lead pointer yields lead, a membership row yields member.
type ProjectRole string

const (
	ProjectRoleLead   ProjectRole = "lead"
	ProjectRoleMember ProjectRole = "member"
)

// AccessLevel is the strength of an operation attempted on a project.
type AccessLevel string

const (
	AccessView  AccessLevel = "view"
	AccessEdit  AccessLevel = "edit"
	AccessAdmin AccessLevel = "admin"
)

// OrgRolePriority returns the rank used for role comparison (higher = more
// permissions). Unknown roles rank below everything.
func OrgRolePriority(role OrgRole) int {
	switch role {
	case OrgRoleOwner:
		return 3
	case OrgRoleAdmin:
		return 2
	case OrgRoleMember:
		return 1
	default:
		return 0
	}
}

// ProjectRolePriority ranks project roles the same way.
func ProjectRolePriority(role ProjectRole) int {
	switch role {
	case ProjectRoleLead:
		return 2
	case ProjectRoleMember:
		return 1
	default:
		return 0
	}
}

// MinProjectRoleFor maps an access level to the minimum project role it
// requires. Edit and admin both require lead today; the levels stay distinct
// at call sites.
func MinProjectRoleFor(level AccessLevel) ProjectRole {
	switch level {
	case AccessEdit, AccessAdmin:
		return ProjectRoleLead
	default:
		return ProjectRoleMember
	}
}

// ValidOrgRole reports whether role is one of the three assignable org roles.
func ValidOrgRole(role OrgRole) bool {
	return OrgRolePriority(role) > 0
}

// Task status values (kanban board columns)
const (
	StatusBacklog    = "backlog"
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusInReview   = "in_review"
	StatusDone       = "done"
)

// Task priority values
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
	PriorityNone   = "none"
)

// Valid status values for validation
var ValidTaskStatuses = []string{
	StatusBacklog, StatusTodo, StatusInProgress, StatusInReview, StatusDone,
}

// Valid priority values for validation
var ValidTaskPriorities = []string{
	PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone,
}

// IsValidTaskStatus checks against ValidTaskStatuses
func IsValidTaskStatus(status string) bool {
	for _, s := range ValidTaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidTaskPriority checks against ValidTaskPriorities
func IsValidTaskPriority(priority string) bool {
	for _, p := range ValidTaskPriorities {
		if p == priority {
			return true
		}
	}
	return false
}
