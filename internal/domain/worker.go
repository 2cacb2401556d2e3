package domain

import (
	"strings"
	"time"
)

// Role enumerates worker roles.
type Role string

const (
	RoleStaff      Role = "staff"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// ParseRole maps a free-text role to a Role. Unknown or empty values are
// treated as staff rather than rejected.
func ParseRole(raw string) Role {
	switch strings.ToLower(raw) {
	case string(RoleSupervisor):
		return RoleSupervisor
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleStaff
	}
}

// IsElevated reports whether the role has blanket case visibility.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

// Worker is an NGO staff account.
type Worker struct {
	ID        int64     `json:"worker_id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// EffectiveRole returns the parsed role of the worker.
func (w *Worker) EffectiveRole() Role {
	return ParseRole(w.Role)
}
