package permission

// Deny reasons. They are meant for logs, not for callers.
const (
	ReasonWorkerNotFound       = "worker not found"
	ReasonCaseNotFound         = "case not found"
	ReasonNotAuthorizedForCase = "not authorized to view this case"
	ReasonRequiresElevatedRole = "requires supervisor or admin"
	ReasonRoleNotPermitted     = "role not permitted for this action"
	ReasonUnknownAction        = "unknown action"
	ReasonCheckFailed          = "permission check failed"
)

// Decision is the immutable outcome of a permission check. An allowed
// decision never has a reason and a denied one always has.
type Decision struct {
	allowed bool
	reason  string
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{allowed: true}
}

// Deny returns a denying decision with the given reason.
func Deny(reason string) Decision {
	if reason == "" {
		reason = "denied"
	}
	return Decision{reason: reason}
}

// Allowed reports whether the action may proceed.
func (d Decision) Allowed() bool {
	return d.allowed
}

// Reason returns the denial cause, or "" when allowed.
func (d Decision) Reason() string {
	return d.reason
}
