package permission

import "strings"

// Action is an operation kind a route can be protected by.
type Action string

const (
	ActionView       Action = "view"
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionSupervise  Action = "supervise"
	ActionDistribute Action = "distribute"
	ActionDelete     Action = "delete"
)

var knownActions = map[Action]struct{}{
	ActionView:       {},
	ActionApprove:    {},
	ActionReject:     {},
	ActionSupervise:  {},
	ActionDistribute: {},
	ActionDelete:     {},
}

// ParseAction converts a case-insensitive name to an Action.
func ParseAction(raw string) (Action, bool) {
	action := Action(strings.ToLower(raw))
	if _, ok := knownActions[action]; !ok {
		return "", false
	}
	return action, true
}

func (a Action) String() string {
	return string(a)
}
