package enums

import "fmt"

// ModerationAction is a privileged adjustment applied to a member account.
type ModerationAction string

const (
	ModerationActionBan         ModerationAction = "ban"
	ModerationActionWarn        ModerationAction = "warn"
	ModerationActionResetPoints ModerationAction = "reset_points"
	ModerationActionPromote     ModerationAction = "promote"
)

var validModerationActions = []ModerationAction{
	ModerationActionBan,
	ModerationActionWarn,
	ModerationActionResetPoints,
	ModerationActionPromote,
}

// String implements fmt.Stringer.
func (m ModerationAction) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ModerationAction.
func (m ModerationAction) IsValid() bool {
	for _, candidate := range validModerationActions {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseModerationAction converts raw input into a ModerationAction.
func ParseModerationAction(value string) (ModerationAction, error) {
	for _, candidate := range validModerationActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid moderation action %q", value)
}
