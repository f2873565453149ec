package enums

import "fmt"

// MemberStanding captures moderation state on a member account.
type MemberStanding string

const (
	MemberStandingActive MemberStanding = "active"
	MemberStandingWarned MemberStanding = "warned"
	MemberStandingBanned MemberStanding = "banned"
)

var validMemberStandings = []MemberStanding{
	MemberStandingActive,
	MemberStandingWarned,
	MemberStandingBanned,
}

// String implements fmt.Stringer.
func (m MemberStanding) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberStanding.
func (m MemberStanding) IsValid() bool {
	for _, candidate := range validMemberStandings {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMemberStanding converts raw input into a MemberStanding.
func ParseMemberStanding(value string) (MemberStanding, error) {
	for _, candidate := range validMemberStandings {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member standing %q", value)
}
