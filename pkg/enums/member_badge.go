package enums

import "fmt"

// MemberBadge identifies a badge a member can earn.
type MemberBadge string

const (
	MemberBadgeNewMember   MemberBadge = "new_member"
	MemberBadgeFirstSwap   MemberBadge = "first_swap"
	MemberBadgePowerLister MemberBadge = "power_lister"
)

var validMemberBadges = []MemberBadge{
	MemberBadgeNewMember,
	MemberBadgeFirstSwap,
	MemberBadgePowerLister,
}

// String implements fmt.Stringer.
func (m MemberBadge) String() string {
	return string(m)
}

// IsValid reports whether the badge is a known value.
func (m MemberBadge) IsValid() bool {
	for _, candidate := range validMemberBadges {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMemberBadge converts raw input into a MemberBadge.
func ParseMemberBadge(value string) (MemberBadge, error) {
	for _, candidate := range validMemberBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member badge %q", value)
}
