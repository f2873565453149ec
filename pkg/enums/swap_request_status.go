package enums

import "fmt"

// SwapRequestStatus tracks the resolution of a member swap request.
type SwapRequestStatus string

const (
	SwapRequestStatusPending  SwapRequestStatus = "pending"
	SwapRequestStatusAccepted SwapRequestStatus = "accepted"
	SwapRequestStatusRejected SwapRequestStatus = "rejected"
)

var validSwapRequestStatuses = []SwapRequestStatus{
	SwapRequestStatusPending,
	SwapRequestStatusAccepted,
	SwapRequestStatusRejected,
}

// String implements fmt.Stringer.
func (s SwapRequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SwapRequestStatus.
func (s SwapRequestStatus) IsValid() bool {
	for _, candidate := range validSwapRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSwapRequestStatus converts raw input into a SwapRequestStatus.
func ParseSwapRequestStatus(value string) (SwapRequestStatus, error) {
	for _, candidate := range validSwapRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid swap request status %q", value)
}
