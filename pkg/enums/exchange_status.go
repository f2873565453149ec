package enums

import "fmt"

// ExchangeStatus is the lifecycle state of a listed item.
type ExchangeStatus string

const (
	ExchangeStatusAvailable   ExchangeStatus = "available"
	ExchangeStatusPendingSwap ExchangeStatus = "pending_swap"
	ExchangeStatusExchanged   ExchangeStatus = "exchanged"
	ExchangeStatusReserved    ExchangeStatus = "reserved"
)

var validExchangeStatuses = []ExchangeStatus{
	ExchangeStatusAvailable,
	ExchangeStatusPendingSwap,
	ExchangeStatusExchanged,
	ExchangeStatusReserved,
}

// String implements fmt.Stringer.
func (e ExchangeStatus) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ExchangeStatus.
func (e ExchangeStatus) IsValid() bool {
	for _, candidate := range validExchangeStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further exchange events.
func (e ExchangeStatus) IsTerminal() bool {
	return e == ExchangeStatusExchanged
}

// ParseExchangeStatus converts raw input into an ExchangeStatus.
func ParseExchangeStatus(value string) (ExchangeStatus, error) {
	for _, candidate := range validExchangeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid exchange status %q", value)
}
