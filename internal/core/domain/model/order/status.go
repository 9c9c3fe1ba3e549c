package order

import (
	"fmt"

	"backoffice/internal/pkg/errs"
)

// Status is the order lifecycle state.
type Status int

const (
	Unknown Status = iota
	Pending
	Accepted
	Preparing
	Ready
	ReadyToService
	Served
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Accepted:       "accepted",
		Preparing:      "preparing",
		Ready:          "ready",
		ReadyToService: "ready_to_service",
		Served:         "served",
		Cancelled:      "cancelled",
	}
}

// ParseStatus maps the stored representation back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

// ActiveStatuses lists the non-terminal states in lifecycle order.
func ActiveStatuses() []Status {
	return []Status{Pending, Accepted, Preparing, Ready, ReadyToService}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

// IsActive reports whether the order still occupies its table.
func (s Status) IsActive() bool {
	return s >= Pending && s <= ReadyToService
}

// IsTerminal reports served or cancelled.
func (s Status) IsTerminal() bool {
	return s == Served || s == Cancelled
}

// LineStatus is the per-line kitchen state. Only cancellation matters to
// analytics; the other values are kept so restored lines round-trip.
type LineStatus int

const (
	LineUnknown LineStatus = iota
	LinePending
	LinePreparing
	LineReady
	LineServed
	LineCancelled
)

func getLineStatusStrings() map[LineStatus]string {
	return map[LineStatus]string{
		LineUnknown:   "unknown",
		LinePending:   "pending",
		LinePreparing: "preparing",
		LineReady:     "ready",
		LineServed:    "served",
		LineCancelled: "cancelled",
	}
}

// ParseLineStatus maps the stored representation back to a LineStatus.
// Unrecognised values restore as LineUnknown rather than failing: the kitchen
// may introduce states this service does not care about.
func ParseLineStatus(s string) LineStatus {
	for status, str := range getLineStatusStrings() {
		if str == s {
			return status
		}
	}
	return LineUnknown
}

func (s LineStatus) String() string {
	if str, ok := getLineStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
