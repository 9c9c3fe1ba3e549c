// Package bill holds the settlement record of a table visit. A bill is the unit
// of realized revenue: only PAID bills count.
package bill

import (
	"errors"
	"fmt"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// Status of a bill.
type Status int

const (
	Unknown Status = iota
	Unpaid
	Paid
	Void
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown: "UNKNOWN",
		Unpaid:  "UNPAID",
		Paid:    "PAID",
		Void:    "VOID",
	}
}

// ParseStatus maps the stored representation back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid bill status", s))
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Bill is an immutable snapshot of a stored bill.
type Bill struct {
	restaurant kernel.RestaurantID
	status     Status
	paidAt     *time.Time
	totalCents int64
}

// RestoreBill rebuilds a bill from storage.
func RestoreBill(restaurant kernel.RestaurantID, status Status, paidAt *time.Time, totalCents int64) (Bill, error) {
	if err := errors.Join(
		restaurant.Validate(),
		validateStatus(status),
	); err != nil {
		return Bill{}, err
	}

	var paid *time.Time
	if paidAt != nil {
		utc := paidAt.UTC()
		paid = &utc
	}

	return Bill{
		restaurant: restaurant,
		status:     status,
		paidAt:     paid,
		totalCents: totalCents,
	}, nil
}

func validateStatus(s Status) error {
	if s <= Unknown || s > Void {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid bill status", s))
	}
	return nil
}

func (b Bill) Restaurant() kernel.RestaurantID { return b.restaurant }
func (b Bill) Status() Status { return b.status }
func (b Bill) PaidAt() *time.Time { return b.paidAt }
func (b Bill) TotalCents() int64 { return b.totalCents }

// IsRevenue reports a PAID bill with a settlement instant.
func (b Bill) IsRevenue() bool {
	return b.status == Paid && b.paidAt != nil
}
