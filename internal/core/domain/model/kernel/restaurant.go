package kernel

import (
	"strings"

	"backoffice/internal/pkg/errs"
)

// RestaurantID is the tenant scope every query and command is bound to.
// It is passed explicitly through every entry point.
type RestaurantID struct {
	value string
}

// NewRestaurantID trims s and rejects blank identifiers.
func NewRestaurantID(s string) (RestaurantID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RestaurantID{}, errs.NewValueIsRequiredError("restaurantId")
	}
	return RestaurantID{value: s}, nil
}

func (r RestaurantID) String() string {
	return r.value
}

func (r RestaurantID) Validate() error {
	if r.value == "" {
		return errs.NewValueIsRequiredError("restaurantId")
	}
	return nil
}
