package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListOrdersParams are the raw caller inputs of an order listing. Empty strings
// and zero numbers select the defaults.
type ListOrdersParams struct {
	Date       string // today | yesterday | this_week | this_month
	AnchorDate string
	Status     string
	TableID    string
	Search     string // table number substring
	Page       int
	PageSize   int
}

// ListOrdersQuery pages through a restaurant's orders inside a date preset.
type ListOrdersQuery struct {
	restaurant  kernel.RestaurantID
	preset      timerange.Period
	anchorDate  string
	status      *order.Status
	tableID     *kernel.UUID
	tableNumber string
	page        int
	pageSize    int

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(restaurant kernel.RestaurantID, p ListOrdersParams) (ListOrdersQuery, error) {
	q := ListOrdersQuery{
		restaurant:  restaurant,
		anchorDate:  p.AnchorDate,
		tableNumber: strings.TrimSpace(p.Search),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		restaurant.Validate(),
		q.setPreset(p.Date),
		q.setStatus(p.Status),
		q.setTableID(p.TableID),
		q.setPaging(p.Page, p.PageSize),
	); err != nil {
		return ListOrdersQuery{}, err
	}

	return q, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Restaurant() kernel.RestaurantID { return q.restaurant }
func (q ListOrdersQuery) Preset() timerange.Period { return q.preset }
func (q ListOrdersQuery) AnchorDate() string { return q.anchorDate }
func (q ListOrdersQuery) Status() *order.Status { return q.status }
func (q ListOrdersQuery) TableID() *kernel.UUID { return q.tableID }
func (q ListOrdersQuery) TableNumber() string { return q.tableNumber }
func (q ListOrdersQuery) Page() int { return q.page }
func (q ListOrdersQuery) PageSize() int { return q.pageSize }

func (q *ListOrdersQuery) setPreset(date string) error {
	if date == "" {
		q.preset = timerange.Today
		return nil
	}
	p, err := timerange.ParsePeriod(date)
	if err != nil {
		return err
	}
	switch p {
	case timerange.Today, timerange.Yesterday, timerange.ThisWeek, timerange.ThisMonth:
		q.preset = p
		return nil
	default:
		return fmt.Errorf("%w: %w", timerange.ErrInvalidPeriod,
			errs.NewValueIsInvalidErrorWithCause("date", fmt.Errorf("%q is not an order list preset", date)))
	}
}

func (q *ListOrdersQuery) setStatus(s string) error {
	if s == "" {
		return nil
	}
	status, err := order.ParseStatus(s)
	if err != nil {
		return err
	}
	q.status = &status
	return nil
}

func (q *ListOrdersQuery) setTableID(s string) error {
	if s == "" {
		return nil
	}
	id, err := kernel.UUIDFromString(s)
	if err != nil {
		return err
	}
	q.tableID = &id
	return nil
}

func (q *ListOrdersQuery) setPaging(page, pageSize int) error {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	var errList []error
	if page < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("page", page, 1, "unbounded"))
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		errList = append(errList, errs.NewValueIsOutOfRangeError("pageSize", pageSize, 1, MaxPageSize))
	}
	q.page, q.pageSize = page, pageSize
	return errors.Join(errList...)
}

// OrderListItem is one row of an order listing.
type OrderListItem struct {
	OrderID      kernel.UUID
	TableID      kernel.UUID
	TableNumber  string
	Status       order.Status
	SubmittedAt  time.Time
	TotalCents   int64
	ItemCount    int
	ItemsSummary string
}

// ListOrdersResponse is one page of the listing.
type ListOrdersResponse struct {
	Range    timerange.Range
	Items    []OrderListItem
	Page     int
	PageSize int
	Total    int64
}
