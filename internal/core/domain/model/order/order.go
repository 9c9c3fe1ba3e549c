package order

import (
	"errors"
	"time"

	"backoffice/internal/core/domain/model/kernel"
)

var (
	// ErrOrderIsNotConstructed is returned for Order values not built by RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via RestoreOrder constructor")
)

// Order is an immutable snapshot of a submitted order.
type Order struct {
	id          kernel.UUID
	restaurant  kernel.RestaurantID
	tableID     kernel.UUID
	tableNumber string
	status      Status
	submittedAt time.Time
	lines       []Line
	totalCents  int64

	isConstructed bool
}

// Snapshot carries the stored attributes of an order.
type Snapshot struct {
	ID          kernel.UUID
	Restaurant  kernel.RestaurantID
	TableID     kernel.UUID
	TableNumber string
	Status      Status
	SubmittedAt time.Time
	Lines       []Line
	TotalCents  int64
}

// RestoreOrder rebuilds an order from storage, validating identifiers and status.
//
// Example:
//
//	o, err := order.RestoreOrder(order.Snapshot{
//	    ID:          kernel.NewUUID(),
//	    Restaurant:  restaurantID,
//	    TableID:     tableID,
//	    TableNumber: "T4",
//	    Status:      order.Served,
//	    SubmittedAt: submittedAt,
//	    Lines:       lines,
//	    TotalCents:  2500,
//	})
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.Restaurant.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)

	return &Order{
		id:            s.ID,
		restaurant:    s.Restaurant,
		tableID:       s.TableID,
		tableNumber:   s.TableNumber,
		status:        s.Status,
		submittedAt:   s.SubmittedAt.UTC(),
		lines:         lines,
		totalCents:    s.TotalCents,
		isConstructed: true,
	}, nil
}

// Validate ensures the order was created through RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) Restaurant() kernel.RestaurantID { return o.restaurant }
func (o *Order) TableID() kernel.UUID { return o.tableID }
func (o *Order) TableNumber() string { return o.tableNumber }
func (o *Order) Status() Status { return o.status }
func (o *Order) SubmittedAt() time.Time { return o.submittedAt }
func (o *Order) TotalCents() int64 { return o.totalCents }

// Lines returns a copy of the order lines in their original sequence.
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// PrepSpan returns the full-span preparation time: latest readyAt minus
// earliest startedAt over timed lines. ok is false when the order has no
// timed line.
func (o *Order) PrepSpan() (span time.Duration, ok bool) {
	var minStarted, maxReady time.Time
	for _, l := range o.lines {
		if !l.IsTimed() {
			continue
		}
		if !ok || l.StartedAt().Before(minStarted) {
			minStarted = *l.StartedAt()
		}
		if !ok || l.ReadyAt().After(maxReady) {
			maxReady = *l.ReadyAt()
		}
		ok = true
	}
	if !ok {
		return 0, false
	}
	return maxReady.Sub(minStarted), true
}
