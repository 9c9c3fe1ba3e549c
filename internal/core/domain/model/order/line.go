package order

import (
	"errors"
	"fmt"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// Line is one ordered menu item with its price snapshot and kitchen timestamps.
type Line struct {
	itemID         kernel.UUID
	name           string
	quantity       int
	unitPriceCents int64
	lineTotalCents *int64
	status         LineStatus
	startedAt      *time.Time
	readyAt        *time.Time
}

// LineSnapshot carries the stored attributes of a line.
type LineSnapshot struct {
	ItemID         kernel.UUID
	Name           string
	Quantity       int
	UnitPriceCents int64
	LineTotalCents *int64
	Status         LineStatus
	StartedAt      *time.Time
	ReadyAt        *time.Time
}

// NewLine validates a snapshot and restores the line.
func NewLine(s LineSnapshot) (Line, error) {
	var errList []error
	if err := s.ItemID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if s.Quantity < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is negative", s.Quantity)))
	}
	if s.UnitPriceCents < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("unitPriceCents", fmt.Errorf("%d is negative", s.UnitPriceCents)))
	}
	if err := errors.Join(errList...); err != nil {
		return Line{}, err
	}

	return Line{
		itemID:         s.ItemID,
		name:           s.Name,
		quantity:       s.Quantity,
		unitPriceCents: s.UnitPriceCents,
		lineTotalCents: s.LineTotalCents,
		status:         s.Status,
		startedAt:      s.StartedAt,
		readyAt:        s.ReadyAt,
	}, nil
}

func (l Line) ItemID() kernel.UUID { return l.itemID }
func (l Line) Name() string { return l.name }
func (l Line) Quantity() int { return l.quantity }
func (l Line) UnitPriceCents() int64 { return l.unitPriceCents }
func (l Line) Status() LineStatus { return l.status }
func (l Line) StartedAt() *time.Time { return l.startedAt }
func (l Line) ReadyAt() *time.Time { return l.readyAt }
func (l Line) IsCancelled() bool { return l.status == LineCancelled }
func (l Line) HasLineTotalSnapshot() bool { return l.lineTotalCents != nil }

// Total is the line total snapshot, or quantity x unit price when the
// snapshot was never recorded.
func (l Line) Total() int64 {
	if l.lineTotalCents != nil {
		return *l.lineTotalCents
	}
	return int64(l.quantity) * l.unitPriceCents
}

// IsTimed reports a non-cancelled line carrying both kitchen timestamps.
// Only timed lines contribute to preparation time.
func (l Line) IsTimed() bool {
	return !l.IsCancelled() && l.startedAt != nil && l.readyAt != nil
}

// Preview renders the line as "2x Pho Bo".
func (l Line) Preview() string {
	name := l.name
	if name == "" {
		name = "Item"
	}
	return fmt.Sprintf("%dx %s", l.quantity, name)
}
