// Package analyticsrepo is the read side of the analytics core: orders with
// their lines, bills and tables, mapped onto the domain read models.
// Nothing in this package writes.
package analyticsrepo

import (
	"errors"
	"time"

	"backoffice/internal/core/domain/model/bill"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is one submitted order. Seq is the insertion sequence; it breaks
// ties between orders submitted at the same instant.
type OrderDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Seq          int64      `gorm:"autoIncrement;not null;uniqueIndex"`
	RestaurantID string     `gorm:"not null;index:idx_orders_restaurant_submitted,priority:1"`
	TableID      *uuid.UUID `gorm:"type:uuid"`
	TableNumber  string
	Status       string    `gorm:"not null;index"`
	SubmittedAt  time.Time `gorm:"not null;index:idx_orders_restaurant_submitted,priority:2"`
	TotalCents   int64     `gorm:"not null;default:0"`

	Lines []OrderLineDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO is one ordered menu item. Seq is the position within the order.
type OrderLineDTO struct {
	OrderID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq            int       `gorm:"primaryKey;autoIncrement:false"`
	ItemID         uuid.UUID `gorm:"type:uuid;not null"`
	Name           string
	Quantity       int   `gorm:"not null"`
	UnitPriceCents int64 `gorm:"not null"`
	LineTotalCents *int64
	Status         string `gorm:"not null"`
	StartedAt      *time.Time
	ReadyAt        *time.Time
}

func (OrderLineDTO) TableName() string {
	return "order_lines"
}

// BillDTO is the settlement of a table visit.
type BillDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RestaurantID string     `gorm:"not null;index:idx_bills_restaurant_paid,priority:1"`
	Status       string     `gorm:"not null"`
	PaidAt       *time.Time `gorm:"index:idx_bills_restaurant_paid,priority:2"`
	TotalCents   int64      `gorm:"not null;default:0"`
}

func (BillDTO) TableName() string {
	return "bills"
}

// TableDTO is a dining table.
type TableDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID string    `gorm:"not null;index"`
	Number       string    `gorm:"not null"`
	Status       string    `gorm:"not null;default:active"`
}

func (TableDTO) TableName() string {
	return "restaurant_tables"
}

func orderToDomain(restaurant kernel.RestaurantID, dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var tableID kernel.UUID
	if dto.TableID != nil {
		if tableID, err = kernel.UUIDFromBytes(dto.TableID[:]); err != nil {
			return nil, err
		}
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	var errList []error
	for _, l := range dto.Lines {
		line, err := lineToDomain(l)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		lines = append(lines, line)
	}
	if err = errors.Join(errList...); err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:          id,
		Restaurant:  restaurant,
		TableID:     tableID,
		TableNumber: dto.TableNumber,
		Status:      status,
		SubmittedAt: dto.SubmittedAt,
		Lines:       lines,
		TotalCents:  dto.TotalCents,
	})
}

func lineToDomain(dto OrderLineDTO) (order.Line, error) {
	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return order.Line{}, err
	}

	return order.NewLine(order.LineSnapshot{
		ItemID:         itemID,
		Name:           dto.Name,
		Quantity:       dto.Quantity,
		UnitPriceCents: dto.UnitPriceCents,
		LineTotalCents: dto.LineTotalCents,
		Status:         order.ParseLineStatus(dto.Status),
		StartedAt:      dto.StartedAt,
		ReadyAt:        dto.ReadyAt,
	})
}

func billToDomain(restaurant kernel.RestaurantID, dto BillDTO) (bill.Bill, error) {
	status, err := bill.ParseStatus(dto.Status)
	if err != nil {
		return bill.Bill{}, err
	}
	return bill.RestoreBill(restaurant, status, dto.PaidAt, dto.TotalCents)
}
