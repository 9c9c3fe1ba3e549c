package analyticsrepo

import (
	"context"
	"slices"
	"strings"
	"time"

	"backoffice/internal/core/domain/model/bill"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"

	"gorm.io/gorm"
)

// GormAnalyticsReader implements ports.AnalyticsReader using GORM. Every call
// is a separate statement on the shared pool, so concurrent sub-queries of one
// overview do not see a common snapshot.
type GormAnalyticsReader struct {
	db *gorm.DB
}

func NewGormAnalyticsReader(db *gorm.DB) *GormAnalyticsReader {
	return &GormAnalyticsReader{db: db}
}

func (r *GormAnalyticsReader) PaidBills(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	from, to time.Time,
) ([]bill.Bill, error) {
	var dtos []BillDTO
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND status = ?", restaurant.String(), bill.Paid.String()).
		Where("paid_at >= ? AND paid_at < ?", from, to).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	bills := make([]bill.Bill, 0, len(dtos))
	for _, dto := range dtos {
		b, err := billToDomain(restaurant, dto)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, nil
}

func (r *GormAnalyticsReader) ServedOrders(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	from, to time.Time,
) ([]*order.Order, error) {
	return r.findOrders(ctx, restaurant, func(db *gorm.DB) *gorm.DB {
		return db.
			Where("status = ?", order.Served.String()).
			Where("submitted_at >= ? AND submitted_at < ?", from, to).
			Order("submitted_at, seq")
	})
}

func (r *GormAnalyticsReader) ActiveOrders(ctx context.Context, restaurant kernel.RestaurantID) ([]*order.Order, error) {
	statuses := make([]string, 0, len(order.ActiveStatuses()))
	for _, s := range order.ActiveStatuses() {
		statuses = append(statuses, s.String())
	}

	return r.findOrders(ctx, restaurant, func(db *gorm.DB) *gorm.DB {
		return db.Where("status IN ?", statuses).Order("submitted_at, seq")
	})
}

// RecentOrders reads newest first so the limit applies to the latest orders,
// then hands them back oldest first.
func (r *GormAnalyticsReader) RecentOrders(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	from, to time.Time,
	limit int,
) ([]*order.Order, error) {
	if limit <= 0 {
		return []*order.Order{}, nil
	}

	orders, err := r.findOrders(ctx, restaurant, func(db *gorm.DB) *gorm.DB {
		return db.
			Where("submitted_at >= ? AND submitted_at < ?", from, to).
			Order("submitted_at DESC, seq DESC").
			Limit(limit)
	})
	if err != nil {
		return nil, err
	}

	slices.Reverse(orders)
	return orders, nil
}

func (r *GormAnalyticsReader) CountTables(ctx context.Context, restaurant kernel.RestaurantID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&TableDTO{}).
		Where("restaurant_id = ?", restaurant.String()).
		Count(&n).Error
	return n, err
}

func (r *GormAnalyticsReader) ListOrders(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	filter ports.OrderFilter,
) (ports.OrderPage, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("submitted_at >= ? AND submitted_at < ?", filter.From, filter.To)
		if filter.Status != nil {
			db = db.Where("status = ?", filter.Status.String())
		}
		if filter.TableID != nil {
			db = db.Where("table_id = ?", filter.TableID.Bytes())
		}
		if filter.TableNumber != "" {
			db = db.Where("table_number ILIKE ? ESCAPE '\\'", "%"+escapeLike(filter.TableNumber)+"%")
		}
		return db
	}

	var total int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("restaurant_id = ?", restaurant.String()).
		Scopes(scope).
		Count(&total).Error
	if err != nil {
		return ports.OrderPage{}, err
	}

	orders, err := r.findOrders(ctx, restaurant, func(db *gorm.DB) *gorm.DB {
		db = scope(db).Order("submitted_at DESC, seq DESC").Offset(filter.Offset)
		if filter.Limit > 0 {
			db = db.Limit(filter.Limit)
		}
		return db
	})
	if err != nil {
		return ports.OrderPage{}, err
	}

	return ports.OrderPage{Orders: orders, Total: total}, nil
}

// findOrders loads the restaurant's orders selected by scope together with
// their lines in sequence order.
func (r *GormAnalyticsReader) findOrders(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	scope func(*gorm.DB) *gorm.DB,
) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq")
		}).
		Where("restaurant_id = ?", restaurant.String()).
		Scopes(scope).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := orderToDomain(restaurant, dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
