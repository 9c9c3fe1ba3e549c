// Package postgres is the storage side of the back-office analytics core: the
// GORM connection, schema migration and the Unit of Work that bounds rating
// maintenance transactions. Read-only analytics queries live in analyticsrepo,
// the rating aggregate store in ratingrepo.
//
// Usage:
//
//	db, err := postgres.Open(cfg)
//	if err != nil {
//	    return err
//	}
//	factory := postgres.NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	repo := uow.ItemRatingRepository()
//	agg, err := repo.Get(ctx, restaurantID, itemID)
//	...
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance holds its own transaction
//   - Multiple goroutines should use separate UnitOfWork instances
//   - No row lock is taken on the rating read; concurrent writers on the
//     same item follow last-writer-wins
package postgres

import (
	"context"

	"backoffice/internal/adapters/out/postgres/ratingrepo"
	"backoffice/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Each business operation gets a fresh unit of work.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance with no transaction started.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction for rating maintenance.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin initiates a new database transaction for the unit of work.
// Calling Begin again on an open unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the current transaction. After a successful Commit it
// returns gorm.ErrInvalidTransaction, which deferred callers ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// ItemRatingRepository returns the rating store bound to the active
// transaction, or to the plain connection when none was started.
func (uow *GormUnitOfWork) ItemRatingRepository() ports.ItemRatingRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return ratingrepo.NewGormItemRatingRepository(db)
}
