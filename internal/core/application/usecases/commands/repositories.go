// Package commands contains the rating maintenance operations, the only
// writes this service performs. Every command follows the same pattern:
// validation, transaction management, and persistence.
package commands

import (
	"context"

	"backoffice/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ItemRatingRepoFactory provides access to the rating repository within a transaction.
	ItemRatingRepoFactory interface {
		ItemRatingRepository() ports.ItemRatingRepository
	}

	// RatingUoW manages transactions for rating aggregate updates.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   repo := uow.ItemRatingRepository()
	//   // ... read, apply, save
	//
	//   err = uow.Commit(ctx)
	RatingUoW interface {
		TxManager
		ItemRatingRepoFactory
	}

	// RatingUoWFactory creates new rating unit of work instances.
	RatingUoWFactory interface {
		Create() RatingUoW
	}
)
