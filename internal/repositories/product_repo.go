package repositories

import (
	"context"

	"productstore/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Implementations report missing ids with errs.ErrNotFound and name
// collisions with errs.ErrConflict; every other error is a storage failure.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	// Create assigns product.ID and persists the row.
	Create(ctx context.Context, product *models.Product) error
	// Update replaces all mutable fields of the row identified by product.ID.
	Update(ctx context.Context, product *models.Product) error
	// Delete removes the row and returns it as it was before removal.
	Delete(ctx context.Context, id uint) (*models.Product, error)
	Ping(ctx context.Context) error
}
