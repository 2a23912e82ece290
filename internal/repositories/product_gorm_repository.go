package repositories

import (
	"context"
	"errors"
	"fmt"

	"productstore/internal/errs"
	"productstore/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
// The db should be opened with TranslateError enabled so unique violations
// surface as gorm.ErrDuplicatedKey.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database in id order.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	return findByID(r.db.WithContext(ctx), id)
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = 0
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product name %q already exists: %w", product.Name, errs.ErrConflict)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites name, description, price and qty of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findByID(tx, product.ID); err != nil {
			return err
		}

		// Explicit columns so zero values are written as well.
		res := tx.Model(&models.Product{ID: product.ID}).
			Select("name", "description", "price", "qty").
			Updates(product)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("product name %q already exists: %w", product.Name, errs.ErrConflict)
			}
			return fmt.Errorf("failed to update product: %w", res.Error)
		}
		return nil
	})
}

// Delete deletes a product by its ID and returns the row as it was.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) (*models.Product, error) {
	var snapshot *models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := findByID(tx, id)
		if err != nil {
			return err
		}

		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %d not found for deletion: %w", id, errs.ErrNotFound)
		}
		snapshot = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Ping checks the underlying connection.
func (r *GORMProductRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func findByID(db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d not found: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}
