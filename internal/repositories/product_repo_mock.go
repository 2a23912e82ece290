package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"productstore/internal/errs"
	"productstore/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// IDs come from a counter that only moves forward, so deleted ids are never
// handed out again.
type MockProductRepository struct {
	products map[uint]models.Product
	names    map[string]uint
	lastID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		names:    make(map[string]uint),
	}
}

// GetAll returns all products ordered by ID.
func (r *MockProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d not found: %w", id, errs.ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.names[product.Name]; taken {
		return fmt.Errorf("product name %q already exists: %w", product.Name, errs.ErrConflict)
	}

	r.lastID++
	product.ID = r.lastID
	r.products[product.ID] = *product
	r.names[product.Name] = product.ID
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %d not found for update: %w", product.ID, errs.ErrNotFound)
	}
	if owner, taken := r.names[product.Name]; taken && owner != product.ID {
		return fmt.Errorf("product name %q already exists: %w", product.Name, errs.ErrConflict)
	}

	delete(r.names, current.Name)
	r.products[product.ID] = *product
	r.names[product.Name] = product.ID
	return nil
}

// Delete removes a product by its ID and returns the removed record.
func (r *MockProductRepository) Delete(_ context.Context, id uint) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d not found for deletion: %w", id, errs.ErrNotFound)
	}
	delete(r.products, id)
	delete(r.names, product.Name)
	return &product, nil
}

// Ping always succeeds.
func (r *MockProductRepository) Ping(_ context.Context) error { return nil }
