package services

import (
	"context"

	"productstore/internal/models"
	"productstore/internal/repositories"

	"go.uber.org/zap"
)

// Product lifecycle event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher delivers product lifecycle events to an external broker.
type EventPublisher interface {
	Publish(eventType string, payload any) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	log       *zap.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are sent.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct stores a new product and returns it with its assigned ID.
func (s *ProductService) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	product := req.ToProduct(0)
	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, err
	}
	s.publish(EventProductCreated, product)
	return &product, nil
}

// UpdateProduct replaces every mutable field of the product with the given ID.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req models.ProductRequest) (*models.Product, error) {
	product := req.ToProduct(id)
	if err := s.repo.Update(ctx, &product); err != nil {
		return nil, err
	}
	s.publish(EventProductUpdated, product)
	return &product, nil
}

// DeleteProduct deletes a product and returns the record as it was just
// before deletion.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(EventProductDeleted, *product)
	return product, nil
}

// Ping reports whether the store is reachable.
func (s *ProductService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish is best effort: the store write has already committed.
func (s *ProductService) publish(eventType string, product models.Product) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(eventType, product); err != nil {
		s.log.Warn("failed to publish product event",
			zap.String("type", eventType),
			zap.Uint("product_id", product.ID),
			zap.Error(err),
		)
	}
}
