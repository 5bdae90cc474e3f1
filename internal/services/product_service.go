package services

import (
	"context"
	"fmt"
	"time"

	"product-api/internal/mapper"
	"product-api/internal/models"
	"product-api/internal/repositories"

	"go.uber.org/zap"
)

// EventPublisher delivers JSON messages to the message broker.
type EventPublisher interface {
	PublishJSON(routingKey string, payload interface{}) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	store     repositories.ProductStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in which
// case no product events are sent.
func NewProductService(store repositories.ProductStore, publisher EventPublisher, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.NewContext().List(ctx)
}

// GetProductByID retrieves a single product by its ID. It returns nil when no
// product has that ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	return s.store.NewContext().FindByID(ctx, id)
}

// CreateProduct stores a new product and returns it with its assigned ID.
// Input is expected to be validated by the caller.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	uow := s.store.NewContext()
	uow.Add(product)
	if err := uow.SaveChanges(ctx); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publish(models.ProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct copies name, description, category and price from product onto
// the stored product with the given ID. Stock and supplier details are never
// changed here. It returns nil when no product has that ID.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, product *models.Product) (*models.Product, error) {
	uow := s.store.NewContext()
	existing, err := uow.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.Category = product.Category
	existing.Price = product.Price

	if err := uow.SaveChanges(ctx); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	s.publish(models.ProductUpdated, existing.ID, existing)
	return existing, nil
}

// DeleteProduct deletes a product by its ID. It reports false when no product has that ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) (bool, error) {
	uow := s.store.NewContext()
	existing, err := uow.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	uow.Remove(existing)
	if err := uow.SaveChanges(ctx); err != nil {
		return false, fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	s.publish(models.ProductDeleted, id, nil)
	return true, nil
}

// publish sends a product event for a committed change. Broker failures are
// logged and never fail the call.
func (s *ProductService) publish(eventType string, id int, product *models.Product) {
	if s.publisher == nil {
		return
	}

	event := models.ProductEvent{
		Type:       eventType,
		ProductID:  id,
		OccurredAt: time.Now().UTC(),
	}
	if product != nil {
		dto := mapper.ToDTO(*product)
		event.Product = &dto
	}

	if err := s.publisher.PublishJSON(eventType, event); err != nil {
		s.logger.Warn("Failed to publish product event",
			zap.String("type", eventType),
			zap.Int("product_id", id),
			zap.Error(err),
		)
	}
}
