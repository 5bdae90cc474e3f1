package repositories

import (
	"context"
	"errors"
	"fmt"

	"product-api/internal/models"

	"gorm.io/gorm"
)

// GORMProductStore is a GORM implementation of ProductStore.
type GORMProductStore struct {
	db *gorm.DB
}

// NewGORMProductStore creates a new instance of GORMProductStore.
func NewGORMProductStore(db *gorm.DB) *GORMProductStore {
	return &GORMProductStore{
		db: db,
	}
}

// NewContext starts a new unit of work.
func (s *GORMProductStore) NewContext() ProductContext {
	return &gormProductContext{
		db:      s.db,
		changes: newChangeSet(),
	}
}

type gormProductContext struct {
	db      *gorm.DB
	changes changeSet
}

func (c *gormProductContext) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

func (c *gormProductContext) FindByID(ctx context.Context, id int) (*models.Product, error) {
	if t, ok := c.changes.tracked[id]; ok {
		return t.entity, nil
	}

	var product models.Product
	if err := c.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return c.changes.track(&product), nil
}

func (c *gormProductContext) Add(product *models.Product) {
	c.changes.add(product)
}

func (c *gormProductContext) Remove(product *models.Product) {
	c.changes.remove(product)
}

func (c *gormProductContext) SaveChanges(ctx context.Context) error {
	if c.changes.empty() {
		return nil
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range c.changes.added {
			if err := tx.Create(p).Error; err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}
		}
		for _, p := range c.changes.modified() {
			// Select("*") writes zero values too. Save would insert a missing row.
			res := tx.Model(p).Select("*").Updates(p)
			if res.Error != nil {
				return fmt.Errorf("failed to update product %d: %w", p.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product with ID %d was removed concurrently", p.ID)
			}
		}
		for _, p := range c.changes.removed {
			res := tx.Delete(&models.Product{}, p.ID)
			if res.Error != nil {
				return fmt.Errorf("failed to delete product %d: %w", p.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product with ID %d was removed concurrently", p.ID)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.changes.accept()
	return nil
}
