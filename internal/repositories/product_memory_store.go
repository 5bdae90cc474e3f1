package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"product-api/internal/models"
)

// MemoryProductStore is an in-memory implementation of ProductStore.
type MemoryProductStore struct {
	products map[int]models.Product
	nextID   int
	mu       sync.RWMutex
}

// NewMemoryProductStore creates a new instance of MemoryProductStore.
func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{
		products: make(map[int]models.Product),
		nextID:   1,
	}
}

// NewContext starts a new unit of work.
func (s *MemoryProductStore) NewContext() ProductContext {
	return &memoryProductContext{
		store:   s,
		changes: newChangeSet(),
	}
}

// Len returns the number of stored products.
func (s *MemoryProductStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

type memoryProductContext struct {
	store   *MemoryProductStore
	changes changeSet
}

// List returns all products ordered by id, the order rows are inserted in.
func (c *memoryProductContext) List(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	productList := make([]models.Product, 0, len(c.store.products))
	for _, p := range c.store.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

func (c *memoryProductContext) FindByID(ctx context.Context, id int) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t, ok := c.changes.tracked[id]; ok {
		return t.entity, nil
	}

	c.store.mu.RLock()
	product, ok := c.store.products[id]
	c.store.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return c.changes.track(&product), nil
}

func (c *memoryProductContext) Add(product *models.Product) {
	c.changes.add(product)
}

func (c *memoryProductContext) Remove(product *models.Product) {
	c.changes.remove(product)
}

// SaveChanges checks every staged change before applying any of them.
func (c *memoryProductContext) SaveChanges(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.changes.empty() {
		return nil
	}

	modified := c.changes.modified()

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	for _, p := range c.changes.added {
		if err := p.CheckConstraints(); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
	}
	for _, p := range modified {
		if err := p.CheckConstraints(); err != nil {
			return fmt.Errorf("failed to update product %d: %w", p.ID, err)
		}
		if _, ok := c.store.products[p.ID]; !ok {
			return fmt.Errorf("product with ID %d was removed concurrently", p.ID)
		}
	}
	for _, p := range c.changes.removed {
		if _, ok := c.store.products[p.ID]; !ok {
			return fmt.Errorf("product with ID %d was removed concurrently", p.ID)
		}
	}

	for _, p := range c.changes.added {
		p.ID = c.store.nextID
		c.store.nextID++
		c.store.products[p.ID] = *p
	}
	for _, p := range modified {
		c.store.products[p.ID] = *p
	}
	for _, p := range c.changes.removed {
		delete(c.store.products, p.ID)
	}

	c.changes.accept()
	return nil
}
