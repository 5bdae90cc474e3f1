package repositories

import (
	"context"

	"product-api/internal/models"
)

// ProductStore hands out units of work over the product table.
type ProductStore interface {
	NewContext() ProductContext
}

// ProductContext is a unit of work over the product table. Changes are staged in
// memory and reach storage only on SaveChanges. A context is used by one
// operation and then discarded; it is not safe for concurrent use.
type ProductContext interface {
	// List returns every product in the storage default order.
	List(ctx context.Context) ([]models.Product, error)
	// FindByID returns the tracked product with the given id, or nil if there is none.
	// Changes made to the returned product are written by the next SaveChanges.
	FindByID(ctx context.Context, id int) (*models.Product, error)
	// Add stages an insert. The id is assigned on SaveChanges.
	Add(product *models.Product)
	// Remove stages a delete.
	Remove(product *models.Product)
	// SaveChanges commits all staged changes in one transaction.
	SaveChanges(ctx context.Context) error
}

// tracked pairs an entity handed to the caller with its state at load or last save.
type tracked struct {
	entity   *models.Product
	snapshot models.Product
}

func (t tracked) dirty() bool {
	return !t.entity.SameAs(t.snapshot)
}

// changeSet holds the staged state shared by the ProductContext implementations.
type changeSet struct {
	added   []*models.Product
	removed []*models.Product
	tracked map[int]*tracked
}

func newChangeSet() changeSet {
	return changeSet{tracked: make(map[int]*tracked)}
}

func (c *changeSet) track(p *models.Product) *models.Product {
	if t, ok := c.tracked[p.ID]; ok {
		return t.entity
	}
	c.tracked[p.ID] = &tracked{entity: p, snapshot: *p}
	return p
}

func (c *changeSet) add(p *models.Product) {
	c.added = append(c.added, p)
}

func (c *changeSet) remove(p *models.Product) {
	for i, a := range c.added {
		if a == p {
			c.added = append(c.added[:i], c.added[i+1:]...)
			return
		}
	}
	c.removed = append(c.removed, p)
}

func (c *changeSet) isRemoved(p *models.Product) bool {
	for _, r := range c.removed {
		if r == p {
			return true
		}
	}
	return false
}

// modified returns the tracked entities that changed and are not staged for removal.
func (c *changeSet) modified() []*models.Product {
	var out []*models.Product
	for _, t := range c.tracked {
		if t.dirty() && !c.isRemoved(t.entity) {
			out = append(out, t.entity)
		}
	}
	return out
}

func (c *changeSet) empty() bool {
	return len(c.added) == 0 && len(c.removed) == 0 && len(c.modified()) == 0
}

// accept marks the staged changes as committed.
func (c *changeSet) accept() {
	for _, p := range c.removed {
		delete(c.tracked, p.ID)
	}
	for _, p := range c.added {
		c.tracked[p.ID] = &tracked{entity: p}
	}
	for _, t := range c.tracked {
		t.snapshot = *t.entity
	}
	c.added = nil
	c.removed = nil
}
