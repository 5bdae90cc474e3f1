package models

import "time"

// Routing keys of the product events.
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

// ProductEvent is published after a product change has been committed.
type ProductEvent struct {
	Type       string      `json:"type"`
	ProductID  int         `json:"product_id"`
	Product    *ProductDTO `json:"product,omitempty"` // nil for deletions
	OccurredAt time.Time   `json:"occurred_at"`
}
