package models

import "product-api/internal/money"

// ProductDTO is the client-facing shape of a product. Supplier details are not exposed.
type ProductDTO struct {
	ID          int          `json:"id"`
	Name        string       `json:"name" validate:"notblank,max=50"`
	Description string       `json:"description" validate:"notblank,max=300"`
	Category    string       `json:"category" validate:"notblank,max=50"`
	Price       money.Amount `json:"price" validate:"money"`
	Stock       int          `json:"stock"`
}
