// Package mapper converts between storage entities and transfer objects.
package mapper

import "product-api/internal/models"

// ToDTO copies the shared fields of p into a ProductDTO. Supplier details are dropped.
func ToDTO(p models.Product) models.ProductDTO {
	return models.ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
	}
}

// ToEntity copies d into a Product. Supplier details are left at their zero values.
func ToEntity(d models.ProductDTO) models.Product {
	return models.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		Stock:       d.Stock,
	}
}

// ToDTOs maps a product list. The result is never nil so it encodes as [].
func ToDTOs(products []models.Product) []models.ProductDTO {
	dtos := make([]models.ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, ToDTO(p))
	}
	return dtos
}
