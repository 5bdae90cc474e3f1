package models

import (
	"product-api/internal/money"
	"product-api/internal/validation"

	"gorm.io/gorm"
)

// Product represents a product record in the store.
type Product struct {
	ID             int          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name           string       `json:"name" gorm:"size:50;not null" validate:"notblank,max=50"`
	Description    string       `json:"description" gorm:"size:300;not null" validate:"notblank,max=300"`
	Category       string       `json:"category" gorm:"size:50;not null" validate:"notblank,max=50"`
	Price          money.Amount `json:"price" gorm:"not null" validate:"money"`
	Stock          int          `json:"stock" gorm:"not null"`
	SupplierName   string       `json:"supplier_name" gorm:"size:50" validate:"max=50"`
	SupplierNumber int          `json:"supplier_number"` // phone number kept numeric, format is not checked
	SupplierEmail  string       `json:"supplier_email" gorm:"size:254" validate:"omitempty,email"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}

// CheckConstraints reports the storage-level constraint violations of p.
func (p *Product) CheckConstraints() error {
	if violations := validation.Struct(p); len(violations) > 0 {
		return &ConstraintError{Entity: "product", Violations: violations}
	}
	return nil
}

// BeforeSave runs on every gorm create and update.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	return p.CheckConstraints()
}

// SameAs reports whether every persisted field of p equals the one of other.
func (p Product) SameAs(other Product) bool {
	return p.ID == other.ID &&
		p.Name == other.Name &&
		p.Description == other.Description &&
		p.Category == other.Category &&
		p.Price.Equal(other.Price) &&
		p.Stock == other.Stock &&
		p.SupplierName == other.SupplierName &&
		p.SupplierNumber == other.SupplierNumber &&
		p.SupplierEmail == other.SupplierEmail
}
