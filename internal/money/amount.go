// Package money holds the fixed-point amount type stored in price columns.
package money

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Column limits of a stored amount: decimal(18,2).
const (
	Precision = 18
	Scale     = 2
)

// Amount is a decimal value that goes on the wire as a JSON number and keeps
// every digit in storage. Postgres stores it as decimal(18,2). SQLite stores it
// as text, since SQLite would coerce a numeric column to a float.
type Amount struct {
	decimal.Decimal
}

// FromDecimal wraps d.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// NewFromString parses s, e.g. "12.50".
func NewFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Decimal: d}, nil
}

// RequireFromString parses s and panics if it is not a decimal.
func RequireFromString(s string) Amount {
	return Amount{Decimal: decimal.RequireFromString(s)}
}

// Equal reports whether a and b have the same value, ignoring trailing zeros.
func (a Amount) Equal(b Amount) bool {
	return a.Decimal.Equal(b.Decimal)
}

// MarshalJSON writes the amount as an unquoted JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// GormDataType is the generic data type of an amount column.
func (Amount) GormDataType() string {
	return "decimal"
}

// GormDBDataType returns the column type for the connected dialect.
func (Amount) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "sqlite" {
		return "text"
	}
	return "decimal(18,2)"
}
