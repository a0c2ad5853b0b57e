package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Pertenece a una o más categorías.
// Categories solo se llena cuando el repositorio resuelve las referencias (detalle).
type Product struct {
	ID          string
	Name        string
	Description string
	CategoryIDs []string
	Categories  []Category
	Price       decimal.Decimal
	Quantity    int
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasCategory indica si el producto referencia la categoría.
func (p *Product) HasCategory(categoryID string) bool {
	for _, id := range p.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}
