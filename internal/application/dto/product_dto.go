package dto

import (
	"github.com/shopspring/decimal"
)

// ProductInput entrada del formulario de producto (crear y actualizar).
// Price y Quantity llegan como texto y se validan antes de convertirse.
type ProductInput struct {
	Name        string   `form:"name" validate:"required,max=100" msg:"required=El nombre del producto no puede estar vacío;max=El nombre del producto admite máximo 100 caracteres"`
	Description string   `form:"description" validate:"max=250" msg:"max=La descripción admite máximo 250 caracteres"`
	CategoryIDs []string `form:"category" validate:"min=1,dive,required" msg:"min=Debe seleccionar al menos una categoría;required=Debe seleccionar al menos una categoría"`
	Price       string   `form:"price" validate:"required,decimalgte0,price" msg:"required=El precio no puede estar vacío;decimalgte0=El precio debe ser un número mayor o igual a 0;price=El precio admite hasta 10 dígitos enteros y 2 decimales"`
	Quantity    string   `form:"quantity" validate:"required,uintstr" msg:"required=La cantidad no puede estar vacía;uintstr=La cantidad debe ser un entero mayor o igual a 0"`
}

// Selected indica si la categoría está marcada en la entrada.
func (in ProductInput) Selected(categoryID string) bool {
	for _, id := range in.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Quantity    int                `json:"quantity"`
	ImageURL    string             `json:"image_url"`
	Categories  []CategoryResponse `json:"categories"`
	URL         string             `json:"url"`
}

// ProductListResponse listado de productos con el filtro aplicado.
type ProductListResponse struct {
	Items  []ProductResponse `json:"items"`
	Search string            `json:"search"`
}
