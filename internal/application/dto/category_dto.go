package dto

// CategoryInput entrada del formulario de categoría (crear y actualizar).
// La etiqueta msg asocia cada regla con el mensaje que ve el usuario.
type CategoryInput struct {
	Name        string `form:"name" validate:"min=3,max=100" msg:"min=El nombre de la categoría debe tener al menos 3 caracteres;max=El nombre de la categoría admite máximo 100 caracteres"`
	Description string `form:"description" validate:"max=250" msg:"max=La descripción admite máximo 250 caracteres"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// CategoryDetailResponse categoría con los productos que la referencian.
type CategoryDetailResponse struct {
	Category CategoryResponse  `json:"category"`
	Products []ProductResponse `json:"products"`
}

// CategoryOption categoría como casilla del formulario de producto.
type CategoryOption struct {
	ID      string
	Name    string
	Checked bool
}
