package dto

import "io"

// FieldError error de validación asociado a un campo del formulario.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse cuerpo de error HTTP (vista de error y respuestas JSON).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImageFile imagen recibida en el formulario de producto, lista para subir al host de medios.
type ImageFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// IndexResponse datos de la portada.
type IndexResponse struct {
	ProductCount  int `json:"product_count"`
	CategoryCount int `json:"category_count"`
}
