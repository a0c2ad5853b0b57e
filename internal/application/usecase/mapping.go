package usecase

import (
	"github.com/jhoicas/catalogo/internal/application/dto"
	"github.com/jhoicas/catalogo/internal/domain/entity"
)

// CategoryURL ruta de detalle de una categoría.
func CategoryURL(id string) string { return "/category/" + id }

// ProductURL ruta de detalle de un producto.
func ProductURL(id string) string { return "/product/" + id }

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		URL:         CategoryURL(c.ID),
	}
}

func toCategoryResponses(list []*entity.Category) []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	cats := make([]dto.CategoryResponse, 0, len(p.Categories))
	for i := range p.Categories {
		cats = append(cats, toCategoryResponse(&p.Categories[i]))
	}
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		ImageURL:    p.ImageURL,
		Categories:  cats,
		URL:         ProductURL(p.ID),
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out
}
