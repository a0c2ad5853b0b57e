package usecase

import (
	"context"

	"github.com/jhoicas/catalogo/internal/application/dto"
	"github.com/jhoicas/catalogo/internal/domain/repository"
)

// CatalogUseCase datos de la portada.
type CatalogUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(products repository.ProductRepository, categories repository.CategoryRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products, categories: categories}
}

// Index cuenta productos y categorías.
func (uc *CatalogUseCase) Index(ctx context.Context) (*dto.IndexResponse, error) {
	products, err := uc.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categories.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.IndexResponse{ProductCount: products, CategoryCount: categories}, nil
}
