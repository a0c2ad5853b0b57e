package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/catalogo/internal/application/dto"
	"github.com/jhoicas/catalogo/internal/domain"
	"github.com/jhoicas/catalogo/internal/domain/entity"
	"github.com/jhoicas/catalogo/internal/domain/repository"
)

// CategoryInUseError indica que la categoría tiene productos y no se puede eliminar.
type CategoryInUseError struct {
	Category dto.CategoryResponse
	Products []dto.ProductResponse
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("categoría %q referenciada por %d producto(s)", e.Category.Name, len(e.Products))
}

func (e *CategoryInUseError) Unwrap() error { return domain.ErrConflict }

// CategoryUseCase casos de uso CRUD para categorías.
// La entrada llega ya saneada y validada (ver package validation).
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
	tx       repository.TxRunner
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, products repository.ProductRepository, tx repository.TxRunner) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, products: products, tx: tx}
}

// List lista todas las categorías ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryResponses(list), nil
}

// GetByID obtiene una categoría por ID. (nil, nil) si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil || category == nil {
		return nil, err
	}
	out := toCategoryResponse(category)
	return &out, nil
}

// Detail obtiene la categoría y los productos que la referencian. (nil, nil) si no existe.
func (uc *CategoryUseCase) Detail(ctx context.Context, id string) (*dto.CategoryDetailResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil || category == nil {
		return nil, err
	}
	products, err := uc.products.ListByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryDetailResponse{
		Category: toCategoryResponse(category),
		Products: toProductResponses(products),
	}, nil
}

// Create crea la categoría salvo que ya exista una con el mismo nombre (sin distinguir mayúsculas).
// created=false indica que se devolvió la categoría existente.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryInput) (out *dto.CategoryResponse, created bool, err error) {
	existing, err := uc.repo.FindByName(ctx, in.Name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		res := toCategoryResponse(existing)
		return &res, false, nil
	}

	now := time.Now()
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, false, err
		}
		// Otra petición la creó entre la búsqueda y el insert.
		existing, err = uc.repo.FindByName(ctx, in.Name)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, domain.ErrDuplicate
		}
		res := toCategoryResponse(existing)
		return &res, false, nil
	}
	res := toCategoryResponse(category)
	return &res, true, nil
}

// Update reemplaza nombre y descripción. No verifica duplicados. (nil, nil) si no existe.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryInput) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil || category == nil {
		return nil, err
	}
	category.Name = in.Name
	category.Description = in.Description
	category.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, category); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	out := toCategoryResponse(category)
	return &out, nil
}

// DeleteInfo datos de la confirmación de borrado. (nil, nil) si no existe.
func (uc *CategoryUseCase) DeleteInfo(ctx context.Context, id string) (*dto.CategoryDetailResponse, error) {
	return uc.Detail(ctx, id)
}

// Delete elimina la categoría si ningún producto la referencia.
// Devuelve *CategoryInUseError si hay productos y domain.ErrNotFound si no existe.
// La verificación y el borrado ocurren en la misma transacción.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository) error {
		category, err := categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.ErrNotFound
		}
		refs, err := products.ListByCategory(ctx, id)
		if err != nil {
			return err
		}
		if len(refs) > 0 {
			return &CategoryInUseError{Category: toCategoryResponse(category), Products: toProductResponses(refs)}
		}
		return categories.Delete(ctx, id)
	})
}
