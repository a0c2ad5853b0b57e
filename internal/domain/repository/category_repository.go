package repository

import (
	"context"

	"github.com/jhoicas/catalogo/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// GetByID y FindByName devuelven (nil, nil) si no existe.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Category, error)
	FindByName(ctx context.Context, name string) (*entity.Category, error) // sin distinguir mayúsculas
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context) ([]*entity.Category, error) // ordenadas por nombre
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
