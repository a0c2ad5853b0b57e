package memory

import (
	"context"

	"github.com/jhoicas/catalogo/internal/domain"
	"github.com/jhoicas/catalogo/internal/domain/entity"
	"github.com/jhoicas/catalogo/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct {
	s *Store
}

// NewCategoryRepository construye el repositorio sobre el almacén.
func NewCategoryRepository(s *Store) *CategoryRepo {
	return &CategoryRepo{s: s}
}

// Create persiste una categoría. ErrDuplicate si el nombre ya existe (sin distinguir mayúsculas).
func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := foldKey(category.Name)
	for _, c := range r.s.categories {
		if foldKey(c.Name) == key || c.ID == category.ID {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetByIDs devuelve las categorías existentes entre ids, ordenadas por nombre.
func (r *CategoryRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[string]bool, len(ids))
	var list []*entity.Category
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if c, ok := r.s.categories[id]; ok {
			list = append(list, &c)
		}
	}
	sortCategories(list)
	return list, nil
}

func (r *CategoryRepo) FindByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	key := foldKey(name)
	for _, c := range r.s.categories {
		if foldKey(c.Name) == key {
			return &c, nil
		}
	}
	return nil, nil
}

// Update reemplaza nombre y descripción. ErrNotFound si no existe, ErrDuplicate si el
// nombre choca con otra categoría (mismo comportamiento que el índice único en PostgreSQL).
func (r *CategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.categories[category.ID]
	if !ok {
		return domain.ErrNotFound
	}
	key := foldKey(category.Name)
	for id, c := range r.s.categories {
		if id != category.ID && foldKey(c.Name) == key {
			return domain.ErrDuplicate
		}
	}
	current.Name = category.Name
	current.Description = category.Description
	current.UpdatedAt = category.UpdatedAt
	r.s.categories[category.ID] = current
	return nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		c := c
		list = append(list, &c)
	}
	sortCategories(list)
	return list, nil
}

func (r *CategoryRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.categories), nil
}

// Delete elimina una categoría. ErrConflict si algún producto la referencia, ErrNotFound si no existe.
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range r.s.products {
		if p.HasCategory(id) {
			return domain.ErrConflict
		}
	}
	delete(r.s.categories, id)
	return nil
}
