package memory

import (
	"context"

	"github.com/jhoicas/catalogo/internal/domain"
	"github.com/jhoicas/catalogo/internal/domain/entity"
	"github.com/jhoicas/catalogo/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s *Store
}

// NewProductRepository construye el repositorio sobre el almacén.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

// Create persiste un producto. ErrInvalidInput si alguna categoría no existe.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	if err := r.checkCategories(product.CategoryIDs); err != nil {
		return err
	}
	r.s.products[product.ID] = cloneProduct(*product)
	return nil
}

// GetByID obtiene un producto con sus categorías resueltas (por nombre).
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	p = cloneProduct(p)
	cats := make([]*entity.Category, 0, len(p.CategoryIDs))
	for _, cid := range p.CategoryIDs {
		if c, ok := r.s.categories[cid]; ok {
			cats = append(cats, &c)
		}
	}
	sortCategories(cats)
	for _, c := range cats {
		p.Categories = append(p.Categories, *c)
	}
	return &p, nil
}

// Update reemplaza los campos editables. ErrNotFound si no existe.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.checkCategories(product.CategoryIDs); err != nil {
		return err
	}
	updated := cloneProduct(*product)
	updated.CreatedAt = current.CreatedAt
	r.s.products[product.ID] = updated
	return nil
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if filter.Search != "" && !containsFold(p.Name, filter.Search) {
			continue
		}
		p := cloneProduct(p)
		list = append(list, &p)
	}
	sortProducts(list)
	return list, nil
}

func (r *ProductRepo) ListByCategory(_ context.Context, categoryID string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.HasCategory(categoryID) {
			p := cloneProduct(p)
			list = append(list, &p)
		}
	}
	sortProducts(list)
	return list, nil
}

func (r *ProductRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.products), nil
}

// Delete elimina un producto. ErrNotFound si no existe.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// checkCategories emula la llave foránea de product_categories. Llamar con mu tomado.
func (r *ProductRepo) checkCategories(ids []string) error {
	for _, id := range ids {
		if _, ok := r.s.categories[id]; !ok {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
