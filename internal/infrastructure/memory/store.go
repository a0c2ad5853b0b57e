// Package memory implementa los repositorios del catálogo en memoria del proceso.
// Se usa con DB_DRIVER=memory (desarrollo, demos) y en los tests.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/catalogo/internal/domain/entity"
)

// Store datos compartidos por los repositorios en memoria.
type Store struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	categories map[string]entity.Category
	products   map[string]entity.Product
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		categories: make(map[string]entity.Category),
		products:   make(map[string]entity.Product),
	}
}

// foldKey clave de comparación sin distinguir mayúsculas. Misma semántica que lower() de PostgreSQL
// ("ß" y "SS" son nombres distintos).
func foldKey(s string) string {
	return strings.ToLower(s)
}

func lessByName(a, b string) bool {
	ka, kb := foldKey(a), foldKey(b)
	if ka != kb {
		return ka < kb
	}
	return a < b
}

func cloneProduct(p entity.Product) entity.Product {
	p.CategoryIDs = append([]string(nil), p.CategoryIDs...)
	p.Categories = nil
	return p
}

// snapshot copia el estado actual; restore lo repone. Llamar sin mu tomado.
func (s *Store) snapshot() (map[string]entity.Category, map[string]entity.Product) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cats := make(map[string]entity.Category, len(s.categories))
	for k, v := range s.categories {
		cats[k] = v
	}
	prods := make(map[string]entity.Product, len(s.products))
	for k, v := range s.products {
		prods[k] = cloneProduct(v)
	}
	return cats, prods
}

func (s *Store) restore(cats map[string]entity.Category, prods map[string]entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = cats
	s.products = prods
}

func sortCategories(list []*entity.Category) {
	sort.Slice(list, func(i, j int) bool { return lessByName(list[i].Name, list[j].Name) })
}

func sortProducts(list []*entity.Product) {
	sort.Slice(list, func(i, j int) bool { return lessByName(list[i].Name, list[j].Name) })
}

func containsFold(s, sub string) bool {
	return strings.Contains(foldKey(s), foldKey(sub))
}

// Reset vacía el almacén.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = make(map[string]entity.Category)
	s.products = make(map[string]entity.Product)
}
