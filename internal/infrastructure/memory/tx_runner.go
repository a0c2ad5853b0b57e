package memory

import (
	"context"

	"github.com/jhoicas/catalogo/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las "transacciones" en memoria y repone el estado previo si fn falla.
// Las operaciones fuera de Run no quedan aisladas de una transacción en curso.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos sobre el mismo almacén; si fn devuelve error se hace rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(categories repository.CategoryRepository, products repository.ProductRepository) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	cats, prods := r.s.snapshot()
	if err := fn(NewCategoryRepository(r.s), NewProductRepository(r.s)); err != nil {
		r.s.restore(cats, prods)
		return err
	}
	return nil
}
