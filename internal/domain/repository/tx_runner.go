package repository

import "context"

// TxRunner ejecuta fn con repositorios atados a una misma transacción.
// Si fn devuelve error no se confirma nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(categories CategoryRepository, products ProductRepository) error) error
}
