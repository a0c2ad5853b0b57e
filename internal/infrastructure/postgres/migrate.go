package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Migrate crea las tablas e índices del catálogo si no existen (idempotente).
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}

// Reset vacía las tablas del catálogo (usado por el seed con --reset).
func Reset(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, `TRUNCATE product_categories, products, categories`); err != nil {
		return fmt.Errorf("vaciar tablas: %w", err)
	}
	return nil
}
