// Package storage elige el backend de persistencia según DB_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalogo/internal/domain/repository"
	"github.com/jhoicas/catalogo/internal/infrastructure/memory"
	"github.com/jhoicas/catalogo/internal/infrastructure/postgres"
	"github.com/jhoicas/catalogo/pkg/config"
	"github.com/jhoicas/catalogo/pkg/logger"
)

// Repositories repositorios listos para inyectar en los casos de uso.
type Repositories struct {
	Categories repository.CategoryRepository
	Products   repository.ProductRepository
	Tx         repository.TxRunner

	reset func(ctx context.Context) error
	close func()
}

// Open conecta con el backend configurado. Con postgres aplica el esquema si DB_AUTO_MIGRATE.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Repositories, error) {
	switch cfg.Driver {
	case "memory":
		s := memory.NewStore()
		log.Warn().Msg("usando almacén en memoria; los datos se pierden al reiniciar")
		return &Repositories{
			Categories: memory.NewCategoryRepository(s),
			Products:   memory.NewProductRepository(s),
			Tx:         memory.NewTxRunner(s),
			reset:      func(context.Context) error { s.Reset(); return nil },
			close:      func() {},
		}, nil
	case "postgres", "":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("esquema aplicado")
		}
		return &Repositories{
			Categories: postgres.NewCategoryRepository(pool),
			Products:   postgres.NewProductRepository(pool),
			Tx:         postgres.NewTxRunner(pool),
			reset:      func(ctx context.Context) error { return postgres.Reset(ctx, pool) },
			close:      pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("DB_DRIVER desconocido: %q", cfg.Driver)
}

// Reset borra todos los datos del catálogo.
func (r *Repositories) Reset(ctx context.Context) error {
	return r.reset(ctx)
}

// Close libera las conexiones.
func (r *Repositories) Close() {
	r.close()
}
