// Package store arma los repositorios del driver configurado (PostgreSQL o SQLite).
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-api/internal/application/catalog"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/estoque-api/pkg/config"
)

// TxRunner transacciones del libro de movimientos y del catálogo.
type TxRunner interface {
	inventory.TxRunner
	catalog.TxRunner
}

// Store repositorios sobre una misma base.
type Store struct {
	Driver     string
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Products   repository.ProductRepository
	Stock      repository.StockRepository
	Movements  repository.MovementRepository
	Tx         TxRunner

	migrate func(ctx context.Context) error
	close   func()
}

// Open conecta al driver de cfg. Con AutoMigrate aplica el esquema antes de devolver.
func Open(ctx context.Context, cfg config.DBConfig) (*Store, error) {
	var s *Store
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s = &Store{
			Driver:     cfg.Driver,
			Users:      postgres.NewUserRepository(pool),
			Categories: postgres.NewCategoryRepository(pool),
			Products:   postgres.NewProductRepository(pool),
			Stock:      postgres.NewStockRepository(pool),
			Movements:  postgres.NewMovementRepository(pool),
			Tx:         postgres.NewTxRunner(pool),
			migrate:    func(ctx context.Context) error { return postgres.Migrate(ctx, pool) },
			close:      pool.Close,
		}
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Filename)
		if err != nil {
			return nil, err
		}
		s = &Store{
			Driver:     cfg.Driver,
			Users:      sqlite.NewUserRepository(db),
			Categories: sqlite.NewCategoryRepository(db),
			Products:   sqlite.NewProductRepository(db),
			Stock:      sqlite.NewStockRepository(db),
			Movements:  sqlite.NewMovementRepository(db),
			Tx:         sqlite.NewTxRunner(db),
			migrate:    func(ctx context.Context) error { return sqlite.Migrate(ctx, db) },
			close:      func() { _ = db.Close() },
		}
	default:
		return nil, fmt.Errorf("store: driver desconocido %q", cfg.Driver)
	}

	if cfg.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Migrate crea el esquema si no existe.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.migrate(ctx); err != nil {
		return fmt.Errorf("migrar %s: %w", s.Driver, err)
	}
	return nil
}

// Close libera la conexión.
func (s *Store) Close() {
	s.close()
}
