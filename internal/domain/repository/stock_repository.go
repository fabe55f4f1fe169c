package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// StockRepository único punto de escritura de la cantidad en stock.
type StockRepository interface {
	// Withdraw resta quantity sólo si el stock actual alcanza (update condicional).
	// Devuelve nil, nil si no se aplicó (producto inexistente o stock insuficiente).
	Withdraw(ctx context.Context, productID int64, quantity int) (*entity.StockLevel, error)
	// Deposit suma quantity. Devuelve nil, nil si el producto no existe.
	Deposit(ctx context.Context, productID int64, quantity int) (*entity.StockLevel, error)
	// GetLevel devuelve nil, nil si el producto no existe.
	GetLevel(ctx context.Context, productID int64) (*entity.StockLevel, error)
	// ListLevels todos los productos ordenados por nombre.
	ListLevels(ctx context.Context) ([]*entity.StockLevel, error)
}
