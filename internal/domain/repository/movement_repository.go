package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// MovementRepository registro de movimientos: sólo inserción y lectura.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	CountByProduct(ctx context.Context, productID int64) (int, error)
	// ListHistory ordenado por fecha descendente.
	ListHistory(ctx context.Context) ([]*entity.HistoryEntry, error)
}
