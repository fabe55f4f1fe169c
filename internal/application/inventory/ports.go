package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de movimientos: stock y movimiento se confirman juntos o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// LowStockNotifier recibe los avisos de stock bajo después del commit.
// Un error aquí se registra en el log y nunca revierte el movimiento.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, warning entity.LowStockWarning) error
}

// MovementObserver recibe el resultado de cada intento de movimiento (métricas).
// outcome: "applied", "insufficient_stock", "not_found", "invalid", "error".
type MovementObserver interface {
	ObserveMovement(movementType entity.MovementType, outcome string, quantity int)
}

// HistoryReportGenerator genera el PDF del histórico.
type HistoryReportGenerator interface {
	GenerateHistoryReport(entries []*entity.HistoryEntry) ([]byte, error)
}

var errNoReportGenerator = errors.New("generador de reportes no configurado")
