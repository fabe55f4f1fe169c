package notify

import (
	"context"
	"errors"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

var (
	_ inventory.LowStockNotifier = (*LogNotifier)(nil)
	_ inventory.LowStockNotifier = (Multi)(nil)
)

// LogNotifier registra los avisos en el log estructurado. Es el destino por defecto sin broker.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// NotifyLowStock escribe el aviso en nivel warn.
func (n *LogNotifier) NotifyLowStock(_ context.Context, w entity.LowStockWarning) error {
	n.log.Warn().
		Int64("product_id", w.ProductID).
		Str("product", w.ProductName).
		Int("quantity", w.Quantity).
		Int("minimum", w.MinimumStock).
		Msg(w.Message())
	return nil
}

// Multi reparte el aviso a todos los notificadores y junta los errores.
type Multi []inventory.LowStockNotifier

// NotifyLowStock llama a cada notificador aunque alguno falle.
func (m Multi) NotifyLowStock(ctx context.Context, w entity.LowStockWarning) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.NotifyLowStock(ctx, w); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
