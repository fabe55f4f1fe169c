package catalog

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con repositorios atados a ella.
// El borrado de productos lo usa para verificar movimientos y borrar de forma atómica.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error) error
}
