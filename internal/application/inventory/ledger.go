package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// Resultados reportados al MovementObserver.
const (
	OutcomeApplied           = "applied"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeNotFound          = "not_found"
	OutcomeInvalid           = "invalid"
	OutcomeError             = "error"
)

// MovementInput entrada del libro de movimientos. Type acepta el valor persistido o sus alias.
type MovementInput struct {
	ProductID int64
	Type      string
	Quantity  int
	UserID    int64
}

// MovementResult movimiento confirmado, nueva cantidad y aviso de stock bajo opcional.
type MovementResult struct {
	Movement    entity.Movement
	NewQuantity int
	Warning     *entity.LowStockWarning
}

// LedgerUseCase registra entradas y salidas de stock de forma transaccional.
// Es el único camino que modifica la cantidad en stock.
type LedgerUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
	notifier  LowStockNotifier
	observer  MovementObserver
	log       *logger.Logger
	now       func() time.Time
}

// LedgerOption configura dependencias opcionales del libro.
type LedgerOption func(*LedgerUseCase)

// WithNotifier entrega los avisos de stock bajo a n.
func WithNotifier(n LowStockNotifier) LedgerOption {
	return func(uc *LedgerUseCase) { uc.notifier = n }
}

// WithObserver registra cada intento en o.
func WithObserver(o MovementObserver) LedgerOption {
	return func(uc *LedgerUseCase) { uc.observer = o }
}

// WithLogger usa l para los avisos y fallos de notificación.
func WithLogger(l *logger.Logger) LedgerOption {
	return func(uc *LedgerUseCase) { uc.log = l }
}

// WithClock reemplaza el reloj usado para la fecha del movimiento.
func WithClock(now func() time.Time) LedgerOption {
	return func(uc *LedgerUseCase) { uc.now = now }
}

// NewLedgerUseCase construye el caso de uso. stockRepo se usa sólo para lecturas fuera de transacción.
func NewLedgerUseCase(txRunner TxRunner, stockRepo repository.StockRepository, opts ...LedgerOption) *LedgerUseCase {
	uc := &LedgerUseCase{
		txRunner:  txRunner,
		stockRepo: stockRepo,
		log:       logger.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ApplyMovement valida la entrada, y en una única transacción ajusta el stock y agrega el movimiento.
// Una salida mayor que el stock devuelve *domain.InsufficientStockError sin escribir nada.
// Tras el commit, si la cantidad queda estrictamente bajo el mínimo, adjunta y notifica el aviso
// (sin notificador, lo registra en el log).
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	movType, err := validateMovement(in)
	if err != nil {
		t, _ := entity.ParseMovementType(in.Type)
		uc.observe(t, OutcomeInvalid, in.Quantity)
		return nil, err
	}

	var (
		level *entity.StockLevel
		mov   entity.Movement
	)
	err = uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository, movRepo repository.MovementRepository) error {
		switch movType {
		case entity.MovementTypeOut:
			level, err = uc.doOut(ctx, stockRepo, in)
		default:
			level, err = uc.doIn(ctx, stockRepo, in)
		}
		if err != nil {
			return err
		}
		// Fecha de la transacción; nunca la informa el cliente
		mov = entity.Movement{
			Type:      movType,
			Quantity:  in.Quantity,
			Timestamp: uc.now().UTC(),
			ProductID: in.ProductID,
			UserID:    in.UserID,
		}
		return movRepo.Create(ctx, &mov)
	})
	if err != nil {
		uc.observe(movType, outcomeOf(err), in.Quantity)
		return nil, err
	}
	uc.observe(movType, OutcomeApplied, in.Quantity)

	res := &MovementResult{Movement: mov, NewQuantity: level.Quantity}
	if w := entity.NewLowStockWarning(level); w != nil {
		res.Warning = w
		if uc.notifier == nil {
			uc.log.Warn().
				Int64("product_id", w.ProductID).
				Str("product", w.ProductName).
				Int("quantity", w.Quantity).
				Int("minimum", w.MinimumStock).
				Msg("stock bajo el mínimo")
		} else if nerr := uc.notifier.NotifyLowStock(ctx, *w); nerr != nil {
			uc.log.Error().Err(nerr).Int64("product_id", w.ProductID).Msg("no se pudo notificar stock bajo")
		}
	}
	return res, nil
}

// doOut: update condicional (stock >= q). Si no aplica, distingue producto inexistente de stock insuficiente.
func (uc *LedgerUseCase) doOut(ctx context.Context, stockRepo repository.StockRepository, in MovementInput) (*entity.StockLevel, error) {
	level, err := stockRepo.Withdraw(ctx, in.ProductID, in.Quantity)
	if err != nil {
		return nil, err
	}
	if level != nil {
		return level, nil
	}
	current, err := stockRepo.GetLevel(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	return nil, &domain.InsufficientStockError{
		ProductName: current.ProductName,
		Available:   current.Quantity,
		Requested:   in.Quantity,
	}
}

// doIn: suma la cantidad si el total no pasa de MaxStockQuantity; el producto debe existir.
func (uc *LedgerUseCase) doIn(ctx context.Context, stockRepo repository.StockRepository, in MovementInput) (*entity.StockLevel, error) {
	level, err := stockRepo.Deposit(ctx, in.ProductID, in.Quantity)
	if err != nil {
		return nil, err
	}
	if level != nil {
		return level, nil
	}
	current, err := stockRepo.GetLevel(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	return nil, domain.Invalid(fmt.Sprintf("la entrada excede el stock máximo de %q", current.ProductName))
}

// ListStock niveles de stock de todos los productos ordenados por nombre.
func (uc *LedgerUseCase) ListStock(ctx context.Context) ([]dto.StockLevelResponse, error) {
	levels, err := uc.stockRepo.ListLevels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.StockLevelResponse{
			ProductID:    l.ProductID,
			Name:         l.ProductName,
			Quantity:     l.Quantity,
			MinimumStock: l.MinimumStock,
			BelowMinimum: l.BelowMinimum(),
		})
	}
	return out, nil
}

func validateMovement(in MovementInput) (entity.MovementType, error) {
	movType, ok := entity.ParseMovementType(in.Type)
	if !ok {
		return "", domain.Invalid("tipo de movimiento inválido (entrada o saida)")
	}
	if in.ProductID <= 0 {
		return "", domain.Invalid("seleccione un producto")
	}
	if in.Quantity <= 0 {
		return "", domain.Invalid("la cantidad debe ser un entero positivo")
	}
	if in.Quantity > entity.MaxQuantity {
		return "", domain.Invalid(fmt.Sprintf("la cantidad no puede superar %d", entity.MaxQuantity))
	}
	if in.UserID <= 0 {
		return "", domain.Invalid("usuario de la sesión inválido")
	}
	return movType, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return OutcomeInsufficientStock
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

func (uc *LedgerUseCase) observe(t entity.MovementType, outcome string, quantity int) {
	if uc.observer != nil {
		uc.observer.ObserveMovement(t, outcome, quantity)
	}
}
