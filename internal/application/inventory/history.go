package inventory

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// HistoryUseCase vista de sólo lectura del histórico de movimientos.
type HistoryUseCase struct {
	movRepo repository.MovementRepository
	pdf     HistoryReportGenerator
}

// NewHistoryUseCase construye el caso de uso. pdf puede ser nil si no se expone el reporte.
func NewHistoryUseCase(movRepo repository.MovementRepository, pdf HistoryReportGenerator) *HistoryUseCase {
	return &HistoryUseCase{movRepo: movRepo, pdf: pdf}
}

// ListHistory todos los movimientos, más recientes primero (empate por ID descendente).
func (uc *HistoryUseCase) ListHistory(ctx context.Context) (*dto.HistoryResponse, error) {
	entries, err := uc.movRepo.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.HistoryResponse{
		Total:   len(entries),
		Entries: make([]dto.HistoryEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, toHistoryEntryResponse(e))
	}
	return out, nil
}

// Report el mismo histórico en PDF (A4).
func (uc *HistoryUseCase) Report(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, errNoReportGenerator
	}
	entries, err := uc.movRepo.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateHistoryReport(entries)
}

func toHistoryEntryResponse(e *entity.HistoryEntry) dto.HistoryEntryResponse {
	return dto.HistoryEntryResponse{
		MovementID:  e.MovementID,
		ProductName: e.ProductName,
		Type:        string(e.Type),
		Quantity:    e.Quantity,
		Actor:       e.Actor,
		Timestamp:   e.Timestamp,
	}
}
