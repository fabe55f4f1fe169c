package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: productos bajo el stock mínimo.
type ReplenishmentUseCase struct {
	stockRepo repository.StockRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(stockRepo repository.StockRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{stockRepo: stockRepo}
}

// GenerateReplenishmentList devuelve los productos estrictamente bajo el mínimo con la cantidad
// sugerida para volver al mínimo, ordenados por mayor déficit primero.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestion, error) {
	levels, err := uc.stockRepo.ListLevels(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestion, 0)
	for _, l := range levels {
		if !l.BelowMinimum() {
			continue
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestion{
			ProductID:      l.ProductID,
			Name:           l.ProductName,
			Quantity:       l.Quantity,
			MinimumStock:   l.MinimumStock,
			SuggestedEntry: l.MinimumStock - l.Quantity,
		})
	}

	// Mayor déficit primero; empate por nombre (ListLevels ya viene ordenado)
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].SuggestedEntry > suggestions[j].SuggestedEntry
	})

	// Prioridad 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
