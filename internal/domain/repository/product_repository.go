package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia del catálogo.
// Ningún método escribe quantidade_em_estoque: eso es exclusivo de StockRepository.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si no existe. Incluye el nombre de la categoría.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// Update devuelve ErrNotFound si no existe.
	Update(ctx context.Context, product *entity.Product) error
	// Delete devuelve ErrNotFound si no existe y ErrReferentialConflict si hay movimientos.
	Delete(ctx context.Context, id int64) error
	// List filtra por nombre o descripción (sin distinguir mayúsculas) si search no está vacío.
	List(ctx context.Context, search string) ([]*entity.Product, error)
}
