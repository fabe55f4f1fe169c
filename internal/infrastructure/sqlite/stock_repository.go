package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre SQLite.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock.
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Withdraw resta quantity sólo si alcanza (update condicional con RETURNING).
func (r *StockRepo) Withdraw(ctx context.Context, productID int64, quantity int) (*entity.StockLevel, error) {
	return r.levelOrNil(r.q.QueryRowContext(ctx, `
		UPDATE produto
		SET quantidade_em_estoque = quantidade_em_estoque - ?
		WHERE id = ? AND quantidade_em_estoque >= ?
		RETURNING id, nome, quantidade_em_estoque, estoque_minimo`,
		quantity, productID, quantity), "withdraw stock")
}

// Deposit suma quantity sólo si el total no pasa de entity.MaxStockQuantity.
func (r *StockRepo) Deposit(ctx context.Context, productID int64, quantity int) (*entity.StockLevel, error) {
	return r.levelOrNil(r.q.QueryRowContext(ctx, `
		UPDATE produto
		SET quantidade_em_estoque = quantidade_em_estoque + ?
		WHERE id = ? AND quantidade_em_estoque <= ?
		RETURNING id, nome, quantidade_em_estoque, estoque_minimo`,
		quantity, productID, entity.MaxStockQuantity-quantity), "deposit stock")
}

// GetLevel lee el stock actual de un producto.
func (r *StockRepo) GetLevel(ctx context.Context, productID int64) (*entity.StockLevel, error) {
	return r.levelOrNil(r.q.QueryRowContext(ctx,
		`SELECT id, nome, quantidade_em_estoque, estoque_minimo FROM produto WHERE id = ?`, productID), "get stock")
}

// ListLevels niveles de todos los productos por nombre.
func (r *StockRepo) ListLevels(ctx context.Context) ([]*entity.StockLevel, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, nome, quantidade_em_estoque, estoque_minimo FROM produto ORDER BY nome, id`)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.MinimumStock); err != nil {
			return nil, err
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *StockRepo) levelOrNil(row *sql.Row, op string) (*entity.StockLevel, error) {
	var l entity.StockLevel
	if err := row.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.MinimumStock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}
