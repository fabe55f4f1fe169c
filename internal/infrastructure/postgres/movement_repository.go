package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL. Sólo inserta y lee.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento y asigna su ID.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movimento (tipo, quantidade, data_hora, produto_id, usuario_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, string(m.Type), m.Quantity, m.Timestamp, m.ProductID, m.UserID).Scan(&m.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o usuario del movimiento", domain.ErrNotFound)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// CountByProduct cantidad de movimientos de un producto.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM movimento WHERE produto_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// ListHistory histórico completo con nombres de producto y usuario, más reciente primero.
func (r *MovementRepo) ListHistory(ctx context.Context) ([]*entity.HistoryEntry, error) {
	query := `
		SELECT m.id, p.nome, m.tipo, m.quantidade, u.nome, m.data_hora
		FROM movimento m
		JOIN produto p ON p.id = m.produto_id
		JOIN usuario u ON u.id = m.usuario_id
		ORDER BY m.data_hora DESC, m.id DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	var list []*entity.HistoryEntry
	for rows.Next() {
		var (
			e    entity.HistoryEntry
			tipo string
		)
		if err := rows.Scan(&e.MovementID, &e.ProductName, &tipo, &e.Quantity, &e.Actor, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Type = entity.MovementType(tipo)
		list = append(list, &e)
	}
	return list, rows.Err()
}
