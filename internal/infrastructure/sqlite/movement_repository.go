package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre SQLite. Sólo inserta y lee.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento y asigna su ID.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO movimento (tipo, quantidade, data_hora, produto_id, usuario_id)
		VALUES (?, ?, ?, ?, ?)`,
		string(m.Type), m.Quantity, formatTime(m.Timestamp), m.ProductID, m.UserID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o usuario del movimiento", domain.ErrNotFound)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	m.ID, err = res.LastInsertId()
	return err
}

// CountByProduct cantidad de movimientos de un producto.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT count(*) FROM movimento WHERE produto_id = ?`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// ListHistory histórico completo, más reciente primero.
func (r *MovementRepo) ListHistory(ctx context.Context) ([]*entity.HistoryEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT m.id, p.nome, m.tipo, m.quantidade, u.nome, m.data_hora
		FROM movimento m
		JOIN produto p ON p.id = m.produto_id
		JOIN usuario u ON u.id = m.usuario_id
		ORDER BY m.data_hora DESC, m.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	var list []*entity.HistoryEntry
	for rows.Next() {
		var (
			e        entity.HistoryEntry
			tipo, ts string
		)
		if err := rows.Scan(&e.MovementID, &e.ProductName, &tipo, &e.Quantity, &e.Actor, &ts); err != nil {
			return nil, err
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("data_hora %q: %w", ts, err)
		}
		e.Type = entity.MovementType(tipo)
		list = append(list, &e)
	}
	return list, rows.Err()
}
