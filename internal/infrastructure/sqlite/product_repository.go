package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const selectProduct = `
	SELECT p.id, p.nome, p.descricao, p.quantidade_em_estoque, p.estoque_minimo, p.localizacao,
	       p.categoria_id, c.nome
	FROM produto p
	JOIN categoria c ON c.id = p.categoria_id`

// ProductRepo implementación de ProductRepository sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con stock 0.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO produto (nome, descricao, quantidade_em_estoque, estoque_minimo, localizacao, categoria_id)
		VALUES (?, ?, 0, ?, ?, ?)`,
		p.Name, p.Description, p.MinimumStock, p.Location, p.CategoryID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, p.CategoryID)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID, err = res.LastInsertId()
	p.Quantity = 0
	return err
}

// GetByID obtiene un producto con el nombre de su categoría.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx, selectProduct+` WHERE p.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza los datos descriptivos. quantidade_em_estoque no se toca.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE produto
		SET nome = ?, descricao = ?, estoque_minimo = ?, localizacao = ?, categoria_id = ?
		WHERE id = ?`,
		p.Name, p.Description, p.MinimumStock, p.Location, p.CategoryID, p.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, p.CategoryID)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return requireAffected(res)
}

// Delete elimina el producto. Con movimientos la FK (RESTRICT) lo impide.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM produto WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrReferentialConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(res)
}

// List productos por nombre. El filtro por nombre o descripción se aplica en Go
// para ignorar mayúsculas también fuera de ASCII.
func (r *ProductRepo) List(ctx context.Context, search string) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, selectProduct+` ORDER BY p.nome, p.id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var match *folder
	if search != "" {
		match = newFolder(search)
	}
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		if match != nil && !match.matches(p.Name, p.Description) {
			continue
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Quantity, &p.MinimumStock, &p.Location,
		&p.CategoryID, &p.CategoryName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
