package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

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

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con stock 0.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO produto (nome, descricao, quantidade_em_estoque, estoque_minimo, localizacao, categoria_id)
		VALUES ($1, $2, 0, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, p.Name, p.Description, p.MinimumStock, p.Location, p.CategoryID).Scan(&p.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, p.CategoryID)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	p.Quantity = 0
	return nil
}

// GetByID obtiene un producto por ID con el nombre de su categoría.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, selectProduct+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza los datos descriptivos. quantidade_em_estoque no se toca.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE produto
		SET nome = $1, descricao = $2, estoque_minimo = $3, localizacao = $4, categoria_id = $5
		WHERE id = $6`
	tag, err := r.q.Exec(ctx, query, p.Name, p.Description, p.MinimumStock, p.Location, p.CategoryID, p.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, p.CategoryID)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el producto. Si tiene movimientos la FK (RESTRICT) lo impide.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM produto WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrReferentialConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List productos por nombre; search filtra por nombre o descripción con ILIKE.
func (r *ProductRepo) List(ctx context.Context, search string) ([]*entity.Product, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if search == "" {
		rows, err = r.q.Query(ctx, selectProduct+` ORDER BY p.nome, p.id`)
	} else {
		rows, err = r.q.Query(ctx, selectProduct+`
			WHERE p.nome ILIKE $1 ESCAPE '\' OR p.descricao ILIKE $1 ESCAPE '\'
			ORDER BY p.nome, p.id`, likePattern(search))
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Quantity, &p.MinimumStock, &p.Location,
		&p.CategoryID, &p.CategoryName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
