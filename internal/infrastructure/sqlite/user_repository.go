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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre SQLite.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario y asigna su ID.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	res, err := r.q.ExecContext(ctx, `INSERT INTO usuario (nome, login, senha_hash) VALUES (?, ?, ?)`,
		user.Name, user.Login, user.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	return err
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, `SELECT id, nome, login, senha_hash FROM usuario WHERE id = ?`, id)
}

// GetByLogin obtiene un usuario por login (único).
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT id, nome, login, senha_hash FROM usuario WHERE login = ?`, login)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Login, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
