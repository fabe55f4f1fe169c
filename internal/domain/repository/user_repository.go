package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (almacén de credenciales).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// GetByLogin devuelve nil, nil si el login no existe.
	GetByLogin(ctx context.Context, login string) (*entity.User, error)
}
