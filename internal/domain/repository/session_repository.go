package repository

import (
	"context"
	"time"
)

// SessionStore guarda los identificadores de sesión revocados (logout) hasta que expiran.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
