package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.SessionStore = (*MemoryStore)(nil)

// MemoryStore sesiones revocadas en memoria con expiración, para una sola instancia.
// Sin límite de tamaño: una revocación sólo se descarta al expirar, y el TTL acota el crecimiento.
// El TTL es único para todas las entradas: se usa la duración máxima de una sesión.
type MemoryStore struct {
	cache *expirable.LRU[string, struct{}]
}

// NewMemoryStore construye el store. maxAge debe ser >= la expiración del token.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	// size 0: sin desalojo por capacidad
	return &MemoryStore{cache: expirable.NewLRU[string, struct{}](0, nil, maxAge)}
}

// Revoke marca tokenID como revocado. ttl se ignora: la entrada vive maxAge.
func (s *MemoryStore) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	s.cache.Add(tokenID, struct{}{})
	return nil
}

// IsRevoked indica si tokenID fue revocado.
func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := s.cache.Peek(tokenID)
	return ok, nil
}
