package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/estoque-api/internal/infrastructure/store"
	"github.com/jhoicas/estoque-api/pkg/config"
)

func TestOpen_SQLiteConAutoMigrate(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, config.DBConfig{Driver: config.DriverSQLite, Filename: sqlite.MemoryDB, AutoMigrate: true})
	require.NoError(t, err)
	defer s.Close()

	c := &entity.Category{Name: "Ferramentas"}
	require.NoError(t, s.Categories.Create(ctx, c))
	list, err := s.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, s.Migrate(ctx), "migrar dos veces no falla")
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := store.Open(context.Background(), config.DBConfig{Driver: "mysql"})
	assert.Error(t, err)
}
