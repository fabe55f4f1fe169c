package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/catalog"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/sqlite"
)

type env struct {
	db       *sql.DB
	users    *sqlite.UserRepo
	cats     *sqlite.CategoryRepo
	products *sqlite.ProductRepo
	stock    *sqlite.StockRepo
	movs     *sqlite.MovementRepo
	tx       *sqlite.TxRunner
	userID   int64
	catID    int64
}

func setup(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryDB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db))
	require.NoError(t, sqlite.Migrate(ctx, db), "la migración debe ser idempotente")

	e := &env{
		db:       db,
		users:    sqlite.NewUserRepository(db),
		cats:     sqlite.NewCategoryRepository(db),
		products: sqlite.NewProductRepository(db),
		stock:    sqlite.NewStockRepository(db),
		movs:     sqlite.NewMovementRepository(db),
		tx:       sqlite.NewTxRunner(db),
	}
	u := &entity.User{Name: "Maria Silva", Login: "maria", PasswordHash: "x"}
	require.NoError(t, e.users.Create(ctx, u))
	c := &entity.Category{Name: "Ferramentas"}
	require.NoError(t, e.cats.Create(ctx, c))
	e.userID, e.catID = u.ID, c.ID
	return e
}

func (e *env) product(t *testing.T, name string, minimum int) int64 {
	t.Helper()
	p := &entity.Product{Name: name, MinimumStock: minimum, CategoryID: e.catID}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p.ID
}

func (e *env) ledger() *inventory.LedgerUseCase {
	return inventory.NewLedgerUseCase(e.tx, e.stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

func TestUserRepo(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	u, err := e.users.GetByLogin(ctx, "maria")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Maria Silva", u.Name)

	u, err = e.users.GetByLogin(ctx, "nadie")
	require.NoError(t, err)
	assert.Nil(t, u)

	err = e.users.Create(ctx, &entity.User{Name: "Otra", Login: "maria", PasswordHash: "y"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategoryRepo(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	c, err := e.cats.GetByName(ctx, "FERRAMENTAS")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, e.catID, c.ID)

	assert.ErrorIs(t, e.cats.Create(ctx, &entity.Category{Name: "Ferramentas"}), domain.ErrDuplicate)

	require.NoError(t, e.cats.Create(ctx, &entity.Category{Name: "Elétrica"}))
	list, err := e.cats.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Elétrica", list[0].Name)
}

func TestProductRepo_CRUD(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	id := e.product(t, "Martelo", 3)
	p, err := e.products.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, "Ferramentas", p.CategoryName)

	p.Name = "Martelo de unha"
	p.Location = "B2"
	require.NoError(t, e.products.Update(ctx, p))
	p, err = e.products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Martelo de unha", p.Name)
	assert.Equal(t, "B2", p.Location)

	assert.ErrorIs(t, e.products.Update(ctx, &entity.Product{ID: 999, Name: "x", CategoryID: e.catID}), domain.ErrNotFound)
	assert.ErrorIs(t, e.products.Create(ctx, &entity.Product{Name: "x", CategoryID: 999}), domain.ErrNotFound)

	require.NoError(t, e.products.Delete(ctx, id))
	p, err = e.products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, e.products.Delete(ctx, id), domain.ErrNotFound)
}

func TestProductRepo_DeleteConMovimientosViolaFK(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	id := e.product(t, "Serrote", 0)
	_, err := e.ledger().ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Type: "entrada", Quantity: 2, UserID: e.userID})
	require.NoError(t, err)

	err = e.products.Delete(ctx, id)
	assert.ErrorIs(t, err, domain.ErrReferentialConflict)
}

func TestProductRepo_Busqueda(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	require.NoError(t, e.products.Create(ctx, &entity.Product{Name: "Parafuso", Description: "aço inox", CategoryID: e.catID}))
	require.NoError(t, e.products.Create(ctx, &entity.Product{Name: "Porca", Description: "para PARAFUSO M6", CategoryID: e.catID}))
	require.NoError(t, e.products.Create(ctx, &entity.Product{Name: "Cupom 50%", CategoryID: e.catID}))
	require.NoError(t, e.products.Create(ctx, &entity.Product{Name: "Caixa 500", CategoryID: e.catID}))

	list, err := e.products.List(ctx, "parafuso")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Parafuso", list[0].Name)
	assert.Equal(t, "Porca", list[1].Name)

	list, err = e.products.List(ctx, "50%")
	require.NoError(t, err)
	require.Len(t, list, 1, "el comodín del usuario se busca literal")
	assert.Equal(t, "Cupom 50%", list[0].Name)

	list, err = e.products.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 4)

	require.NoError(t, e.products.Create(ctx, &entity.Product{Name: "Conexão", Description: "LIGAÇÃO rápida", CategoryID: e.catID}))
	list, err = e.products.List(ctx, "CONEXÃO")
	require.NoError(t, err)
	require.Len(t, list, 1, "acentos se comparan sin distinguir mayúsculas")
	assert.Equal(t, "Conexão", list[0].Name)

	list, err = e.products.List(ctx, "ligação")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Conexão", list[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro de movimientos contra SQL real
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_EscenarioWidget(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	id := e.product(t, "Widget", 5)
	uc := e.ledger()

	_, err := uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Type: "entrada", Quantity: 10, UserID: e.userID})
	require.NoError(t, err)

	res, err := uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Type: "saida", Quantity: 7, UserID: e.userID})
	require.NoError(t, err)
	assert.Equal(t, 3, res.NewQuantity)
	require.NotNil(t, res.Warning)

	_, err = uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Type: "saida", Quantity: 5, UserID: e.userID})
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "Widget", ise.ProductName)
	assert.Equal(t, 3, ise.Available)

	level, err := e.stock.GetLevel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, level.Quantity)
	n, err := e.movs.CountByProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLedger_EntradaQueDesbordaElStockEsRechazada(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	id := e.product(t, "Widget", 0)
	uc := e.ledger()

	_, err := uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Type: "entrada", Quantity: 1, UserID: e.userID})
	require.NoError(t, err)
	_, err = uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Type: "entrada", Quantity: math.MaxInt64, UserID: e.userID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// stock ya cerca del tope: la suma no debe desbordar
	_, err = e.db.ExecContext(ctx, `UPDATE produto SET quantidade_em_estoque = ? WHERE id = ?`, entity.MaxStockQuantity-10, id)
	require.NoError(t, err)
	_, err = uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Type: "entrada", Quantity: 11, UserID: e.userID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Type: "entrada", Quantity: 10, UserID: e.userID})
	require.NoError(t, err)
	assert.Equal(t, entity.MaxStockQuantity, res.NewQuantity)

	n, err := e.movs.CountByProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "los rechazos no registran movimiento")
}

func TestLedger_FalloAlInsertarMovimientoRevierteStock(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	id := e.product(t, "Widget", 0)

	// usuario inexistente: el INSERT en movimento viola la FK después de actualizar el stock
	_, err := e.ledger().ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Type: "entrada", Quantity: 4, UserID: 999})
	require.Error(t, err)

	level, err := e.stock.GetLevel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, level.Quantity, "el update de stock se revierte con la transacción")
	n, err := e.movs.CountByProduct(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLedger_SalidasConcurrentes(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	id := e.product(t, "Widget", 0)
	uc := e.ledger()
	_, err := uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Type: "entrada", Quantity: 10, UserID: e.userID})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Type: "saida", Quantity: 4, UserID: e.userID})
			if err == nil {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, applied)
	level, err := e.stock.GetLevel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, level.Quantity)
}

func TestMovementRepo_HistorialOrdenado(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	a := e.product(t, "Arruela", 0)
	b := e.product(t, "Broca", 0)
	base := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	clock := []time.Time{base, base.Add(time.Hour), base}
	next := 0
	uc := inventory.NewLedgerUseCase(e.tx, e.stock, inventory.WithClock(func() time.Time {
		ts := clock[next]
		next++
		return ts
	}))

	for _, pid := range []int64{a, b, a} {
		_, err := uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: pid, Type: "entrada", Quantity: 1, UserID: e.userID})
		require.NoError(t, err)
	}

	h, err := e.movs.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, h, 3)
	assert.Equal(t, "Broca", h[0].ProductName)
	assert.Equal(t, base.Add(time.Hour), h[0].Timestamp)
	assert.Equal(t, int64(3), h[1].MovementID, "mismo instante: mayor ID primero")
	assert.Equal(t, int64(1), h[2].MovementID)
	assert.Equal(t, "Maria Silva", h[2].Actor)
	assert.Equal(t, entity.MovementTypeIn, h[2].Type)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo contra SQL real
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_DeleteProtegido(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	uc := catalog.NewCatalogUseCase(e.tx, e.products, e.cats)

	libre, err := uc.Create(ctx, dto.ProductRequest{Name: "Lixa", CategoryID: e.catID})
	require.NoError(t, err)
	usado, err := uc.Create(ctx, dto.ProductRequest{Name: "Trena", CategoryID: e.catID})
	require.NoError(t, err)
	_, err = e.ledger().ApplyMovement(ctx, inventory.MovementInput{ProductID: usado.ID, Type: "entrada", Quantity: 1, UserID: e.userID})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, libre.ID))
	assert.ErrorIs(t, uc.Delete(ctx, usado.ID), domain.ErrReferentialConflict)

	p, err := uc.Get(ctx, usado.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Quantity)
	n, err := e.movs.CountByProduct(ctx, usado.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "el histórico queda intacto")
}
