package inventory_test

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: almacén en memoria con transacción simulada (snapshot + rollback)
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	levels    map[int64]*entity.StockLevel
	movements []*entity.Movement
	failMov   error
}

func newMemStore(levels ...entity.StockLevel) *memStore {
	s := &memStore{levels: map[int64]*entity.StockLevel{}}
	for i := range levels {
		l := levels[i]
		s.levels[l.ProductID] = &l
	}
	return s
}

func (s *memStore) Withdraw(_ context.Context, id int64, q int) (*entity.StockLevel, error) {
	l, ok := s.levels[id]
	if !ok || l.Quantity < q {
		return nil, nil
	}
	l.Quantity -= q
	cp := *l
	return &cp, nil
}

func (s *memStore) Deposit(_ context.Context, id int64, q int) (*entity.StockLevel, error) {
	l, ok := s.levels[id]
	if !ok || l.Quantity > entity.MaxStockQuantity-q {
		return nil, nil
	}
	l.Quantity += q
	cp := *l
	return &cp, nil
}

func (s *memStore) GetLevel(_ context.Context, id int64) (*entity.StockLevel, error) {
	l, ok := s.levels[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (s *memStore) ListLevels(_ context.Context) ([]*entity.StockLevel, error) {
	out := make([]*entity.StockLevel, 0, len(s.levels))
	for _, l := range s.levels {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

func (s *memStore) Create(_ context.Context, m *entity.Movement) error {
	if s.failMov != nil {
		return s.failMov
	}
	m.ID = int64(len(s.movements) + 1)
	cp := *m
	s.movements = append(s.movements, &cp)
	return nil
}

func (s *memStore) CountByProduct(_ context.Context, id int64) (int, error) {
	n := 0
	for _, m := range s.movements {
		if m.ProductID == id {
			n++
		}
	}
	return n, nil
}

func (s *memStore) ListHistory(_ context.Context) ([]*entity.HistoryEntry, error) {
	out := make([]*entity.HistoryEntry, 0, len(s.movements))
	for i := len(s.movements) - 1; i >= 0; i-- {
		m := s.movements[i]
		out = append(out, &entity.HistoryEntry{
			MovementID:  m.ID,
			ProductName: s.levels[m.ProductID].ProductName,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Actor:       "Maria",
			Timestamp:   m.Timestamp,
		})
	}
	return out, nil
}

// Run serializa como lo haría la BD y restaura el snapshot si fn falla.
func (s *memStore) Run(_ context.Context, fn func(repository.StockRepository, repository.MovementRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := map[int64]entity.StockLevel{}
	for id, l := range s.levels {
		snapshot[id] = *l
	}
	nMov := len(s.movements)
	if err := fn(s, s); err != nil {
		for id, l := range snapshot {
			l := l
			s.levels[id] = &l
		}
		s.movements = s.movements[:nMov]
		return err
	}
	return nil
}

// sumMovements Σ(entrada) − Σ(saida) de un producto.
func (s *memStore) sumMovements(id int64) int {
	total := 0
	for _, m := range s.movements {
		if m.ProductID == id {
			total += m.Type.Sign() * m.Quantity
		}
	}
	return total
}

type recordingNotifier struct {
	warnings []entity.LowStockWarning
	err      error
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, w entity.LowStockWarning) error {
	n.warnings = append(n.warnings, w)
	return n.err
}

type recordingObserver struct {
	outcomes []string
}

func (o *recordingObserver) ObserveMovement(_ entity.MovementType, outcome string, _ int) {
	o.outcomes = append(o.outcomes, outcome)
}

var fixedNow = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func newLedger(store *memStore, opts ...inventory.LedgerOption) *inventory.LedgerUseCase {
	opts = append([]inventory.LedgerOption{inventory.WithClock(func() time.Time { return fixedNow })}, opts...)
	return inventory.NewLedgerUseCase(store, store, opts...)
}

func widget() entity.StockLevel {
	return entity.StockLevel{ProductID: 1, ProductName: "Widget", Quantity: 10, MinimumStock: 5}
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_SalidaDentroDelStock(t *testing.T) {
	store := newMemStore(widget())
	uc := newLedger(store)

	res, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 1, Type: "saida", Quantity: 4, UserID: 9})
	require.NoError(t, err)
	assert.Equal(t, 6, res.NewQuantity)
	assert.Nil(t, res.Warning)
	require.Len(t, store.movements, 1)
	m := store.movements[0]
	assert.Equal(t, entity.MovementTypeOut, m.Type)
	assert.Equal(t, 4, m.Quantity)
	assert.Equal(t, int64(9), m.UserID)
	assert.Equal(t, fixedNow, m.Timestamp, "la fecha la pone el servidor")
}

func TestApplyMovement_SalidaMayorQueStock(t *testing.T) {
	store := newMemStore(widget())
	obs := &recordingObserver{}
	uc := newLedger(store, inventory.WithObserver(obs))

	res, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 1, Type: "saida", Quantity: 11, UserID: 9})
	assert.Nil(t, res)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "Widget", ise.ProductName)
	assert.Equal(t, 10, ise.Available)
	assert.Equal(t, 11, ise.Requested)

	assert.Equal(t, 10, store.levels[1].Quantity, "el stock no cambia")
	assert.Empty(t, store.movements, "no se registra movimiento")
	assert.Equal(t, []string{inventory.OutcomeInsufficientStock}, obs.outcomes)
}

func TestApplyMovement_EscenarioWidget(t *testing.T) {
	store := newMemStore(widget())
	notifier := &recordingNotifier{}
	uc := newLedger(store, inventory.WithNotifier(notifier))
	ctx := context.Background()

	res, err := uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: 1, Type: "saida", Quantity: 7, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, res.NewQuantity)
	require.NotNil(t, res.Warning)
	assert.Equal(t, "Widget", res.Warning.ProductName)
	assert.Equal(t, 3, res.Warning.Quantity)
	assert.Equal(t, 5, res.Warning.MinimumStock)
	require.Len(t, notifier.warnings, 1)

	_, err = uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: 1, Type: "saida", Quantity: 5, UserID: 1})
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "Widget", ise.ProductName)
	assert.Equal(t, 3, ise.Available)
	assert.Equal(t, 3, store.levels[1].Quantity)
	assert.Len(t, store.movements, 1)
}

func TestApplyMovement_IgualAlMinimoNoAvisa(t *testing.T) {
	store := newMemStore(widget())
	notifier := &recordingNotifier{}
	uc := newLedger(store, inventory.WithNotifier(notifier))

	res, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 1, Type: "saida", Quantity: 5, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, res.NewQuantity)
	assert.Nil(t, res.Warning, "igual al mínimo no es bajo el mínimo")
	assert.Empty(t, notifier.warnings)
}

func TestApplyMovement_SalidaExactaDejaCero(t *testing.T) {
	store := newMemStore(entity.StockLevel{ProductID: 2, ProductName: "Cabo", Quantity: 3})

	res, err := newLedger(store).ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 2, Type: "out", Quantity: 3, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewQuantity)
	assert.Nil(t, res.Warning)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_Entrada(t *testing.T) {
	store := newMemStore(widget())

	res, err := newLedger(store).ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 1, Type: "entrada", Quantity: 15, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 25, res.NewQuantity)
	assert.Equal(t, entity.MovementTypeIn, res.Movement.Type)
	assert.NotZero(t, res.Movement.ID)
}

func TestApplyMovement_EntradaQueSigueBajoElMinimoAvisa(t *testing.T) {
	store := newMemStore(entity.StockLevel{ProductID: 1, ProductName: "Widget", Quantity: 0, MinimumStock: 10})

	res, err := newLedger(store).ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 1, Type: "in", Quantity: 4, UserID: 1})
	require.NoError(t, err)
	require.NotNil(t, res.Warning)
	assert.Equal(t, 4, res.Warning.Quantity)
}

func TestApplyMovement_ProductoInexistente(t *testing.T) {
	store := newMemStore(widget())
	uc := newLedger(store)

	_, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 99, Type: "entrada", Quantity: 1, UserID: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 99, Type: "saida", Quantity: 1, UserID: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación, rollback, notificador
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_Validaciones(t *testing.T) {
	store := newMemStore(widget())
	uc := newLedger(store)
	ctx := context.Background()

	cases := []inventory.MovementInput{
		{ProductID: 1, Type: "transferencia", Quantity: 1, UserID: 1},
		{ProductID: 1, Type: "", Quantity: 1, UserID: 1},
		{ProductID: 0, Type: "entrada", Quantity: 1, UserID: 1},
		{ProductID: 1, Type: "entrada", Quantity: 0, UserID: 1},
		{ProductID: 1, Type: "saida", Quantity: -3, UserID: 1},
		{ProductID: 1, Type: "entrada", Quantity: 1, UserID: 0},
		{ProductID: 1, Type: "entrada", Quantity: entity.MaxQuantity + 1, UserID: 1},
		{ProductID: 1, Type: "saida", Quantity: math.MaxInt, UserID: 1},
	}
	for _, in := range cases {
		_, err := uc.ApplyMovement(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
	assert.Equal(t, 10, store.levels[1].Quantity)
	assert.Empty(t, store.movements)
}

func TestApplyMovement_EntradaQueExcedeElTopeDeStock(t *testing.T) {
	w := widget()
	w.Quantity = entity.MaxStockQuantity - 5
	store := newMemStore(w)
	uc := newLedger(store)

	_, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 1, Type: "entrada", Quantity: 6, UserID: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Widget")
	assert.Equal(t, entity.MaxStockQuantity-5, store.levels[1].Quantity)
	assert.Empty(t, store.movements)

	res, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 1, Type: "entrada", Quantity: 5, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, entity.MaxStockQuantity, res.NewQuantity)
}

func TestApplyMovement_FalloAlInsertarMovimientoRevierte(t *testing.T) {
	store := newMemStore(widget())
	store.failMov = errors.New("disco lleno")
	obs := &recordingObserver{}
	uc := newLedger(store, inventory.WithObserver(obs))

	_, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 1, Type: "saida", Quantity: 2, UserID: 1})
	require.Error(t, err)
	assert.Equal(t, 10, store.levels[1].Quantity, "la cantidad no cambia si falla el insert")
	assert.Empty(t, store.movements)
	assert.Equal(t, []string{inventory.OutcomeError}, obs.outcomes)
}

func TestApplyMovement_ErrorDelNotificadorNoAfectaResultado(t *testing.T) {
	store := newMemStore(widget())
	notifier := &recordingNotifier{err: errors.New("broker caído")}
	uc := newLedger(store, inventory.WithNotifier(notifier))

	res, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 1, Type: "saida", Quantity: 8, UserID: 1})
	require.NoError(t, err)
	require.NotNil(t, res.Warning)
	assert.Equal(t, 2, store.levels[1].Quantity)
	assert.Len(t, notifier.warnings, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante: stock = Σ movimientos con signo
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_InvarianteStockIgualSumaDeMovimientos(t *testing.T) {
	store := newMemStore(entity.StockLevel{ProductID: 1, ProductName: "Widget", MinimumStock: 5})
	uc := newLedger(store)
	ctx := context.Background()

	seq := []inventory.MovementInput{
		{Type: "entrada", Quantity: 10},
		{Type: "saida", Quantity: 3},
		{Type: "saida", Quantity: 20}, // rechazada
		{Type: "entrada", Quantity: 4},
		{Type: "saida", Quantity: 11},
		{Type: "saida", Quantity: 1}, // rechazada: queda 0
	}
	for _, in := range seq {
		in.ProductID, in.UserID = 1, 1
		_, _ = uc.ApplyMovement(ctx, in)
		assert.Equal(t, store.sumMovements(1), store.levels[1].Quantity)
		assert.GreaterOrEqual(t, store.levels[1].Quantity, 0)
	}
	assert.Equal(t, 0, store.levels[1].Quantity)
	assert.Len(t, store.movements, 4)
}

func TestApplyMovement_SalidasConcurrentesNuncaDejanStockNegativo(t *testing.T) {
	store := newMemStore(widget())
	uc := newLedger(store)

	var wg sync.WaitGroup
	var mu sync.Mutex
	applied := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{ProductID: 1, Type: "saida", Quantity: 3, UserID: 1}); err == nil {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, applied)
	assert.Equal(t, 1, store.levels[1].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock, reposición e histórico
// ──────────────────────────────────────────────────────────────────────────────

func TestListStock(t *testing.T) {
	store := newMemStore(
		entity.StockLevel{ProductID: 1, ProductName: "Widget", Quantity: 2, MinimumStock: 5},
		entity.StockLevel{ProductID: 2, ProductName: "Arruela", Quantity: 8, MinimumStock: 1},
	)

	levels, err := newLedger(store).ListStock(context.Background())
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, "Arruela", levels[0].Name)
	assert.False(t, levels[0].BelowMinimum)
	assert.True(t, levels[1].BelowMinimum)
}

func TestGenerateReplenishmentList(t *testing.T) {
	store := newMemStore(
		entity.StockLevel{ProductID: 1, ProductName: "Widget", Quantity: 2, MinimumStock: 5},
		entity.StockLevel{ProductID: 2, ProductName: "Arruela", Quantity: 8, MinimumStock: 1},
		entity.StockLevel{ProductID: 3, ProductName: "Parafuso", Quantity: 0, MinimumStock: 10},
		entity.StockLevel{ProductID: 4, ProductName: "Porca", Quantity: 5, MinimumStock: 5},
	)

	list, err := inventory.NewReplenishmentUseCase(store).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Parafuso", list[0].Name)
	assert.Equal(t, 10, list[0].SuggestedEntry)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, "Widget", list[1].Name)
	assert.Equal(t, 3, list[1].SuggestedEntry)
}

type fakePDF struct{ got int }

func (f *fakePDF) GenerateHistoryReport(entries []*entity.HistoryEntry) ([]byte, error) {
	f.got = len(entries)
	return []byte("%PDF-1.3"), nil
}

func TestHistory_ListYReporte(t *testing.T) {
	store := newMemStore(widget())
	uc := newLedger(store)
	ctx := context.Background()
	_, err := uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: 1, Type: "entrada", Quantity: 1, UserID: 1})
	require.NoError(t, err)
	_, err = uc.ApplyMovement(ctx, inventory.MovementInput{ProductID: 1, Type: "saida", Quantity: 2, UserID: 1})
	require.NoError(t, err)

	pdf := &fakePDF{}
	h := inventory.NewHistoryUseCase(store, pdf)
	out, err := h.ListHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, "saida", out.Entries[0].Type, "más reciente primero")
	assert.Equal(t, "Widget", out.Entries[0].ProductName)

	b, err := h.Report(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	assert.Equal(t, 2, pdf.got)

	_, err = inventory.NewHistoryUseCase(store, nil).Report(ctx)
	assert.Error(t, err)
}
