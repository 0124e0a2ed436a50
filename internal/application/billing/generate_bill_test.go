package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pos/internal/application/billing"
	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/domain"
	domainbilling "github.com/jhoicas/caja-pos/internal/domain/billing"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
	"github.com/jhoicas/caja-pos/internal/domain/till"
	"github.com/jhoicas/caja-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del caso de uso de venta con fakes en memoria. El fakeTxRunner imita
// la disciplina real de la caja: un mutex serializa cada intento de venta
// (como FOR UPDATE serializa las filas), los cambios se aplican sobre un
// estado staging y solo se confirman si la función retorna nil (rollback si
// falla). Un contador permite inyectar conflictos de serialización para
// ejercitar el reintento único.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product // por código; catálogo inmutable
	stock     map[string]int64           // por ID de producto
	ledger    till.Ledger
	customers map[string]*entity.Customer // por email
	purchases []*entity.Purchase
	items     []*entity.PurchaseItem

	// conflictos pendientes por inyectar: cada venta exitosa consume uno y
	// se descarta con domain.ErrLedgerConflict en su lugar.
	injectConflicts int
	runCalls        int
}

func newMemStore(ledger till.Ledger, products ...*entity.Product) *memStore {
	s := &memStore{
		products:  make(map[string]*entity.Product),
		stock:     make(map[string]int64),
		ledger:    ledger.Clone(),
		customers: make(map[string]*entity.Customer),
	}
	for _, p := range products {
		s.products[p.Code] = p
		s.stock[p.ID] = p.AvailableStock
	}
	return s
}

// txState estado staging de una transacción en curso.
type txState struct {
	store     *memStore
	ledger    till.Ledger
	stock     map[string]int64
	purchases []*entity.Purchase
	items     []*entity.PurchaseItem
}

type fakeTxRunner struct{ store *memStore }

func (r *fakeTxRunner) RunBilling(
	_ context.Context,
	fn func(repository.ProductRepository, repository.PurchaseRepository, repository.DenominationRepository) error,
) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.runCalls++

	tx := &txState{
		store:  r.store,
		ledger: r.store.ledger.Clone(),
		stock:  make(map[string]int64, len(r.store.stock)),
	}
	for id, qty := range r.store.stock {
		tx.stock[id] = qty
	}

	if err := fn(&memProductRepo{tx}, &memPurchaseRepo{tx}, &memDenominationRepo{tx}); err != nil {
		return err // rollback: staging se descarta
	}
	if r.store.injectConflicts > 0 {
		r.store.injectConflicts--
		return domain.ErrLedgerConflict
	}

	// commit
	r.store.ledger = tx.ledger
	r.store.stock = tx.stock
	r.store.purchases = append(r.store.purchases, tx.purchases...)
	r.store.items = append(r.store.items, tx.items...)
	return nil
}

type memProductRepo struct{ tx *txState }

func (r *memProductRepo) GetByCode(code string) (*entity.Product, error) {
	p, ok := r.tx.store.products[code]
	if !ok {
		return nil, nil
	}
	copied := *p
	copied.AvailableStock = r.tx.stock[p.ID]
	return &copied, nil
}

func (r *memProductRepo) DecrementStockClamped(productID string, qty int64) error {
	current := r.tx.stock[productID]
	current -= qty
	if current < 0 {
		current = 0
	}
	r.tx.stock[productID] = current
	return nil
}

func (r *memProductRepo) Create(*entity.Product) error             { return nil }
func (r *memProductRepo) GetByID(string) (*entity.Product, error)  { return nil, nil }
func (r *memProductRepo) Update(*entity.Product) error             { return nil }
func (r *memProductRepo) List(int, int) ([]*entity.Product, error) { return nil, nil }

type memPurchaseRepo struct{ tx *txState }

func (r *memPurchaseRepo) Create(p *entity.Purchase) error {
	r.tx.purchases = append(r.tx.purchases, p)
	return nil
}

func (r *memPurchaseRepo) CreateItem(item *entity.PurchaseItem) error {
	r.tx.items = append(r.tx.items, item)
	return nil
}

func (r *memPurchaseRepo) GetByID(string) (*entity.Purchase, error) { return nil, nil }
func (r *memPurchaseRepo) GetItemsByPurchaseID(string) ([]*entity.PurchaseItem, error) {
	return nil, nil
}
func (r *memPurchaseRepo) ListByCustomer(string, int, int) ([]*entity.Purchase, error) {
	return nil, nil
}

type memDenominationRepo struct{ tx *txState }

func (r *memDenominationRepo) SnapshotForUpdate() (till.Ledger, error) {
	return r.tx.ledger.Clone(), nil
}

func (r *memDenominationRepo) DecrementDispensed(dispensed till.Breakdown) error {
	updated, err := till.ApplyDispensed(r.tx.ledger, dispensed)
	if err != nil {
		return err
	}
	r.tx.ledger = updated
	return nil
}

func (r *memDenominationRepo) List() ([]*entity.Denomination, error) { return nil, nil }
func (r *memDenominationRepo) SetCount(int64, int64) error           { return nil }
func (r *memDenominationRepo) Upsert(*entity.Denomination) error     { return nil }

type memCustomerRepo struct{ store *memStore }

func (r *memCustomerRepo) Create(c *entity.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.customers[c.Email]; exists {
		return domain.ErrDuplicate
	}
	r.store.customers[c.Email] = c
	return nil
}

func (r *memCustomerRepo) GetByEmail(email string) (*entity.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.customers[email], nil
}

func (r *memCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
	done chan struct{}
}

func (m *fakeMailer) SendReceipt(to, _ string, _, _ decimal.Decimal) error {
	m.mu.Lock()
	m.sent = append(m.sent, to)
	m.mu.Unlock()
	if m.done != nil {
		close(m.done)
	}
	return m.err
}

// ── helpers ───────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func price(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newUseCase(store *memStore, mailer billing.ReceiptMailer) *billing.GenerateBillUseCase {
	return billing.NewGenerateBillUseCase(
		&fakeTxRunner{store: store},
		&memCustomerRepo{store: store},
		mailer,
		testLogger(),
	)
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestGenerate_VentaCompleta(t *testing.T) {
	store := newMemStore(
		till.Ledger{10: 5, 5: 5, 1: 5},
		&entity.Product{ID: "p1", Code: "CAFE", Name: "Café", Price: price(t, "10.00"), TaxPercent: decimal.Zero, AvailableStock: 10},
	)
	uc := newUseCase(store, nil)

	resp, err := uc.Generate(context.Background(), dto.GenerateBillRequest{
		CustomerEmail: "ana@example.com",
		PaidAmount:    price(t, "50.00"),
		Items:         []dto.BillLineRequest{{ProductCode: "CAFE", Qty: 3}},
	})

	require.NoError(t, err)
	assert.True(t, price(t, "30.00").Equal(resp.TotalAmount))
	assert.True(t, price(t, "20.00").Equal(resp.ChangeDue))
	assert.Equal(t, []dto.ChangeLineResponse{{Value: 10, Count: 2}}, resp.ChangeBreakdown)
	assert.Zero(t, resp.ChangeLeftover)
	assert.Empty(t, resp.Skipped)

	// Estado confirmado: venta, stock y caja descontados.
	require.Len(t, store.purchases, 1)
	require.Len(t, store.items, 1)
	assert.Equal(t, int64(7), store.stock["p1"])
	assert.Equal(t, int64(3), store.ledger[10], "los dos billetes de 10 salieron de la caja")
	require.Contains(t, store.customers, "ana@example.com", "el cliente se crea al vuelo")
}

func TestGenerate_EntradaInvalida(t *testing.T) {
	store := newMemStore(till.Ledger{})
	uc := newUseCase(store, nil)

	_, err := uc.Generate(context.Background(), dto.GenerateBillRequest{
		CustomerEmail: "", PaidAmount: price(t, "10.00"),
		Items: []dto.BillLineRequest{{ProductCode: "X", Qty: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin email no hay venta")

	_, err = uc.Generate(context.Background(), dto.GenerateBillRequest{
		CustomerEmail: "ana@example.com", PaidAmount: price(t, "10.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas no hay venta")
}

func TestGenerate_LineasMalasSeDescartanYReportan(t *testing.T) {
	store := newMemStore(
		till.Ledger{1: 100},
		&entity.Product{ID: "p1", Code: "CAFE", Price: price(t, "10.00"), TaxPercent: decimal.Zero, AvailableStock: 10},
	)
	uc := newUseCase(store, nil)

	resp, err := uc.Generate(context.Background(), dto.GenerateBillRequest{
		CustomerEmail: "ana@example.com",
		PaidAmount:    price(t, "10.00"),
		Items: []dto.BillLineRequest{
			{ProductCode: "CAFE", Qty: 1},
			{ProductCode: "FANTASMA", Qty: 2},
			{ProductCode: "CAFE", Qty: 0},
		},
	})

	require.NoError(t, err, "las líneas malas no tumban la venta")
	require.Len(t, resp.Items, 1)
	require.Len(t, resp.Skipped, 2)
	assert.Equal(t, domainbilling.SkipUnknownProduct, resp.Skipped[0].Reason)
	assert.Equal(t, domainbilling.SkipInvalidQty, resp.Skipped[1].Reason)
}

func TestGenerate_PagoInsuficienteNoTocaLaCaja(t *testing.T) {
	store := newMemStore(
		till.Ledger{10: 5},
		&entity.Product{ID: "p1", Code: "CAFE", Price: price(t, "50.00"), TaxPercent: decimal.Zero, AvailableStock: 10},
	)
	uc := newUseCase(store, nil)

	resp, err := uc.Generate(context.Background(), dto.GenerateBillRequest{
		CustomerEmail: "ana@example.com",
		PaidAmount:    price(t, "30.00"),
		Items:         []dto.BillLineRequest{{ProductCode: "CAFE", Qty: 1}},
	})

	require.NoError(t, err, "el pago insuficiente se registra, no se rechaza")
	assert.True(t, price(t, "-20.00").Equal(resp.ChangeDue))
	assert.Empty(t, resp.ChangeBreakdown)
	assert.Zero(t, resp.ChangeLeftover)
	assert.Equal(t, int64(5), store.ledger[10], "la caja queda intacta")
	require.Len(t, store.purchases, 1)
}

func TestGenerate_StockSobrevendidoQuedaEnCero(t *testing.T) {
	store := newMemStore(
		till.Ledger{1: 100},
		&entity.Product{ID: "p1", Code: "CAFE", Price: price(t, "1.00"), TaxPercent: decimal.Zero, AvailableStock: 2},
	)
	uc := newUseCase(store, nil)

	_, err := uc.Generate(context.Background(), dto.GenerateBillRequest{
		CustomerEmail: "ana@example.com",
		PaidAmount:    price(t, "5.00"),
		Items:         []dto.BillLineRequest{{ProductCode: "CAFE", Qty: 5}},
	})

	require.NoError(t, err)
	assert.Zero(t, store.stock["p1"], "el stock hace clamp en cero, nunca negativo")
}

func TestGenerate_ReintentaUnaVezTrasConflicto(t *testing.T) {
	store := newMemStore(
		till.Ledger{10: 5},
		&entity.Product{ID: "p1", Code: "CAFE", Price: price(t, "10.00"), TaxPercent: decimal.Zero, AvailableStock: 10},
	)
	store.injectConflicts = 1
	uc := newUseCase(store, nil)

	resp, err := uc.Generate(context.Background(), dto.GenerateBillRequest{
		CustomerEmail: "ana@example.com",
		PaidAmount:    price(t, "20.00"),
		Items:         []dto.BillLineRequest{{ProductCode: "CAFE", Qty: 1}},
	})

	require.NoError(t, err, "un conflicto aislado se absorbe con el reintento")
	assert.Equal(t, 2, store.runCalls, "exactamente dos intentos")
	require.Len(t, store.purchases, 1, "el intento descartado no dejó rastro")
	assert.Equal(t, resp.PurchaseID, store.purchases[0].ID)
}

func TestGenerate_ConflictoPersistenteFalla(t *testing.T) {
	store := newMemStore(
		till.Ledger{10: 5},
		&entity.Product{ID: "p1", Code: "CAFE", Price: price(t, "10.00"), TaxPercent: decimal.Zero, AvailableStock: 10},
	)
	store.injectConflicts = 2
	uc := newUseCase(store, nil)

	_, err := uc.Generate(context.Background(), dto.GenerateBillRequest{
		CustomerEmail: "ana@example.com",
		PaidAmount:    price(t, "20.00"),
		Items:         []dto.BillLineRequest{{ProductCode: "CAFE", Qty: 1}},
	})

	assert.ErrorIs(t, err, domain.ErrLedgerConflict, "se reintenta una sola vez")
	assert.Equal(t, 2, store.runCalls)
	assert.Empty(t, store.purchases)
}

// TestGenerate_UltimoBilleteUnaSolaVenta: dos ventas simultáneas compiten por
// el único billete de 50. La serialización de la caja garantiza que
// exactamente una lo recibe; la otra calcula contra la caja ya descontada y
// reporta el cambio como leftover. Ambas ventas se confirman.
func TestGenerate_UltimoBilleteUnaSolaVenta(t *testing.T) {
	store := newMemStore(
		till.Ledger{50: 1},
		&entity.Product{ID: "p1", Code: "CAFE", Price: price(t, "50.00"), TaxPercent: decimal.Zero, AvailableStock: 10},
	)
	uc := newUseCase(store, nil)

	req := func(email string) dto.GenerateBillRequest {
		return dto.GenerateBillRequest{
			CustomerEmail: email,
			PaidAmount:    price(t, "100.00"),
			Items:         []dto.BillLineRequest{{ProductCode: "CAFE", Qty: 1}},
		}
	}

	var wg sync.WaitGroup
	results := make([]*dto.BillResponse, 2)
	errs := make([]error, 2)
	for i, email := range []string{"uno@example.com", "dos@example.com"} {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			results[i], errs[i] = uc.Generate(context.Background(), req(email))
		}(i, email)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	var gotNote, gotLeftover int
	for _, resp := range results {
		if len(resp.ChangeBreakdown) > 0 {
			gotNote++
			assert.Equal(t, []dto.ChangeLineResponse{{Value: 50, Count: 1}}, resp.ChangeBreakdown)
			assert.Zero(t, resp.ChangeLeftover)
		} else {
			gotLeftover++
			assert.Equal(t, int64(50), resp.ChangeLeftover)
		}
	}
	assert.Equal(t, 1, gotNote, "exactamente una venta recibe el billete")
	assert.Equal(t, 1, gotLeftover, "la otra lo reporta como remanente")
	assert.Zero(t, store.ledger[50], "la caja termina sin el billete, nunca en negativo")
	assert.Len(t, store.purchases, 2, "ambas ventas quedan registradas")
}

func TestGenerate_CorreoEnviadoEnBackground(t *testing.T) {
	store := newMemStore(
		till.Ledger{10: 5},
		&entity.Product{ID: "p1", Code: "CAFE", Price: price(t, "10.00"), TaxPercent: decimal.Zero, AvailableStock: 10},
	)
	mailer := &fakeMailer{done: make(chan struct{})}
	uc := newUseCase(store, mailer)

	_, err := uc.Generate(context.Background(), dto.GenerateBillRequest{
		CustomerEmail: "ana@example.com",
		PaidAmount:    price(t, "10.00"),
		Items:         []dto.BillLineRequest{{ProductCode: "CAFE", Qty: 1}},
	})
	require.NoError(t, err)

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("el recibo por correo nunca se disparó")
	}
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Equal(t, []string{"ana@example.com"}, mailer.sent)
}

// TestGenerate_FalloDeCorreoNoFallaLaVenta: el correo es fire-and-forget, un
// SMTP caído jamás revierte una venta ya confirmada.
func TestGenerate_FalloDeCorreoNoFallaLaVenta(t *testing.T) {
	store := newMemStore(
		till.Ledger{10: 5},
		&entity.Product{ID: "p1", Code: "CAFE", Price: price(t, "10.00"), TaxPercent: decimal.Zero, AvailableStock: 10},
	)
	mailer := &fakeMailer{err: assert.AnError, done: make(chan struct{})}
	uc := newUseCase(store, mailer)

	resp, err := uc.Generate(context.Background(), dto.GenerateBillRequest{
		CustomerEmail: "ana@example.com",
		PaidAmount:    price(t, "10.00"),
		Items:         []dto.BillLineRequest{{ProductCode: "CAFE", Qty: 1}},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.PurchaseID)
	require.Len(t, store.purchases, 1)

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("el recibo por correo nunca se disparó")
	}
}

func TestGenerate_ClienteExistenteSeReutiliza(t *testing.T) {
	store := newMemStore(
		till.Ledger{10: 5},
		&entity.Product{ID: "p1", Code: "CAFE", Price: price(t, "10.00"), TaxPercent: decimal.Zero, AvailableStock: 10},
	)
	existing := &entity.Customer{ID: "c1", Email: "ana@example.com", CreatedAt: time.Now()}
	store.customers[existing.Email] = existing
	uc := newUseCase(store, nil)

	_, err := uc.Generate(context.Background(), dto.GenerateBillRequest{
		CustomerEmail: "ana@example.com",
		PaidAmount:    price(t, "10.00"),
		Items:         []dto.BillLineRequest{{ProductCode: "CAFE", Qty: 1}},
	})

	require.NoError(t, err)
	require.Len(t, store.purchases, 1)
	assert.Equal(t, "c1", store.purchases[0].CustomerID, "la venta cuelga del cliente existente")
	assert.Len(t, store.customers, 1)
}
