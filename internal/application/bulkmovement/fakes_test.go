package bulkmovement_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/application/bulkmovement"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia. El fakeTxRunner serializa
// las "transacciones" con un mutex, igual que lo haría el bloqueo de fila en
// la base real: dos confirmaciones concurrentes entran al callback de a una.
// ──────────────────────────────────────────────────────────────────────────────

type fakeBulkRepo struct {
	mu        sync.Mutex
	movements map[string]*entity.BulkMovement
}

func newFakeBulkRepo() *fakeBulkRepo {
	return &fakeBulkRepo{movements: map[string]*entity.BulkMovement{}}
}

var _ repository.BulkMovementRepository = (*fakeBulkRepo)(nil)

// cloneMovement copia el agregado completo. Los fakes devuelven copias, como
// haría el repo real al escanear filas, para que las lecturas de los tests no
// compartan memoria con las mutaciones dentro de las "transacciones".
func cloneMovement(m *entity.BulkMovement) *entity.BulkMovement {
	if m == nil {
		return nil
	}
	out := *m
	if m.ConfirmedAt != nil {
		t := *m.ConfirmedAt
		out.ConfirmedAt = &t
	}
	out.Items = make([]*entity.BulkMovementItem, 0, len(m.Items))
	for _, it := range m.Items {
		c := *it
		if it.QuantityReceived != nil {
			q := *it.QuantityReceived
			c.QuantityReceived = &q
		}
		out.Items = append(out.Items, &c)
	}
	return &out
}

func (r *fakeBulkRepo) Create(m *entity.BulkMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements[m.ID] = cloneMovement(m)
	return nil
}

func (r *fakeBulkRepo) GetByID(id string) (*entity.BulkMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneMovement(r.movements[id]), nil
}

func (r *fakeBulkRepo) GetByToken(token string) (*entity.BulkMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneMovement(r.findByToken(token)), nil
}

func (r *fakeBulkRepo) GetByIDForUpdate(id string) (*entity.BulkMovement, error) {
	return r.GetByID(id)
}

func (r *fakeBulkRepo) GetByTokenForUpdate(token string) (*entity.BulkMovement, error) {
	return r.GetByToken(token)
}

func (r *fakeBulkRepo) findByToken(token string) *entity.BulkMovement {
	for _, m := range r.movements {
		if m.PublicToken == token {
			return m
		}
	}
	return nil
}

func (r *fakeBulkRepo) List(filter repository.BulkMovementFilter, limit, offset int) ([]*entity.BulkMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.BulkMovement
	for _, m := range r.movements {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.LocationID != "" && m.FromLocationID != filter.LocationID && m.ToLocationID != filter.LocationID {
			continue
		}
		if filter.CreatedBy != "" && m.CreatedBy != filter.CreatedBy {
			continue
		}
		list = append(list, cloneMovement(m))
	}
	if offset >= len(list) {
		return nil, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func (r *fakeBulkRepo) Count(filter repository.BulkMovementFilter) (int, error) {
	r.mu.Lock()
	n := len(r.movements)
	r.mu.Unlock()
	list, err := r.List(filter, n, 0)
	return len(list), err
}

func (r *fakeBulkRepo) UpdateStatusIfPending(id, newStatus string, confirmedBy *string, confirmedAt *time.Time, recipientNotes *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movements[id]
	if !ok || m.Status != entity.StatusPending {
		return false, nil
	}
	m.Status = newStatus
	if confirmedBy != nil {
		m.ConfirmedBy = *confirmedBy
	}
	if confirmedAt != nil {
		t := *confirmedAt
		m.ConfirmedAt = &t
	}
	if recipientNotes != nil {
		m.RecipientNotes = *recipientNotes
	}
	return true, nil
}

func (r *fakeBulkRepo) SetItemQuantityReceived(itemID string, quantityReceived int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		for _, it := range m.Items {
			if it.ID == itemID {
				q := quantityReceived
				it.QuantityReceived = &q
				return nil
			}
		}
	}
	return nil
}

func (r *fakeBulkRepo) UpdateSenderNotes(id, senderNotes string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movements[id]
	if !ok || m.Status != entity.StatusPending {
		return false, nil
	}
	m.SenderNotes = senderNotes
	return true, nil
}

func (r *fakeBulkRepo) MarkExpiredBefore(now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, m := range r.movements {
		if m.Status == entity.StatusPending && now.After(m.TokenExpiresAt) {
			m.Status = entity.StatusExpired
			count++
		}
	}
	return count, nil
}

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []*entity.MovementLog
}

var _ repository.MovementLogRepository = (*fakeLogRepo)(nil)

func (r *fakeLogRepo) Create(log *entity.MovementLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, log)
	return nil
}

func (r *fakeLogRepo) ListByProduct(productID string, _, _ *time.Time, limit, offset int) ([]*entity.MovementLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.MovementLog
	for _, l := range r.entries {
		if l.ProductID == productID {
			list = append(list, l)
		}
	}
	return list, nil
}

func (r *fakeLogRepo) ListByLocation(locationID string, _, _ *time.Time, limit, offset int) ([]*entity.MovementLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.MovementLog
	for _, l := range r.entries {
		if l.FromLocationID == locationID || l.ToLocationID == locationID {
			list = append(list, l)
		}
	}
	return list, nil
}

type stockKey struct{ productID, locationID string }

type fakeStockRepo struct {
	mu     sync.Mutex
	levels map[stockKey]decimal.Decimal
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{levels: map[stockKey]decimal.Decimal{}}
}

var _ repository.InventoryRecordRepository = (*fakeStockRepo)(nil)

func (r *fakeStockRepo) Get(productID, locationID string) (*entity.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &entity.InventoryRecord{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   r.levels[stockKey{productID, locationID}],
	}, nil
}

func (r *fakeStockRepo) GetForUpdate(productID, locationID string) (*entity.InventoryRecord, error) {
	return r.Get(productID, locationID)
}

func (r *fakeStockRepo) Upsert(rec *entity.InventoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[stockKey{rec.ProductID, rec.LocationID}] = rec.Quantity
	return nil
}

func (r *fakeStockRepo) level(productID, locationID string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.levels[stockKey{productID, locationID}]
}

type fakeTxRunner struct {
	mu    sync.Mutex
	bulk  *fakeBulkRepo
	log   *fakeLogRepo
	stock *fakeStockRepo
}

var _ bulkmovement.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	bulkRepo repository.BulkMovementRepository,
	logRepo repository.MovementLogRepository,
	stockRepo repository.InventoryRecordRepository,
) error) error {
	// Una "transacción" a la vez, como el bloqueo de fila en la BD real.
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.bulk, r.log, r.stock)
}

type fakeLocationRepo struct {
	locations map[string]*entity.Location
}

var _ repository.LocationRepository = (*fakeLocationRepo)(nil)

func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.locations[id], nil
}

func (r *fakeLocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	var list []*entity.Location
	for _, loc := range r.locations {
		list = append(list, loc)
	}
	return list, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.products {
		list = append(list, p)
	}
	return list, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test: ubicaciones A y B, productos P1 y P2, casos de uso armados
// sobre los fakes.
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	bulk    *fakeBulkRepo
	logs    *fakeLogRepo
	stock   *fakeStockRepo
	create  *bulkmovement.CreateUseCase
	confirm *bulkmovement.ConfirmUseCase
}

func newTestEnv(tokenTTL time.Duration) *testEnv {
	bulk := newFakeBulkRepo()
	logs := &fakeLogRepo{}
	stock := newFakeStockRepo()
	tx := &fakeTxRunner{bulk: bulk, log: logs, stock: stock}
	locations := &fakeLocationRepo{locations: map[string]*entity.Location{
		"loc-a": {ID: "loc-a", Name: "Bodega Central", Area: "Norte", Type: entity.LocationTypePhysical},
		"loc-b": {ID: "loc-b", Name: "Punto de Venta", Area: "Sur", Type: entity.LocationTypePhysical},
	}}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", SKU: "SKU-001", Name: "Tornillo M4"},
		"prod-2": {ID: "prod-2", SKU: "SKU-002", Name: "Tuerca M4"},
	}}
	return &testEnv{
		bulk:    bulk,
		logs:    logs,
		stock:   stock,
		create:  bulkmovement.NewCreateUseCase(tx, bulk, locations, products, tokenTTL),
		confirm: bulkmovement.NewConfirmUseCase(tx, bulk, locations),
	}
}

// seedStock fija el nivel de stock inicial de un producto en una ubicación.
func (e *testEnv) seedStock(productID, locationID string, qty int64) {
	_ = e.stock.Upsert(&entity.InventoryRecord{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   decimal.NewFromInt(qty),
	})
}
