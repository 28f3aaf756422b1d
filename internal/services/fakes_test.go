package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"example.com/motormart/services/showroom/internal/models"
	"example.com/motormart/services/showroom/internal/repositories"
)

// In-memory stores backing the workflow tests. A single mutex covers all
// of them so concurrent submissions exercise the same serialization a
// database transaction would provide.

type memState struct {
	mu       sync.Mutex
	vehicles map[models.Category]map[uuid.UUID]models.Vehicle
	sales    []models.Sale
	events   []models.AuditEvent
	users    map[uuid.UUID]models.User
}

func newMemState() *memState {
	vehicles := make(map[models.Category]map[uuid.UUID]models.Vehicle)
	for _, cat := range models.Categories() {
		vehicles[cat] = make(map[uuid.UUID]models.Vehicle)
	}
	return &memState{
		vehicles: vehicles,
		users:    make(map[uuid.UUID]models.User),
	}
}

func (s *memState) stores() repositories.Stores {
	return repositories.Stores{
		Inventory: &memInventory{state: s},
		Sales:     &memLedger{state: s},
		Audit:     &memAudit{state: s},
		Tenants:   &memTenants{state: s},
	}
}

func (s *memState) snapshot() *memState {
	clone := newMemState()
	for cat, byID := range s.vehicles {
		for id, v := range byID {
			clone.vehicles[cat][id] = v
		}
	}
	clone.sales = append([]models.Sale(nil), s.sales...)
	clone.events = append([]models.AuditEvent(nil), s.events...)
	for id, u := range s.users {
		clone.users[id] = u
	}
	return clone
}

func (s *memState) restore(from *memState) {
	s.vehicles = from.vehicles
	s.sales = from.sales
	s.events = from.events
	s.users = from.users
}

// memUnitOfWork serializes units of work and rolls the state back when fn
// fails, like a real transaction.
type memUnitOfWork struct {
	state *memState
}

func (u *memUnitOfWork) Do(ctx context.Context, fn func(tx repositories.Stores) error) error {
	u.state.mu.Lock()
	defer u.state.mu.Unlock()

	before := u.state.snapshot()
	if err := fn(repositories.Stores{
		Inventory: &memInventory{state: u.state, inTx: true},
		Sales:     &memLedger{state: u.state, inTx: true},
		Audit:     &memAudit{state: u.state, inTx: true},
		Tenants:   &memTenants{state: u.state, inTx: true},
	}); err != nil {
		u.state.restore(before)
		return err
	}
	return nil
}

type memInventory struct {
	state *memState
	inTx  bool
}

func (r *memInventory) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.state.mu.Lock()
	return r.state.mu.Unlock
}

func (r *memInventory) FindByID(ctx context.Context, cat models.Category, id uuid.UUID) (*models.Vehicle, error) {
	defer r.lock()()
	if v, ok := r.state.vehicles[cat][id]; ok {
		copied := v
		return &copied, nil
	}
	return nil, nil
}

func (r *memInventory) FindDuplicate(ctx context.Context, cat models.Category, engineNumber, chassisNumber string) (*models.Vehicle, error) {
	defer r.lock()()
	for _, v := range r.state.vehicles[cat] {
		if v.EngineNumber == engineNumber || v.ChassisNumber == chassisNumber {
			copied := v
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memInventory) ListByShowroom(ctx context.Context, cat models.Category, showroomID uuid.UUID, f repositories.VehicleFilter) ([]models.Vehicle, error) {
	defer r.lock()()
	var out []models.Vehicle
	for _, v := range r.state.vehicles[cat] {
		if showroomID != uuid.Nil && v.ShowroomID != showroomID {
			continue
		}
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.Brand != "" && v.Brand != f.Brand {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *memInventory) Create(ctx context.Context, cat models.Category, v *models.Vehicle) error {
	defer r.lock()()
	r.state.vehicles[cat][v.ID] = *v
	return nil
}

func (r *memInventory) MarkStockOut(ctx context.Context, cat models.Category, id uuid.UUID) (bool, error) {
	defer r.lock()()
	v, ok := r.state.vehicles[cat][id]
	if !ok || v.Status != models.StatusStockIn {
		return false, nil
	}
	v.Status = models.StatusStockOut
	r.state.vehicles[cat][id] = v
	return true, nil
}

func (r *memInventory) Delete(ctx context.Context, cat models.Category, id uuid.UUID) error {
	defer r.lock()()
	delete(r.state.vehicles[cat], id)
	return nil
}

func (r *memInventory) DeleteByShowroom(ctx context.Context, cat models.Category, showroomID uuid.UUID) (int64, error) {
	defer r.lock()()
	var n int64
	for id, v := range r.state.vehicles[cat] {
		if v.ShowroomID == showroomID {
			delete(r.state.vehicles[cat], id)
			n++
		}
	}
	return n, nil
}

func (r *memInventory) CountByStatus(ctx context.Context, cat models.Category, showroomID uuid.UUID) (int64, int64, error) {
	defer r.lock()()
	var stockIn, stockOut int64
	for _, v := range r.state.vehicles[cat] {
		if showroomID != uuid.Nil && v.ShowroomID != showroomID {
			continue
		}
		if v.Status == models.StatusStockIn {
			stockIn++
		} else {
			stockOut++
		}
	}
	return stockIn, stockOut, nil
}

type memLedger struct {
	state *memState
	inTx  bool
}

func (r *memLedger) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.state.mu.Lock()
	return r.state.mu.Unlock
}

func (r *memLedger) Append(ctx context.Context, sale *models.Sale) error {
	defer r.lock()()
	r.state.sales = append(r.state.sales, *sale)
	return nil
}

func (r *memLedger) Find(ctx context.Context, f repositories.SaleFilter) ([]models.Sale, error) {
	defer r.lock()()
	var out []models.Sale
	for _, s := range r.state.sales {
		if f.ShowroomID != uuid.Nil && s.ShowroomID != f.ShowroomID {
			continue
		}
		if f.Category != "" && s.VehicleType != f.Category {
			continue
		}
		if f.PaymentType != "" && s.PaymentType != f.PaymentType {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *memLedger) ListUnreconciled(ctx context.Context, limit int) ([]models.Sale, error) {
	defer r.lock()()
	var out []models.Sale
	for _, s := range r.state.sales {
		if !s.Reconciled {
			out = append(out, s)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *memLedger) MarkReconciled(ctx context.Context, id uuid.UUID) error {
	defer r.lock()()
	for i := range r.state.sales {
		if r.state.sales[i].ID == id {
			r.state.sales[i].Reconciled = true
			return nil
		}
	}
	return nil
}

type memAudit struct {
	state *memState
	inTx  bool
}

func (r *memAudit) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.state.mu.Lock()
	return r.state.mu.Unlock
}

func (r *memAudit) Append(ctx context.Context, event *models.AuditEvent) error {
	defer r.lock()()
	r.state.events = append(r.state.events, *event)
	return nil
}

func (r *memAudit) Find(ctx context.Context, f repositories.AuditFilter) ([]models.AuditEvent, error) {
	defer r.lock()()
	var out []models.AuditEvent
	for _, e := range r.state.events {
		if f.ShowroomID != uuid.Nil && e.ShowroomID != f.ShowroomID {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type memTenants struct {
	state *memState
	inTx  bool
}

func (r *memTenants) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.state.mu.Lock()
	return r.state.mu.Unlock
}

func (r *memTenants) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	defer r.lock()()
	if u, ok := r.state.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, nil
}

func (r *memTenants) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	defer r.lock()()
	for _, u := range r.state.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memTenants) Create(ctx context.Context, u *models.User) error {
	defer r.lock()()
	r.state.users[u.ID] = *u
	return nil
}

func (r *memTenants) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.lock()()
	delete(r.state.users, id)
	return nil
}

func (r *memTenants) List(ctx context.Context) ([]models.User, error) {
	defer r.lock()()
	out := make([]models.User, 0, len(r.state.users))
	for _, u := range r.state.users {
		out = append(out, u)
	}
	return out, nil
}
