package usecase_test

import (
	"time"

	"github.com/aerostock/aerostock-api/internal/domain/entity"
)

// Fakes en memoria para los casos de uso CRUD. Copian al leer y al escribir,
// como haría la base de datos: una mutación sobre lo devuelto no es visible
// hasta llamar Update.

// ── items ─────────────────────────────────────────────────────────────────────

type memItemRepo struct {
	items map[string]*entity.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[string]*entity.Item)}
}

func cloneItem(i *entity.Item) *entity.Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

func (r *memItemRepo) Create(item *entity.Item) error {
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	return cloneItem(r.items[id]), nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

func (r *memItemRepo) GetBySerialNumber(serial string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.SerialNumber == serial {
			return cloneItem(it), nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) Update(item *entity.Item) error {
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *memItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.items {
		out = append(out, cloneItem(it))
	}
	return out, nil
}

func (r *memItemRepo) ListByStatus(status string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.items {
		if it.Status == status {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

func (r *memItemRepo) Delete(id string) error {
	delete(r.items, id)
	return nil
}

// ── vouchers (solo lo que usa ItemUseCase.Delete) ─────────────────────────────

type memVoucherRefRepo struct {
	activeItems map[string]bool // itemID -> referenciado por vale no terminal
}

func newMemVoucherRefRepo() *memVoucherRefRepo {
	return &memVoucherRefRepo{activeItems: make(map[string]bool)}
}

func (r *memVoucherRefRepo) Create(v *entity.Voucher) error                  { return nil }
func (r *memVoucherRefRepo) GetByID(string) (*entity.Voucher, error)         { return nil, nil }
func (r *memVoucherRefRepo) GetForUpdate(string) (*entity.Voucher, error)    { return nil, nil }
func (r *memVoucherRefRepo) GetByRequestNumber(string) (*entity.Voucher, error) {
	return nil, nil
}
func (r *memVoucherRefRepo) Update(*entity.Voucher) error { return nil }
func (r *memVoucherRefRepo) List(int, int) ([]*entity.Voucher, error) {
	return nil, nil
}
func (r *memVoucherRefRepo) ListByStatuses([]string, int, int) ([]*entity.Voucher, error) {
	return nil, nil
}
func (r *memVoucherRefRepo) ListByRequester(string, int, int) ([]*entity.Voucher, error) {
	return nil, nil
}
func (r *memVoucherRefRepo) ExistsActiveByItem(itemID string) (bool, error) {
	return r.activeItems[itemID], nil
}

// ── users ─────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *memUserRepo) Create(u *entity.User) error {
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	return cloneUser(r.users[id]), nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(u *entity.User) error {
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *memUserRepo) List(limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

// ── maintenance ───────────────────────────────────────────────────────────────

type memMaintenanceRepo struct {
	events map[string]*entity.MaintenanceEvent
}

func newMemMaintenanceRepo() *memMaintenanceRepo {
	return &memMaintenanceRepo{events: make(map[string]*entity.MaintenanceEvent)}
}

func cloneEvent(e *entity.MaintenanceEvent) *entity.MaintenanceEvent {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

func (r *memMaintenanceRepo) Create(e *entity.MaintenanceEvent) error {
	r.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *memMaintenanceRepo) GetByID(id string) (*entity.MaintenanceEvent, error) {
	return cloneEvent(r.events[id]), nil
}

func (r *memMaintenanceRepo) Update(e *entity.MaintenanceEvent) error {
	r.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *memMaintenanceRepo) ListByRange(from, to time.Time) ([]*entity.MaintenanceEvent, error) {
	var out []*entity.MaintenanceEvent
	for _, e := range r.events {
		if !e.StartDate.After(to) && !e.EndDate.Before(from) {
			out = append(out, cloneEvent(e))
		}
	}
	return out, nil
}

func (r *memMaintenanceRepo) ListByItem(itemID string) ([]*entity.MaintenanceEvent, error) {
	var out []*entity.MaintenanceEvent
	for _, e := range r.events {
		if e.ItemID == itemID {
			out = append(out, cloneEvent(e))
		}
	}
	return out, nil
}

func (r *memMaintenanceRepo) Delete(id string) error {
	delete(r.events, id)
	return nil
}
