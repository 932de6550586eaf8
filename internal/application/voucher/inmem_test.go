package voucher_test

import (
	"context"
	"sync"
	"time"

	"github.com/aerostock/aerostock-api/internal/application/ledger"
	"github.com/aerostock/aerostock-api/internal/application/voucher"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

// Dobles en memoria para el motor de vales. Emulan el contrato del adaptador
// PostgreSQL: el TxRunner serializa cada transición con un lock global y los
// repos devuelven copias, de modo que una mutación solo se ve tras Update.

// ── clones ────────────────────────────────────────────────────────────────────

func cloneActorRef(a *entity.ActorRef) *entity.ActorRef {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func cloneVoucher(v *entity.Voucher) *entity.Voucher {
	cp := *v
	cp.Lines = make([]entity.VoucherLine, len(v.Lines))
	copy(cp.Lines, v.Lines)
	cp.ApprovedBy = cloneActorRef(v.ApprovedBy)
	cp.IssuedBy = cloneActorRef(v.IssuedBy)
	cp.CompletedBy = cloneActorRef(v.CompletedBy)
	cp.ApprovalDate = cloneTime(v.ApprovalDate)
	cp.IssueDate = cloneTime(v.IssueDate)
	cp.ExpectedReturnDate = cloneTime(v.ExpectedReturnDate)
	cp.ActualReturnDate = cloneTime(v.ActualReturnDate)
	return &cp
}

// ── item repo ─────────────────────────────────────────────────────────────────

type memItemRepo struct {
	items map[string]*entity.Item
	order []string
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[string]*entity.Item)}
}

func (r *memItemRepo) Create(item *entity.Item) error {
	cp := *item
	r.items[item.ID] = &cp
	r.order = append(r.order, item.ID)
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.Item, error) { return r.GetByID(id) }

func (r *memItemRepo) GetBySerialNumber(serial string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.SerialNumber == serial {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) Update(item *entity.Item) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, id := range r.order {
		cp := *r.items[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memItemRepo) ListByStatus(status string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, id := range r.order {
		if r.items[id].Status == status {
			cp := *r.items[id]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memItemRepo) Delete(id string) error {
	delete(r.items, id)
	return nil
}

// ── voucher repo ──────────────────────────────────────────────────────────────

type memVoucherRepo struct {
	vouchers map[string]*entity.Voucher
	order    []string
}

func newMemVoucherRepo() *memVoucherRepo {
	return &memVoucherRepo{vouchers: make(map[string]*entity.Voucher)}
}

func (r *memVoucherRepo) Create(v *entity.Voucher) error {
	r.vouchers[v.ID] = cloneVoucher(v)
	r.order = append(r.order, v.ID)
	return nil
}

func (r *memVoucherRepo) GetByID(id string) (*entity.Voucher, error) {
	v, ok := r.vouchers[id]
	if !ok {
		return nil, nil
	}
	return cloneVoucher(v), nil
}

func (r *memVoucherRepo) GetForUpdate(id string) (*entity.Voucher, error) { return r.GetByID(id) }

func (r *memVoucherRepo) GetByRequestNumber(requestNumber string) (*entity.Voucher, error) {
	for _, v := range r.vouchers {
		if v.RequestNumber == requestNumber {
			return cloneVoucher(v), nil
		}
	}
	return nil, nil
}

func (r *memVoucherRepo) Update(v *entity.Voucher) error {
	r.vouchers[v.ID] = cloneVoucher(v)
	return nil
}

func (r *memVoucherRepo) List(limit, offset int) ([]*entity.Voucher, error) {
	var out []*entity.Voucher
	for _, id := range r.order {
		out = append(out, cloneVoucher(r.vouchers[id]))
	}
	return out, nil
}

func (r *memVoucherRepo) ListByStatuses(statuses []string, limit, offset int) ([]*entity.Voucher, error) {
	var out []*entity.Voucher
	for _, id := range r.order {
		for _, s := range statuses {
			if r.vouchers[id].Status == s {
				out = append(out, cloneVoucher(r.vouchers[id]))
				break
			}
		}
	}
	return out, nil
}

func (r *memVoucherRepo) ExistsActiveByItem(itemID string) (bool, error) {
	for _, v := range r.vouchers {
		if v.Terminal() {
			continue
		}
		if v.LineFor(itemID) != nil {
			return true, nil
		}
	}
	return false, nil
}

func (r *memVoucherRepo) ListByRequester(actorID string, limit, offset int) ([]*entity.Voucher, error) {
	var out []*entity.Voucher
	for _, id := range r.order {
		if r.vouchers[id].RequestedBy.ID == actorID {
			out = append(out, cloneVoucher(r.vouchers[id]))
		}
	}
	return out, nil
}

// ── reservation repo ──────────────────────────────────────────────────────────

type memReservationRepo struct {
	reservations map[string]*entity.Reservation
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{reservations: make(map[string]*entity.Reservation)}
}

func (r *memReservationRepo) Create(res *entity.Reservation) error {
	cp := *res
	r.reservations[res.ID] = &cp
	return nil
}

func (r *memReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (r *memReservationRepo) GetForUpdate(id string) (*entity.Reservation, error) {
	return r.GetByID(id)
}

func (r *memReservationRepo) Update(res *entity.Reservation) error {
	cp := *res
	r.reservations[res.ID] = &cp
	return nil
}

func (r *memReservationRepo) ListByVoucher(voucherID string) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.reservations {
		if res.VoucherID == voucherID {
			cp := *res
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── sequence repo ─────────────────────────────────────────────────────────────

type memSequenceRepo struct {
	seq map[int]int
}

func newMemSequenceRepo() *memSequenceRepo { return &memSequenceRepo{seq: make(map[int]int)} }

func (r *memSequenceRepo) Next(year int) (int, error) {
	r.seq[year]++
	return r.seq[year], nil
}

// ── tx runner ─────────────────────────────────────────────────────────────────

// memTxRunner implementa voucher.TxRunner y ledger.TxRunner sobre los mismos
// repos en memoria, serializando con un lock global (como lo haría el bloqueo
// de filas en PostgreSQL).
type memTxRunner struct {
	mu       sync.Mutex
	vouchers *memVoucherRepo
	items    *memItemRepo
	res      *memReservationRepo
	seq      *memSequenceRepo
}

func newMemTxRunner() *memTxRunner {
	return &memTxRunner{
		vouchers: newMemVoucherRepo(),
		items:    newMemItemRepo(),
		res:      newMemReservationRepo(),
		seq:      newMemSequenceRepo(),
	}
}

func (t *memTxRunner) Run(_ context.Context, fn func(
	repository.VoucherRepository,
	repository.ItemRepository,
	repository.ReservationRepository,
	repository.SequenceRepository,
) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.vouchers, t.items, t.res, t.seq)
}

// ledgerTxRunner adapta memTxRunner al contrato del ledger (mismo lock).
type ledgerTxRunner struct{ inner *memTxRunner }

func (t *ledgerTxRunner) Run(_ context.Context, fn func(
	repository.ItemRepository,
	repository.ReservationRepository,
) error) error {
	t.inner.mu.Lock()
	defer t.inner.mu.Unlock()
	return fn(t.inner.items, t.inner.res)
}

// ── armado del motor para tests ──────────────────────────────────────────────

func newEngine() (*voucher.WorkflowUseCase, *memTxRunner) {
	runner := newMemTxRunner()
	ledgerUC := ledger.NewLedgerUseCase(&ledgerTxRunner{inner: runner})
	return voucher.NewWorkflowUseCase(runner, ledgerUC), runner
}
