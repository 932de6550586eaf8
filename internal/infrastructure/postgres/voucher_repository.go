package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aerostock/aerostock-api/internal/domain"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

var _ repository.VoucherRepository = (*VoucherRepo)(nil)

const voucherColumns = `id, request_number, type, status,
		requested_by_id, requested_by_name, requested_by_role,
		approved_by_id, approved_by_name, approved_by_role,
		issued_by_id, issued_by_name, issued_by_role,
		completed_by_id, completed_by_name, completed_by_role,
		project_name, request_date, approval_date, issue_date,
		expected_return_date, actual_return_date, notes, created_at, updated_at`

// VoucherRepo implementación del puerto VoucherRepository sobre PostgreSQL
// (usable con pool o tx). Las líneas viven en voucher_lines y se cargan con
// una segunda consulta por vale.
type VoucherRepo struct {
	q Querier
}

// NewVoucherRepository construye el adaptador de vales. Pasar pool o tx (Querier).
func NewVoucherRepository(q Querier) *VoucherRepo {
	return &VoucherRepo{q: q}
}

// Create persiste el vale y sus líneas.
func (r *VoucherRepo) Create(v *entity.Voucher) error {
	ctx := context.Background()
	query := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25)`
	args := []any{
		v.ID, v.RequestNumber, v.Type, v.Status,
		v.RequestedBy.ID, v.RequestedBy.Name, v.RequestedBy.Role,
	}
	args = append(args, actorRefArgs(v.ApprovedBy)...)
	args = append(args, actorRefArgs(v.IssuedBy)...)
	args = append(args, actorRefArgs(v.CompletedBy)...)
	args = append(args,
		v.ProjectName, v.RequestDate, v.ApprovalDate, v.IssueDate,
		v.ExpectedReturnDate, v.ActualReturnDate, v.Notes, v.CreatedAt, v.UpdatedAt,
	)
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRequestNumber
		}
		return fmt.Errorf("insert voucher: %w", err)
	}
	return r.insertLines(ctx, v)
}

// GetByID obtiene un vale con sus líneas (nil si no existe).
func (r *VoucherRepo) GetByID(id string) (*entity.Voucher, error) {
	return r.get(`SELECT `+voucherColumns+` FROM vouchers WHERE id = $1`, id)
}

// GetForUpdate obtiene el vale bloqueando la fila (SELECT FOR UPDATE).
// Dos transiciones concurrentes sobre el mismo vale se serializan aquí.
func (r *VoucherRepo) GetForUpdate(id string) (*entity.Voucher, error) {
	return r.get(`SELECT `+voucherColumns+` FROM vouchers WHERE id = $1 FOR UPDATE`, id)
}

// GetByRequestNumber obtiene un vale por su número MV-<año>-<seq>.
func (r *VoucherRepo) GetByRequestNumber(requestNumber string) (*entity.Voucher, error) {
	return r.get(`SELECT `+voucherColumns+` FROM vouchers WHERE request_number = $1`, requestNumber)
}

func (r *VoucherRepo) get(query string, arg any) (*entity.Voucher, error) {
	ctx := context.Background()
	v, err := scanVoucher(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if err := r.loadLines(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Update reescribe el vale y sus líneas (delete + insert: pocas líneas por vale).
func (r *VoucherRepo) Update(v *entity.Voucher) error {
	ctx := context.Background()
	query := `
		UPDATE vouchers SET status = $2,
			approved_by_id = $3, approved_by_name = $4, approved_by_role = $5,
			issued_by_id = $6, issued_by_name = $7, issued_by_role = $8,
			completed_by_id = $9, completed_by_name = $10, completed_by_role = $11,
			approval_date = $12, issue_date = $13, expected_return_date = $14,
			actual_return_date = $15, notes = $16, updated_at = $17
		WHERE id = $1`
	args := []any{v.ID, v.Status}
	args = append(args, actorRefArgs(v.ApprovedBy)...)
	args = append(args, actorRefArgs(v.IssuedBy)...)
	args = append(args, actorRefArgs(v.CompletedBy)...)
	args = append(args, v.ApprovalDate, v.IssueDate, v.ExpectedReturnDate,
		v.ActualReturnDate, v.Notes, v.UpdatedAt)
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update voucher: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM voucher_lines WHERE voucher_id = $1`, v.ID); err != nil {
		return fmt.Errorf("delete voucher lines: %w", err)
	}
	return r.insertLines(ctx, v)
}

// List lista vales con paginación, más recientes primero.
func (r *VoucherRepo) List(limit, offset int) ([]*entity.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers ORDER BY request_date DESC LIMIT $1 OFFSET $2`
	return r.listQuery(query, limit, offset)
}

// ListByStatuses lista vales cuyo estado está en el conjunto dado.
func (r *VoucherRepo) ListByStatuses(statuses []string, limit, offset int) ([]*entity.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE status = ANY($1)
		ORDER BY request_date DESC LIMIT $2 OFFSET $3`
	return r.listQuery(query, statuses, limit, offset)
}

// ListByRequester lista los vales solicitados por un actor.
func (r *VoucherRepo) ListByRequester(actorID string, limit, offset int) ([]*entity.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE requested_by_id = $1
		ORDER BY request_date DESC LIMIT $2 OFFSET $3`
	return r.listQuery(query, actorID, limit, offset)
}

// ExistsActiveByItem indica si algún vale no terminal referencia al artículo.
func (r *VoucherRepo) ExistsActiveByItem(itemID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM voucher_lines l
			JOIN vouchers v ON v.id = l.voucher_id
			WHERE l.item_id = $1 AND v.status NOT IN ('rejected', 'completed')
		)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists voucher by item: %w", err)
	}
	return exists, nil
}

func (r *VoucherRepo) listQuery(query string, args ...any) ([]*entity.Voucher, error) {
	ctx := context.Background()
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, v := range list {
		if err := r.loadLines(ctx, v); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *VoucherRepo) insertLines(ctx context.Context, v *entity.Voucher) error {
	for _, line := range v.Lines {
		var resID *string
		if line.ReservationID != "" {
			resID = &line.ReservationID
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO voucher_lines (voucher_id, item_id, quantity, reservation_id)
			VALUES ($1, $2, $3, $4)`,
			v.ID, line.ItemID, line.Quantity, resID,
		)
		if err != nil {
			return fmt.Errorf("insert voucher line: %w", err)
		}
	}
	return nil
}

func (r *VoucherRepo) loadLines(ctx context.Context, v *entity.Voucher) error {
	rows, err := r.q.Query(ctx, `
		SELECT item_id, quantity, reservation_id FROM voucher_lines
		WHERE voucher_id = $1 ORDER BY item_id`, v.ID)
	if err != nil {
		return fmt.Errorf("load voucher lines: %w", err)
	}
	defer rows.Close()
	v.Lines = v.Lines[:0]
	for rows.Next() {
		var line entity.VoucherLine
		var resID *string
		if err := rows.Scan(&line.ItemID, &line.Quantity, &resID); err != nil {
			return fmt.Errorf("scan voucher line: %w", err)
		}
		if resID != nil {
			line.ReservationID = *resID
		}
		v.Lines = append(v.Lines, line)
	}
	return rows.Err()
}

// actorRefArgs aplana un *ActorRef a sus tres columnas (NULLs si es nil).
func actorRefArgs(a *entity.ActorRef) []any {
	if a == nil {
		return []any{nil, nil, nil}
	}
	return []any{a.ID, a.Name, a.Role}
}

// scanVoucher lee una fila de vouchers (sin líneas) desde Row o Rows.
func scanVoucher(row pgx.Row) (*entity.Voucher, error) {
	var (
		v                    entity.Voucher
		apID, apName, apRole *string
		isID, isName, isRole *string
		coID, coName, coRole *string
	)
	err := row.Scan(
		&v.ID, &v.RequestNumber, &v.Type, &v.Status,
		&v.RequestedBy.ID, &v.RequestedBy.Name, &v.RequestedBy.Role,
		&apID, &apName, &apRole,
		&isID, &isName, &isRole,
		&coID, &coName, &coRole,
		&v.ProjectName, &v.RequestDate, &v.ApprovalDate, &v.IssueDate,
		&v.ExpectedReturnDate, &v.ActualReturnDate, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.ApprovedBy = actorRefFromCols(apID, apName, apRole)
	v.IssuedBy = actorRefFromCols(isID, isName, isRole)
	v.CompletedBy = actorRefFromCols(coID, coName, coRole)
	return &v, nil
}

func actorRefFromCols(id, name, role *string) *entity.ActorRef {
	if id == nil {
		return nil
	}
	ref := &entity.ActorRef{ID: *id}
	if name != nil {
		ref.Name = *name
	}
	if role != nil {
		ref.Role = *role
	}
	return ref
}
