package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/procurement/internal/domain/model"
)

const initialStatusNote = "Initial status"

const requestColumns = `id, requestor_name, department, title, vendor_name, vendor_vat_id,
       commodity_group_id, commodity_group_name, currency, total_cost,
       positions_net, shipping_net, tax_amount, total_is_gross,
       submit_status, process_status, created_at`

func (r *requestRepository) Create(ctx context.Context, req *model.Request, lines []model.OrderLine) (int64, error) {
	const insertRequest = `INSERT INTO requests (
            requestor_name, department, title, vendor_name, vendor_vat_id,
            commodity_group_id, commodity_group_name, currency, total_cost,
            positions_net, shipping_net, tax_amount, total_is_gross,
            submit_status, process_status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING id, created_at`
	const insertLine = `INSERT INTO order_lines (request_id, description, unit_price, quantity, unit, line_total)
                        VALUES ($1, $2, $3, $4, $5, $6)`

	var id int64
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		h := req.RequestHeader
		err := tx.QueryRow(ctx, insertRequest,
			nullable(h.RequestorName), nullable(h.Department), nullable(h.Title),
			nullable(h.VendorName), nullable(h.VendorVATID),
			nullable(h.CommodityGroupID), nullable(h.CommodityGroupName),
			string(h.Currency), h.TotalCost,
			h.PositionsNet, h.ShippingNet, h.TaxAmount, req.TotalIsGross,
			string(req.SubmitStatus), string(req.ProcessStatus),
		).Scan(&id, &req.CreatedAt)
		if err != nil {
			return err
		}

		for _, l := range lines {
			if _, err := tx.Exec(ctx, insertLine, id, l.Description, l.UnitPrice, l.Quantity, nullable(l.Unit), l.LineTotal); err != nil {
				return err
			}
		}

		return recordStatusTx(ctx, tx, id, nil, req.ProcessStatus, initialStatusNote)
	})
	if err != nil {
		return 0, err
	}
	req.ID = id
	return id, nil
}

// Transition locks the request row so concurrent changes append history in order.
func (r *requestRepository) Transition(ctx context.Context, id int64, status model.ProcessStatus, note string) (bool, *model.ProcessStatus, error) {
	var (
		found bool
		old   *model.ProcessStatus
	)
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT process_status FROM requests WHERE id=$1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		found = true
		prev := model.ProcessStatus(current)
		old = &prev
		if prev == status {
			return nil
		}

		if _, err := tx.Exec(ctx, `UPDATE requests SET process_status=$1 WHERE id=$2`, string(status), id); err != nil {
			return err
		}
		return recordStatusTx(ctx, tx, id, old, status, note)
	})
	if err != nil {
		return false, nil, err
	}
	return found, old, nil
}

// recordStatusTx appends a history row and queues it for publishing.
func recordStatusTx(ctx context.Context, tx pgx.Tx, requestID int64, old *model.ProcessStatus, status model.ProcessStatus, note string) error {
	const insertHistory = `INSERT INTO status_history (request_id, old_status, new_status, note)
                           VALUES ($1, $2, $3, $4) RETURNING id`
	var oldArg *string
	if old != nil {
		s := string(*old)
		oldArg = &s
	}

	var historyID int64
	if err := tx.QueryRow(ctx, insertHistory, requestID, oldArg, string(status), nullable(strings.TrimSpace(note))).Scan(&historyID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO status_outbox (history_id) VALUES ($1)`, historyID); err != nil {
		return err
	}
	return nil
}

func (r *requestRepository) List(ctx context.Context) ([]model.Request, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT `+requestColumns+` FROM requests ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *requestRepository) Get(ctx context.Context, id int64) (*model.Request, error) {
	req, err := scanRequest(r.storage.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) Lines(ctx context.Context, id int64) ([]model.OrderLine, error) {
	const query = `SELECT id, request_id, description, unit_price, quantity, unit, line_total
                   FROM order_lines WHERE request_id=$1 ORDER BY id ASC`
	rows, err := r.storage.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderLine
	for rows.Next() {
		var (
			l    model.OrderLine
			unit *string
		)
		if err := rows.Scan(&l.ID, &l.RequestID, &l.Description, &l.UnitPrice, &l.Quantity, &unit, &l.LineTotal); err != nil {
			return nil, err
		}
		l.Unit = deref(unit)
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *requestRepository) Status(ctx context.Context, id int64) (*model.ProcessStatus, error) {
	var current string
	err := r.storage.pool.QueryRow(ctx, `SELECT process_status FROM requests WHERE id=$1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	status := model.ProcessStatus(current)
	return &status, nil
}

func (r *requestRepository) History(ctx context.Context, id int64) ([]model.StatusHistoryEntry, error) {
	const query = `SELECT id, request_id, old_status, new_status, changed_at, note
                   FROM status_history WHERE request_id=$1 ORDER BY id ASC`
	rows, err := r.storage.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StatusHistoryEntry
	for rows.Next() {
		var (
			e         model.StatusHistoryEntry
			oldStatus *string
			newStatus string
		)
		if err := rows.Scan(&e.ID, &e.RequestID, &oldStatus, &newStatus, &e.ChangedAt, &e.Note); err != nil {
			return nil, err
		}
		e.OldStatus = statusPtr(oldStatus)
		e.NewStatus = model.ProcessStatus(newStatus)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanRequest(row pgx.Row) (*model.Request, error) {
	var (
		req                                   model.Request
		requestor, department, title          *string
		vendor, vatID, groupID, groupName     *string
		currency, submitStatus, processStatus string
	)
	err := row.Scan(
		&req.ID, &requestor, &department, &title, &vendor, &vatID,
		&groupID, &groupName, &currency, &req.TotalCost,
		&req.PositionsNet, &req.ShippingNet, &req.TaxAmount, &req.TotalIsGross,
		&submitStatus, &processStatus, &req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.RequestorName = deref(requestor)
	req.Department = deref(department)
	req.Title = deref(title)
	req.VendorName = deref(vendor)
	req.VendorVATID = deref(vatID)
	req.CommodityGroupID = deref(groupID)
	req.CommodityGroupName = deref(groupName)
	req.Currency = model.Currency(currency)
	req.SubmitStatus = model.SubmitStatus(submitStatus)
	req.ProcessStatus = model.ProcessStatus(processStatus)
	return &req, nil
}

// nullable stores empty strings as NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func statusPtr(s *string) *model.ProcessStatus {
	if s == nil {
		return nil
	}
	st := model.ProcessStatus(*s)
	return &st
}
