package postgres

import (
	"context"
	"sort"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// ClaimPending marks up to limit undispatched events as claimed and returns them.
// Claims older than five minutes are treated as abandoned and handed out again.
func (r *outboxRepository) ClaimPending(ctx context.Context, limit int) ([]model.StatusEvent, error) {
	const query = `UPDATE status_outbox o SET claimed_at = NOW()
                   FROM status_history h
                   WHERE o.history_id = h.id AND o.id IN (
                       SELECT id FROM status_outbox
                       WHERE dispatched_at IS NULL
                         AND (claimed_at IS NULL OR claimed_at < NOW() - INTERVAL '5 minutes')
                       ORDER BY id
                       LIMIT $1
                       FOR UPDATE SKIP LOCKED)
                   RETURNING o.id, h.id, h.request_id, h.old_status, h.new_status, h.changed_at, h.note`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.StatusEvent
	for rows.Next() {
		var (
			ev        model.StatusEvent
			oldStatus *string
			newStatus string
		)
		if err := rows.Scan(&ev.ID, &ev.HistoryID, &ev.RequestID, &oldStatus, &newStatus, &ev.ChangedAt, &ev.Note); err != nil {
			return nil, err
		}
		ev.OldStatus = statusPtr(oldStatus)
		ev.NewStatus = model.ProcessStatus(newStatus)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (r *outboxRepository) MarkDispatched(ctx context.Context, id int64) error {
	_, err := r.storage.pool.Exec(ctx, `UPDATE status_outbox SET dispatched_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *outboxRepository) Release(ctx context.Context, id int64) error {
	_, err := r.storage.pool.Exec(ctx, `UPDATE status_outbox SET claimed_at=NULL WHERE id=$1 AND dispatched_at IS NULL`, id)
	return err
}
