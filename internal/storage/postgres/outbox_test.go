package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	"github.com/polkiloo/procurement/internal/domain/model"
)

func TestOutboxClaimPending(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &outboxRepository{storage: storage}
	ctx := context.Background()
	now := time.Now()

	cols := []string{"id", "history_id", "request_id", "old_status", "new_status", "changed_at", "note"}
	mock.ExpectQuery("UPDATE status_outbox o SET claimed_at").WithArgs(10).WillReturnRows(
		pgxmockv3.NewRows(cols).
			AddRow(int64(4), int64(8), int64(2), strPtr("Open"), "Closed", now, nil).
			AddRow(int64(3), int64(7), int64(2), nil, "Open", now, strPtr(initialStatusNote)),
	)
	events, err := repo.ClaimPending(ctx, 10)
	if err != nil || len(events) != 2 {
		t.Fatalf("unexpected events %v err=%v", events, err)
	}
	if events[0].ID != 3 || events[0].OldStatus != nil || events[0].NewStatus != model.ProcessStatusOpen {
		t.Fatalf("expected events ordered by id, got %+v", events[0])
	}
	if events[1].HistoryID != 8 || *events[1].OldStatus != model.ProcessStatusOpen {
		t.Fatalf("unexpected second event %+v", events[1])
	}

	mock.ExpectQuery("UPDATE status_outbox o SET claimed_at").WithArgs(5).WillReturnError(errors.New("query"))
	if _, err := repo.ClaimPending(ctx, 5); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("UPDATE status_outbox o SET claimed_at").WithArgs(5).WillReturnRows(
		pgxmockv3.NewRows(cols).AddRow("bad", int64(8), int64(2), nil, "Closed", now, nil))
	if _, err := repo.ClaimPending(ctx, 5); err == nil {
		t.Fatal("expected scan error")
	}

	mock.ExpectQuery("UPDATE status_outbox o SET claimed_at").WithArgs(5).WillReturnRows(pgxmockv3.NewRows(cols))
	events, err = repo.ClaimPending(ctx, 5)
	if err != nil || len(events) != 0 {
		t.Fatalf("expected no events, got %v err=%v", events, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOutboxClaimPendingRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &outboxRepository{storage: storage}
	if _, err := repo.ClaimPending(context.Background(), 1); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestOutboxMarkAndRelease(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &outboxRepository{storage: storage}
	ctx := context.Background()

	mock.ExpectExec("UPDATE status_outbox SET dispatched_at").WithArgs(int64(3)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.MarkDispatched(ctx, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE status_outbox SET dispatched_at").WithArgs(int64(4)).WillReturnError(errors.New("update"))
	if err := repo.MarkDispatched(ctx, 4); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectExec("UPDATE status_outbox SET claimed_at=NULL").WithArgs(int64(3)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.Release(ctx, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE status_outbox SET claimed_at=NULL").WithArgs(int64(4)).WillReturnError(errors.New("update"))
	if err := repo.Release(ctx, 4); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
