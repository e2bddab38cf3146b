package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// MemoryLedger keeps requests, lines, history and the status outbox in memory.
// Every write holds the lock for its whole duration, like a transaction would.
type MemoryLedger struct {
	mu        sync.Mutex
	requests  map[int64]model.Request
	lines     map[int64][]model.OrderLine
	history   map[int64][]model.StatusHistoryEntry
	outbox    []outboxRow
	nextID    int64
	nextLine  int64
	nextEntry int64

	CreateErr     error
	TransitionErr error
	Now           func() time.Time
}

type outboxRow struct {
	id         int64
	entry      model.StatusHistoryEntry
	claimed    bool
	dispatched bool
}

// NewMemoryLedger constructs an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		requests: make(map[int64]model.Request),
		lines:    make(map[int64][]model.OrderLine),
		history:  make(map[int64][]model.StatusHistoryEntry),
	}
}

func (m *MemoryLedger) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Create stores the request with its lines and the initial history entry.
func (m *MemoryLedger) Create(ctx context.Context, request *model.Request, lines []model.OrderLine) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}

	m.nextID++
	id := m.nextID
	stored := *request
	stored.ID = id
	stored.CreatedAt = m.now()
	m.requests[id] = stored

	copied := make([]model.OrderLine, 0, len(lines))
	for _, l := range lines {
		m.nextLine++
		l.ID = m.nextLine
		l.RequestID = id
		copied = append(copied, l)
	}
	m.lines[id] = copied

	note := "Initial status"
	m.appendHistory(model.StatusHistoryEntry{
		RequestID: id,
		NewStatus: stored.ProcessStatus,
		ChangedAt: stored.CreatedAt,
		Note:      &note,
	})
	return id, nil
}

// Transition changes the status unless it is already current.
func (m *MemoryLedger) Transition(ctx context.Context, id int64, status model.ProcessStatus, note string) (bool, *model.ProcessStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TransitionErr != nil {
		return false, nil, m.TransitionErr
	}

	req, ok := m.requests[id]
	if !ok {
		return false, nil, nil
	}
	old := req.ProcessStatus
	if old == status {
		return true, &old, nil
	}

	req.ProcessStatus = status
	m.requests[id] = req

	entry := model.StatusHistoryEntry{RequestID: id, OldStatus: &old, NewStatus: status, ChangedAt: m.now()}
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		entry.Note = &trimmed
	}
	m.appendHistory(entry)
	return true, &old, nil
}

func (m *MemoryLedger) appendHistory(entry model.StatusHistoryEntry) {
	m.nextEntry++
	entry.ID = m.nextEntry
	m.history[entry.RequestID] = append(m.history[entry.RequestID], entry)
	m.outbox = append(m.outbox, outboxRow{id: entry.ID, entry: entry})
}

// List returns requests newest first.
func (m *MemoryLedger) List(ctx context.Context) ([]model.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Request, 0, len(m.requests))
	for _, r := range m.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Get returns a request or nil.
func (m *MemoryLedger) Get(ctx context.Context, id int64) (*model.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// Lines returns lines in insertion order.
func (m *MemoryLedger) Lines(ctx context.Context, id int64) ([]model.OrderLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.OrderLine(nil), m.lines[id]...), nil
}

// Status returns the current status or nil.
func (m *MemoryLedger) Status(ctx context.Context, id int64) (*model.ProcessStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	st := r.ProcessStatus
	return &st, nil
}

// History returns entries oldest first.
func (m *MemoryLedger) History(ctx context.Context, id int64) ([]model.StatusHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.StatusHistoryEntry(nil), m.history[id]...), nil
}

// ClaimPending hands out unclaimed, undispatched outbox rows.
func (m *MemoryLedger) ClaimPending(ctx context.Context, limit int) ([]model.StatusEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []model.StatusEvent
	for i := range m.outbox {
		if len(events) == limit {
			break
		}
		row := &m.outbox[i]
		if row.claimed || row.dispatched {
			continue
		}
		row.claimed = true
		events = append(events, model.StatusEvent{
			ID:        row.id,
			HistoryID: row.entry.ID,
			RequestID: row.entry.RequestID,
			OldStatus: row.entry.OldStatus,
			NewStatus: row.entry.NewStatus,
			ChangedAt: row.entry.ChangedAt,
			Note:      row.entry.Note,
		})
	}
	return events, nil
}

// MarkDispatched flags an outbox row as published.
func (m *MemoryLedger) MarkDispatched(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.outbox {
		if m.outbox[i].id == id {
			m.outbox[i].dispatched = true
		}
	}
	return nil
}

// Release makes a claimed row available again.
func (m *MemoryLedger) Release(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.outbox {
		if m.outbox[i].id == id {
			m.outbox[i].claimed = false
		}
	}
	return nil
}

// Undispatched counts outbox rows not yet published.
func (m *MemoryLedger) Undispatched() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, row := range m.outbox {
		if !row.dispatched {
			n++
		}
	}
	return n
}
