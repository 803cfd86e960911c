package session

import (
	"errors"
	"sync"

	"github.com/light-bringer/procat-editor/internal/app/product/domain"
)

// Session errors
var (
	ErrClosed         = errors.New("editing session closed")
	ErrLoadInFlight   = errors.New("product load already in progress")
	ErrSubmitInFlight = errors.New("title submission already in progress")
	ErrNoChanges      = errors.New("no title changes to submit")
)

// Editor is the editing session shared by a presentation shell and the use
// cases. It owns a TitleTracker and guards it with a mutex because shells run
// network calls and their completions on other goroutines. No network call
// is made while the lock is held.
type Editor struct {
	mu         sync.Mutex
	tracker    *domain.TitleTracker
	loaded     bool
	loading    bool
	submitting bool
	closed     bool
}

// NewEditor creates an empty session.
func NewEditor() *Editor {
	return &Editor{tracker: domain.NewTitleTracker()}
}

// Row is one record as presented by a shell.
type Row struct {
	Index  int
	Record domain.ProductRecord
	Dirty  bool
}

// State is a point-in-time view of the session.
type State struct {
	Rows       []Row
	Dirty      bool
	Loaded     bool
	Loading    bool
	Submitting bool
}

// CanSubmit reports whether the submit control should be enabled.
func (s State) CanSubmit() bool {
	return s.Dirty && !s.Submitting && !s.Loading
}

// CanReload reports whether a reload may be started.
func (s State) CanReload() bool {
	return !s.Loading && !s.Submitting
}

// Edit describes one applied title edit.
type Edit struct {
	ID           domain.RecordID
	Index        int
	RecordDirty  bool
	SessionDirty bool
}

// Snapshot returns the current state.
func (e *Editor) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	records := e.tracker.Records()
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{Index: i, Record: r, Dirty: e.tracker.IsDirty(r.ID)}
	}
	return State{
		Rows:       rows,
		Dirty:      e.tracker.Dirty(),
		Loaded:     e.loaded,
		Loading:    e.loading,
		Submitting: e.submitting,
	}
}

// BeginLoad marks a load as in flight. Loads and submissions exclude each
// other: a load finishing under a submission would replace the records the
// submission re-baselines.
func (e *Editor) BeginLoad() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.loading {
		return ErrLoadInFlight
	}
	if e.submitting {
		return ErrSubmitInFlight
	}
	e.loading = true
	return nil
}

// FinishLoad installs freshly fetched records. If they cannot be loaded the
// previous state is kept and the error returned. After Close it does nothing.
func (e *Editor) FinishLoad(records []domain.ProductRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.loading = false
	if err := e.tracker.Load(records); err != nil {
		return err
	}
	e.loaded = true
	return nil
}

// AbortLoad ends a failed load without touching the records.
func (e *Editor) AbortLoad() {
	e.mu.Lock()
	e.loading = false
	e.mu.Unlock()
}

// EditTitle edits the record at index.
func (e *Editor) EditTitle(index int, title string) (Edit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return Edit{}, ErrClosed
	}
	if err := e.tracker.EditTitle(index, title); err != nil {
		return Edit{}, err
	}
	id, _ := e.tracker.IDAt(index)
	return e.edited(id, index), nil
}

// EditTitleByID edits the record with the given id.
func (e *Editor) EditTitleByID(id domain.RecordID, title string) (Edit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return Edit{}, ErrClosed
	}
	if err := e.tracker.EditTitleByID(id, title); err != nil {
		return Edit{}, err
	}
	index, _ := e.tracker.IndexOf(id)
	return e.edited(id, index), nil
}

// edited reports the state after an edit. The caller holds the lock.
func (e *Editor) edited(id domain.RecordID, index int) Edit {
	return Edit{
		ID:           id,
		Index:        index,
		RecordDirty:  e.tracker.IsDirty(id),
		SessionDirty: e.tracker.Dirty(),
	}
}

// Dirty reports whether there are unsaved titles.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Dirty()
}

// Diff returns the current diff without starting a submission.
func (e *Editor) Diff() []domain.Change {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.ComputeDiff()
}

// BeginSubmit returns the diff to send and marks a submission in flight.
// An empty diff returns ErrNoChanges and starts nothing.
func (e *Editor) BeginSubmit() ([]domain.Change, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if e.submitting {
		return nil, ErrSubmitInFlight
	}
	if e.loading {
		return nil, ErrLoadInFlight
	}
	changes := e.tracker.ComputeDiff()
	if len(changes) == 0 {
		return nil, ErrNoChanges
	}
	e.submitting = true
	return changes, nil
}

// FinishSubmit ends the submission started by BeginSubmit. When persisted is
// true the sent records are re-baselined; otherwise nothing but the in-flight
// flag changes. After Close it does nothing.
func (e *Editor) FinishSubmit(changes []domain.Change, persisted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.submitting = false
	if persisted {
		e.tracker.Acknowledge(changes)
	}
}

// Close tears the session down. Responses that arrive later are discarded.
func (e *Editor) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}
