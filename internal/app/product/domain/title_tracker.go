package domain

import "fmt"

// Change is a working record whose title differs from its baseline, together
// with its position in the working set.
type Change struct {
	Index  int
	Record ProductRecord
}

// TitleTracker keeps a working copy of the product records next to the last
// persisted baseline and tracks which titles differ.
//
// Both sets are keyed by record id; order holds the working set order. The
// tracker owns every record it stores: records passed in and handed out are
// copies, so callers can never alias the baseline.
type TitleTracker struct {
	order    []RecordID
	working  map[RecordID]*ProductRecord
	baseline map[RecordID]ProductRecord
	dirty    map[RecordID]bool
}

// NewTitleTracker creates an empty tracker.
func NewTitleTracker() *TitleTracker {
	return &TitleTracker{
		order:    make([]RecordID, 0),
		working:  make(map[RecordID]*ProductRecord),
		baseline: make(map[RecordID]ProductRecord),
		dirty:    make(map[RecordID]bool),
	}
}

// Load replaces both sets with the given records and clears all dirty marks.
// On error the tracker is left unchanged.
func (t *TitleTracker) Load(records []ProductRecord) error {
	order := make([]RecordID, 0, len(records))
	working := make(map[RecordID]*ProductRecord, len(records))
	baseline := make(map[RecordID]ProductRecord, len(records))

	for i, r := range records {
		if r.ID.IsZero() {
			return fmt.Errorf("record at index %d: %w", i, ErrEmptyRecordID)
		}
		if _, dup := working[r.ID]; dup {
			return fmt.Errorf("record %s: %w", r.ID, ErrDuplicateRecordID)
		}
		w := r.Copy()
		order = append(order, r.ID)
		working[r.ID] = &w
		baseline[r.ID] = r.Copy()
	}

	t.order = order
	t.working = working
	t.baseline = baseline
	t.dirty = make(map[RecordID]bool)
	return nil
}

// Len returns the number of records.
func (t *TitleTracker) Len() int {
	return len(t.order)
}

// IDAt returns the id of the record at index.
func (t *TitleTracker) IDAt(index int) (RecordID, bool) {
	if index < 0 || index >= len(t.order) {
		return RecordID{}, false
	}
	return t.order[index], true
}

// IndexOf returns the working set position of the record with the given id.
func (t *TitleTracker) IndexOf(id RecordID) (int, bool) {
	for i, o := range t.order {
		if o == id {
			return i, true
		}
	}
	return -1, false
}

// EditTitle sets the working title of the record at index.
func (t *TitleTracker) EditTitle(index int, title string) error {
	if index < 0 || index >= len(t.order) {
		return fmt.Errorf("index %d of %d: %w", index, len(t.order), ErrIndexOutOfRange)
	}
	t.setTitle(t.order[index], title)
	return nil
}

// EditTitleByID sets the working title of the record with the given id.
func (t *TitleTracker) EditTitleByID(id RecordID, title string) error {
	if _, ok := t.working[id]; !ok {
		return fmt.Errorf("record %s: %w", id, ErrRecordNotFound)
	}
	t.setTitle(id, title)
	return nil
}

// setTitle updates one title and its dirty mark. Only the edited record can
// change dirty membership, so this matches a full recomputation.
func (t *TitleTracker) setTitle(id RecordID, title string) {
	t.working[id].Title = title
	t.refresh(id)
}

func (t *TitleTracker) refresh(id RecordID) {
	w, ok := t.working[id]
	if !ok {
		return
	}
	if w.Title != t.baseline[id].Title {
		t.dirty[id] = true
	} else {
		delete(t.dirty, id)
	}
}

// Dirty reports whether any working title differs from its baseline.
func (t *TitleTracker) Dirty() bool {
	return len(t.dirty) > 0
}

// IsDirty reports whether the record with the given id has an unsaved title.
func (t *TitleTracker) IsDirty(id RecordID) bool {
	return t.dirty[id]
}

// ComputeDiff returns the records whose titles differ from the baseline, in
// working set order.
func (t *TitleTracker) ComputeDiff() []Change {
	changes := make([]Change, 0, len(t.dirty))
	for i, id := range t.order {
		if t.dirty[id] {
			changes = append(changes, Change{Index: i, Record: t.working[id].Copy()})
		}
	}
	return changes
}

// Commit replaces the baseline with a copy of the working set.
func (t *TitleTracker) Commit() {
	baseline := make(map[RecordID]ProductRecord, len(t.order))
	for _, id := range t.order {
		baseline[id] = t.working[id].Copy()
	}
	t.baseline = baseline
	t.dirty = make(map[RecordID]bool)
}

// Acknowledge re-baselines the records of a persisted diff to the values that
// were sent. Records edited again after the diff was taken stay dirty; records
// no longer loaded are ignored.
func (t *TitleTracker) Acknowledge(changes []Change) {
	for _, c := range changes {
		id := c.Record.ID
		if _, ok := t.working[id]; !ok {
			continue
		}
		t.baseline[id] = c.Record.Copy()
		t.refresh(id)
	}
}

// Records returns a copy of the working set in order.
func (t *TitleTracker) Records() []ProductRecord {
	out := make([]ProductRecord, len(t.order))
	for i, id := range t.order {
		out[i] = t.working[id].Copy()
	}
	return out
}

// Baseline returns a copy of the baseline set in working set order.
func (t *TitleTracker) Baseline() []ProductRecord {
	out := make([]ProductRecord, len(t.order))
	for i, id := range t.order {
		out[i] = t.baseline[id].Copy()
	}
	return out
}
