package history

import (
	"errors"
	"testing"

	"github.com/clipkeep/clipkeep/internal/clipboard/mockboard"
	"github.com/clipkeep/clipkeep/internal/domain"
	"github.com/clipkeep/clipkeep/internal/store/memstore"
)

// newTestManager creates a manager over a fresh in-memory store and
// mock clipboard.
func newTestManager(t *testing.T) (*Manager, *memstore.MemoryStore, *mockboard.MockBackend) {
	t.Helper()

	st := memstore.New()
	board := mockboard.New()
	return NewManager(st, board), st, board
}

// mustText builds a text payload or fails the test.
func mustText(t *testing.T, value string) domain.Payload {
	t.Helper()

	p, ok := domain.NewText(value)
	if !ok {
		t.Fatalf("NewText(%q) rejected non-empty value", value)
	}
	return p
}

// mustImage builds an image payload or fails the test.
func mustImage(t *testing.T, data []byte) domain.Payload {
	t.Helper()

	p, ok := domain.NewImage(data)
	if !ok {
		t.Fatal("NewImage() rejected non-empty bytes")
	}
	return p
}

// TestNewManagerLoadsHistory tests that a saved history is visible
// immediately after construction.
func TestNewManagerLoadsHistory(t *testing.T) {
	st := memstore.New()
	saved := []domain.Entry{
		domain.NewEntry(mustText(t, "newest")),
		domain.NewEntry(mustText(t, "oldest")),
	}
	if err := st.Save(saved); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	m := NewManager(st, mockboard.New())

	got := m.Entries()
	if len(got) != 2 {
		t.Fatalf("Entries() returned %d entries, want 2", len(got))
	}
	if got[0].Content.Value != "newest" || got[1].Content.Value != "oldest" {
		t.Errorf("Entries() order = [%q, %q], want [newest, oldest]",
			got[0].Content.Value, got[1].Content.Value)
	}
}

// TestNewManagerStartsEmptyOnLoadFailure tests that a broken store does
// not prevent startup.
func TestNewManagerStartsEmptyOnLoadFailure(t *testing.T) {
	st := memstore.New()
	st.FailLoads(errors.New("disk on fire"))

	m := NewManager(st, mockboard.New())

	if m.Len() != 0 {
		t.Errorf("Len() = %d after failed load, want 0", m.Len())
	}

	// The manager must still accept captures afterwards.
	st.FailLoads(nil)
	m.Capture(mustText(t, "fresh start"))
	if m.Len() != 1 {
		t.Errorf("Len() = %d after capture, want 1", m.Len())
	}
}

// TestCaptureOrdersNewestFirst tests that successive captures stack up
// with the most recent one at index 0.
func TestCaptureOrdersNewestFirst(t *testing.T) {
	m, _, _ := newTestManager(t)

	m.Capture(mustText(t, "first"))
	m.Capture(mustText(t, "second"))
	m.Capture(mustText(t, "third"))

	got := m.Entries()
	if len(got) != 3 {
		t.Fatalf("Entries() returned %d entries, want 3", len(got))
	}
	for i, want := range []string{"third", "second", "first"} {
		if got[i].Content.Value != want {
			t.Errorf("entry %d: Value = %q, want %q", i, got[i].Content.Value, want)
		}
	}
}

// TestCaptureKeepsDuplicates tests that recapturing identical content
// produces a distinct entry rather than deduplicating.
func TestCaptureKeepsDuplicates(t *testing.T) {
	m, _, _ := newTestManager(t)

	a := m.Capture(mustText(t, "same"))
	b := m.Capture(mustText(t, "same"))

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	if a.ID == b.ID {
		t.Errorf("duplicate captures share id %q", a.ID)
	}
}

// TestCapturePersistsFullSequence tests that every capture rewrites the
// store with the whole history.
func TestCapturePersistsFullSequence(t *testing.T) {
	m, st, _ := newTestManager(t)

	m.Capture(mustText(t, "one"))
	m.Capture(mustImage(t, []byte{1, 2, 3}))

	if st.SaveCount() != 2 {
		t.Errorf("SaveCount() = %d, want 2", st.SaveCount())
	}

	persisted := st.Entries()
	if len(persisted) != 2 {
		t.Fatalf("store holds %d entries, want 2", len(persisted))
	}
	if persisted[0].Content.Type != domain.KindImage {
		t.Errorf("persisted head type = %q, want %q", persisted[0].Content.Type, domain.KindImage)
	}
	if persisted[1].Content.Value != "one" {
		t.Errorf("persisted tail value = %q, want %q", persisted[1].Content.Value, "one")
	}
}

// TestCaptureSurvivesPersistFailure tests that the in-memory history
// keeps growing when the store rejects writes, and that a later save
// carries the entries captured in the meantime.
func TestCaptureSurvivesPersistFailure(t *testing.T) {
	m, st, _ := newTestManager(t)

	st.FailSaves(errors.New("disk full"))
	m.Capture(mustText(t, "kept in memory"))

	if m.Len() != 1 {
		t.Fatalf("Len() = %d after failed persist, want 1", m.Len())
	}
	if len(st.Entries()) != 0 {
		t.Fatalf("store holds %d entries, want 0 while failing", len(st.Entries()))
	}

	st.FailSaves(nil)
	m.Capture(mustText(t, "recovered"))

	persisted := st.Entries()
	if len(persisted) != 2 {
		t.Fatalf("store holds %d entries after recovery, want 2", len(persisted))
	}
	if persisted[1].Content.Value != "kept in memory" {
		t.Errorf("recovered save lost earlier entry, tail = %q", persisted[1].Content.Value)
	}
}

// TestGet tests lookup by id, including the stale-id case.
func TestGet(t *testing.T) {
	m, _, _ := newTestManager(t)
	entry := m.Capture(mustText(t, "find me"))

	got, err := m.Get(entry.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Content.Value != "find me" {
		t.Errorf("Get() value = %q, want %q", got.Content.Value, "find me")
	}

	if _, err := m.Get("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}
}

// TestRestoreText tests that restoring a text entry writes it back to
// the clipboard, arms the self-write mark once, and leaves the history
// untouched.
func TestRestoreText(t *testing.T) {
	m, _, board := newTestManager(t)

	old := m.Capture(mustText(t, "old content"))
	m.Capture(mustText(t, "current content"))

	if err := m.Restore(old.ID); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	if board.ReadText() != "old content" {
		t.Errorf("clipboard text = %q, want %q", board.ReadText(), "old content")
	}

	// Restore re-copies without touching the sequence.
	got := m.Entries()
	if len(got) != 2 {
		t.Fatalf("Entries() returned %d entries after restore, want 2", len(got))
	}
	if got[0].Content.Value != "current content" {
		t.Errorf("head value = %q after restore, want %q", got[0].Content.Value, "current content")
	}

	// The mark is consumed exactly once.
	if !m.ConsumeSelfWrite() {
		t.Error("ConsumeSelfWrite() = false after restore, want true")
	}
	if m.ConsumeSelfWrite() {
		t.Error("ConsumeSelfWrite() = true on second call, want false")
	}
}

// TestRestoreImage tests that image entries restore through the image
// write path.
func TestRestoreImage(t *testing.T) {
	m, _, board := newTestManager(t)

	entry := m.Capture(mustImage(t, []byte{0xca, 0xfe}))

	if err := m.Restore(entry.ID); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	got := board.ReadImage()
	if len(got) != 2 || got[0] != 0xca || got[1] != 0xfe {
		t.Errorf("clipboard image = %v, want [ca fe]", got)
	}
	if !m.ConsumeSelfWrite() {
		t.Error("ConsumeSelfWrite() = false after image restore, want true")
	}
}

// TestRestoreNotFound tests that a stale id surfaces ErrNotFound.
func TestRestoreNotFound(t *testing.T) {
	m, _, _ := newTestManager(t)
	m.Capture(mustText(t, "present"))

	err := m.Restore("gone")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Restore(unknown) error = %v, want ErrNotFound", err)
	}
	if m.ConsumeSelfWrite() {
		t.Error("ConsumeSelfWrite() = true after failed lookup, want false")
	}
}

// TestRestoreWriteFailureDisarms tests that a clipboard write error is
// returned and does not leave the self-write mark armed.
func TestRestoreWriteFailureDisarms(t *testing.T) {
	m, _, board := newTestManager(t)
	entry := m.Capture(mustText(t, "unreachable"))

	writeErr := errors.New("pasteboard unavailable")
	board.FailWrites(writeErr)

	err := m.Restore(entry.ID)
	if !errors.Is(err, writeErr) {
		t.Fatalf("Restore() error = %v, want wrapped %v", err, writeErr)
	}
	if m.ConsumeSelfWrite() {
		t.Error("ConsumeSelfWrite() = true after failed write, want false")
	}
}

// TestClearPersistsAndNotifies tests that clearing rewrites the store
// and announces the empty sequence, even when already empty.
func TestClearPersistsAndNotifies(t *testing.T) {
	m, st, _ := newTestManager(t)
	m.Capture(mustText(t, "soon gone"))

	var notified [][]domain.Entry
	defer m.Subscribe(func(entries []domain.Entry) {
		notified = append(notified, entries)
	})()

	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("Len() = %d after clear, want 0", m.Len())
	}
	if len(st.Entries()) != 0 {
		t.Errorf("store holds %d entries after clear, want 0", len(st.Entries()))
	}

	// A second clear of an already empty history still counts as a
	// mutation.
	m.Clear()

	if len(notified) != 2 {
		t.Fatalf("subscriber saw %d notifications, want 2", len(notified))
	}
	for i, snapshot := range notified {
		if len(snapshot) != 0 {
			t.Errorf("notification %d carried %d entries, want 0", i, len(snapshot))
		}
	}
}

// TestSubscribeSnapshots tests that subscribers receive the full
// sequence on every mutation and stop receiving after unsubscribe.
func TestSubscribeSnapshots(t *testing.T) {
	m, _, _ := newTestManager(t)

	var sizes []int
	unsubscribe := m.Subscribe(func(entries []domain.Entry) {
		sizes = append(sizes, len(entries))
	})

	m.Capture(mustText(t, "one"))
	m.Capture(mustText(t, "two"))
	unsubscribe()
	m.Capture(mustText(t, "three"))

	want := []int{1, 2}
	if len(sizes) != len(want) {
		t.Fatalf("subscriber saw %d notifications, want %d", len(sizes), len(want))
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("notification %d carried %d entries, want %d", i, sizes[i], want[i])
		}
	}
}

// TestEntriesReturnsCopy tests that callers cannot mutate the history
// through the returned slice.
func TestEntriesReturnsCopy(t *testing.T) {
	m, _, _ := newTestManager(t)
	m.Capture(mustText(t, "original"))

	got := m.Entries()
	got[0].ID = "tampered"

	if m.Entries()[0].ID == "tampered" {
		t.Error("mutating the returned slice changed the manager's history")
	}
}
