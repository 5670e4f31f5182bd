// Package mockboard provides a scripted clipboard implementation for
// tests and the demo.
package mockboard

import (
	"bytes"
	"sync"

	"github.com/clipkeep/clipkeep/internal/clipboard"
)

// MockBackend implements clipboard.Backend with in-memory state and an
// explicit mutation counter. SetText and SetImage simulate writes by
// an external process.
type MockBackend struct {
	mu       sync.Mutex
	count    uint64
	text     string
	image    []byte
	writeErr error
}

var _ clipboard.Backend = (*MockBackend)(nil)

// New creates an empty MockBackend.
func New() *MockBackend {
	return &MockBackend{}
}

// SetText simulates an external process writing text to the clipboard.
func (m *MockBackend) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.image = nil
	m.count++
}

// SetImage simulates an external process writing an image to the
// clipboard.
func (m *MockBackend) SetImage(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.image = bytes.Clone(data)
	m.count++
}

// FailWrites makes subsequent WriteText and WriteImage calls return
// err. Pass nil to restore normal behavior.
func (m *MockBackend) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// ChangeCount implements clipboard.Backend.
func (m *MockBackend) ChangeCount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// ReadText implements clipboard.Backend.
func (m *MockBackend) ReadText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// ReadImage implements clipboard.Backend.
func (m *MockBackend) ReadImage() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.image)
}

// WriteText implements clipboard.Backend.
func (m *MockBackend) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.text = text
	m.image = nil
	m.count++
	return nil
}

// WriteImage implements clipboard.Backend.
func (m *MockBackend) WriteImage(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.text = ""
	m.image = bytes.Clone(data)
	m.count++
	return nil
}

// Clear implements clipboard.Backend. Emptying the clipboard is a
// write, so the counter advances.
func (m *MockBackend) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.image = nil
	m.count++
	return nil
}
