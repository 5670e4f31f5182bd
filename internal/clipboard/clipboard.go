// Package clipboard defines the abstract clipboard contract the rest
// of the system observes and writes through.
package clipboard

// Backend is the clipboard capability clipkeep consumes. Any
// implementation with these semantics is interchangeable; no other
// package touches an OS clipboard API.
//
// ChangeCount must increase on every clipboard write by any process,
// including writes made through this Backend. Reads signal absent
// content with zero values rather than errors: a clipboard holding no
// text yields "", one holding no image yields nil.
type Backend interface {
	// ChangeCount returns the clipboard's mutation counter.
	ChangeCount() uint64

	// ReadText returns the current text content, or "" when the
	// clipboard holds no text.
	ReadText() string

	// ReadImage returns the current image bytes, or nil when the
	// clipboard holds no image.
	ReadImage() []byte

	// WriteText replaces the clipboard content with text.
	WriteText(text string) error

	// WriteImage replaces the clipboard content with image bytes.
	WriteImage(data []byte) error

	// Clear empties the clipboard.
	Clear() error
}
