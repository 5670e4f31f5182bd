// Package sysboard implements the clipboard backend over the OS
// clipboard, using golang.design/x/clipboard for content access. The
// mutation counter comes from NSPasteboard on macOS and is emulated by
// content signature on other platforms.
package sysboard

import (
	"fmt"

	"golang.design/x/clipboard"

	clip "github.com/clipkeep/clipkeep/internal/clipboard"
)

// SystemBackend is the production clipboard.Backend over the OS
// clipboard. Construct it with New; the zero value is unusable.
type SystemBackend struct {
	counterState
}

var _ clip.Backend = (*SystemBackend)(nil)

// New initializes the OS clipboard and returns the system backend. It
// fails when no usable clipboard exists, for example in a headless
// session without a display server.
func New() (*SystemBackend, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("initialize system clipboard: %w", err)
	}
	b := &SystemBackend{}
	b.primeCounter()
	return b, nil
}

// ReadText implements clipboard.Backend.
func (b *SystemBackend) ReadText() string {
	return string(clipboard.Read(clipboard.FmtText))
}

// ReadImage implements clipboard.Backend. The bytes are PNG-encoded by
// the underlying library regardless of platform.
func (b *SystemBackend) ReadImage() []byte {
	return clipboard.Read(clipboard.FmtImage)
}

// WriteText implements clipboard.Backend.
func (b *SystemBackend) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// WriteImage implements clipboard.Backend.
func (b *SystemBackend) WriteImage(data []byte) error {
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

// Clear implements clipboard.Backend. The underlying library has no
// clear call, so clearing writes empty text over the current content.
func (b *SystemBackend) Clear() error {
	clipboard.Write(clipboard.FmtText, nil)
	return nil
}
