//go:build darwin

package sysboard

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa
// #import <Cocoa/Cocoa.h>
//
// NSInteger clipkeep_changeCount() {
//     return [[NSPasteboard generalPasteboard] changeCount];
// }
import "C"

// counterState holds nothing on macOS; NSPasteboard maintains the
// counter itself.
type counterState struct{}

func (b *SystemBackend) primeCounter() {}

// ChangeCount implements clipboard.Backend via NSPasteboard's
// changeCount, which advances on every write by any process.
func (b *SystemBackend) ChangeCount() uint64 {
	return uint64(C.clipkeep_changeCount())
}
