//go:build !darwin

package sysboard

import (
	"hash/fnv"
	"sync"

	"golang.design/x/clipboard"
)

// counterState emulates a pasteboard change counter on platforms that
// do not expose one. Each observation hashes the clipboard content and
// the counter advances when the signature differs from the previous
// observation. Rewriting content identical to what the clipboard
// already holds does not advance the emulated counter.
type counterState struct {
	mu      sync.Mutex
	count   uint64
	lastSig uint64
}

func (b *SystemBackend) primeCounter() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSig = contentSignature()
}

// ChangeCount implements clipboard.Backend.
func (b *SystemBackend) ChangeCount() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	sig := contentSignature()
	if sig != b.lastSig {
		b.lastSig = sig
		b.count++
	}
	return b.count
}

// contentSignature hashes both clipboard formats into one value, with
// a tag byte per format so "text A" and "image A" differ.
func contentSignature() uint64 {
	h := fnv.New64a()
	if text := clipboard.Read(clipboard.FmtText); len(text) > 0 {
		h.Write([]byte{0x01})
		h.Write(text)
	}
	if img := clipboard.Read(clipboard.FmtImage); len(img) > 0 {
		h.Write([]byte{0x02})
		h.Write(img)
	}
	return h.Sum64()
}
