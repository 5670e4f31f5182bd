// Package domain defines the content model shared by every other
// package: clipboard payloads and captured history entries.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind discriminates the two payload cases.
type Kind string

const (
	// KindText is string clipboard content.
	KindText Kind = "text"

	// KindImage is raw image bytes (PNG, TIFF, or any other container
	// format), opaque to everything but the clipboard backend.
	KindImage Kind = "image"
)

// Payload is a single captured clipboard value: either a non-empty
// string or a non-empty byte sequence. Image bytes pass through
// unmodified, with no re-encoding and no validation of their internal
// structure.
//
// Construct payloads with NewText or NewImage so the non-empty
// invariant holds. The zero Payload is not valid.
type Payload struct {
	// Type selects the case.
	Type Kind

	// Value is the text content. Set only when Type is KindText.
	Value string

	// Bytes is the image content. Set only when Type is KindImage.
	Bytes []byte
}

// NewText converts raw clipboard text into a payload. ok is false when
// the text is empty, meaning the clipboard held nothing representable.
func NewText(value string) (Payload, bool) {
	if value == "" {
		return Payload{}, false
	}
	return Payload{Type: KindText, Value: value}, true
}

// NewImage converts raw image bytes into a payload. The bytes are
// copied; the payload owns its own storage. ok is false when b is
// empty.
func NewImage(b []byte) (Payload, bool) {
	if len(b) == 0 {
		return Payload{}, false
	}
	return Payload{Type: KindImage, Bytes: bytes.Clone(b)}, true
}

// payloadJSON is the persisted shape: a type tag plus one payload
// field. Image bytes encode as base64 via encoding/json's []byte rule.
type payloadJSON struct {
	Type  Kind   `json:"type"`
	Value string `json:"value,omitempty"`
	Bytes []byte `json:"bytes,omitempty"`
}

// MarshalJSON encodes the payload as a tagged object, either
// {"type":"text","value":...} or {"type":"image","bytes":...}.
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case KindText:
		return json.Marshal(payloadJSON{Type: KindText, Value: p.Value})
	case KindImage:
		return json.Marshal(payloadJSON{Type: KindImage, Bytes: p.Bytes})
	default:
		return nil, fmt.Errorf("marshal payload: unknown kind %q", p.Type)
	}
}

// UnmarshalJSON decodes a tagged payload object, rejecting unknown
// type tags and empty content so the non-empty invariant survives a
// reload.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw payloadJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	switch raw.Type {
	case KindText:
		if raw.Value == "" {
			return fmt.Errorf("unmarshal payload: text payload with empty value")
		}
		*p = Payload{Type: KindText, Value: raw.Value}
	case KindImage:
		if len(raw.Bytes) == 0 {
			return fmt.Errorf("unmarshal payload: image payload with empty bytes")
		}
		*p = Payload{Type: KindImage, Bytes: raw.Bytes}
	default:
		return fmt.Errorf("unmarshal payload: unknown kind %q", raw.Type)
	}
	return nil
}
