// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blocks defines the rich content model used by blog posts and
// knowledge entries: an ordered sequence of typed blocks (text, image,
// video, code). The variant set is closed; every block carries its type
// discriminant when encoded.
package blocks

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Type is the discriminant of a content block.
type Type string

const (
	TypeText  Type = "text"
	TypeImage Type = "image"
	TypeVideo Type = "video"
	TypeCode  Type = "code"
)

// Types lists every known block type in editor toolbar order.
var Types = []Type{TypeText, TypeImage, TypeVideo, TypeCode}

// Valid reports whether t is one of the known block types.
func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeImage, TypeVideo, TypeCode:
		return true
	}
	return false
}

// Block is one unit of rich content. It is implemented only by the
// variant structs in this package.
type Block interface {
	Kind() Type
	sealed()
}

// Text is a Markdown block (GFM + math on the client).
type Text struct {
	Value string
}

// Image is an image shown in a fixed aspect frame with an optional caption.
type Image struct {
	URL     string
	Caption string
}

// Video is an embedded video. URL may be any of the accepted share link
// shapes; see EmbedURL.
type Video struct {
	URL     string
	Caption string
}

// Code is a source listing with an optional language tag.
type Code struct {
	Value    string
	Language string
}

func (Text) Kind() Type  { return TypeText }
func (Image) Kind() Type { return TypeImage }
func (Video) Kind() Type { return TypeVideo }
func (Code) Kind() Type  { return TypeCode }

func (Text) sealed()  {}
func (Image) sealed() {}
func (Video) sealed() {}
func (Code) sealed()  {}

// MarshalJSON writes the text block with its discriminant. The required
// value is always emitted, even when empty.
func (b Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  Type   `json:"type"`
		Value string `json:"value"`
	}{TypeText, b.Value})
}

func (b Image) MarshalJSON() ([]byte, error) {
	return marshalMedia(TypeImage, b.URL, b.Caption)
}

func (b Video) MarshalJSON() ([]byte, error) {
	return marshalMedia(TypeVideo, b.URL, b.Caption)
}

func (b Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     Type   `json:"type"`
		Value    string `json:"value"`
		Language string `json:"language,omitempty"`
	}{TypeCode, b.Value, b.Language})
}

func marshalMedia(t Type, url, caption string) ([]byte, error) {
	return json.Marshal(struct {
		Type    Type   `json:"type"`
		URL     string `json:"url"`
		Caption string `json:"caption,omitempty"`
	}{t, url, caption})
}

// Sequence is an ordered list of blocks. Position is display order.
type Sequence []Block

// MarshalJSON encodes a nil sequence as an empty array.
func (s Sequence) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Block(s))
}

// UnmarshalJSON validates the candidate blocks with Parse. A validation
// failure is returned as *Error.
func (s *Sequence) UnmarshalJSON(data []byte) error {
	seq, err := Parse(data)
	if err != nil {
		return err
	}
	*s = seq
	return nil
}

// Value stores the sequence as JSONB.
func (s Sequence) Value() (driver.Value, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a JSONB column. SQL NULL yields an empty sequence.
func (s *Sequence) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*s = Sequence{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("blocks: cannot scan %T into Sequence", src)
	}
	seq, err := Parse(data)
	if err != nil {
		return fmt.Errorf("blocks: stored content is invalid: %w", err)
	}
	*s = seq
	return nil
}

// Clone returns a copy that shares no backing array with s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}
