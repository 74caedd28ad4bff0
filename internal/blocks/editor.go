// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when an editor operation names a position
// that does not exist in the sequence.
var ErrIndexOutOfRange = errors.New("block index out of range")

// Direction is the way Move shifts a block.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Fields carries a partial block update. Nil members are left untouched.
type Fields struct {
	Value    *string `json:"value,omitempty"`
	URL      *string `json:"url,omitempty"`
	Caption  *string `json:"caption,omitempty"`
	Language *string `json:"language,omitempty"`
}

// defaultCodeLanguage is the language preselected for new code blocks.
const defaultCodeLanguage = "typescript"

// New returns the minimal valid block for t.
func New(t Type) (Block, error) {
	switch t {
	case TypeText:
		return Text{}, nil
	case TypeImage:
		return Image{}, nil
	case TypeVideo:
		return Video{}, nil
	case TypeCode:
		return Code{Language: defaultCodeLanguage}, nil
	}
	return nil, &Error{Index: -1, Field: "type", Message: fmt.Sprintf("%q is not a known block type", t)}
}

// Editor applies structural edits to an ordered block sequence. Positions
// are recomputed after every change; blocks have no identity beyond their
// index.
type Editor struct {
	blocks Sequence
}

// NewEditor starts an editing session over a copy of seq.
func NewEditor(seq Sequence) *Editor {
	out := seq.Clone()
	if out == nil {
		out = Sequence{}
	}
	return &Editor{blocks: out}
}

// Blocks returns a copy of the current sequence.
func (e *Editor) Blocks() Sequence {
	return e.blocks.Clone()
}

// Len returns the number of blocks.
func (e *Editor) Len() int {
	return len(e.blocks)
}

// Append adds a new block of type t at the end.
func (e *Editor) Append(t Type) error {
	b, err := New(t)
	if err != nil {
		return err
	}
	e.blocks = append(e.blocks, b)
	return nil
}

// Update merges f into the block at index. The block keeps its type;
// fields that do not exist on that type are rejected.
func (e *Editor) Update(index int, f Fields) error {
	if err := e.check(index); err != nil {
		return err
	}

	merged, err := merge(e.blocks[index], f)
	if err != nil {
		var be *Error
		if errors.As(err, &be) {
			be.Index = index
		}
		return err
	}
	e.blocks[index] = merged
	return nil
}

// Remove deletes the block at index; later blocks shift down by one.
func (e *Editor) Remove(index int) error {
	if err := e.check(index); err != nil {
		return err
	}
	e.blocks = append(e.blocks[:index], e.blocks[index+1:]...)
	return nil
}

// Move swaps the block at index with its neighbour in direction d. Moving
// the first block up or the last block down leaves the sequence as is.
func (e *Editor) Move(index int, d Direction) error {
	if err := e.check(index); err != nil {
		return err
	}

	var target int
	switch d {
	case Up:
		target = index - 1
	case Down:
		target = index + 1
	default:
		return fmt.Errorf("unknown direction %q", d)
	}
	if target < 0 || target >= len(e.blocks) {
		return nil
	}
	e.blocks[index], e.blocks[target] = e.blocks[target], e.blocks[index]
	return nil
}

func (e *Editor) check(index int) error {
	if index < 0 || index >= len(e.blocks) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(e.blocks))
	}
	return nil
}

// merge applies f to b with an exhaustive switch over the variants.
func merge(b Block, f Fields) (Block, error) {
	switch v := b.(type) {
	case Text:
		if err := reject(TypeText, map[string]*string{"url": f.URL, "caption": f.Caption, "language": f.Language}); err != nil {
			return nil, err
		}
		assign(&v.Value, f.Value)
		return v, nil
	case Image:
		if err := reject(TypeImage, map[string]*string{"value": f.Value, "language": f.Language}); err != nil {
			return nil, err
		}
		assign(&v.URL, f.URL)
		assign(&v.Caption, f.Caption)
		return v, nil
	case Video:
		if err := reject(TypeVideo, map[string]*string{"value": f.Value, "language": f.Language}); err != nil {
			return nil, err
		}
		assign(&v.URL, f.URL)
		assign(&v.Caption, f.Caption)
		return v, nil
	case Code:
		if err := reject(TypeCode, map[string]*string{"url": f.URL, "caption": f.Caption}); err != nil {
			return nil, err
		}
		assign(&v.Value, f.Value)
		assign(&v.Language, f.Language)
		return v, nil
	}
	return nil, fmt.Errorf("unsupported block %T", b)
}

func reject(t Type, foreign map[string]*string) error {
	for _, name := range []string{"value", "url", "caption", "language"} {
		if foreign[name] != nil {
			return &Error{Field: name, Message: fmt.Sprintf("is not allowed on %s blocks", t)}
		}
	}
	return nil
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
