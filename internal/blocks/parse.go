// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Error identifies the first invalid block of a sequence. Index is -1 when
// the sequence itself is malformed. Field is empty when the block as a
// whole is the problem.
type Error struct {
	Index   int
	Field   string
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Index < 0:
		return "content " + e.Message
	case e.Field == "":
		return fmt.Sprintf("block %d %s", e.Index, e.Message)
	default:
		return fmt.Sprintf("block %d: %s %s", e.Index, e.Field, e.Message)
	}
}

// Path renders the location of the error below a payload field, for
// example "content[2].url".
func (e *Error) Path(field string) string {
	if e.Index < 0 {
		return field
	}
	p := fmt.Sprintf("%s[%d]", field, e.Index)
	if e.Field != "" {
		p += "." + e.Field
	}
	return p
}

// fieldRule describes one field of a variant.
type fieldRule struct {
	name     string
	required bool
}

var variantFields = map[Type][]fieldRule{
	TypeText:  {{"value", true}},
	TypeImage: {{"url", true}, {"caption", false}},
	TypeVideo: {{"url", true}, {"caption", false}},
	TypeCode:  {{"value", true}, {"language", false}},
}

// Parse validates a JSON array of candidate blocks and returns the typed
// sequence. Validation stops at the first invalid block.
func Parse(data []byte) (Sequence, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, &Error{Index: -1, Message: "must be an array of blocks"}
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &Error{Index: -1, Message: "must be an array of blocks"}
	}

	seq := make(Sequence, 0, len(raws))
	for i, raw := range raws {
		b, err := parseBlock(i, raw)
		if err != nil {
			return nil, err
		}
		seq = append(seq, b)
	}
	return seq, nil
}

func parseBlock(index int, raw json.RawMessage) (Block, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, &Error{Index: index, Message: "must be an object"}
	}

	rawType, ok := fields["type"]
	if !ok {
		return nil, &Error{Index: index, Field: "type", Message: "is required"}
	}
	var t Type
	if err := json.Unmarshal(rawType, &t); err != nil {
		return nil, &Error{Index: index, Field: "type", Message: "must be a string"}
	}
	rules, ok := variantFields[t]
	if !ok {
		return nil, &Error{Index: index, Field: "type", Message: fmt.Sprintf("%q is not a known block type", t)}
	}

	// Reject fields that belong to no rule of this variant.
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if name == "type" {
			continue
		}
		if !slices.ContainsFunc(rules, func(r fieldRule) bool { return r.name == name }) {
			return nil, &Error{Index: index, Field: name, Message: fmt.Sprintf("is not allowed on %s blocks", t)}
		}
	}

	values := make(map[string]string, len(rules))
	for _, rule := range rules {
		v, present, err := stringField(fields, rule.name)
		if err != nil {
			return nil, &Error{Index: index, Field: rule.name, Message: err.Error()}
		}
		if rule.required && !present {
			return nil, &Error{Index: index, Field: rule.name, Message: "is required"}
		}
		values[rule.name] = v
	}

	switch t {
	case TypeText:
		return Text{Value: values["value"]}, nil
	case TypeImage:
		return Image{URL: values["url"], Caption: values["caption"]}, nil
	case TypeVideo:
		return Video{URL: values["url"], Caption: values["caption"]}, nil
	case TypeCode:
		return Code{Value: values["value"], Language: values["language"]}, nil
	}
	return nil, &Error{Index: index, Field: "type", Message: "is not supported"}
}

// stringField decodes an optional string member. JSON null counts as absent.
func stringField(fields map[string]json.RawMessage, name string) (string, bool, error) {
	raw, ok := fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, fmt.Errorf("must be a string")
	}
	return s, true, nil
}
