// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"portfolio/internal/blocks"
)

// FieldError is one field-level validation failure. Field is a JSON path
// such as "title" or "projects[1].description".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every field that failed validation. It is always
// mapped to a 400 response carrying Fields as details.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// AsValidation converts decoding failures of block content into a
// ValidationError. Other errors are returned unchanged.
func AsValidation(field string, err error) error {
	var be *blocks.Error
	if errors.As(err, &be) {
		return NewValidationError(be.Path(field), be.Message)
	}
	return err
}

// Validation limits shared by every entity kind.
const (
	maxTitleLen = 300
	maxShortLen = 1_000
	maxBodyLen  = 100_000
	maxTags     = 50
	maxTagLen   = 60
)

// checker collects field errors while a payload is validated.
type checker struct {
	errs []FieldError
}

func (c *checker) add(field, format string, args ...any) {
	c.errs = append(c.errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// required validates a mandatory string field.
func (c *checker) required(field, value string, max int) {
	if strings.TrimSpace(value) == "" {
		c.add(field, "is required")
		return
	}
	c.length(field, value, max)
}

// optional validates a string field that may be omitted.
func (c *checker) optional(field string, value *string, max int) {
	if value != nil {
		c.length(field, *value, max)
	}
}

// present validates a patch field: when supplied it must satisfy the same
// rules as on create.
func (c *checker) present(field string, value *string, max int) {
	if value != nil {
		c.required(field, *value, max)
	}
}

func (c *checker) length(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		c.add(field, "is too long (max %d characters)", max)
	}
}

func (c *checker) tags(field string, tags []string) {
	if len(tags) > maxTags {
		c.add(field, "has too many entries (max %d)", maxTags)
		return
	}
	for i, tag := range tags {
		c.required(fmt.Sprintf("%s[%d]", field, i), tag, maxTagLen)
	}
}

func (c *checker) content(field string, seq blocks.Sequence) {
	if seq == nil {
		c.add(field, "is required")
	}
}

func (c *checker) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.errs}
}

// orEmpty returns tags, or an empty non-nil slice when tags is nil.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
