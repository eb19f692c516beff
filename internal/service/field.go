package service

import (
	"fmt"
	"strings"
)

// Field names one item field.
type Field string

// Item fields addressable by CopyField.
const (
	FieldLabel    Field = "label"
	FieldWebsite  Field = "website"
	FieldUsername Field = "username"
	FieldPassword Field = "password"
)

// ParseField maps a case-insensitive field name onto a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldLabel, FieldWebsite, FieldUsername, FieldPassword:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
}
