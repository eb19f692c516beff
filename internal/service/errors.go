package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
)

var (
	// ErrFieldAbsent is returned when an optional item field that was asked
	// for is not set on the item.
	ErrFieldAbsent = errors.New("item field is not set")

	// ErrUnknownField is returned for a field name outside Field's values.
	ErrUnknownField = fmt.Errorf("%w: unknown item field", crypto.ErrInvalidInput)

	// ErrNoClipboard is returned by CopyField when the service was built
	// without a clipboard.
	ErrNoClipboard = errors.New("clipboard is not available")
)
