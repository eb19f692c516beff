package vault

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
)

var (
	// ErrUnlockFailed is returned when the password is wrong or the wrapped
	// vault key has been tampered with. The two cases are indistinguishable.
	ErrUnlockFailed = errors.New("unable to unlock vault")

	// ErrVaultLocked is returned by any key-dependent operation while no
	// vault key is resident.
	ErrVaultLocked = errors.New("vault is locked")

	// ErrMissingField is returned when a mandatory item field is empty.
	ErrMissingField = fmt.Errorf("%w: missing required field", crypto.ErrInvalidInput)
)
