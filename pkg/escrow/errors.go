package escrow

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/assetmarket/escrow-server/pkg/lamports"
)

// ErrAlreadyListed indicates an active escrow already exists for the
// (asset, seller) pair, so listing must not proceed.
var ErrAlreadyListed = errors.New("asset is already listed")

// ValidationError indicates a malformed request that was rejected before
// any network access.
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func newValidationError(format string, args ...interface{}) error {
	return &ValidationError{message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

func parsePublicKey(field, value string) (ed25519.PublicKey, error) {
	if len(value) == 0 {
		return nil, newValidationError("missing %s", field)
	}

	decoded, err := base58.Decode(value)
	if err != nil || len(decoded) != ed25519.PublicKeySize {
		return nil, newValidationError("%s is not a public key", field)
	}

	return decoded, nil
}

func parsePrice(value string) (uint64, error) {
	if len(value) == 0 {
		return 0, newValidationError("missing price")
	}

	price, err := lamports.FromString(value)
	if err != nil {
		return 0, newValidationError("invalid price")
	}
	if price == 0 {
		return 0, newValidationError("price must be positive")
	}

	return price, nil
}
