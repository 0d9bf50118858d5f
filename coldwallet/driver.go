package coldwallet

import (
	"io"

	"github.com/onyb/satstack/hdkey"
)

// Driver abstracts the functionality of the hardware signing device.
type Driver interface {
	Status() (string, error)
	Open(device io.ReadWriter) error
	Close() error

	// GetWalletPublicKey queries the device for the key material at the
	// given derivation path, returning the compressed public key and the
	// chain code.
	GetWalletPublicKey(path hdkey.Derivation) (pubKey, chainCode []byte, err error)
}
