package crypto

import (
	"github.com/pkg/errors"
)

const (
	pubKeyBytesLenCompressed   = 33
	pubKeyBytesLenUncompressed = 65
)

const (
	pubKeyPrefixCompressedEven = 0x02
	pubKeyPrefixCompressedOdd  = 0x03
	pubKeyPrefixUncompressed   = 0x04
)

// ErrInvalidPublicKey is returned when a public key is neither a 65-byte
// uncompressed SEC1 point nor a 33-byte compressed one.
var ErrInvalidPublicKey = errors.New("invalid public key format")

// CompressPublicKey normalizes a SEC1-encoded public key into its 33-byte
// compressed form. Already compressed keys are returned unchanged.
func CompressPublicKey(pubKey []byte) ([]byte, error) {
	switch {
	case len(pubKey) == pubKeyBytesLenUncompressed && pubKey[0] == pubKeyPrefixUncompressed:
		// The prefix byte encodes the parity of the Y coordinate, of which
		// only the last byte matters.
		prefix := byte(pubKeyPrefixCompressedEven)
		if pubKey[pubKeyBytesLenUncompressed-1]%2 != 0 {
			prefix = pubKeyPrefixCompressedOdd
		}

		compressed := make([]byte, 0, pubKeyBytesLenCompressed)
		compressed = append(compressed, prefix)
		compressed = append(compressed, pubKey[1:pubKeyBytesLenCompressed]...)
		return compressed, nil

	case len(pubKey) == pubKeyBytesLenCompressed &&
		(pubKey[0] == pubKeyPrefixCompressedEven || pubKey[0] == pubKeyPrefixCompressedOdd):
		return pubKey, nil

	default:
		return nil, errors.Wrapf(ErrInvalidPublicKey, "length %d", len(pubKey))
	}
}
