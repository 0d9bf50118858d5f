package hdkey

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/pkg/errors"

	"github.com/onyb/satstack/crypto"
)

// serializedKeyLen is the pre-checksum length of a BIP32 extended key:
// version (4) || depth (1) || parent fingerprint (4) || child num (4) ||
// chain code (32) || compressed public key (33).
const serializedKeyLen = 4 + 1 + 4 + 4 + 32 + 33

// fingerprintLen is the length of a key fingerprint, the HASH160 prefix that
// identifies the parent key in descriptors.
const fingerprintLen = 4

// ExtendedPublicKey is a BIP32 extended public key: a compressed public key
// bundled with its chain code and derivation metadata.
type ExtendedPublicKey struct {
	Version           [4]byte
	Depth             uint8
	ParentFingerprint [fingerprintLen]byte
	ChildNum          uint32
	ChainCode         [32]byte
	PubKey            [33]byte
}

// Fingerprint computes the fingerprint of a compressed public key.
func Fingerprint(pubKey []byte) (fp [fingerprintLen]byte) {
	copy(fp[:], crypto.Hash160(pubKey)[:fingerprintLen])
	return fp
}

// Serialize encodes the key in its base58check form, the xpub/tpub string
// understood by wallet software.
func (k *ExtendedPublicKey) Serialize() string {
	payload := make([]byte, 0, serializedKeyLen+4)
	payload = append(payload, k.Version[:]...)
	payload = append(payload, k.Depth)
	payload = append(payload, k.ParentFingerprint[:]...)

	var childNum [4]byte
	binary.BigEndian.PutUint32(childNum[:], k.ChildNum)
	payload = append(payload, childNum[:]...)

	payload = append(payload, k.ChainCode[:]...)
	payload = append(payload, k.PubKey[:]...)

	checksum := crypto.Hash256(payload)[:4]
	return base58.Encode(append(payload, checksum...))
}

// Descriptor renders the watch-only output descriptor of the key for the
// given scheme and change branch. The derivation must be the path the key
// was obtained at, since its rendering becomes the descriptor's key origin.
func (k *ExtendedPublicKey) Descriptor(scheme Scheme, derivation Derivation, change Change) (string, error) {
	keyOrigin := fmt.Sprintf("%x/%s", k.ParentFingerprint, derivation.Path())
	fragment := fmt.Sprintf("[%s]%s/%d/*", keyOrigin, k.Serialize(), change)

	switch scheme {
	case Legacy:
		return fmt.Sprintf("pkh(%s)", fragment), nil
	case Segwit:
		return fmt.Sprintf("sh(wpkh(%s))", fragment), nil
	case NativeSegwit:
		return fmt.Sprintf("wpkh(%s)", fragment), nil
	}
	return "", errors.Wrapf(ErrInvalidScheme, "%d", int(scheme))
}
