package descriptor

import (
	"github.com/pkg/errors"

	"github.com/onyb/satstack/common/util"
	"github.com/onyb/satstack/hdkey"
)

// Transport is the capability the orchestrator needs from a signing device:
// one blocking round trip returning the compressed public key and chain code
// at a derivation path.
type Transport interface {
	Query(path hdkey.Derivation) (pubKey, chainCode []byte, err error)
}

// Generator renders output descriptors for the change branches of a derived
// account, without further device round trips.
type Generator func(change hdkey.Change) (string, error)

// DeriveOutputDescriptors queries the signing device for the account-level
// extended public key of (scheme, chain, account) and returns a generator of
// watch-only output descriptors, one per change branch. The device is
// queried exactly twice, whichever branches are subsequently rendered.
func DeriveOutputDescriptors(transport Transport, scheme hdkey.Scheme, chain hdkey.Chain, account uint32) (Generator, error) {
	derivation, err := hdkey.NewDerivation(scheme, chain, account)
	if err != nil {
		return nil, err
	}
	util.GetLoggerForModule("descriptor").Debugf("Deriving output descriptors at %s", derivation.Path())

	key, err := deriveExtendedPublicKey(transport, chain, derivation)
	if err != nil {
		return nil, err
	}

	return func(change hdkey.Change) (string, error) {
		return key.Descriptor(scheme, derivation, change)
	}, nil
}

// deriveExtendedPublicKey assembles the BIP32 extended public key at the
// given derivation: one query at the target path for the key material, one
// at the parent path for the fingerprint. The parent's chain code is
// discarded.
func deriveExtendedPublicKey(transport Transport, chain hdkey.Chain, derivation hdkey.Derivation) (*hdkey.ExtendedPublicKey, error) {
	version, err := chain.Version()
	if err != nil {
		return nil, err
	}
	account, err := derivation.Account()
	if err != nil {
		return nil, err
	}

	pubKey, chainCode, err := transport.Query(derivation)
	if err != nil {
		return nil, errors.Wrap(err, "query target path")
	}
	parentPubKey, _, err := transport.Query(derivation.Parent())
	if err != nil {
		return nil, errors.Wrap(err, "query parent path")
	}

	key := &hdkey.ExtendedPublicKey{
		Version:           version,
		Depth:             derivation.Depth(),
		ParentFingerprint: hdkey.Fingerprint(parentPubKey),
		ChildNum:          uint32(account),
	}
	if len(chainCode) != len(key.ChainCode) {
		return nil, errors.Errorf("unexpected chain code length: %d", len(chainCode))
	}
	if len(pubKey) != len(key.PubKey) {
		return nil, errors.Errorf("unexpected public key length: %d", len(pubKey))
	}
	copy(key.ChainCode[:], chainCode)
	copy(key.PubKey[:], pubKey)

	return key, nil
}
