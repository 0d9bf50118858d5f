package hdkey

import (
	"github.com/pkg/errors"
)

// ErrInvalidScheme is returned when an address scheme is not one of legacy,
// segwit, or native_segwit.
var ErrInvalidScheme = errors.New("invalid scheme")

// ErrInvalidChain is returned when a chain is not one of main, test, or
// regtest.
var ErrInvalidChain = errors.New("invalid chain")

// Scheme selects the script type of the derived descriptors, and with it the
// BIP43 purpose level of the derivation.
type Scheme int

const (
	// Legacy derives P2PKH descriptors (BIP44).
	Legacy Scheme = iota
	// Segwit derives P2SH-wrapped P2WPKH descriptors (BIP49).
	Segwit
	// NativeSegwit derives P2WPKH descriptors (BIP84).
	NativeSegwit
)

// SchemeFromString validates external input into a Scheme.
func SchemeFromString(s string) (Scheme, error) {
	switch s {
	case "legacy":
		return Legacy, nil
	case "segwit":
		return Segwit, nil
	case "native_segwit":
		return NativeSegwit, nil
	}
	return 0, errors.Wrapf(ErrInvalidScheme, "%q", s)
}

func (s Scheme) String() string {
	switch s {
	case Legacy:
		return "legacy"
	case Segwit:
		return "segwit"
	case NativeSegwit:
		return "native_segwit"
	}
	return "unknown"
}

// Purpose returns the BIP43 purpose level of the scheme.
func (s Scheme) Purpose() (Level, error) {
	switch s {
	case Legacy:
		return 44, nil
	case Segwit:
		return 49, nil
	case NativeSegwit:
		return 84, nil
	}
	return 0, errors.Wrapf(ErrInvalidScheme, "%d", int(s))
}

// Chain identifies the Bitcoin network the descriptors target.
type Chain int

const (
	// Main is the Bitcoin main network.
	Main Chain = iota
	// Test is the Bitcoin test network.
	Test
	// Regtest is a local regression-test network. It shares the testnet
	// extended-key version bytes and coin type.
	Regtest
)

// ChainFromString validates external input into a Chain.
func ChainFromString(s string) (Chain, error) {
	switch s {
	case "main":
		return Main, nil
	case "test":
		return Test, nil
	case "regtest":
		return Regtest, nil
	}
	return 0, errors.Wrapf(ErrInvalidChain, "%q", s)
}

func (c Chain) String() string {
	switch c {
	case Main:
		return "main"
	case Test:
		return "test"
	case Regtest:
		return "regtest"
	}
	return "unknown"
}

// CoinType returns the BIP44 coin type level of the chain.
func (c Chain) CoinType() Level {
	if c == Main {
		return 0
	}
	return 1
}

// Version returns the BIP32 extended public key version bytes of the chain.
func (c Chain) Version() ([4]byte, error) {
	switch c {
	case Main:
		return [4]byte{0x04, 0x88, 0xB2, 0x1E}, nil
	case Test, Regtest:
		return [4]byte{0x04, 0x35, 0x87, 0xCF}, nil
	}
	return [4]byte{}, errors.Wrapf(ErrInvalidChain, "%d", int(c))
}

// Change selects the descriptor branch under an account.
type Change int

const (
	// External is the receiving-address branch.
	External Change = 0
	// Internal is the change-address branch.
	Internal Change = 1
)

// NewDerivation builds the standard account-level derivation for the given
// scheme, chain, and account index: purpose'/coin_type'/account'.
func NewDerivation(scheme Scheme, chain Chain, account uint32) (Derivation, error) {
	purpose, err := scheme.Purpose()
	if err != nil {
		return nil, err
	}

	return Derivation{}.
		Child(purpose.Harden()).
		Child(chain.CoinType().Harden()).
		Child(Level(account).Harden()), nil
}
