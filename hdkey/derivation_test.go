package hdkey

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("0", Level(0).String())
	assert.Equal("44", Level(44).String())
	assert.Equal("2147483647", Level(0x7FFFFFFF).String())

	assert.Equal("0'", Level(0).Harden().String())
	assert.Equal("44'", Level(44).Harden().String())
	assert.Equal("2147483647'", Level(0x7FFFFFFF).Harden().String())

	assert.False(Level(44).Hardened())
	assert.True(Level(44).Harden().Hardened())
	assert.Equal(uint32(44+0x80000000), uint32(Level(44).Harden()))

	// Hardening is idempotent.
	assert.Equal(Level(44).Harden(), Level(44).Harden().Harden())
}

func TestDerivation(t *testing.T) {
	assert := assert.New(t)

	d := Derivation{}.
		Child(Level(44).Harden()).
		Child(Level(0).Harden()).
		Child(Level(7).Harden())

	assert.Equal(uint8(3), d.Depth())
	assert.Equal("44'/0'/7'", d.Path())
	assert.Equal("44'/0'/7'", d.String())

	parent := d.Parent()
	assert.Equal(uint8(2), parent.Depth())
	assert.Equal("44'/0'", parent.Path())

	account, err := d.Account()
	assert.Nil(err)
	assert.Equal(Level(7).Harden(), account)
}

func TestDerivationImmutability(t *testing.T) {
	assert := assert.New(t)

	prefix := Derivation{}.
		Child(Level(49).Harden()).
		Child(Level(1).Harden())

	// Extending the same prefix twice must not alias: each child gets its
	// own copy of the levels.
	d1 := prefix.Child(Level(0).Harden())
	d2 := prefix.Child(Level(1).Harden())

	assert.Equal("49'/1'", prefix.Path())
	assert.Equal("49'/1'/0'", d1.Path())
	assert.Equal("49'/1'/1'", d2.Path())

	// Taking the parent of a derivation leaves the original untouched.
	_ = d1.Parent()
	assert.Equal("49'/1'/0'", d1.Path())
}

func TestDerivationParentOfRoot(t *testing.T) {
	assert := assert.New(t)

	// The parent of an empty derivation is the empty derivation, not a
	// panic.
	parent := Derivation{}.Parent()
	assert.Equal(uint8(0), parent.Depth())
	assert.Equal("", parent.Path())
}

func TestDerivationAccountInsufficientDepth(t *testing.T) {
	assert := assert.New(t)

	d := Derivation{}.
		Child(Level(44).Harden()).
		Child(Level(0).Harden())

	_, err := d.Account()
	assert.NotNil(err)
	assert.Equal(ErrInsufficientDepth, errors.Cause(err))
}

func TestNewDerivation(t *testing.T) {
	assert := assert.New(t)

	d, err := NewDerivation(Legacy, Main, 0)
	assert.Nil(err)
	assert.Equal("44'/0'/0'", d.Path())

	d, err = NewDerivation(Segwit, Main, 3)
	assert.Nil(err)
	assert.Equal("49'/0'/3'", d.Path())

	d, err = NewDerivation(NativeSegwit, Test, 7)
	assert.Nil(err)
	assert.Equal("84'/1'/7'", d.Path())

	d, err = NewDerivation(NativeSegwit, Regtest, 0)
	assert.Nil(err)
	assert.Equal("84'/1'/0'", d.Path())

	_, err = NewDerivation(Scheme(42), Main, 0)
	assert.NotNil(err)
	assert.Equal(ErrInvalidScheme, errors.Cause(err))
}

func TestSchemeFromString(t *testing.T) {
	assert := assert.New(t)

	scheme, err := SchemeFromString("legacy")
	assert.Nil(err)
	assert.Equal(Legacy, scheme)

	scheme, err = SchemeFromString("segwit")
	assert.Nil(err)
	assert.Equal(Segwit, scheme)

	scheme, err = SchemeFromString("native_segwit")
	assert.Nil(err)
	assert.Equal(NativeSegwit, scheme)

	_, err = SchemeFromString("taproot")
	assert.NotNil(err)
	assert.Equal(ErrInvalidScheme, errors.Cause(err))
}

func TestChainFromString(t *testing.T) {
	assert := assert.New(t)

	chain, err := ChainFromString("main")
	assert.Nil(err)
	assert.Equal(Main, chain)
	assert.Equal(Level(0), chain.CoinType())

	chain, err = ChainFromString("test")
	assert.Nil(err)
	assert.Equal(Test, chain)
	assert.Equal(Level(1), chain.CoinType())

	chain, err = ChainFromString("regtest")
	assert.Nil(err)
	assert.Equal(Regtest, chain)
	assert.Equal(Level(1), chain.CoinType())

	_, err = ChainFromString("signet")
	assert.NotNil(err)
	assert.Equal(ErrInvalidChain, errors.Cause(err))
}

func TestChainVersion(t *testing.T) {
	assert := assert.New(t)

	version, err := Main.Version()
	assert.Nil(err)
	assert.Equal([4]byte{0x04, 0x88, 0xB2, 0x1E}, version)

	version, err = Test.Version()
	assert.Nil(err)
	assert.Equal([4]byte{0x04, 0x35, 0x87, 0xCF}, version)

	// Regtest shares the testnet version bytes.
	regtestVersion, err := Regtest.Version()
	assert.Nil(err)
	assert.Equal(version, regtestVersion)
}
