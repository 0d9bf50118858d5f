package hdkey

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// hardenedKeyStart is the first hardened child index defined by BIP32.
const hardenedKeyStart = 0x80000000

// ErrInsufficientDepth is returned when the account level is requested on a
// derivation too shallow to have one.
var ErrInsufficientDepth = errors.New("insufficient derivation depth")

// Level is a single component of a BIP32 derivation path. The top bit marks
// the component as hardened.
type Level uint32

// Harden returns the hardened counterpart of the level.
func (l Level) Harden() Level {
	return l | hardenedKeyStart
}

// Hardened reports whether the level is hardened.
func (l Level) Hardened() bool {
	return l&hardenedKeyStart != 0
}

func (l Level) String() string {
	if l.Hardened() {
		return fmt.Sprintf("%d'", uint32(l)-hardenedKeyStart)
	}
	return fmt.Sprintf("%d", uint32(l))
}

// Derivation is an ordered sequence of levels, root first. Operations never
// mutate the receiver, so callers may retain and reuse prefixes.
type Derivation []Level

// Child returns a new derivation extended with the given level. The receiver
// is copied, not aliased.
func (d Derivation) Child(l Level) Derivation {
	child := make(Derivation, len(d), len(d)+1)
	copy(child, d)
	return append(child, l)
}

// Depth returns the number of levels in the derivation.
func (d Derivation) Depth() uint8 {
	return uint8(len(d))
}

// Parent returns the derivation with the last level removed. The parent of
// an empty derivation is the empty derivation itself.
func (d Derivation) Parent() Derivation {
	if len(d) == 0 {
		return nil
	}
	return d[:len(d)-1]
}

// Account returns the account-level child index, the third level from the
// root of a BIP44-shaped path.
func (d Derivation) Account() (Level, error) {
	if len(d) < 3 {
		return 0, errors.Wrapf(ErrInsufficientDepth, "depth %d", len(d))
	}
	return d[2], nil
}

// Path renders the derivation as apostrophe-notation segments joined with
// slashes: "44'/0'/0'".
func (d Derivation) Path() string {
	segments := make([]string, len(d))
	for i, level := range d {
		segments[i] = level.String()
	}
	return strings.Join(segments, "/")
}

func (d Derivation) String() string {
	return d.Path()
}
