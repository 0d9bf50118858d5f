package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// Sha256 calculates the SHA-256 hash of the input data.
func Sha256(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:]
}

// Ripemd160 calculates the RIPEMD-160 hash of the input data.
func Ripemd160(data []byte) []byte {
	hasher := ripemd160.New()
	hasher.Write(data)
	return hasher.Sum(nil)
}

// Hash256 calculates SHA-256(SHA-256(data)). Used to checksum base58check
// payloads.
func Hash256(data []byte) []byte {
	return Sha256(Sha256(data))
}

// Hash160 calculates RIPEMD-160(SHA-256(data)). Used to fingerprint public
// keys.
func Hash160(data []byte) []byte {
	return Ripemd160(Sha256(data))
}
