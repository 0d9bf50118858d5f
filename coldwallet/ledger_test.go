package coldwallet

import (
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/onyb/satstack/crypto"
	"github.com/onyb/satstack/hdkey"
)

// buildWalletPublicKeyReply assembles a synthetic device response for the
// wallet public key query.
func buildWalletPublicKeyReply(pubKey []byte, address string, chainCode []byte) []byte {
	reply := []byte{byte(len(pubKey))}
	reply = append(reply, pubKey...)
	reply = append(reply, byte(len(address)))
	reply = append(reply, []byte(address)...)
	reply = append(reply, chainCode...)
	return reply
}

func uncompressedTestKey(t *testing.T) []byte {
	pubKey, err := hex.DecodeString(
		"0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798" +
			"483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")
	assert.Nil(t, err)
	return pubKey
}

func TestDecodeWalletPublicKey(t *testing.T) {
	assert := assert.New(t)

	rawPubKey := uncompressedTestKey(t)
	chainCode := make([]byte, 32)
	chainCode[0] = 0x87

	reply := buildWalletPublicKeyReply(rawPubKey, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", chainCode)

	pubKey, decodedChainCode, err := decodeWalletPublicKey(reply)
	assert.Nil(err)
	assert.Equal(chainCode, decodedChainCode)

	// The public key comes back compressed.
	assert.Equal(33, len(pubKey))
	assert.Equal(
		"0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		hex.EncodeToString(pubKey))
}

func TestDecodeWalletPublicKeyMalformed(t *testing.T) {
	assert := assert.New(t)

	rawPubKey := uncompressedTestKey(t)
	chainCode := make([]byte, 32)
	reply := buildWalletPublicKeyReply(rawPubKey, "addr", chainCode)

	// Truncations at every field boundary must surface a malformed-response
	// error rather than panic.
	shortLengths := []int{
		0,                      // empty reply
		1 + 10,                 // truncated public key
		1 + len(rawPubKey),     // missing address length
		1 + len(rawPubKey) + 3, // truncated address
		len(reply) - 1,         // truncated chain code
	}
	for _, n := range shortLengths {
		_, _, err := decodeWalletPublicKey(reply[:n])
		assert.NotNil(err)
		assert.Equal(ErrMalformedResponse, errors.Cause(err))
	}
}

func TestDecodeWalletPublicKeyInvalidKey(t *testing.T) {
	assert := assert.New(t)

	// 64-byte key blob: neither compressed nor uncompressed SEC1.
	reply := buildWalletPublicKeyReply(make([]byte, 64), "addr", make([]byte, 32))

	_, _, err := decodeWalletPublicKey(reply)
	assert.NotNil(err)
	assert.Equal(crypto.ErrInvalidPublicKey, errors.Cause(err))
}

// fakeDevice is an in-memory stand-in for the HID endpoint, replaying a
// pre-framed response to whatever is written to it.
type fakeDevice struct {
	written  []byte
	response []byte
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.written = append(d.written, p...)
	return len(p), nil
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	n := copy(p, d.response)
	d.response = d.response[n:]
	return n, nil
}

// frameReply wraps an APDU response into the 64-byte HID transport framing.
func frameReply(payload []byte) []byte {
	frame := []byte{0x01, 0x01, 0x05, 0x00, 0x00}
	frame = append(frame, byte(len(payload)>>8), byte(len(payload)))
	frame = append(frame, payload...)
	for len(frame)%64 != 0 {
		frame = append(frame, 0x00)
	}
	return frame
}

func TestLedgerVersion(t *testing.T) {
	assert := assert.New(t)

	device := &fakeDevice{
		// features, arch, major, minor, patch + status word
		response: frameReply([]byte{0x01, 0x00, 1, 6, 5, 0x90, 0x00}),
	}
	driver := NewLedgerDriver().(*ledgerDriver)
	driver.device = device

	version, err := driver.ledgerVersion()
	assert.Nil(err)
	assert.Equal([3]byte{1, 6, 5}, version)

	// The request goes out as a single 64-byte report with the APDU header,
	// zero padded after the payload.
	assert.Equal(64, len(device.written))
	assert.Equal([]byte{0x01, 0x01, 0x05, 0x00, 0x00}, device.written[:5])
	assert.Equal([]byte{0x00, 0x05, 0xe0, 0xc4, 0x00, 0x00, 0x00}, device.written[5:12])
	assert.Equal(make([]byte, 64-12), device.written[12:])
}

func TestLedgerExchangeChunking(t *testing.T) {
	assert := assert.New(t)

	device := &fakeDevice{
		response: frameReply([]byte{0x90, 0x00}),
	}
	driver := NewLedgerDriver().(*ledgerDriver)
	driver.device = device

	// 60 bytes of data overflow the 59-byte payload space of the first
	// report, forcing a second one.
	data := make([]byte, 60)
	_, err := driver.ledgerExchange(ledgerOpGetWalletPublicKey, 0, 0, data)
	assert.Nil(err)

	// Both reports are exactly 64 bytes, the second carrying sequence
	// index 1 and a zero padded tail after the 8 remaining APDU bytes.
	assert.Equal(128, len(device.written))
	assert.Equal([]byte{0x01, 0x01, 0x05, 0x00, 0x01}, device.written[64:69])
	assert.Equal(make([]byte, 64-5-8), device.written[64+5+8:])
}

func TestLedgerExchangeBadStatusCode(t *testing.T) {
	assert := assert.New(t)

	device := &fakeDevice{
		response: frameReply([]byte{0x69, 0x85}), // conditions not satisfied
	}
	driver := NewLedgerDriver().(*ledgerDriver)
	driver.device = device

	_, err := driver.ledgerVersion()
	assert.NotNil(err)
	assert.Equal(errLedgerBadStatusCode, errors.Cause(err))
}

func TestNewLedgerDriverLogger(t *testing.T) {
	assert := assert.New(t)

	// The driver logs under its own module name, so its verbosity can be
	// tuned through the log.levels config.
	driver := NewLedgerDriver().(*ledgerDriver)
	assert.Equal("ledger", driver.logger.Data["prefix"])
}

func TestSerializePath(t *testing.T) {
	assert := assert.New(t)

	derivation, err := hdkey.NewDerivation(hdkey.Legacy, hdkey.Main, 0)
	assert.Nil(err)

	payload := serializePath(derivation)
	assert.Equal(
		"03"+
			"8000002c"+ // 44'
			"80000000"+ // 0'
			"80000000", // 0'
		hex.EncodeToString(payload))

	parentPayload := serializePath(derivation.Parent())
	assert.Equal("028000002c80000000", hex.EncodeToString(parentPayload))
}
