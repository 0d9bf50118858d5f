// Adapted for SatStack
// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// This file contains the implementation for interacting with the Ledger
// hardware wallet running the Bitcoin app. The wire protocol spec can be
// found in Ledger's btchip-doc repository.

package coldwallet

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/onyb/satstack/common/util"
	"github.com/onyb/satstack/crypto"
	"github.com/onyb/satstack/hdkey"
)

// ledgerOpcode is an enumeration encoding the supported Ledger opcodes.
type ledgerOpcode byte

// ledgerParam1 is an enumeration encoding the supported Ledger parameters
// for specific opcodes. The same parameter values may be reused between
// opcodes.
type ledgerParam1 byte

// ledgerParam2 is an enumeration encoding the supported Ledger parameters
// for specific opcodes. The same parameter values may be reused between
// opcodes.
type ledgerParam2 byte

const (
	ledgerOpGetWalletPublicKey ledgerOpcode = 0x40 // Returns the public key and address for a given BIP 32 path
	ledgerOpGetFirmwareVersion ledgerOpcode = 0xc4 // Returns the Bitcoin app firmware version

	ledgerP1NoDisplay      ledgerParam1 = 0x00 // Return the key directly from the wallet
	ledgerP1ConfirmAddress ledgerParam1 = 0x01 // Return the key after showing the address on the device

	ledgerP2LegacyAddress ledgerParam2 = 0x00 // Render the (discarded) address field in its base58 form

	statusCodeOK = 0x9000

	chainCodeLen = 32
)

// errLedgerReplyInvalidHeader is returned by a Ledger data exchange if the
// device replies with a mismatching header. This usually means the device is
// in browser mode.
var errLedgerReplyInvalidHeader = errors.New("ledger: invalid reply header")

// errLedgerInvalidVersionReply is returned by a Ledger version retrieval
// when a response does arrive, but it does not contain the expected data.
var errLedgerInvalidVersionReply = errors.New("ledger: invalid version reply")

// errLedgerBadStatusCode is returned by any Ledger command when a response
// arrives with a bad status word.
var errLedgerBadStatusCode = errors.New("ledger: bad status code")

// ErrMalformedResponse is returned when a device response is shorter than
// its declared field lengths demand. It indicates a firmware or protocol
// mismatch and is never retried.
var ErrMalformedResponse = errors.New("ledger: malformed response")

// ledgerDriver implements the communication with a Ledger hardware wallet
// running the Bitcoin app.
type ledgerDriver struct {
	device  io.ReadWriter // USB device connection to communicate through
	version [3]byte       // Current version of the Bitcoin app (zero if offline)
	browser bool          // Flag whether the Ledger is in browser mode (reply channel mismatch)
	failure error         // Any failure that would make the device unusable
	logger  *log.Entry    // Contextual logger to tag the ledger with its id
}

// NewLedgerDriver creates a new instance of a Ledger USB protocol driver.
func NewLedgerDriver() Driver {
	return &ledgerDriver{
		logger: util.GetLoggerForModule("ledger"),
	}
}

// Status implements coldwallet.Driver, returning various states the Ledger
// can currently be in.
func (w *ledgerDriver) Status() (string, error) {
	if w.failure != nil {
		return fmt.Sprintf("Failed: %v", w.failure), w.failure
	}
	if w.browser {
		return "Bitcoin app in browser mode", w.failure
	}
	if w.offline() {
		return "Bitcoin app offline", w.failure
	}
	return fmt.Sprintf("Bitcoin app v%d.%d.%d online", w.version[0], w.version[1], w.version[2]), w.failure
}

// offline returns whether the wallet and the Bitcoin app is offline or not.
func (w *ledgerDriver) offline() bool {
	return w.version == [3]byte{0, 0, 0}
}

// Open implements coldwallet.Driver, attempting to initialize the connection
// to the Ledger hardware wallet.
func (w *ledgerDriver) Open(device io.ReadWriter) error {
	w.device, w.failure = device, nil

	version, err := w.ledgerVersion()
	if err != nil {
		// Bitcoin app is not running or the device is in browser mode;
		// nothing more to do, return.
		if err == errLedgerReplyInvalidHeader {
			w.browser = true
		}
		return nil
	}
	w.version = version
	return nil
}

// Close implements coldwallet.Driver, cleaning up the metadata maintained
// within the Ledger driver.
func (w *ledgerDriver) Close() error {
	w.browser, w.version = false, [3]byte{}
	return nil
}

// GetWalletPublicKey implements coldwallet.Driver, sending a derivation
// request to the Ledger and returning the compressed public key and chain
// code located on that derivation path.
func (w *ledgerDriver) GetWalletPublicKey(path hdkey.Derivation) ([]byte, []byte, error) {
	reply, err := w.ledgerExchange(
		ledgerOpGetWalletPublicKey, ledgerP1NoDisplay, ledgerP2LegacyAddress, serializePath(path))
	if err != nil {
		return nil, nil, err
	}
	return decodeWalletPublicKey(reply)
}

// serializePath flattens a derivation path into the Ledger request layout:
//
//	Description                                      | Length
//	-------------------------------------------------+--------
//	Number of BIP 32 derivations to perform (max 10) | 1 byte
//	First derivation index (big endian)              | 4 bytes
//	...                                              | 4 bytes
//	Last derivation index (big endian)               | 4 bytes
func serializePath(derivationPath hdkey.Derivation) []byte {
	path := make([]byte, 1+4*len(derivationPath))
	path[0] = byte(len(derivationPath))
	for i, component := range derivationPath {
		binary.BigEndian.PutUint32(path[1+4*i:], uint32(component))
	}
	return path
}

// decodeWalletPublicKey parses the response of a wallet public key query:
//
//	Description             | Length
//	------------------------+-------------------
//	Public Key length       | 1 byte
//	Uncompressed Public Key | arbitrary
//	Address length          | 1 byte
//	Address                 | ascii
//	Chain code              | 32 bytes
//
// The address is rendered by the device for display purposes only; it is
// decoded and discarded. The public key is normalized to its compressed
// form before being returned.
func decodeWalletPublicKey(reply []byte) (pubKey, chainCode []byte, err error) {
	if len(reply) < 1 || len(reply) < 1+int(reply[0]) {
		return nil, nil, errors.Wrap(ErrMalformedResponse, "reply lacks public key entry")
	}
	rawPubKey := reply[1 : 1+int(reply[0])]
	reply = reply[1+int(reply[0]):]

	if len(reply) < 1 || len(reply) < 1+int(reply[0]) {
		return nil, nil, errors.Wrap(ErrMalformedResponse, "reply lacks address entry")
	}
	_ = string(reply[1 : 1+int(reply[0])]) // decoded, never used
	reply = reply[1+int(reply[0]):]

	if len(reply) < chainCodeLen {
		return nil, nil, errors.Wrap(ErrMalformedResponse, "reply lacks chain code")
	}
	chainCode = reply[:chainCodeLen]

	pubKey, err = crypto.CompressPublicKey(rawPubKey)
	if err != nil {
		return nil, nil, err
	}
	return pubKey, chainCode, nil
}

// ledgerVersion retrieves the current version of the Bitcoin app running on
// the Ledger wallet.
//
// The version retrieval protocol is defined as follows:
//
//	CLA | INS | P1 | P2 | Lc | Le
//	----+-----+----+----+----+---
//	 E0 | C4  | 00 | 00 | 00 | 08
//
// With no input data, and the output data being:
//
//	Description                  | Length
//	-----------------------------+--------
//	Feature flags                | 1 byte
//	Architecture                 | 1 byte
//	Application major version    | 1 byte
//	Application minor version    | 1 byte
//	Application patch version    | 1 byte
func (w *ledgerDriver) ledgerVersion() ([3]byte, error) {
	reply, err := w.ledgerExchange(ledgerOpGetFirmwareVersion, 0, 0, nil)
	if err != nil {
		return [3]byte{}, err
	}
	if len(reply) < 5 {
		return [3]byte{}, errLedgerInvalidVersionReply
	}
	var version [3]byte
	copy(version[:], reply[2:5])
	return version, nil
}

// ledgerExchange performs a data exchange with the Ledger wallet, sending it
// a message and retrieving the response.
//
// The common transport header is defined as follows:
//
//	Description                           | Length
//	--------------------------------------+----------
//	Communication channel ID (big endian) | 2 bytes
//	Command tag                           | 1 byte
//	Packet sequence index (big endian)    | 2 bytes
//	Payload                               | arbitrary
//
// The communication channel ID allows commands multiplexing over the same
// physical link. It is not used for the time being, and should be set to
// 0101 to avoid compatibility issues with implementations ignoring a leading
// 00 byte.
//
// The command tag describes the message content. Use TAG_APDU (0x05) for
// standard APDU payloads, or TAG_PING (0x02) for a simple link test.
//
// The packet sequence index describes the current sequence for fragmented
// payloads. The first fragment index is 0x00.
//
// APDU command payloads are encoded as follows:
//
//	Description              | Length
//	-------------------------+----------
//	APDU length (big endian) | 2 bytes
//	APDU CLA                 | 1 byte
//	APDU INS                 | 1 byte
//	APDU P1                  | 1 byte
//	APDU P2                  | 1 byte
//	APDU length              | 1 byte
//	Optional APDU data       | arbitrary
func (w *ledgerDriver) ledgerExchange(opcode ledgerOpcode, p1 ledgerParam1, p2 ledgerParam2, data []byte) ([]byte, error) {
	// Construct the message payload, possibly split into multiple chunks
	apdu := make([]byte, 2, 7+len(data))

	binary.BigEndian.PutUint16(apdu, uint16(5+len(data)))
	apdu = append(apdu, []byte{0xe0, byte(opcode), byte(p1), byte(p2), byte(len(data))}...)
	apdu = append(apdu, data...)

	// Stream all the chunks to the device
	header := []byte{0x01, 0x01, 0x05, 0x00, 0x00} // Channel ID and command tag appended
	chunk := make([]byte, 64)
	space := len(chunk) - len(header)

	for i := 0; len(apdu) > 0; i++ {
		// Construct the new message to stream
		chunk = append(chunk[:0], header...)
		binary.BigEndian.PutUint16(chunk[3:], uint16(i))

		if len(apdu) > space {
			chunk = append(chunk, apdu[:space]...)
			apdu = apdu[space:]
		} else {
			chunk = append(chunk, apdu...)
			apdu = nil
		}
		// HID reports are fixed 64 byte frames, zero pad the unused tail
		for len(chunk) < 64 {
			chunk = append(chunk, 0x00)
		}
		// Send over to the device
		w.logger.Debugf("Data chunk sent to the Ledger: %x", chunk)
		if _, err := w.device.Write(chunk); err != nil {
			return nil, err
		}
	}
	// Stream the reply back from the wallet in 64 byte chunks
	var reply []byte
	chunk = chunk[:64] // Yeah, we surely have enough space
	for {
		// Read the next chunk from the Ledger wallet
		if _, err := io.ReadFull(w.device, chunk); err != nil {
			return nil, err
		}
		w.logger.Debugf("Data chunk received from the Ledger: %x", chunk)

		// Make sure the transport header matches
		if chunk[0] != 0x01 || chunk[1] != 0x01 || chunk[2] != 0x05 {
			return nil, errLedgerReplyInvalidHeader
		}
		// If it's the first chunk, retrieve the total message length
		var payload []byte

		if chunk[3] == 0x00 && chunk[4] == 0x00 {
			reply = make([]byte, 0, int(binary.BigEndian.Uint16(chunk[5:7])))
			payload = chunk[7:]
		} else {
			payload = chunk[5:]
		}
		// Append to the reply and stop when filled up
		if left := cap(reply) - len(reply); left > len(payload) {
			reply = append(reply, payload...)
		} else {
			reply = append(reply, payload[:left]...)
			break
		}
	}

	if len(reply) < 2 {
		return nil, errors.Wrap(ErrMalformedResponse, "reply lacks status word")
	}
	statusCode := int(binary.BigEndian.Uint16(reply[len(reply)-2:]))
	if statusCode != statusCodeOK {
		return nil, errors.Wrapf(errLedgerBadStatusCode, "%#x", statusCode)
	}
	return reply[:len(reply)-2], nil
}
