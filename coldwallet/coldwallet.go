package coldwallet

import (
	"sync"

	"github.com/karalabe/hid"
	"github.com/pkg/errors"

	"github.com/onyb/satstack/hdkey"
)

//
// ColdWallet represents one attached hardware signing device.
//

type ColdWallet struct {
	id string

	hub    *Hub // USB hub the device was discovered through
	driver Driver

	info   hid.DeviceInfo // Known USB device infos about the wallet
	device *hid.Device    // USB device advertising itself as a hardware wallet

	stateLock *sync.RWMutex // Protects read and write access to the wallet struct fields
}

// NewColdWallet wraps a discovered USB device into a wallet handle. The
// device is not opened until Open is called.
func NewColdWallet(hub *Hub, deviceInfo hid.DeviceInfo) *ColdWallet {
	return &ColdWallet{
		id:        assembleColdWalletID(hub.scheme, deviceInfo.Path),
		hub:       hub,
		driver:    hub.makeDriver(),
		info:      deviceInfo,
		device:    nil,
		stateLock: &sync.RWMutex{},
	}
}

func (w *ColdWallet) ID() string {
	return w.id
}

func (w *ColdWallet) Status() (string, error) {
	w.stateLock.RLock() // No device communication, state lock is enough
	defer w.stateLock.RUnlock()

	status, failure := w.driver.Status()
	if w.device == nil {
		return "Closed", failure
	}
	return status, failure
}

// Open establishes the USB connection to the device and initializes the
// vendor specific driver on top of it.
func (w *ColdWallet) Open() error {
	w.stateLock.Lock() // State lock is enough since there's no connection yet at this point
	defer w.stateLock.Unlock()

	if w.device != nil {
		return errors.New("wallet already open")
	}
	device, err := w.info.Open()
	if err != nil {
		return err
	}
	w.device = device

	return w.driver.Open(w.device)
}

// Close terminates the connection to the device.
func (w *ColdWallet) Close() error {
	w.stateLock.Lock()
	defer w.stateLock.Unlock()

	// Allow duplicate closes, especially for health-check failures
	if w.device == nil {
		return nil
	}
	w.device.Close()
	w.device = nil

	return w.driver.Close()
}

// Query sends a wallet public key request to the device and returns the
// compressed public key and chain code at the given derivation path. It
// satisfies the transport capability the descriptor orchestrator consumes.
func (w *ColdWallet) Query(path hdkey.Derivation) (pubKey, chainCode []byte, err error) {
	w.stateLock.RLock()
	defer w.stateLock.RUnlock()

	if w.device == nil {
		return nil, nil, errors.New("wallet closed")
	}

	w.hub.commsLock.Lock()
	w.hub.commsPend++
	w.hub.commsLock.Unlock()

	defer func() {
		w.hub.commsLock.Lock()
		w.hub.commsPend--
		w.hub.commsLock.Unlock()
	}()

	return w.driver.GetWalletPublicKey(path)
}

func assembleColdWalletID(scheme, path string) string {
	return scheme + ":" + path
}
