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

package coldwallet

import (
	"runtime"
	"sync"

	"github.com/karalabe/hid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/onyb/satstack/common/util"
)

// LedgerScheme is the protocol scheme prefixing wallet IDs.
const LedgerScheme = "ledger"

// ErrNoDevice is returned when device enumeration yields nothing. The user
// must connect a signing device and retry.
var ErrNoDevice = errors.New("no device found")

// Hub finds and handles generic USB hardware wallets.
type Hub struct {
	scheme     string        // Protocol scheme prefixing wallet IDs
	vendorID   uint16        // USB vendor identifier used for device discovery
	productIDs []uint16      // USB product identifiers used for device discovery
	usageID    uint16        // USB usage page identifier used for macOS device discovery
	endpointID int           // USB endpoint identifier used for non-macOS device discovery
	makeDriver func() Driver // Factory method to construct a vendor specific driver

	commsPend int        // Number of operations blocking enumeration
	commsLock sync.Mutex // Lock protecting the pending counter and enumeration

	logger *log.Entry
}

// NewLedgerHub creates a new hardware wallet manager for Ledger devices.
func NewLedgerHub() (*Hub, error) {
	return newHub(LedgerScheme, 0x2c97,
		[]uint16{0x0000 /* Ledger Blue */, 0x0001 /* Ledger Nano S */, 0x0004 /* Ledger Nano X */},
		0xf1d0, -1, NewLedgerDriver)
}

// newHub creates a new hardware wallet manager for generic USB devices.
func newHub(scheme string, vendorID uint16, productIDs []uint16, usageID uint16, endpointID int, makeDriver func() Driver) (*Hub, error) {
	if !hid.Supported() {
		return nil, errors.New("unsupported platform")
	}
	hub := &Hub{
		scheme:     scheme,
		vendorID:   vendorID,
		productIDs: productIDs,
		usageID:    usageID,
		endpointID: endpointID,
		makeDriver: makeDriver,
		logger:     util.GetLoggerForModule("coldwallet"),
	}
	return hub, nil
}

// Enumerate scans the USB devices attached to the machine and returns those
// that advertise themselves as hardware wallets.
func (hub *Hub) Enumerate() []hid.DeviceInfo {
	if runtime.GOOS == "linux" {
		// hidapi on Linux opens the device during enumeration to retrieve
		// some infos, breaking the Ledger protocol if that is waiting for
		// user confirmation. This is a bug acknowledged at Ledger, but it
		// won't be fixed on old devices so we need to prevent concurrent
		// comms ourselves.
		hub.commsLock.Lock()
		if hub.commsPend > 0 { // A confirmation is pending, don't enumerate
			hub.commsLock.Unlock()
			return nil
		}
	}

	var devicesInfo []hid.DeviceInfo
	for _, deviceInfo := range hid.Enumerate(hub.vendorID, 0) {
		for _, id := range hub.productIDs {
			if deviceInfo.ProductID == id && (deviceInfo.UsagePage == hub.usageID || deviceInfo.Interface == hub.endpointID) {
				devicesInfo = append(devicesInfo, deviceInfo)
				break
			}
		}
	}

	if runtime.GOOS == "linux" {
		// See rationale before the enumeration why this is needed and only on Linux.
		hub.commsLock.Unlock()
	}
	return devicesInfo
}

// Wallets returns all the currently attached USB devices that appear to be
// hardware wallets.
func (hub *Hub) Wallets() []*ColdWallet {
	devicesInfo := hub.Enumerate()

	wallets := make([]*ColdWallet, 0, len(devicesInfo))
	for _, deviceInfo := range devicesInfo {
		wallet := NewColdWallet(hub, deviceInfo)
		wallets = append(wallets, wallet)
	}
	return wallets
}

// FindWallet binds to the first signing device found on the USB bus.
func (hub *Hub) FindWallet() (*ColdWallet, error) {
	devicesInfo := hub.Enumerate()
	if len(devicesInfo) == 0 {
		return nil, ErrNoDevice
	}

	wallet := NewColdWallet(hub, devicesInfo[0])
	hub.logger.Debugf("Found cold wallet: %v", wallet.ID())
	return wallet, nil
}
