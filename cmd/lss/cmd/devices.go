package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onyb/satstack/coldwallet"
)

// devicesCmd lists the attached Ledger devices.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List attached Ledger devices",
	Long:  `List attached Ledger devices.`,
	Run:   doDevicesCmd,
}

func doDevicesCmd(cmd *cobra.Command, args []string) {
	hub, err := coldwallet.NewLedgerHub()
	if err != nil {
		fmt.Printf("Failed to scan for devices: %v\n", err)
		return
	}

	wallets := hub.Wallets()
	if len(wallets) == 0 {
		fmt.Println("No device found")
		return
	}

	for _, wallet := range wallets {
		status, _ := wallet.Status()
		fmt.Printf("%s (%s)\n", wallet.ID(), status)
	}
}

func init() {
	RootCmd.AddCommand(devicesCmd)
}
