package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onyb/satstack/coldwallet"
	"github.com/onyb/satstack/descriptor"
	"github.com/onyb/satstack/hdkey"
)

var (
	schemeFlag  string
	chainFlag   string
	accountFlag uint32
)

// descriptorCmd derives watch-only output descriptors from a Ledger device.
// Example:
//
//	lss descriptor --scheme=native_segwit --chain=main --account=0
var descriptorCmd = &cobra.Command{
	Use:   "descriptor",
	Short: "Derive watch-only output descriptors from a Ledger device",
	Long:  `Derive watch-only output descriptors from a Ledger device.`,
	Run:   doDescriptorCmd,
}

func doDescriptorCmd(cmd *cobra.Command, args []string) {
	scheme, err := hdkey.SchemeFromString(schemeFlag)
	if err != nil {
		fmt.Printf("Failed to parse scheme: %v\n", err)
		return
	}
	chain, err := hdkey.ChainFromString(chainFlag)
	if err != nil {
		fmt.Printf("Failed to parse chain: %v\n", err)
		return
	}

	hub, err := coldwallet.NewLedgerHub()
	if err != nil {
		fmt.Printf("Failed to scan for devices: %v\n", err)
		return
	}
	wallet, err := hub.FindWallet()
	if err != nil {
		fmt.Printf("Failed to find a signing device: %v\n", err)
		return
	}
	if err := wallet.Open(); err != nil {
		fmt.Printf("Failed to open device: %v\n", err)
		return
	}
	defer wallet.Close()

	generate, err := descriptor.DeriveOutputDescriptors(wallet, scheme, chain, accountFlag)
	if err != nil {
		fmt.Printf("Failed to derive descriptors: %v\n", err)
		return
	}

	external, err := generate(hdkey.External)
	if err != nil {
		fmt.Printf("Failed to generate external descriptor: %v\n", err)
		return
	}
	internal, err := generate(hdkey.Internal)
	if err != nil {
		fmt.Printf("Failed to generate internal descriptor: %v\n", err)
		return
	}

	fmt.Printf("External: %s\n", external)
	fmt.Printf("Internal: %s\n", internal)
}

func init() {
	descriptorCmd.Flags().StringVar(&schemeFlag, "scheme", "", "Address scheme (legacy|segwit|native_segwit)")
	descriptorCmd.Flags().StringVar(&chainFlag, "chain", "", "Chain (main|test|regtest)")
	descriptorCmd.Flags().Uint32Var(&accountFlag, "account", 0, "Account index")
	descriptorCmd.MarkFlagRequired("scheme")
	descriptorCmd.MarkFlagRequired("chain")
	descriptorCmd.MarkFlagRequired("account")

	RootCmd.AddCommand(descriptorCmd)
}
