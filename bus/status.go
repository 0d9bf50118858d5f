package bus

// Status indicates the readiness of the connected Bitcoin Core node.
type Status string

const (
	// Initializing is the initial state, while the service is warming up.
	Initializing Status = "initializing"

	// NodeDisconnected indicates that the bitcoind instance is unreachable.
	NodeDisconnected Status = "node-disconnected"

	// Ready indicates that the service can accept explorer API requests.
	Ready Status = "ready"

	// Syncing indicates that the Bitcoin Core node is currently downloading
	// and validating blocks.
	Syncing Status = "syncing"

	// PendingScan indicates that the worker is awaiting import of
	// descriptors.
	PendingScan Status = "pending-scan"

	// Scanning indicates that the Bitcoin Core node is currently importing
	// account descriptors into its wallet.
	Scanning Status = "scanning"
)

// Currency identifies the currency of the chain the node tracks.
type Currency string

const (
	// Bitcoin mainnet.
	Bitcoin Currency = "btc"

	// BitcoinTestnet is the Bitcoin test network.
	BitcoinTestnet Currency = "btc_testnet"

	// BitcoinRegtest is a local Bitcoin regression-test network.
	BitcoinRegtest Currency = "btc_regtest"
)

// ExplorerStatus represents the payload returned by the status endpoint.
type ExplorerStatus struct {
	Version      string   `json:"version"`
	TxIndex      bool     `json:"txindex"`
	BlockFilter  bool     `json:"block_filter"`
	Pruned       bool     `json:"pruned"`
	Chain        string   `json:"chain"`
	Currency     Currency `json:"currency"`
	Status       Status   `json:"status"`
	SyncProgress *float64 `json:"sync_progress,omitempty"`
	ScanProgress *float64 `json:"scan_progress,omitempty"`
}
