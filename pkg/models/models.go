package models

// Coin groups the tracked addresses for a single currency.
type Coin struct {
	Name        string
	Ticker      string
	API         string
	RPCURL      string
	ExplorerURL string
	Addresses   []Address
}

// Address holds one tracked account and its last known activity.
// Balance and LastActivity stay nil until a fetch successfully parses
// the corresponding field; they are never reset back to nil afterwards.
type Address struct {
	Address      string
	Balance      *float64
	LastActivity *int64 // Unix seconds
}

// Observation carries the fields successfully parsed from a single
// provider response. Either field may be nil when the response did not
// supply it; nil fields leave the stored value untouched.
type Observation struct {
	Balance      *float64
	LastActivity *int64
}

// CoinResult holds test results for a specific coin.
type CoinResult struct {
	Name    string `json:"name"`
	Ticker  string `json:"ticker"`
	API     string `json:"api"`
	Address string `json:"address,omitempty"`
	Status  string `json:"status"` // "ok" or "error"
	Error   string `json:"error,omitempty"`
}

// TestReport holds the results of the configuration test.
type TestReport struct {
	ConfigPath      string       `json:"config_path"`
	ValidStructure  bool         `json:"valid_structure"`
	StructureErrors []string     `json:"structure_errors,omitempty"`
	CoinCount       int          `json:"coin_count"`
	AddressCount    int          `json:"address_count"`
	Coins           []CoinResult `json:"coins,omitempty"`
}
