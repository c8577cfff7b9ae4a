package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Malformed(t *testing.T) {
	reader := strings.NewReader("coins:\n  - name: [broken")
	_, err := Load(reader)
	if err == nil {
		t.Error("Expected error loading malformed config, got nil")
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Error("Expected error for missing config file, got nil")
	}
}

func TestLoad_TableDriven(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		yamlContent string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name: "Valid Config",
			yamlContent: `
listen_address: ":9090"
refresh_interval: 30s
coins:
  - name: Bitcoin
    ticker: BTC
    api: chainz
    addresses:
      - address: addr1
      - address: addr2
`,
			validate: func(t *testing.T, c *Config) {
				if c.ListenAddress != ":9090" {
					t.Errorf("ListenAddress = %q", c.ListenAddress)
				}
				if c.RefreshInterval != 30*time.Second {
					t.Errorf("RefreshInterval = %v", c.RefreshInterval)
				}
				if len(c.Coins) != 1 || len(c.Coins[0].Addresses) != 2 {
					t.Fatalf("coin/address count mismatch: %+v", c.Coins)
				}
				if errs := Validate(c); len(errs) != 0 {
					t.Errorf("unexpected validation errors: %v", errs)
				}
			},
		},
		{
			name: "Defaults",
			yamlContent: `
coins:
  - name: Bitcoin
    ticker: BTC
    api: chainz
    addresses:
      - address: addr1
`,
			validate: func(t *testing.T, c *Config) {
				if c.ListenAddress != ":8080" {
					t.Errorf("Expected default listen address, got %q", c.ListenAddress)
				}
				if c.RefreshInterval != 15*time.Second {
					t.Errorf("Expected default refresh interval, got %v", c.RefreshInterval)
				}
				if c.FetchTimeout != 10*time.Second {
					t.Errorf("Expected default fetch timeout, got %v", c.FetchTimeout)
				}
			},
		},
		{
			name: "API Normalized To Lowercase",
			yamlContent: `
coins:
  - name: Bitcoin
    ticker: BTC
    api: " Chainz "
    addresses:
      - address: addr1
`,
			validate: func(t *testing.T, c *Config) {
				if c.Coins[0].API != "chainz" {
					t.Errorf("Expected normalized api, got %q", c.Coins[0].API)
				}
			},
		},
		{
			name:        "Malformed YAML",
			yamlContent: "coins: [}",
			expectError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := Load(strings.NewReader(tt.yamlContent))

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, c)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErrs int
	}{
		{"no coins", Config{}, 1},
		{
			"unknown api",
			Config{Coins: []CoinConfig{{Name: "X", Ticker: "X", API: "somechain", Addresses: []AddressConfig{{Address: "a"}}}}},
			1,
		},
		{
			"evm without rpc_url",
			Config{Coins: []CoinConfig{{Name: "Eth", Ticker: "ETH", API: "evm", Addresses: []AddressConfig{{Address: "0x1"}}}}},
			1,
		},
		{
			"missing everything",
			Config{Coins: []CoinConfig{{}}},
			4, // name, ticker, api, addresses
		},
		{
			"empty address entry",
			Config{Coins: []CoinConfig{{Name: "B", Ticker: "BTC", API: "chainz", Addresses: []AddressConfig{{Address: " "}}}}},
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.cfg)
			if len(errs) != tt.wantErrs {
				t.Errorf("Validate() returned %d errors (%v), want %d", len(errs), errs, tt.wantErrs)
			}
		})
	}
}

func TestModelCoins(t *testing.T) {
	cfg := &Config{Coins: []CoinConfig{{
		Name:      "Bitcoin",
		Ticker:    "BTC",
		API:       "chainz",
		Addresses: []AddressConfig{{Address: " addr1 "}, {Address: "addr2"}},
	}}}

	coins := ModelCoins(cfg)
	if len(coins) != 1 {
		t.Fatalf("Expected 1 coin, got %d", len(coins))
	}
	c := coins[0]
	if c.Name != "Bitcoin" || c.Ticker != "BTC" || c.API != "chainz" {
		t.Errorf("Coin fields mismatch: %+v", c)
	}
	if len(c.Addresses) != 2 || c.Addresses[0].Address != "addr1" {
		t.Errorf("Addresses mismatch: %+v", c.Addresses)
	}
	if c.Addresses[0].Balance != nil || c.Addresses[0].LastActivity != nil {
		t.Error("New addresses must start with no observed activity")
	}
}

func TestGetConfigPath(t *testing.T) {
	p, err := GetConfigPath("/tmp/custom.yml")
	if err != nil || p != "/tmp/custom.yml" {
		t.Errorf("GetConfigPath custom = %q, %v", p, err)
	}

	p, err = GetConfigPath("")
	if err != nil {
		t.Fatal(err)
	}
	wd, _ := os.Getwd()
	if p != filepath.Join(wd, ConfigFileName) {
		t.Errorf("GetConfigPath default = %q", p)
	}
}
