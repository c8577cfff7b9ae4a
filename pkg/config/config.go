package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"walletwatch/pkg/models"
	"walletwatch/pkg/provider"
)

const ConfigFileName = "walletwatch.yml"

// AddressConfig holds configuration for a tracked address.
type AddressConfig struct {
	Address string `yaml:"address"`
}

// CoinConfig holds configuration for one tracked currency.
type CoinConfig struct {
	Name        string          `yaml:"name"`
	Ticker      string          `yaml:"ticker"`
	API         string          `yaml:"api"`
	RPCURL      string          `yaml:"rpc_url"`
	ExplorerURL string          `yaml:"explorer_url"`
	Addresses   []AddressConfig `yaml:"addresses"`
}

// Config holds application-wide settings.
type Config struct {
	ListenAddress   string        `yaml:"listen_address"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	Coins           []CoinConfig  `yaml:"coins"`
}

func GetConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return wd + string(os.PathSeparator) + ConfigFileName, nil
}

func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load parses the configuration and fills in defaults. It does not
// validate the coin list; callers run Validate and decide how to exit.
func Load(r io.Reader) (*Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	// Defaults
	if c.ListenAddress == "" {
		c.ListenAddress = ":8080"
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = 15 * time.Second
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 10 * time.Second
	}
	for i := range c.Coins {
		c.Coins[i].API = strings.ToLower(strings.TrimSpace(c.Coins[i].API))
	}
	return &c, nil
}

// Validate returns every structural problem found in the coin list.
// An empty result means the configuration can be loaded into the store.
func Validate(c *Config) []string {
	var errs []string
	if len(c.Coins) == 0 {
		errs = append(errs, "no coins found in configuration")
		return errs
	}
	for i, coin := range c.Coins {
		if strings.TrimSpace(coin.Name) == "" {
			errs = append(errs, fmt.Sprintf("coin at index %d has no name", i))
		}
		if strings.TrimSpace(coin.Ticker) == "" {
			errs = append(errs, fmt.Sprintf("coin %q has no ticker", coin.Name))
		}
		if !provider.Known(coin.API) {
			errs = append(errs, fmt.Sprintf("coin %q has unknown api %q", coin.Name, coin.API))
		}
		if coin.API == provider.APIEVM && strings.TrimSpace(coin.RPCURL) == "" {
			errs = append(errs, fmt.Sprintf("coin %q uses api evm but has no rpc_url", coin.Name))
		}
		if len(coin.Addresses) == 0 {
			errs = append(errs, fmt.Sprintf("coin %q has no addresses", coin.Name))
		}
		for j, a := range coin.Addresses {
			if strings.TrimSpace(a.Address) == "" {
				errs = append(errs, fmt.Sprintf("coin %q address at index %d is empty", coin.Name, j))
			}
		}
	}
	return errs
}

// ModelCoins converts the configured coins into the registry shape.
// Addresses start with no observed balance or activity.
func ModelCoins(c *Config) []models.Coin {
	coins := make([]models.Coin, 0, len(c.Coins))
	for _, cc := range c.Coins {
		coin := models.Coin{
			Name:        cc.Name,
			Ticker:      cc.Ticker,
			API:         cc.API,
			RPCURL:      cc.RPCURL,
			ExplorerURL: cc.ExplorerURL,
		}
		for _, a := range cc.Addresses {
			coin.Addresses = append(coin.Addresses, models.Address{Address: strings.TrimSpace(a.Address)})
		}
		coins = append(coins, coin)
	}
	return coins
}
