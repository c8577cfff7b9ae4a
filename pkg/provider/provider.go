package provider

import (
	"context"
	"time"

	"walletwatch/pkg/models"
)

// Supported API identifiers as they appear in the configuration.
const (
	APIChainz  = "chainz"
	APIBlnscan = "blnscan"
	APIEVM     = "evm"
)

// Adapter normalizes one explorer API into a common capability set:
// fetching observed activity for an address plus building the icon and
// explorer link URLs shown for it.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, ticker, address string) (models.Observation, error)
	IconURL(ticker string) string
	LinkURL(ticker, address string) string
}

// Known reports whether api names a supported adapter.
func Known(api string) bool {
	switch api {
	case APIChainz, APIBlnscan, APIEVM:
		return true
	}
	return false
}

// ForCoin selects the adapter matching the coin's configured API.
// It returns nil for an unrecognized API; callers must treat a nil
// adapter as "no fetch, empty icon and link" rather than a failure.
func ForCoin(coin models.Coin, timeout time.Duration) Adapter {
	switch coin.API {
	case APIChainz:
		return NewChainz("", timeout)
	case APIBlnscan:
		return NewBlnscan("", timeout)
	case APIEVM:
		return NewEVM(coin.RPCURL, coin.ExplorerURL, timeout)
	}
	return nil
}
