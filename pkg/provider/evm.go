package provider

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"walletwatch/pkg/models"
)

// EVM reads native balances straight from a JSON-RPC node instead of an
// explorer API. The chain exposes no cheap last-activity lookup, so the
// timestamp is never observed.
type EVM struct {
	RPCURL      string
	ExplorerURL string
	Timeout     time.Duration
}

func NewEVM(rpcURL, explorerURL string, timeout time.Duration) *EVM {
	return &EVM{
		RPCURL:      rpcURL,
		ExplorerURL: strings.TrimRight(explorerURL, "/"),
		Timeout:     timeout,
	}
}

func (e *EVM) Name() string { return APIEVM }

func (e *EVM) Fetch(ctx context.Context, _, address string) (models.Observation, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	client, err := ethclient.DialContext(ctx, e.RPCURL)
	if err != nil {
		return models.Observation{}, fmt.Errorf("evm: dial %s: %w", e.RPCURL, err)
	}
	defer client.Close()

	wei, err := client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return models.Observation{}, fmt.Errorf("evm: balance: %w", err)
	}

	f := new(big.Float).SetInt(wei)
	f.Quo(f, big.NewFloat(1e18))
	bal, _ := f.Float64()
	return models.Observation{Balance: &bal}, nil
}

func (e *EVM) IconURL(string) string {
	if e.ExplorerURL == "" {
		return ""
	}
	return e.ExplorerURL + "/favicon.ico"
}

func (e *EVM) LinkURL(_, address string) string {
	if e.ExplorerURL == "" {
		return ""
	}
	return e.ExplorerURL + "/address/" + address
}
