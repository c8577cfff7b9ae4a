package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"walletwatch/pkg/models"
)

const chainzDefaultBaseURL = "https://chainz.cryptoid.info"

// Chainz queries chainz.cryptoid.info-style explorers, which serve both
// a balance and the timestamp of the last block touching the address.
type Chainz struct {
	BaseURL string
	HTTP    *http.Client
}

func NewChainz(baseURL string, timeout time.Duration) *Chainz {
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = chainzDefaultBaseURL
	}
	return &Chainz{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Chainz) Name() string { return APIChainz }

func (c *Chainz) Fetch(ctx context.Context, ticker, address string) (models.Observation, error) {
	url := fmt.Sprintf("%s/%s/api.dws?q=addressinfo&a=%s", c.BaseURL, strings.ToLower(ticker), address)
	body, err := get(ctx, c.HTTP, url)
	if err != nil {
		return models.Observation{}, err
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return models.Observation{}, fmt.Errorf("chainz: decode: %w", err)
	}

	// A missing or mistyped field is not an error; it is simply not observed.
	var obs models.Observation
	if bal, ok := data["balance"].(float64); ok {
		obs.Balance = &bal
	}
	if ts, ok := data["lastBlockTimestamp"].(float64); ok {
		sec := int64(ts)
		obs.LastActivity = &sec
	}
	return obs, nil
}

func (c *Chainz) IconURL(ticker string) string {
	return fmt.Sprintf("%s/logo/%s.png", c.BaseURL, strings.ToLower(ticker))
}

func (c *Chainz) LinkURL(ticker, address string) string {
	return fmt.Sprintf("%s/%s/address.dws?%s.htm", c.BaseURL, strings.ToLower(ticker), address)
}

// get performs a GET and returns the body for 2xx responses.
func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
