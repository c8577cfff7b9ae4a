package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"walletwatch/pkg/models"
)

const blnscanDefaultBaseURL = "https://blnexplorer.io"

// Blnscan queries blnexplorer.io-style explorers. The API only exposes
// a transaction list, so the adapter reports the time of the newest
// transaction and never a balance.
type Blnscan struct {
	BaseURL string
	HTTP    *http.Client
}

func NewBlnscan(baseURL string, timeout time.Duration) *Blnscan {
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = blnscanDefaultBaseURL
	}
	return &Blnscan{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (b *Blnscan) Name() string { return APIBlnscan }

func (b *Blnscan) Fetch(ctx context.Context, ticker, address string) (models.Observation, error) {
	url := fmt.Sprintf("%s/api/account/%s", b.BaseURL, address)
	body, err := get(ctx, b.HTTP, url)
	if err != nil {
		return models.Observation{}, err
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return models.Observation{}, fmt.Errorf("blnscan: decode: %w", err)
	}

	var obs models.Observation
	txns, ok := data["txns"].([]any)
	if !ok || len(txns) == 0 {
		return obs, nil
	}
	first, ok := txns[0].(map[string]any)
	if !ok {
		return obs, nil
	}
	// The explorer has served "time" both as a number and as a numeric
	// string, so try both shapes before giving up on the field.
	switch v := first["time"].(type) {
	case float64:
		sec := int64(v)
		obs.LastActivity = &sec
	case string:
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
			obs.LastActivity = &sec
		}
	}
	return obs, nil
}

func (b *Blnscan) IconURL(string) string {
	return b.BaseURL + "/favicon.ico"
}

func (b *Blnscan) LinkURL(_, address string) string {
	return b.BaseURL + "/" + address
}
