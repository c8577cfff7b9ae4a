package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"walletwatch/pkg/models"
	"walletwatch/pkg/provider"
)

// Timestamps past year 9999 do not survive calendar conversion and
// render as the placeholder, matching the treatment of unset fields.
const maxRenderableUnix = 253402300799

const placeholder = "?"

// AddressStatus is one display-ready row of the status view.
type AddressStatus struct {
	Address    string `json:"address"`
	LinkURL    string `json:"link_url"`
	Balance    string `json:"balance"`
	LastActive string `json:"last_active"`
	Elapsed    string `json:"elapsed"`
}

// CoinStatus groups the rows of one coin together with its icon.
type CoinStatus struct {
	Name      string          `json:"name"`
	Ticker    string          `json:"ticker"`
	IconURL   string          `json:"icon_url"`
	Addresses []AddressStatus `json:"addresses"`
}

// Render derives the display fields for a registry snapshot. It performs
// no I/O; "now" is passed in so elapsed strings are reproducible.
func Render(coins []models.Coin, now time.Time) []CoinStatus {
	out := make([]CoinStatus, 0, len(coins))
	for _, coin := range coins {
		adapter := provider.ForCoin(coin, 0)
		cs := CoinStatus{Name: coin.Name, Ticker: coin.Ticker}
		if adapter != nil {
			cs.IconURL = adapter.IconURL(coin.Ticker)
		}
		for _, addr := range coin.Addresses {
			row := AddressStatus{
				Address:    addr.Address,
				Balance:    FormatBalance(addr.Balance, coin.Ticker),
				LastActive: placeholder,
				Elapsed:    placeholder,
			}
			if adapter != nil {
				row.LinkURL = adapter.LinkURL(coin.Ticker, addr.Address)
			}
			if addr.LastActivity != nil {
				row.LastActive = FormatTimestamp(*addr.LastActivity)
				row.Elapsed = FormatElapsed(*addr.LastActivity, now)
			}
			cs.Addresses = append(cs.Addresses, row)
		}
		out = append(out, cs)
	}
	return out
}

// FormatBalance renders the amount concatenated with the ticker, or the
// placeholder when no balance has been observed yet.
func FormatBalance(bal *float64, ticker string) string {
	if bal == nil {
		return placeholder
	}
	return strconv.FormatFloat(*bal, 'f', -1, 64) + ticker
}

// FormatTimestamp renders a Unix timestamp as "YYYY-MM-DD HH:MM:SS" in
// UTC, or the placeholder when the value cannot be converted.
func FormatTimestamp(ts int64) string {
	if ts < 0 || ts > maxRenderableUnix {
		return placeholder
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05")
}

// FormatElapsed renders the time since ts as the two-to-four largest
// units down to seconds: days pull in hours, minutes and seconds; hours
// pull in minutes and seconds; minutes pull in seconds. A timestamp in
// the future renders as the placeholder.
func FormatElapsed(ts int64, now time.Time) string {
	total := now.Unix() - ts
	if total < 0 {
		return placeholder
	}

	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	switch {
	case days > 0:
		parts = []string{plural(days, "day"), plural(hours, "hour"), plural(minutes, "minute"), plural(seconds, "second")}
	case hours > 0:
		parts = []string{plural(hours, "hour"), plural(minutes, "minute"), plural(seconds, "second")}
	case minutes > 0:
		parts = []string{plural(minutes, "minute"), plural(seconds, "second")}
	default:
		parts = []string{plural(seconds, "second")}
	}
	return strings.Join(parts, ", ")
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
