package tui

import (
	"testing"

	"walletwatch/pkg/view"
)

func testRows() []view.CoinStatus {
	return []view.CoinStatus{
		{Name: "Bitcoin", Ticker: "BTC", Addresses: []view.AddressStatus{
			{Address: "addr1"}, {Address: "addr2"},
		}},
		{Name: "Bolgen", Ticker: "BLN", Addresses: []view.AddressStatus{
			{Address: "addr3"},
		}},
	}
}

func TestTotalRows(t *testing.T) {
	m := model{rows: testRows()}
	if got := m.totalRows(); got != 3 {
		t.Errorf("totalRows() = %d; want 3", got)
	}

	empty := model{}
	if got := empty.totalRows(); got != 0 {
		t.Errorf("totalRows() on empty model = %d; want 0", got)
	}
}

func TestSelectedAddress(t *testing.T) {
	tests := []struct {
		cursor int
		want   string
		ok     bool
	}{
		{0, "addr1", true},
		{1, "addr2", true},
		{2, "addr3", true},
		{3, "", false},
	}

	for _, tt := range tests {
		m := model{rows: testRows(), cursor: tt.cursor}
		got, ok := m.selectedAddress()
		if got != tt.want || ok != tt.ok {
			t.Errorf("selectedAddress() at cursor %d = (%q, %v); want (%q, %v)", tt.cursor, got, ok, tt.want, tt.ok)
		}
	}
}
