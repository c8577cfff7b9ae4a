package watcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"walletwatch/pkg/metrics"
	"walletwatch/pkg/models"
	"walletwatch/pkg/provider"
	"walletwatch/pkg/view"
)

type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) Name() string { return "mock" }

func (m *MockAdapter) Fetch(_ context.Context, ticker, address string) (models.Observation, error) {
	args := m.Called(ticker, address)
	return args.Get(0).(models.Observation), args.Error(1)
}

func (m *MockAdapter) IconURL(string) string { return "" }

func (m *MockAdapter) LinkURL(_, _ string) string { return "" }

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func testCoins() []models.Coin {
	return []models.Coin{{
		Name: "Bitcoin", Ticker: "BTC", API: "chainz",
		Addresses: []models.Address{{Address: "addr1"}, {Address: "addr2"}},
	}}
}

func newTestWatcher(coins []models.Coin) *Watcher {
	m := metrics.New(prometheus.NewRegistry())
	return NewWatcher(coins, 15*time.Second, time.Second, m)
}

func TestNewWatcher(t *testing.T) {
	w := newTestWatcher(testCoins())

	snap := w.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "Bitcoin", snap[0].Name)
	require.Len(t, snap[0].Addresses, 2)
	assert.Nil(t, snap[0].Addresses[0].Balance)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	w := newTestWatcher(nil)
	sub := w.Subscribe()
	assert.NotNil(t, sub)

	w.mu.RLock()
	assert.Equal(t, 1, len(w.subscribers))
	w.mu.RUnlock()

	w.Unsubscribe(sub)
	w.mu.RLock()
	assert.Equal(t, 0, len(w.subscribers))
	w.mu.RUnlock()
}

func TestForceRefresh_AppliesObservations(t *testing.T) {
	mockAd := new(MockAdapter)
	w := newTestWatcher(testCoins())
	w.SetAdapter(0, mockAd)

	mockAd.On("Fetch", "BTC", "addr1").Return(models.Observation{Balance: f64(1.5), LastActivity: i64(1700000000)}, nil)
	mockAd.On("Fetch", "BTC", "addr2").Return(models.Observation{LastActivity: i64(1600000000)}, nil)

	sub := w.Subscribe()
	w.ForceRefresh(context.Background())
	mockAd.AssertExpectations(t)

	snap := w.Snapshot()
	a1 := snap[0].Addresses[0]
	require.NotNil(t, a1.Balance)
	assert.Equal(t, 1.5, *a1.Balance)
	assert.Equal(t, int64(1700000000), *a1.LastActivity)

	a2 := snap[0].Addresses[1]
	assert.Nil(t, a2.Balance)
	assert.Equal(t, int64(1600000000), *a2.LastActivity)

	// Two address updates plus the completion event.
	timeout := time.After(time.Second)
	var updates, completed int
	for i := 0; i < 3; i++ {
		select {
		case ev := <-sub:
			switch ev.Type {
			case EventAddressUpdated:
				updates++
			case EventRefreshCompleted:
				completed++
			}
		case <-timeout:
			t.Fatalf("timed out waiting for events (updates=%d completed=%d)", updates, completed)
		}
	}
	assert.Equal(t, 2, updates)
	assert.Equal(t, 1, completed)
}

func TestForceRefresh_FailureIsolation(t *testing.T) {
	mockAd := new(MockAdapter)
	w := newTestWatcher(testCoins())
	w.SetAdapter(0, mockAd)

	mockAd.On("Fetch", "BTC", "addr1").Return(models.Observation{Balance: f64(2.0), LastActivity: i64(1600000000)}, nil).Once()
	mockAd.On("Fetch", "BTC", "addr2").Return(models.Observation{Balance: f64(5.0)}, nil).Once()
	w.ForceRefresh(context.Background())

	// Second pass: addr1 fails, addr2 succeeds with a new balance.
	mockAd.On("Fetch", "BTC", "addr1").Return(models.Observation{}, errors.New("connection refused")).Once()
	mockAd.On("Fetch", "BTC", "addr2").Return(models.Observation{Balance: f64(6.0)}, nil).Once()
	w.ForceRefresh(context.Background())
	mockAd.AssertExpectations(t)

	snap := w.Snapshot()
	a1 := snap[0].Addresses[0]
	require.NotNil(t, a1.Balance, "failed fetch must not clear previous values")
	assert.Equal(t, 2.0, *a1.Balance)
	assert.Equal(t, int64(1600000000), *a1.LastActivity)

	a2 := snap[0].Addresses[1]
	assert.Equal(t, 6.0, *a2.Balance, "one address's failure must not affect another")
}

func TestMaybeRefresh_Coalesces(t *testing.T) {
	mockAd := new(MockAdapter)
	w := newTestWatcher(testCoins())
	w.SetAdapter(0, mockAd)

	mockAd.On("Fetch", mock.Anything, mock.Anything).Return(models.Observation{}, nil).Times(2)

	assert.True(t, w.MaybeRefresh(context.Background()))
	assert.False(t, w.MaybeRefresh(context.Background()), "second call inside the interval must not refetch")
	mockAd.AssertExpectations(t)
}

func TestRefresh_UnknownProviderSkipped(t *testing.T) {
	coins := []models.Coin{{
		Name: "Mystery", Ticker: "MYS", API: "somechain",
		Addresses: []models.Address{{Address: "addrX"}},
	}}
	w := newTestWatcher(coins)

	w.ForceRefresh(context.Background())

	snap := w.Snapshot()
	assert.Nil(t, snap[0].Addresses[0].Balance)
	assert.Nil(t, snap[0].Addresses[0].LastActivity)
}

func TestRefreshThenRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"balance": 1.5, "lastBlockTimestamp": 1700000000}`))
	}))
	defer srv.Close()

	w := newTestWatcher(testCoins())
	w.SetAdapter(0, provider.NewChainz(srv.URL, time.Second))
	w.ForceRefresh(context.Background())

	rows := view.Render(w.Snapshot(), time.Unix(1700000061, 0))
	require.Len(t, rows, 1)
	got := rows[0].Addresses[0]
	assert.Equal(t, "1.5BTC", got.Balance)
	assert.Equal(t, "2023-11-14 22:13:20", got.LastActive)
	assert.Equal(t, "1 minute, 1 second", got.Elapsed)
}

func TestPollingLoop(t *testing.T) {
	mockAd := new(MockAdapter)
	w := newTestWatcher(testCoins())
	w.SetAdapter(0, mockAd)

	mockAd.On("Fetch", mock.Anything, mock.Anything).Return(models.Observation{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)
}
