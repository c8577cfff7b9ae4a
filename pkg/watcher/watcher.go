package watcher

import (
	"context"
	"log"
	"sync"
	"time"

	"walletwatch/pkg/metrics"
	"walletwatch/pkg/models"
	"walletwatch/pkg/provider"
	"walletwatch/pkg/store"
)

// Watcher owns the registry store and drives refresh passes against the
// provider adapters. One adapter is selected per coin at construction.
type Watcher struct {
	coins    []models.Coin
	adapters []provider.Adapter
	store    *store.Store
	interval time.Duration
	timeout  time.Duration
	metrics  *metrics.Metrics

	// refreshMu serializes refresh passes: simultaneous view requests
	// share one pass instead of each hammering the providers.
	refreshMu   sync.Mutex
	lastRefresh time.Time

	mu          sync.RWMutex
	subscribers []Subscriber
	stopChan    chan struct{}
}

// NewWatcher builds the store from the configured coins and selects an
// adapter for each. Unknown providers get no adapter and are skipped
// during refresh; their addresses simply never update.
func NewWatcher(coins []models.Coin, interval, timeout time.Duration, m *metrics.Metrics) *Watcher {
	adapters := make([]provider.Adapter, len(coins))
	for i, c := range coins {
		adapters[i] = provider.ForCoin(c, timeout)
	}
	return &Watcher{
		coins:    coins,
		adapters: adapters,
		store:    store.New(coins),
		interval: interval,
		timeout:  timeout,
		metrics:  m,
		stopChan: make(chan struct{}),
	}
}

// SetAdapter overrides the adapter for one coin (useful for testing).
func (w *Watcher) SetAdapter(coinIdx int, a provider.Adapter) {
	w.adapters[coinIdx] = a
}

// Subscribe adds a new subscriber and returns a channel to receive events.
func (w *Watcher) Subscribe() Subscriber {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(Subscriber, 100)
	w.subscribers = append(w.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber.
func (w *Watcher) Unsubscribe(ch Subscriber) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, sub := range w.subscribers {
		if sub == ch {
			w.subscribers = append(w.subscribers[:i], w.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

func (w *Watcher) notify(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, sub := range w.subscribers {
		select {
		case sub <- event:
		default:
			// Slow subscriber, drop the event.
		}
	}
}

// Start begins the background polling loop.
func (w *Watcher) Start(ctx context.Context) {
	go w.pollingLoop(ctx)
}

// Stop stops the polling loop.
func (w *Watcher) Stop() {
	close(w.stopChan)
}

func (w *Watcher) pollingLoop(ctx context.Context) {
	w.MaybeRefresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.MaybeRefresh(ctx)
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// MaybeRefresh runs a full refresh pass unless one finished less than
// the refresh interval ago. Callers blocked on the pass of another
// goroutine return once that pass completes, seeing its results. It
// reports whether a pass actually ran.
func (w *Watcher) MaybeRefresh(ctx context.Context) bool {
	w.refreshMu.Lock()
	defer w.refreshMu.Unlock()
	if !w.lastRefresh.IsZero() && time.Since(w.lastRefresh) < w.interval {
		return false
	}
	w.refreshAll(ctx)
	w.lastRefresh = time.Now()
	return true
}

// ForceRefresh runs a full refresh pass regardless of the interval.
func (w *Watcher) ForceRefresh(ctx context.Context) {
	w.refreshMu.Lock()
	defer w.refreshMu.Unlock()
	w.refreshAll(ctx)
	w.lastRefresh = time.Now()
}

// refreshAll fetches every address concurrently. A failed fetch leaves
// the stored values for that address untouched and never interferes
// with any other address.
func (w *Watcher) refreshAll(ctx context.Context) {
	start := time.Now()
	var wg sync.WaitGroup

	for ci := range w.coins {
		adapter := w.adapters[ci]
		if adapter == nil {
			continue
		}
		for ai := range w.coins[ci].Addresses {
			wg.Add(1)
			go func(ci, ai int, adapter provider.Adapter) {
				defer wg.Done()
				w.fetchOne(ctx, ci, ai, adapter)
			}(ci, ai, adapter)
		}
	}
	wg.Wait()

	w.metrics.RefreshDur.Observe(time.Since(start).Seconds())
	w.notify(Event{Type: EventRefreshCompleted})
}

func (w *Watcher) fetchOne(ctx context.Context, ci, ai int, adapter provider.Adapter) {
	coin := w.coins[ci]
	address := coin.Addresses[ai].Address

	fctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	obs, err := adapter.Fetch(fctx, coin.Ticker, address)
	if err != nil {
		w.metrics.FetchTotal.WithLabelValues(adapter.Name(), "error").Inc()
		log.Printf("fetch %s %s: %v", adapter.Name(), address, err)
		return
	}

	w.store.Apply(ci, ai, obs)
	w.metrics.FetchTotal.WithLabelValues(adapter.Name(), "ok").Inc()
	w.metrics.LastSuccess.WithLabelValues(adapter.Name()).Set(float64(time.Now().Unix()))
	if obs.Balance != nil {
		w.metrics.Balance.WithLabelValues(coin.Name, address).Set(*obs.Balance)
	}
	w.notify(Event{Type: EventAddressUpdated, Data: AddressUpdate{Coin: coin.Name, Address: address}})
}

// Snapshot returns a consistent copy of the registry for rendering.
func (w *Watcher) Snapshot() []models.Coin {
	return w.store.Snapshot()
}
