package store

import (
	"sync"

	"walletwatch/pkg/models"
)

// Store holds the registry of tracked coins and addresses. Membership is
// fixed at construction; only observed balances and activity timestamps
// change afterwards. A single RWMutex keeps every update to one address
// atomic relative to snapshot readers, so a render never sees a new
// balance paired with a stale timestamp.
type Store struct {
	mu    sync.RWMutex
	coins []models.Coin
}

// New builds the registry from the configured coins.
func New(coins []models.Coin) *Store {
	s := &Store{coins: make([]models.Coin, len(coins))}
	copy(s.coins, coins)
	for i := range s.coins {
		addrs := make([]models.Address, len(coins[i].Addresses))
		copy(addrs, coins[i].Addresses)
		s.coins[i].Addresses = addrs
	}
	return s
}

// Apply merges an observation into one address. Only fields present in
// the observation are written; a nil field leaves the stored value as it
// was. Out-of-range indices are ignored.
func (s *Store) Apply(coinIdx, addrIdx int, obs models.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if coinIdx < 0 || coinIdx >= len(s.coins) {
		return
	}
	addrs := s.coins[coinIdx].Addresses
	if addrIdx < 0 || addrIdx >= len(addrs) {
		return
	}
	if obs.Balance != nil {
		v := *obs.Balance
		addrs[addrIdx].Balance = &v
	}
	if obs.LastActivity != nil {
		v := *obs.LastActivity
		addrs[addrIdx].LastActivity = &v
	}
}

// Snapshot returns a deep copy of the registry, internally consistent at
// the moment of the call.
func (s *Store) Snapshot() []models.Coin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Coin, len(s.coins))
	copy(out, s.coins)
	for i := range out {
		addrs := make([]models.Address, len(s.coins[i].Addresses))
		for j, a := range s.coins[i].Addresses {
			addrs[j] = models.Address{Address: a.Address}
			if a.Balance != nil {
				v := *a.Balance
				addrs[j].Balance = &v
			}
			if a.LastActivity != nil {
				v := *a.LastActivity
				addrs[j].LastActivity = &v
			}
		}
		out[i].Addresses = addrs
	}
	return out
}
