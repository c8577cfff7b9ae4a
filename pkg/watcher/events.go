package watcher

// EventType defines the type of event being broadcast.
type EventType string

const (
	EventAddressUpdated   EventType = "address_updated"
	EventRefreshCompleted EventType = "refresh_completed"
)

// AddressUpdate describes a single applied observation.
type AddressUpdate struct {
	Coin    string `json:"coin"`
	Address string `json:"address"`
}

// Event represents a monitoring event.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Subscriber is a channel that receives events.
type Subscriber chan Event
