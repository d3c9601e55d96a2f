// Package events defines the messages pushed to dashboard clients over the
// WebSocket channel when the dataset cache changes.
package events

import "time"

// Type names an event.
type Type string

const (
	TypeConnection     Type = "connection"
	TypeDatasetLoaded  Type = "dataset:loaded"
	TypeDatasetDerived Type = "dataset:derived"
	TypeDatasetRemoved Type = "dataset:removed"
	TypeCacheCleared   Type = "cache:cleared"
)

// Event is one server-to-client message.
type Event struct {
	Type      Type        `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// New stamps an event with the current time.
func New(t Type, data interface{}) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now().UTC()}
}

// DatasetRemoved is the payload of TypeDatasetRemoved.
type DatasetRemoved struct {
	ID      string `json:"id"`
	Removed int    `json:"removed"`
}

// CacheCleared is the payload of TypeCacheCleared.
type CacheCleared struct {
	Removed int `json:"removed"`
}
