package share

import (
	"encoding/json"

	"screendraw/internal/state"
)

type MessageType string

const (
	// MessageSnapshot carries the full board state, sent once to a viewer
	// when it joins.
	MessageSnapshot MessageType = "snapshot"
	// MessageEvent carries one committed board change.
	MessageEvent MessageType = "event"
)

// Message is the wire format between a sharing overlay and its viewers.
type Message struct {
	Type     MessageType     `json:"type"`
	Event    *state.Event    `json:"event,omitempty"`
	Snapshot json.RawMessage `json:"snapshot,omitempty"`
}
