// Package hub provides a thread-safe websocket broadcast hub
// using the idiomatic Go channel-based fan-out pattern. It feeds the
// live transcript view with each completed conversation turn.
package hub

import "encoding/json"

// Message is a pre-encoded JSON payload ready to broadcast.
type Message []byte

// EncodeJSON encodes v into a broadcastable Message.
func EncodeJSON(v interface{}) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Message(data), nil
}
