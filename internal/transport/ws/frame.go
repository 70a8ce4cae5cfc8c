package ws

import "encoding/json"

// AckEvent is the event name of a reply to a client frame that carried an ack id
const AckEvent = "ack"

// Frame is one JSON text message on the push channel.
// A client frame with a non-nil Ack expects exactly one AckEvent frame back
// carrying the same id.
type Frame struct {
	Event string          `json:"event"`
	Ack   *int64          `json:"ack,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outFrame struct {
	Event string `json:"event"`
	Ack   *int64 `json:"ack,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func encodeFrame(event string, ack *int64, payload any) ([]byte, error) {
	return json.Marshal(outFrame{Event: event, Ack: ack, Data: payload})
}
