package tasks

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Message is one task invocation on the wire.
type Message struct {
	ID         string    `msgpack:"id"`
	Task       string    `msgpack:"task"`
	Args       []any     `msgpack:"args"`
	Queue      string    `msgpack:"queue"`
	EnqueuedAt time.Time `msgpack:"enqueued_at"`
}

// Encode serializes m with msgpack.
func (m Message) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("error encoding task message: %w", err)
	}
	return data, nil
}

// DecodeMessage parses a message produced by [Message.Encode].
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("error decoding task message: %w", err)
	}
	return m, nil
}
