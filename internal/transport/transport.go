// Package transport defines the line-framed byte-stream abstraction the
// gateway façade speaks over, plus concrete TCP, WebSocket and file-replay
// implementations. Grounded on fjagepy's TCPConnector, generalised to an
// interface per spec so the WebSocket and replay variants can substitute for
// it (matching the teacher's pattern of exposing a small interface and two
// or more concrete transports - see internal/gateway/listener.go for the
// WebSocket side and internal/gateway/retention for the "swap the backing
// store" shape this mirrors).
package transport

import (
	"context"
	"errors"
)

// Transport is a connected, line-oriented byte stream: each call to Send
// writes one frame (TCP adds a trailing newline if missing; WS sends each
// frame as one text message); each value received on Lines() is one inbound
// frame without a trailing newline.
type Transport interface {
	// Connect establishes the connection with a single attempt, returning
	// its error (or ctx's) if that attempt fails.
	Connect(ctx context.Context) error

	// Send writes one frame. It returns ErrNotConnected if Connect has not
	// completed successfully, or ErrClosed if Close was already called.
	Send(line []byte) error

	// Lines returns the channel of inbound frames. It is closed when the
	// transport gives up on reconnecting or Close is called (File closes it
	// once every recorded inbound frame has been replayed).
	Lines() <-chan []byte

	// Errs returns the channel of terminal transport errors. At most one
	// value is ever sent; the channel itself is never closed.
	Errs() <-chan error

	// Close releases the underlying connection and stops any reconnect loop.
	Close() error
}

var (
	// ErrNotConnected is returned by Send before Connect has completed.
	ErrNotConnected = errors.New("transport: not connected")
	// ErrClosed is returned by Send after Close.
	ErrClosed = errors.New("transport: closed")
)
