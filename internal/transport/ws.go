// internal/transport/ws.go
// WS is an alternate Transport over a WebSocket connection, for platforms
// that front their agent container with an HTTP(S) reverse proxy rather than
// exposing a raw TCP port. Grounded on the teacher's
// internal/gateway/listener.go (gorilla/websocket upgrade + a binary-message
// writer loop), adapted from the server-side Upgrade to a client-side Dial;
// optional bearer-token auth mints tokens via pkg/auth.Signer on every
// Connect, so a reconnecting client re-authenticates rather than reusing one
// token for its whole lifetime.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/nsilva/fjagego/internal/logging"
	"github.com/nsilva/fjagego/pkg/auth"
)

// WSOptions configures a WebSocket transport.
type WSOptions struct {
	// BearerToken, if non-empty, is attached as "Authorization: Bearer ..."
	// on the upgrade request verbatim, taking precedence over Signer.
	BearerToken string

	// Signer, if set and BearerToken is empty, mints a fresh short-lived
	// token for Subject on every Connect, so a long-lived WS transport
	// re-authenticates on every reconnect rather than carrying one token
	// for its whole lifetime.
	Signer  *auth.Signer
	Subject string
}

// bearerToken resolves the token to attach, preferring an explicit
// BearerToken and falling back to minting one via Signer.
func (o WSOptions) bearerToken() (string, error) {
	if o.BearerToken != "" {
		return o.BearerToken, nil
	}
	if o.Signer == nil {
		return "", nil
	}
	return o.Signer.Sign(o.Signer.Claims(o.Subject, nil))
}

// WS implements Transport over a single text-message-per-frame WebSocket
// connection. It does not reconnect: callers that need resilience should
// wrap it or prefer TCP, matching the teacher's listener.go, which also
// treats a dropped UI WebSocket as terminal rather than retrying.
type WS struct {
	url  string
	opts WSOptions

	mu     sync.Mutex
	conn   *websocket.Conn
	closed atomic.Bool

	lines chan []byte
	errs  chan error
}

// NewWS returns a WebSocket transport that will dial rawURL (ws:// or wss://)
// on Connect.
func NewWS(rawURL string, opts WSOptions) *WS {
	return &WS{
		url:   rawURL,
		opts:  opts,
		lines: make(chan []byte, 256),
		errs:  make(chan error, 1),
	}
}

func (w *WS) Lines() <-chan []byte { return w.lines }
func (w *WS) Errs() <-chan error   { return w.errs }

func (w *WS) Connect(ctx context.Context) error {
	if _, err := url.Parse(w.url); err != nil {
		return fmt.Errorf("transport: parse websocket url: %w", err)
	}
	header := http.Header{}
	token, err := w.opts.bearerToken()
	if err != nil {
		return fmt.Errorf("transport: sign bearer token: %w", err)
	}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	dialer := websocket.Dialer{}
	conn, _, err := dialer.DialContext(ctx, w.url, header)
	if err != nil {
		return fmt.Errorf("transport: websocket dial: %w", err)
	}
	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()
	go w.readLoop()
	return nil
}

func (w *WS) Send(line []byte) error {
	if w.closed.Load() {
		return ErrClosed
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return ErrNotConnected
	}
	return w.conn.WriteMessage(websocket.TextMessage, line)
}

func (w *WS) Close() error {
	if w.closed.Swap(true) {
		return nil
	}
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (w *WS) readLoop() {
	defer close(w.lines)
	for {
		w.mu.Lock()
		conn := w.conn
		w.mu.Unlock()
		if conn == nil {
			return
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !w.closed.Load() {
				logging.Logger().Warn("transport: websocket read failed", zap.Error(err))
				w.errs <- err
			}
			return
		}
		select {
		case w.lines <- msg:
		default:
			logging.Logger().Warn("transport: inbound buffer full, dropping frame")
		}
	}
}
