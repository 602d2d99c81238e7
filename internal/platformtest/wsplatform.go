// internal/platformtest/wsplatform.go
// MockWSPlatform is the WebSocket-fronted counterpart to MockPlatform, used
// to exercise internal/transport.WS end to end, including bearer-token
// authentication via pkg/auth.Verifier. Grounded on the teacher's
// internal/gateway/listener.go (Upgrade, then a per-connection read loop),
// adapted to also gate the Upgrade on a Verifier when one is configured -
// the teacher checked bearer tokens in a gRPC interceptor (internal/gateway/
// auth.go) ahead of any handler; here the equivalent check runs ahead of the
// WebSocket handshake itself, since there is no interceptor chain to hook.
package platformtest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nsilva/fjagego/internal/wire"
	"github.com/nsilva/fjagego/pkg/auth"
)

// MockWSPlatform serves a single WebSocket endpoint and reports every
// inbound "send" action to an optional callback, same as MockPlatform.
type MockWSPlatform struct {
	srv      *httptest.Server
	verifier *auth.Verifier
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn

	onSend func(msg wire.ClassTagged)
}

// NewWS starts an httptest server backing a MockWSPlatform. When verifier is
// non-nil, an upgrade request whose Authorization header is missing or
// carries a token that fails verifier.ParseAndVerify is rejected with 401
// before the handshake completes.
func NewWS(verifier *auth.Verifier) *MockWSPlatform {
	mp := &MockWSPlatform{verifier: verifier}
	mp.srv = httptest.NewServer(http.HandlerFunc(mp.handleUpgrade))
	return mp
}

// URL returns the ws:// URL a client should Dial.
func (mp *MockWSPlatform) URL() string {
	return "ws" + strings.TrimPrefix(mp.srv.URL, "http")
}

// OnSend installs a callback invoked for every inbound "send" action.
func (mp *MockWSPlatform) OnSend(fn func(msg wire.ClassTagged)) { mp.onSend = fn }

// Close tears down the HTTP test server and every accepted connection.
func (mp *MockWSPlatform) Close() {
	mp.mu.Lock()
	conns := mp.conns
	mp.conns = nil
	mp.mu.Unlock()
	for _, c := range conns {
		_ = c.Close()
	}
	mp.srv.Close()
}

func (mp *MockWSPlatform) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if mp.verifier != nil {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		if _, err := mp.verifier.ParseAndVerify(token); err != nil {
			http.Error(w, "invalid bearer token", http.StatusUnauthorized)
			return
		}
	}
	conn, err := mp.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	mp.mu.Lock()
	mp.conns = append(mp.conns, conn)
	mp.mu.Unlock()
	go mp.serve(conn)
}

func (mp *MockWSPlatform) serve(conn *websocket.Conn) {
	for {
		_, line, err := conn.ReadMessage()
		if err != nil {
			return
		}
		env, err := wire.DecodeLine(line)
		if err != nil {
			continue
		}
		if env.Action == wire.ActionSend && mp.onSend != nil && env.Message != nil {
			mp.onSend(*env.Message)
		}
	}
}
