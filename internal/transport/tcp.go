// internal/transport/tcp.go
// TCP is the primary Transport: a line-delimited JSON stream over a plain
// TCP socket. Its reconnect-with-backoff shape is grounded on the teacher's
// internal/agent/exporter/grpc_exporter.go connect/reconnect pair (an
// exponential backoff.BackOff retried until success or the caller gives
// up); its read-loop line-splitting is grounded on fjagepy's
// TCPConnector._read_loop (buffer partial lines across reads, split on
// "\n", hand complete lines to the caller).
package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/nsilva/fjagego/internal/logging"
	"github.com/nsilva/fjagego/internal/metrics"
)

// TCPOptions configures a TCP transport.
type TCPOptions struct {
	// DialTimeout bounds each individual connection attempt.
	DialTimeout time.Duration
	// Reconnect enables automatic reconnection with backoff when the
	// connection drops after having been established at least once.
	Reconnect bool
	// Backoff is the retry schedule used between reconnect attempts. If nil,
	// an exponential backoff with no elapsed-time cap is used (matching the
	// teacher's exporter, which retries indefinitely in steady state).
	Backoff backoff.BackOff
}

func (o TCPOptions) withDefaults() TCPOptions {
	if o.DialTimeout <= 0 {
		o.DialTimeout = 10 * time.Second
	}
	if o.Backoff == nil {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = 500 * time.Millisecond
		eb.MaxInterval = 15 * time.Second
		eb.MaxElapsedTime = 0 // retry indefinitely until Close
		o.Backoff = eb
	}
	return o
}

// TCP implements Transport over net.Dial("tcp", addr).
type TCP struct {
	addr string
	opts TCPOptions

	mu     sync.Mutex
	conn   net.Conn
	closed atomic.Bool

	lines chan []byte
	errs  chan error
}

// NewTCP returns a TCP transport that will dial addr on Connect.
func NewTCP(addr string, opts TCPOptions) *TCP {
	return &TCP{
		addr:  addr,
		opts:  opts.withDefaults(),
		lines: make(chan []byte, 256),
		errs:  make(chan error, 1),
	}
}

func (t *TCP) Lines() <-chan []byte { return t.lines }
func (t *TCP) Errs() <-chan error   { return t.errs }

// Connect dials once; the first attempt is not retried with backoff so
// construction-time misconfiguration (bad host, firewalled port) surfaces
// immediately to the caller rather than looping silently.
func (t *TCP) Connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, t.opts.DialTimeout)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("transport: dial %s: %w", t.addr, err)
	}
	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()
	go t.readLoop()
	return nil
}

func (t *TCP) Send(line []byte) error {
	if t.closed.Load() {
		return ErrClosed
	}
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(append([]byte{}, line...), '\n')
	}
	_, err := conn.Write(line)
	return err
}

func (t *TCP) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// readLoop scans newline-delimited frames off the current connection. On
// EOF or a read error it either reconnects with backoff (if enabled) or
// reports the failure on Errs and stops, matching TCPConnector's choice
// between _attempt_reconnect and giving up.
func (t *TCP) readLoop() {
	for {
		t.mu.Lock()
		conn := t.conn
		t.mu.Unlock()
		if conn == nil {
			return
		}
		scanner := bufio.NewScanner(conn)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			cp := make([]byte, len(line))
			copy(cp, line)
			select {
			case t.lines <- cp:
			default:
				logging.Logger().Warn("transport: inbound buffer full, dropping frame")
			}
		}
		if t.closed.Load() {
			close(t.lines)
			return
		}
		err := scanner.Err()
		if err == nil {
			err = fmt.Errorf("transport: connection closed by peer")
		}
		if !t.opts.Reconnect {
			t.errs <- err
			close(t.lines)
			return
		}
		logging.Logger().Warn("transport: connection lost, reconnecting", zap.Error(err))
		if !t.reconnect() {
			t.errs <- fmt.Errorf("transport: reconnect abandoned: %w", err)
			close(t.lines)
			return
		}
	}
}

// reconnect retries Dial with t.opts.Backoff until it succeeds or Close is
// called, mirroring grpc_exporter's reconnect().
func (t *TCP) reconnect() bool {
	t.opts.Backoff.Reset()
	for {
		if t.closed.Load() {
			return false
		}
		delay := t.opts.Backoff.NextBackOff()
		if delay == backoff.Stop {
			return false
		}
		time.Sleep(delay)
		var d net.Dialer
		ctx, cancel := context.WithTimeout(context.Background(), t.opts.DialTimeout)
		conn, err := d.DialContext(ctx, "tcp", t.addr)
		cancel()
		if err != nil {
			continue
		}
		t.mu.Lock()
		t.conn = conn
		t.mu.Unlock()
		metrics.ReconnectsTotal.Inc()
		return true
	}
}
