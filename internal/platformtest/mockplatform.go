// Package platformtest provides a minimal in-process fjåge platform: a TCP
// listener that speaks the same line-delimited JSON protocol a real
// container would, so internal/transport and pkg/fjage can be exercised
// end to end without a live deployment. Grounded on the teacher's
// internal/gateway/server.go (Accept loop, one goroutine per connection,
// non-blocking fan-out to subscribers via handleChunk), rewritten for the
// fjåge wire's request/answer action vocabulary instead of gRPC streaming.
package platformtest

import (
	"bufio"
	"fmt"
	"net"
	"sync"

	"github.com/nsilva/fjagego/internal/wire"
)

// MockPlatform answers agents/containsAgent/services/agentForService/
// agentsForService queries from a fixed directory, and reports every "send"
// action it receives to an optional callback so tests can assert on what a
// Gateway actually transmitted.
type MockPlatform struct {
	ln net.Listener

	mu       sync.Mutex
	conns    []net.Conn
	agents   []string
	services map[string][]string
	onSend   func(msg wire.ClassTagged)
	onAction func(env *wire.Envelope)
}

// New starts listening on 127.0.0.1:0 and returns a MockPlatform backed by
// the given agent directory and service registry.
func New(agents []string, services map[string][]string) (*MockPlatform, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("platformtest: listen: %w", err)
	}
	if services == nil {
		services = map[string][]string{}
	}
	mp := &MockPlatform{ln: ln, agents: agents, services: services}
	go mp.acceptLoop()
	return mp, nil
}

// Addr returns the "host:port" the platform is listening on.
func (mp *MockPlatform) Addr() string { return mp.ln.Addr().String() }

// OnSend installs a callback invoked for every inbound "send" action,
// carrying the decoded message frame.
func (mp *MockPlatform) OnSend(fn func(msg wire.ClassTagged)) { mp.onSend = fn }

// OnAction installs a callback invoked for every inbound envelope before
// MockPlatform's own default handling, letting a test synthesize a
// non-standard reply or simulate a malformed one.
func (mp *MockPlatform) OnAction(fn func(env *wire.Envelope)) { mp.onAction = fn }

// AddAgent registers an agent name with the directory used to answer
// agents()/containsAgent().
func (mp *MockPlatform) AddAgent(name string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.agents = append(mp.agents, name)
}

func (mp *MockPlatform) acceptLoop() {
	for {
		conn, err := mp.ln.Accept()
		if err != nil {
			return
		}
		mp.mu.Lock()
		mp.conns = append(mp.conns, conn)
		mp.mu.Unlock()
		go mp.serve(conn)
	}
}

func (mp *MockPlatform) serve(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := append([]byte(nil), scanner.Bytes()...)
		env, err := wire.DecodeLine(line)
		if err != nil {
			continue
		}
		if mp.onAction != nil {
			mp.onAction(env)
		}
		resp := mp.handle(env)
		if resp == nil {
			continue
		}
		out, err := wire.EncodeLine(resp)
		if err != nil {
			continue
		}
		_, _ = conn.Write(append(out, '\n'))
	}
}

func (mp *MockPlatform) handle(env *wire.Envelope) *wire.Envelope {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	switch env.Action {
	case wire.ActionAgents:
		return &wire.Envelope{ID: env.ID, InResponseTo: env.ID, AgentIDs: append([]string(nil), mp.agents...)}
	case wire.ActionContainsAgent:
		found := false
		for _, a := range mp.agents {
			if a == env.AgentID {
				found = true
				break
			}
		}
		return &wire.Envelope{ID: env.ID, InResponseTo: env.ID, Answer: &found}
	case wire.ActionServices:
		names := make([]string, 0, len(mp.services))
		for s := range mp.services {
			names = append(names, s)
		}
		return &wire.Envelope{ID: env.ID, InResponseTo: env.ID, Services: names}
	case wire.ActionAgentForService:
		var first string
		if agents := mp.services[env.Service]; len(agents) > 0 {
			first = agents[0]
		}
		return &wire.Envelope{ID: env.ID, InResponseTo: env.ID, AgentID: first}
	case wire.ActionAgentsForService:
		return &wire.Envelope{ID: env.ID, InResponseTo: env.ID, AgentIDs: append([]string(nil), mp.services[env.Service]...)}
	case wire.ActionWantsMessagesFor, wire.ActionShutdown:
		return nil
	case wire.ActionSend:
		if mp.onSend != nil && env.Message != nil {
			mp.onSend(*env.Message)
		}
		return nil
	default:
		return nil
	}
}

// Push writes env to every currently connected client, used to simulate the
// platform originating a notification or an agent-directed message.
func (mp *MockPlatform) Push(env *wire.Envelope) error {
	line, err := wire.EncodeLine(env)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	mp.mu.Lock()
	defer mp.mu.Unlock()
	for _, c := range mp.conns {
		if _, err := c.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// Close shuts down every accepted connection and the listener.
func (mp *MockPlatform) Close() error {
	mp.mu.Lock()
	conns := mp.conns
	mp.conns = nil
	mp.mu.Unlock()
	for _, c := range conns {
		_ = c.Close()
	}
	return mp.ln.Close()
}
