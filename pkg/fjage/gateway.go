// pkg/fjage/gateway.go
// Gateway is the client-side façade: it owns a transport connection, a
// correlator for platform metadata query round trips, a receiver pool for
// filtered one-shot waiters (serving both Receive and Request, which is
// just a send followed by a receive filtered on InReplyTo), an inbox for
// unsolicited traffic, and the subscription set that drives
// wantsMessagesFor reconciliation.
//
// Grounded on fjagepy's Gateway: a single background reader thread
// (_run/_read_loop here collapsed into readLoop) dispatching every inbound
// frame in the precedence order (i) a registered receiver waiter — which is
// exactly how fjagepy's request() resolves, since request() is send()
// followed by receive(msg, timeout) against the same _send_receivers table
// — (ii) the unsolicited-message queue, discarding anything addressed to a
// topic the Gateway no longer subscribes to. Platform metadata queries
// (agents/services/...) are a separate round trip correlated by their own
// query id, since they never produce a Message at all.
package fjage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/nsilva/fjagego/internal/correlator"
	"github.com/nsilva/fjagego/internal/inbox"
	"github.com/nsilva/fjagego/internal/logging"
	"github.com/nsilva/fjagego/internal/metacache"
	"github.com/nsilva/fjagego/internal/metrics"
	"github.com/nsilva/fjagego/internal/otelspan"
	"github.com/nsilva/fjagego/internal/receivers"
	"github.com/nsilva/fjagego/internal/subscriptions"
	"github.com/nsilva/fjagego/internal/transport"
	"github.com/nsilva/fjagego/internal/wire"
)

// Gateway is safe for concurrent use by multiple goroutines.
type Gateway struct {
	opts      GatewayOptions
	transport transport.Transport
	self      Identifier
	tracer    trace.Tracer
	cache     metacache.Store

	queryCorrelator *correlator.Correlator[*wire.Envelope]
	receiverPool    *receivers.Pool[Message]
	inbox           *inbox.Inbox[Message]
	subs            *subscriptions.Set

	closed chan struct{}
	done   chan struct{}
}

// New constructs a Gateway around an already-built Transport and connects
// it. Callers that only need the default TCP transport should use Open
// instead; New exists so tests can pass internal/platformtest-backed or
// file-replay transports directly.
func New(ctx context.Context, opts GatewayOptions, tr transport.Transport) (*Gateway, error) {
	if opts.AgentName == "" {
		opts = DefaultGatewayOptions()
	}
	metrics.Register()

	cache := metacache.Store(metacache.Noop{})

	g := &Gateway{
		opts:            opts,
		transport:       tr,
		self:            Agent(opts.AgentName),
		tracer:          otel.Tracer("github.com/nsilva/fjagego/pkg/fjage"),
		cache:           cache,
		queryCorrelator: correlator.New[*wire.Envelope](),
		receiverPool:    receivers.New[Message](),
		inbox:           inbox.New[Message](opts.InboxCapacity),
		subs:            subscriptions.New(),
		closed:          make(chan struct{}),
		done:            make(chan struct{}),
	}
	g.self = g.self.WithOwner(g)

	connectCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := tr.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrTransportUnavailable, err)
	}

	go g.readLoop()
	return g, nil
}

// Open dials addr over TCP (with reconnect-with-backoff enabled per opts)
// and returns a ready-to-use Gateway.
func Open(ctx context.Context, addr string, opts GatewayOptions) (*Gateway, error) {
	opts.Addr = addr
	tr := transport.NewTCP(addr, transport.TCPOptions{
		DialTimeout: opts.ConnectTimeout,
		Reconnect:   opts.Reconnect,
	})
	return New(ctx, opts, tr)
}

// WithCache returns g with a non-default metacache.Store installed for
// platform metadata query results; call before issuing queries.
func (g *Gateway) WithCache(store metacache.Store) *Gateway {
	if store != nil {
		g.cache = store
	}
	return g
}

// Self returns the Identifier this Gateway presents itself as.
func (g *Gateway) Self() Identifier { return g.self }

// Agent returns an Identifier for the named agent, bound to this Gateway so
// Send/Request can be called on it directly.
func (g *Gateway) Agent(name string) Identifier { return Agent(name).WithOwner(g) }

// Topic returns an Identifier for the named topic, bound to this Gateway.
func (g *Gateway) Topic(name string) Identifier { return Topic(name).WithOwner(g) }

// Send transmits msg as a fire-and-forget frame, stamping Sender if unset.
func (g *Gateway) Send(msg Message) error {
	select {
	case <-g.closed:
		return ErrClosed
	default:
	}
	if msg.Sender.isZero() {
		msg.Sender = g.self
	}
	env := wire.NewSendEnvelope(wire.NewMessageID(), msg.toFrame(), false)
	if err := g.writeEnvelope(env); err != nil {
		return err
	}
	metrics.MessagesSentTotal.Inc()
	return nil
}

// Request sends msg and blocks until a reply carrying InReplyTo == msg.MsgID
// arrives, timeout elapses, or ctx is cancelled. A non-positive timeout uses
// opts.DefaultTimeout. Equivalent to Send(msg) immediately followed by
// Receive(filter = msg, timeout): the reply is claimed from the very same
// receiver pool Receive registers into, in FIFO registration order, not a
// separate correlation table — fjagepy's request() is literally
// self.send(msg); return self.receive(msg, timeout) against the same
// _send_receivers list.
func (g *Gateway) Request(ctx context.Context, msg Message, timeout time.Duration) (Message, error) {
	select {
	case <-g.closed:
		return Message{}, ErrClosed
	default:
	}
	if timeout <= 0 {
		timeout = g.opts.DefaultTimeout
	}
	if msg.Sender.isZero() {
		msg.Sender = g.self
	}

	ctx, span := otelspan.StartLinkedSpan(ctx, g.tracer, "fjage.request", msg.MsgID)
	defer span.End()
	ctx = otelspan.WithCorrelationID(ctx, msg.MsgID)

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pred := func(m Message) bool { return m.InReplyTo == msg.MsgID }
	cell := g.receiverPool.Register(pred)

	env := wire.NewSendEnvelope(wire.NewMessageID(), msg.toFrame(), false)
	if err := g.writeEnvelope(env); err != nil {
		g.receiverPool.Unregister(cell)
		return Message{}, err
	}
	metrics.MessagesSentTotal.Inc()

	rsp, err := cell.Get(reqCtx)
	if err != nil {
		g.receiverPool.Unregister(cell)
		return Message{}, fmt.Errorf("%w: request %s", ErrTimeout, msg.MsgID)
	}
	return rsp, nil
}

// Receive returns the next inbox message matching filter, first trying
// already-queued messages (in FIFO order) before registering a waiter and
// blocking. A nil filter matches any message. A non-positive timeout blocks
// until ctx is cancelled.
func (g *Gateway) Receive(ctx context.Context, filter Filter, timeout time.Duration) (Message, error) {
	select {
	case <-g.closed:
		return Message{}, ErrClosed
	default:
	}
	pred := func(m Message) bool {
		matched, _ := filter.match(m)
		return matched
	}
	if m, ok := g.inbox.PopMatching(pred); ok {
		metrics.InboxDepth.Set(float64(g.inbox.Len()))
		return m, nil
	}

	waitCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cell := g.receiverPool.Register(pred)
	m, err := cell.Get(waitCtx)
	if err != nil {
		g.receiverPool.Unregister(cell)
		// A message may have landed in the inbox between the inbox check and
		// registration racing with readLoop; one last non-blocking look.
		if m2, ok := g.inbox.PopMatching(pred); ok {
			return m2, nil
		}
		return Message{}, fmt.Errorf("%w: receive", ErrTimeout)
	}
	return m, nil
}

// Subscribe adds topic to the subscription set and, if it changed the set,
// sends a fresh wantsMessagesFor reconciliation frame. A non-topic
// identifier is promoted to its __ntf notification topic first, matching
// fjagepy's Gateway.subscribe.
func (g *Gateway) Subscribe(topic Identifier) error {
	topic = promoteToTopic(topic)
	if !g.subs.Add(topic.String()) {
		return nil
	}
	return g.sendWantsMessagesFor()
}

// Unsubscribe removes topic from the subscription set and, if it changed
// the set, sends a fresh wantsMessagesFor reconciliation frame. A non-topic
// identifier is promoted to its __ntf notification topic first, so it
// matches whatever Subscribe actually added.
func (g *Gateway) Unsubscribe(topic Identifier) error {
	topic = promoteToTopic(topic)
	if !g.subs.Remove(topic.String()) {
		return nil
	}
	return g.sendWantsMessagesFor()
}

// promoteToTopic returns id unchanged if it already names a topic,
// otherwise returns its __ntf notification topic (TopicOf), carrying the
// original owner forward so the result stays usable fluently.
func promoteToTopic(id Identifier) Identifier {
	if id.IsTopic() {
		return id
	}
	promoted := TopicOf(id.Name())
	if id.owner != nil {
		promoted = promoted.WithOwner(id.owner)
	}
	return promoted
}

func (g *Gateway) sendWantsMessagesFor() error {
	ids := append([]string{g.self.String()}, g.subs.Snapshot()...)
	env := wire.NewWantsMessagesForEnvelope(wire.NewMessageID(), ids)
	return g.writeEnvelope(env)
}

// Agents returns every agent known to the platform.
func (g *Gateway) Agents(ctx context.Context) ([]Identifier, error) {
	if cached, ok := g.lookupCache("agents"); ok {
		var names []string
		if json.Unmarshal(cached, &names) == nil {
			return identifiersFrom(names), nil
		}
	}
	env, err := g.query(ctx, func(id string) *wire.Envelope { return wire.NewAgentsEnvelope(id) })
	if err != nil {
		return nil, err
	}
	g.storeCache("agents", env.AgentIDs)
	return identifiersFrom(env.AgentIDs), nil
}

// ContainsAgent reports whether the named agent is present on the platform.
func (g *Gateway) ContainsAgent(ctx context.Context, id Identifier) (bool, error) {
	env, err := g.query(ctx, func(qid string) *wire.Envelope {
		return wire.NewContainsAgentEnvelope(qid, id.Name())
	})
	if err != nil {
		return false, err
	}
	return env.Answer != nil && *env.Answer, nil
}

// Services returns every service name registered on the platform.
func (g *Gateway) Services(ctx context.Context) ([]string, error) {
	if cached, ok := g.lookupCache("services"); ok {
		var names []string
		if json.Unmarshal(cached, &names) == nil {
			return names, nil
		}
	}
	env, err := g.query(ctx, func(id string) *wire.Envelope { return &wire.Envelope{ID: id, Action: wire.ActionServices} })
	if err != nil {
		return nil, err
	}
	g.storeCache("services", env.Services)
	return env.Services, nil
}

// AgentForService returns one agent providing service, if any.
func (g *Gateway) AgentForService(ctx context.Context, service string) (Identifier, bool, error) {
	key := "agentForService:" + service
	if cached, ok := g.lookupCache(key); ok {
		var name string
		if json.Unmarshal(cached, &name) == nil {
			if name == "" {
				return Identifier{}, false, nil
			}
			return g.Agent(name), true, nil
		}
	}
	env, err := g.query(ctx, func(id string) *wire.Envelope {
		return wire.NewAgentForServiceEnvelope(id, service)
	})
	if err != nil {
		return Identifier{}, false, err
	}
	g.storeCache(key, env.AgentID)
	if env.AgentID == "" {
		return Identifier{}, false, nil
	}
	return g.Agent(env.AgentID), true, nil
}

// AgentsForService returns every agent providing service.
func (g *Gateway) AgentsForService(ctx context.Context, service string) ([]Identifier, error) {
	key := "agentsForService:" + service
	if cached, ok := g.lookupCache(key); ok {
		var names []string
		if json.Unmarshal(cached, &names) == nil {
			return identifiersFrom(names), nil
		}
	}
	env, err := g.query(ctx, func(id string) *wire.Envelope {
		return wire.NewAgentsForServiceEnvelope(id, service)
	})
	if err != nil {
		return nil, err
	}
	g.storeCache(key, env.AgentIDs)
	return identifiersFrom(env.AgentIDs), nil
}

// GetParam requests a single parameter's value from agent, optionally
// scoped by index (-1 for none). Prefer Identifier.Get, which calls this via
// the owner interface; this method remains for callers holding only a
// Gateway and a bare agent name.
func (g *Gateway) GetParam(ctx context.Context, agent Identifier, param string, index int) (any, error) {
	return g.getParam(ctx, agent, param, index)
}

// SetParam requests a single parameter write on agent, returning the value
// the agent reports afterward. Prefer Identifier.Set.
func (g *Gateway) SetParam(ctx context.Context, agent Identifier, param string, value any, index int) (any, error) {
	return g.setParam(ctx, agent, param, value, index)
}

// GetAllParams requests every parameter agent exposes (optionally scoped by
// index), merging the bare param/value reply field with the values map.
// Prefer Identifier.GetAll.
func (g *Gateway) GetAllParams(ctx context.Context, agent Identifier, index int) (map[string]any, error) {
	return g.getAllParams(ctx, agent, index)
}

func (g *Gateway) getParam(ctx context.Context, agent Identifier, param string, index int) (any, error) {
	req := NewParameterReq().Get(param)
	if index >= 0 {
		req = req.WithIndex(index)
	}
	rsp, err := g.requestParam(ctx, agent, req)
	if err != nil {
		return nil, err
	}
	v, _ := rsp.Get(param)
	return v, nil
}

func (g *Gateway) setParam(ctx context.Context, agent Identifier, param string, value any, index int) (any, error) {
	req := NewParameterReq().Set(param, value)
	if index >= 0 {
		req = req.WithIndex(index)
	}
	rsp, err := g.requestParam(ctx, agent, req)
	if err != nil {
		return nil, err
	}
	v, _ := rsp.Get(param)
	return v, nil
}

func (g *Gateway) getAllParams(ctx context.Context, agent Identifier, index int) (map[string]any, error) {
	req := NewParameterReq()
	if index >= 0 {
		req = req.WithIndex(index)
	}
	rsp, err := g.requestParam(ctx, agent, req)
	if err != nil {
		return nil, err
	}
	return rsp.Parameters(), nil
}

func (g *Gateway) requestParam(ctx context.Context, agent Identifier, req ParameterReq) (ParameterRsp, error) {
	msg := req.ToMessage().WithSender(g.self)
	rsp, err := agent.WithOwner(g).Request(ctx, msg, 0)
	if err != nil {
		return ParameterRsp{}, err
	}
	return ParameterRspFromMessage(rsp), nil
}

// Close stops the read loop, closes every pending correlation and waiter,
// and tears down the underlying transport.
func (g *Gateway) Close() error {
	select {
	case <-g.closed:
		return nil
	default:
		close(g.closed)
	}
	g.queryCorrelator.CloseAll()
	g.receiverPool.CloseAll()
	g.inbox.Close()
	err := g.transport.Close()
	<-g.done
	return err
}

func (g *Gateway) writeEnvelope(env *wire.Envelope) error {
	line, err := wire.EncodeLine(env)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrDecodeFault, err)
	}
	if err := g.transport.Send(line); err != nil {
		return fmt.Errorf("%w: %v", ErrTransportBroken, err)
	}
	return nil
}

// query sends a platform metadata action built by mk, registering the query
// id with the envelope correlator before writing it, and waits for the
// matching answer.
func (g *Gateway) query(ctx context.Context, mk func(id string) *wire.Envelope) (*wire.Envelope, error) {
	timeout := g.opts.DefaultTimeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	id := wire.NewMessageID()
	env := mk(id)

	ctx, span := otelspan.StartLinkedSpan(ctx, g.tracer, "fjage."+string(env.Action), id)
	defer span.End()

	cell := g.queryCorrelator.Register(id)
	metrics.PendingCorrelations.Set(float64(g.queryCorrelator.Len()))
	defer func() {
		g.queryCorrelator.Forget(id)
		metrics.PendingCorrelations.Set(float64(g.queryCorrelator.Len()))
	}()
	if err := g.writeEnvelope(env); err != nil {
		return nil, err
	}
	rsp, err := cell.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTimeout, env.Action)
	}
	return rsp, nil
}

func (g *Gateway) lookupCache(key string) ([]byte, bool) {
	if g.opts.MetadataCacheTTL <= 0 {
		return nil, false
	}
	return g.cache.Get(key)
}

func (g *Gateway) storeCache(key string, v any) {
	if g.opts.MetadataCacheTTL <= 0 {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	g.cache.Set(key, b, g.opts.MetadataCacheTTL)
}

func identifiersFrom(names []string) []Identifier {
	out := make([]Identifier, 0, len(names))
	for _, n := range names {
		out = append(out, ParseIdentifier(n))
	}
	return out
}

// readLoop is the Gateway's single background reader: every inbound frame
// is decoded once and routed by dispatch precedence. It exits when the
// transport's Lines channel closes (reconnect exhausted, or Close called).
func (g *Gateway) readLoop() {
	defer close(g.done)
	for {
		select {
		case line, ok := <-g.transport.Lines():
			if !ok {
				return
			}
			g.handleLine(line)
		case err, ok := <-g.transport.Errs():
			if ok && err != nil {
				logging.Logger().Error("fjage: transport error", zap.Error(err))
			}
		}
	}
}

func (g *Gateway) handleLine(line []byte) {
	env, err := wire.DecodeLine(line)
	if err != nil {
		logging.Logger().Warn("fjage: discarding malformed frame", zap.Error(err))
		return
	}
	metrics.MessagesReceivedTotal.Inc()

	if env.Action == "" || env.Action == wire.ActionSend {
		if env.Message == nil {
			return
		}
		g.dispatchMessage(messageFromFrame(env.Message))
		return
	}

	// Every other action is a platform query answer correlated by the id the
	// query was originally sent under (see query()). inResponseTo carries
	// that id; a bare echoed id is accepted as a fallback for platforms that
	// omit inResponseTo on the answer.
	key := env.InResponseTo
	if key == "" {
		key = env.ID
	}
	if !g.queryCorrelator.Deliver(key, env) {
		logging.Logger().Debug("fjage: no waiter for platform answer", zap.String("id", key))
	}
}

// dispatchMessage implements the precedence rule: the first matching
// receiver waiter wins — this is how both a pending Request's reply and a
// plain Receive's match are claimed, in FIFO registration order; failing
// that, the message is queued in the inbox unless it targets a topic we no
// longer subscribe to, in which case it is silently discarded (mirroring
// fjagepy's Gateway, which only ever receives what it last told the
// platform it wants via wantsMessagesFor).
func (g *Gateway) dispatchMessage(msg Message) {
	claimed, faulted := g.receiverPool.Dispatch(msg)
	if faulted {
		logging.Logger().Warn("fjage: receiver predicate panicked", zap.Error(ErrPredicateFault))
	}
	if claimed {
		return
	}

	if msg.Recipient.IsTopic() && !g.subs.Contains(msg.Recipient.String()) {
		logging.Logger().Debug("fjage: discarding message for unsubscribed topic",
			zap.String("topic", msg.Recipient.String()))
		return
	}

	if dropped := g.inbox.Push(msg); dropped {
		metrics.InboxDroppedTotal.Inc()
	}
	metrics.InboxDepth.Set(float64(g.inbox.Len()))
}
