package fjage

import (
	"context"
	"testing"
	"time"

	"github.com/nsilva/fjagego/internal/platformtest"
	"github.com/nsilva/fjagego/internal/transport"
	"github.com/nsilva/fjagego/internal/wire"
)

func newTestGateway(t *testing.T, mp *platformtest.MockPlatform, agentName string) *Gateway {
	t.Helper()
	opts := DefaultGatewayOptions()
	opts.AgentName = agentName
	opts.ConnectTimeout = 2 * time.Second
	opts.DefaultTimeout = 2 * time.Second
	opts.Reconnect = false

	tr := transport.NewTCP(mp.Addr(), transport.TCPOptions{DialTimeout: 2 * time.Second})
	gw, err := New(context.Background(), opts, tr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = gw.Close() })
	return gw
}

func TestGatewayAgentsServicesAndDirectory(t *testing.T) {
	mp, err := platformtest.New([]string{"alpha", "beta"}, map[string][]string{"svc.echo": {"alpha"}})
	if err != nil {
		t.Fatalf("platformtest.New: %v", err)
	}
	defer mp.Close()

	gw := newTestGateway(t, mp, "Tester")
	ctx := context.Background()

	agents, err := gw.Agents(ctx)
	if err != nil {
		t.Fatalf("Agents: %v", err)
	}
	if len(agents) != 2 {
		t.Fatalf("len(agents) = %d, want 2", len(agents))
	}

	ok, err := gw.ContainsAgent(ctx, Agent("alpha"))
	if err != nil || !ok {
		t.Errorf("ContainsAgent(alpha) = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = gw.ContainsAgent(ctx, Agent("gamma"))
	if err != nil || ok {
		t.Errorf("ContainsAgent(gamma) = (%v, %v), want (false, nil)", ok, err)
	}

	services, err := gw.Services(ctx)
	if err != nil || len(services) != 1 || services[0] != "svc.echo" {
		t.Errorf("Services() = (%v, %v), want ([svc.echo], nil)", services, err)
	}

	agent, found, err := gw.AgentForService(ctx, "svc.echo")
	if err != nil || !found || agent.Name() != "alpha" {
		t.Errorf("AgentForService = (%+v, %v, %v), want (alpha, true, nil)", agent, found, err)
	}

	agentsFor, err := gw.AgentsForService(ctx, "svc.echo")
	if err != nil || len(agentsFor) != 1 || agentsFor[0].Name() != "alpha" {
		t.Errorf("AgentsForService = (%v, %v)", agentsFor, err)
	}
}

func TestGatewayRequestReply(t *testing.T) {
	mp, err := platformtest.New([]string{"echo"}, nil)
	if err != nil {
		t.Fatalf("platformtest.New: %v", err)
	}
	defer mp.Close()

	mp.OnSend(func(msg wire.ClassTagged) {
		reqID, _ := msg.Data["msgID"].(string)
		sender, _ := msg.Data["sender"].(string)
		reply := &wire.ClassTagged{Clazz: genericMsgClazz, Data: map[string]any{
			"msgID":     wireNewID(),
			"perf":      string(Inform),
			"sender":    "echo",
			"recipient": sender,
			"inReplyTo": reqID,
			"reply":     "pong",
		}}
		_ = mp.Push(wire.NewSendEnvelope(wireNewID(), reply, false))
	})

	gw := newTestGateway(t, mp, "Requester")
	ctx := context.Background()

	msg := NewGenericMessage().Set("ping", true)
	rsp, err := gw.Agent("echo").Request(ctx, msg, time.Second)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if v, _ := rsp.Get("reply"); v != "pong" {
		t.Errorf("reply field = %v, want pong", v)
	}
	if rsp.InReplyTo != msg.MsgID {
		t.Errorf("InReplyTo = %q, want %q", rsp.InReplyTo, msg.MsgID)
	}
}

// TestGatewayRequestAndReceiveShareReceiverPoolFIFO asserts the property the
// Gateway's dispatch precedence must preserve: Request shares the exact same
// receiver pool Receive uses (it does not jump a separate correlation
// table), so whichever waiter registered first claims the next message
// matching its filter, even when a message would satisfy a later-registered
// waiter's filter too.
func TestGatewayRequestAndReceiveShareReceiverPoolFIFO(t *testing.T) {
	mp, err := platformtest.New([]string{"echo"}, nil)
	if err != nil {
		t.Fatalf("platformtest.New: %v", err)
	}
	defer mp.Close()

	gw := newTestGateway(t, mp, "Requester")
	ctx := context.Background()

	// Receive registers a broad filter (any GenericMessage) first.
	receiveDone := make(chan Message, 1)
	go func() {
		m, err := gw.Receive(ctx, MatchClazz("GenericMessage"), 2*time.Second)
		if err != nil {
			t.Errorf("Receive: %v", err)
			return
		}
		receiveDone <- m
	}()
	time.Sleep(50 * time.Millisecond) // let Receive register before Request

	// Request registers its own narrower filter (InReplyTo == its own
	// msgID) second, against the very message whose reply is about to
	// arrive.
	reqMsg := NewGenericMessage()
	reqResult := make(chan Message, 1)
	reqErr := make(chan error, 1)
	go func() {
		m, err := gw.Agent("echo").Request(ctx, reqMsg, 300*time.Millisecond)
		if err != nil {
			reqErr <- err
			return
		}
		reqResult <- m
	}()
	time.Sleep(50 * time.Millisecond) // let Request register behind Receive

	// This single reply matches BOTH waiters' filters: Receive's (any
	// GenericMessage) and Request's (InReplyTo == reqMsg.MsgID). FIFO
	// registration order means Receive, having registered first, must
	// claim it — leaving Request's waiter registered until it times out.
	frame := &wire.ClassTagged{Clazz: genericMsgClazz, Data: map[string]any{
		"msgID":     wireNewID(),
		"perf":      string(Inform),
		"sender":    "echo",
		"recipient": "Requester",
		"inReplyTo": reqMsg.MsgID,
	}}
	if err := mp.Push(wire.NewSendEnvelope(wireNewID(), frame, false)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	select {
	case <-receiveDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Receive should have claimed the reply since it registered first")
	}

	select {
	case m := <-reqResult:
		t.Fatalf("Request should not have claimed the reply Receive already took, got %+v", m)
	case err := <-reqErr:
		if err == nil {
			t.Fatal("expected Request to time out, not succeed")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Request goroutine did not finish")
	}
}

func TestGatewaySubscribeToAgentPromotesToNtfTopic(t *testing.T) {
	mp, err := platformtest.New(nil, nil)
	if err != nil {
		t.Fatalf("platformtest.New: %v", err)
	}
	defer mp.Close()

	var gotWantsMessagesFor []string
	done := make(chan struct{}, 1)
	mp.OnAction(func(env *wire.Envelope) {
		if env.Action == wire.ActionWantsMessagesFor {
			gotWantsMessagesFor = env.AgentIDs
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})

	gw := newTestGateway(t, mp, "Subscriber")
	if err := gw.Subscribe(gw.Agent("node1")); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("wantsMessagesFor frame never arrived")
	}

	found := false
	for _, id := range gotWantsMessagesFor {
		if id == "#node1__ntf" {
			found = true
		}
		if id == "node1" {
			t.Errorf("subscribing to an agent should promote it to its __ntf topic, not keep %q verbatim", id)
		}
	}
	if !found {
		t.Errorf("wantsMessagesFor = %v, want it to include \"#node1__ntf\"", gotWantsMessagesFor)
	}

	// A message addressed to that promoted topic must now be delivered.
	frame := &wire.ClassTagged{Clazz: genericMsgClazz, Data: map[string]any{
		"msgID":     wireNewID(),
		"perf":      string(Inform),
		"sender":    "source",
		"recipient": "#node1__ntf",
	}}
	if err := mp.Push(wire.NewSendEnvelope(wireNewID(), frame, false)); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if _, err := gw.Receive(context.Background(), nil, 2*time.Second); err != nil {
		t.Fatalf("Receive after promoted subscribe: %v", err)
	}
}

func TestGatewaySubscribeAndReceiveTopicMessage(t *testing.T) {
	mp, err := platformtest.New(nil, nil)
	if err != nil {
		t.Fatalf("platformtest.New: %v", err)
	}
	defer mp.Close()

	gw := newTestGateway(t, mp, "Listener")
	topic := gw.Topic("alerts")
	if err := gw.Subscribe(topic); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	// Give the subscription frame time to reach the platform before pushing.
	time.Sleep(50 * time.Millisecond)

	frame := &wire.ClassTagged{Clazz: genericMsgClazz, Data: map[string]any{
		"msgID":     wireNewID(),
		"perf":      string(Inform),
		"sender":    "source",
		"recipient": "#alerts",
		"level":     "critical",
	}}
	if err := mp.Push(wire.NewSendEnvelope(wireNewID(), frame, false)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	msg, err := gw.Receive(context.Background(), MatchClazz("GenericMessage"), 2*time.Second)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if v, _ := msg.Get("level"); v != "critical" {
		t.Errorf("level = %v, want critical", v)
	}
}

func TestGatewayUnsubscribedTopicMessageDiscarded(t *testing.T) {
	mp, err := platformtest.New(nil, nil)
	if err != nil {
		t.Fatalf("platformtest.New: %v", err)
	}
	defer mp.Close()

	gw := newTestGateway(t, mp, "Listener2")

	frame := &wire.ClassTagged{Clazz: genericMsgClazz, Data: map[string]any{
		"msgID":     wireNewID(),
		"perf":      string(Inform),
		"sender":    "source",
		"recipient": "#never-subscribed",
	}}
	if err := mp.Push(wire.NewSendEnvelope(wireNewID(), frame, false)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if _, err := gw.Receive(ctx, nil, 0); err == nil {
		t.Error("expected a timeout since the message targets an unsubscribed topic")
	}
}

func wireNewID() string { return wire.NewMessageID() }
