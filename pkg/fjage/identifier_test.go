package fjage

import (
	"context"
	"testing"
	"time"
)

// fakeOwner is a minimal owner implementation recording the arguments it was
// called with, used to test Identifier's fluent Send/Request/param wrappers
// without standing up a real Gateway.
type fakeOwner struct {
	gotParam      string
	gotIndex      int
	gotValue      any
	getAllIndex   int
	getAllCalls   int
	paramResult   any
	allParamsResp map[string]any
}

func (o *fakeOwner) Send(Message) error { return nil }
func (o *fakeOwner) Request(context.Context, Message, time.Duration) (Message, error) {
	return Message{}, nil
}
func (o *fakeOwner) getParam(_ context.Context, _ Identifier, param string, index int) (any, error) {
	o.gotParam = param
	o.gotIndex = index
	return o.paramResult, nil
}
func (o *fakeOwner) setParam(_ context.Context, _ Identifier, param string, value any, index int) (any, error) {
	o.gotParam = param
	o.gotValue = value
	o.gotIndex = index
	return value, nil
}
func (o *fakeOwner) getAllParams(_ context.Context, _ Identifier, index int) (map[string]any, error) {
	o.getAllCalls++
	o.getAllIndex = index
	return o.allParamsResp, nil
}

func TestIdentifierGetUsesBoundOwnerAndDefaultIndex(t *testing.T) {
	o := &fakeOwner{paramResult: 42.0}
	id := Agent("node1").WithOwner(o)
	v, err := id.Get(context.Background(), "gain")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != 42.0 || o.gotParam != "gain" || o.gotIndex != noIndex {
		t.Errorf("Get called owner with (param=%q, index=%d), result=%v", o.gotParam, o.gotIndex, v)
	}
}

func TestIdentifierGetIndexedUsesIndexedHintByDefault(t *testing.T) {
	o := &fakeOwner{}
	id := Agent("node1").Indexed(3).WithOwner(o)
	if _, err := id.Get(context.Background(), "gain"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if o.gotIndex != 3 {
		t.Errorf("gotIndex = %d, want 3 (from Indexed)", o.gotIndex)
	}
	if _, err := id.GetIndexed(context.Background(), "gain", 9); err != nil {
		t.Fatalf("GetIndexed: %v", err)
	}
	if o.gotIndex != 9 {
		t.Errorf("GetIndexed should override the Indexed hint, got %d", o.gotIndex)
	}
}

func TestIdentifierSetForwardsParamAndValue(t *testing.T) {
	o := &fakeOwner{}
	id := Agent("node1").WithOwner(o)
	if _, err := id.Set(context.Background(), "power", 7); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if o.gotParam != "power" || o.gotValue != 7 {
		t.Errorf("Set called owner with param=%q value=%v", o.gotParam, o.gotValue)
	}
}

func TestIdentifierGetAllReturnsMergedMap(t *testing.T) {
	o := &fakeOwner{allParamsResp: map[string]any{"gain": 1.0, "frequency": 100.0}}
	id := Agent("node1").WithOwner(o)
	got, err := id.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if o.getAllCalls != 1 {
		t.Errorf("getAllParams called %d times, want 1", o.getAllCalls)
	}
	if got["gain"] != 1.0 || got["frequency"] != 100.0 {
		t.Errorf("GetAll = %v", got)
	}
}

func TestIdentifierGetWithoutOwnerReturnsError(t *testing.T) {
	id := Agent("x")
	if _, err := id.Get(context.Background(), "gain"); err == nil {
		t.Error("Get on an unbound identifier should return an error")
	}
	if _, err := id.GetAll(context.Background()); err == nil {
		t.Error("GetAll on an unbound identifier should return an error")
	}
	if _, err := id.Set(context.Background(), "gain", 1); err == nil {
		t.Error("Set on an unbound identifier should return an error")
	}
}

func TestAgentAndTopicStringForm(t *testing.T) {
	if got := Agent("abc").String(); got != "abc" {
		t.Errorf("Agent(%q).String() = %q, want %q", "abc", got, "abc")
	}
	if got := Topic("abc").String(); got != "#abc" {
		t.Errorf("Topic(%q).String() = %q, want %q", "abc", got, "#abc")
	}
}

func TestTopicOf(t *testing.T) {
	got := TopicOf("node1")
	if !got.IsTopic() {
		t.Error("TopicOf should return a topic identifier")
	}
	if got.Name() != "node1__ntf" {
		t.Errorf("Name() = %q, want %q", got.Name(), "node1__ntf")
	}
}

func TestParseIdentifierRoundTrip(t *testing.T) {
	cases := []Identifier{Agent("node1"), Topic("node1__ntf")}
	for _, id := range cases {
		parsed := ParseIdentifier(id.String())
		if !parsed.Equal(id) {
			t.Errorf("ParseIdentifier(%q) = %+v, want %+v", id.String(), parsed, id)
		}
	}
}

func TestIdentifierJSONRoundTrip(t *testing.T) {
	id := Topic("ctrl")
	b, err := id.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var back Identifier
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if !back.Equal(id) {
		t.Errorf("round trip = %+v, want %+v", back, id)
	}
}

func TestEqualIgnoresIndexHint(t *testing.T) {
	a := Agent("x").Indexed(2)
	b := Agent("x").Indexed(5)
	if !a.Equal(b) {
		t.Error("Equal should ignore index hint")
	}
}

func TestSendWithoutOwnerReturnsError(t *testing.T) {
	id := Agent("x")
	if err := id.Send(NewMessage()); err == nil {
		t.Error("Send on an unbound identifier should return an error")
	}
}
