// pkg/fjage/identifier.go
// Identifier addresses an agent or a topic on the platform, grounded on
// fjagepy's AgentID: a name plus a topic flag, an optional owning Gateway so
// messages can be sent/requested directly off the identifier, an optional
// index hint for indexed parameter access, and a default parameter timeout.
package fjage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// owner is the subset of Gateway an Identifier needs to act as a convenience
// façade over Send/Request. Kept as an interface (rather than importing
// *Gateway directly) so identifier.go has no dependency on gateway.go's
// internals.
type owner interface {
	Send(msg Message) error
	Request(ctx context.Context, msg Message, timeout time.Duration) (Message, error)
	getParam(ctx context.Context, agent Identifier, param string, index int) (any, error)
	setParam(ctx context.Context, agent Identifier, param string, value any, index int) (any, error)
	getAllParams(ctx context.Context, agent Identifier, index int) (map[string]any, error)
}

// Identifier names an agent (topic == false) or a topic (topic == true).
// The zero value is not usable; construct with Agent or Topic.
type Identifier struct {
	name       string
	topic      bool
	owner      owner
	indexHint  int // -1 means "no index"
	paramTimeo time.Duration
}

const defaultParamTimeout = 5 * time.Second
const noIndex = -1

// Agent returns an Identifier naming an agent.
func Agent(name string) Identifier {
	return Identifier{name: name, topic: false, indexHint: noIndex, paramTimeo: defaultParamTimeout}
}

// Topic returns an Identifier naming a topic.
func Topic(name string) Identifier {
	return Identifier{name: name, topic: true, indexHint: noIndex, paramTimeo: defaultParamTimeout}
}

// TopicOf returns the notification topic for the given agent: the agent's
// own name suffixed with "__ntf", matching fjåge's topic-of-agent convention.
func TopicOf(agentName string) Identifier {
	return Topic(agentName + "__ntf")
}

// WithOwner returns a copy of id bound to the given Gateway, enabling
// id.Send/id.Request. Gateway.New binds identifiers it hands out this way;
// callers rarely need to call this directly.
func (id Identifier) WithOwner(o owner) Identifier {
	id.owner = o
	return id
}

// Indexed returns a derived copy of id carrying an index hint, mirroring
// fjagepy's AgentID.__getitem__. Index-scoped parameter access (Get/Set with
// an index) uses this hint when the caller does not pass an explicit index.
func (id Identifier) Indexed(index int) Identifier {
	id.indexHint = index
	return id
}

// Name returns the bare agent or topic name (without any "#" topic prefix).
func (id Identifier) Name() string { return id.name }

// IsTopic reports whether this Identifier addresses a topic.
func (id Identifier) IsTopic() bool { return id.topic }

// Index returns the index hint set via Indexed, or -1 if none.
func (id Identifier) Index() int { return id.indexHint }

// String renders the wire form: "name" for agents, "#name" for topics.
func (id Identifier) String() string {
	if id.topic {
		return "#" + id.name
	}
	return id.name
}

// MarshalJSON renders the Identifier exactly as the platform expects it
// embedded in message fields (sender/recipient): topics carry a "#" prefix.
func (id Identifier) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", id.String())), nil
}

// UnmarshalJSON parses the wire form produced by MarshalJSON.
func (id *Identifier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*id = ParseIdentifier(s)
	return nil
}

// ParseIdentifier parses the wire form: a leading '#' marks a topic.
func ParseIdentifier(s string) Identifier {
	if len(s) > 0 && s[0] == '#' {
		return Topic(s[1:])
	}
	return Agent(s)
}

// isZero reports whether id is the unset zero value (no name set).
func (id Identifier) isZero() bool { return id.name == "" }

// Equal compares identifiers by (name, topic) only, matching fjagepy's
// AgentID.__eq__ (owner and index are not part of identity).
func (id Identifier) Equal(other Identifier) bool {
	return id.name == other.name && id.topic == other.topic
}

// Send dispatches msg to this identifier via the bound owner Gateway,
// setting msg.Recipient to this identifier.
func (id Identifier) Send(msg Message) error {
	if id.owner == nil {
		return fmt.Errorf("%w: identifier %q has no bound gateway", ErrInvalidArgument, id)
	}
	msg = msg.withRecipient(id)
	return id.owner.Send(msg)
}

// Request sends msg to this identifier and blocks for a matching reply,
// setting msg.Recipient to this identifier.
func (id Identifier) Request(ctx context.Context, msg Message, timeout time.Duration) (Message, error) {
	if id.owner == nil {
		return Message{}, fmt.Errorf("%w: identifier %q has no bound gateway", ErrInvalidArgument, id)
	}
	msg = msg.withRecipient(id)
	return id.owner.Request(ctx, msg, timeout)
}

// Get fetches a single named parameter from this identifier's agent,
// scoped by whatever index this Identifier was derived with via Indexed (or
// unscoped, the default). Matches fjagepy's AgentID.get.
func (id Identifier) Get(ctx context.Context, param string) (any, error) {
	return id.GetIndexed(ctx, param, id.indexHint)
}

// GetIndexed fetches a single named parameter scoped to an explicit index,
// overriding any index this Identifier carries via Indexed.
func (id Identifier) GetIndexed(ctx context.Context, param string, index int) (any, error) {
	if id.owner == nil {
		return nil, fmt.Errorf("%w: identifier %q has no bound gateway", ErrInvalidArgument, id)
	}
	return id.owner.getParam(ctx, id, param, index)
}

// GetAll fetches every parameter this identifier's agent exposes, merging
// the single param/value reply field with the values map exactly as
// ParameterRsp.Parameters does. Matches fjagepy's AgentID.get() called with
// no parameter name.
func (id Identifier) GetAll(ctx context.Context) (map[string]any, error) {
	return id.GetAllIndexed(ctx, id.indexHint)
}

// GetAllIndexed is GetAll scoped to an explicit index.
func (id Identifier) GetAllIndexed(ctx context.Context, index int) (map[string]any, error) {
	if id.owner == nil {
		return nil, fmt.Errorf("%w: identifier %q has no bound gateway", ErrInvalidArgument, id)
	}
	return id.owner.getAllParams(ctx, id, index)
}

// Set writes a single named parameter on this identifier's agent, scoped by
// whatever index this Identifier was derived with via Indexed (or
// unscoped, the default), returning the value the agent reports afterward.
// Matches fjagepy's AgentID.set.
func (id Identifier) Set(ctx context.Context, param string, value any) (any, error) {
	return id.SetIndexed(ctx, param, value, id.indexHint)
}

// SetIndexed writes a single named parameter scoped to an explicit index,
// overriding any index this Identifier carries via Indexed.
func (id Identifier) SetIndexed(ctx context.Context, param string, value any, index int) (any, error) {
	if id.owner == nil {
		return nil, fmt.Errorf("%w: identifier %q has no bound gateway", ErrInvalidArgument, id)
	}
	return id.owner.setParam(ctx, id, param, value, index)
}
