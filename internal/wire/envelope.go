// internal/wire/envelope.go
// Envelope is the outer JSON object exchanged on the line-delimited wire,
// grounded on fjagepy's JSONMessage: every line is either a "send" (carrying
// a class-tagged Message), a "wantsMessagesFor" subscription frame, or one of
// the platform metadata actions (agents/containsAgent/services/
// agentForService/agentsForService/shutdown), plus their answers.
//
// This package never imports pkg/fjage (identifiers/messages live there); it
// only knows about strings and generic class-tagged data, so pkg/fjage's
// codec does the final typed inflation.
package wire

import (
	"encoding/json"
	"fmt"
)

// Action names the platform action an Envelope requests or answers.
type Action string

const (
	ActionAgents            Action = "agents"
	ActionContainsAgent     Action = "containsAgent"
	ActionServices          Action = "services"
	ActionAgentForService   Action = "agentForService"
	ActionAgentsForService  Action = "agentsForService"
	ActionSend              Action = "send"
	ActionShutdown          Action = "shutdown"
	ActionWantsMessagesFor  Action = "wantsMessagesFor"
)

// ClassTagged is the generic {"clazz":"...","data":{...}} wrapper used for
// the "message" field and for any nested class-tagged values within it.
type ClassTagged struct {
	Clazz string
	Data  map[string]any
}

// Envelope mirrors JSONMessage's attribute set exactly, one field per
// protocol attribute, all optional except ID.
type Envelope struct {
	ID           string
	Action       Action
	InResponseTo string
	AgentID      string
	AgentIDs     []string
	AgentTypes   []string
	Service      string
	Services     []string
	Answer       *bool
	Message      *ClassTagged
	Relay        *bool
}

// DecodeLine parses a single newline-delimited JSON frame into an Envelope,
// first normalising every nested base64-packed numeric array in the tree
// (fjagepy does this as a json.loads object_hook; Go has no hook so the pass
// runs after a generic decode) before picking out Envelope's known fields.
func DecodeLine(line []byte) (*Envelope, error) {
	var raw any
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("wire: decode envelope: %w", err)
	}
	m, ok := NormalizeJSON(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("wire: envelope is not a JSON object")
	}

	env := &Envelope{}
	if v, ok := m["id"].(string); ok {
		env.ID = v
	}
	if v, ok := m["action"].(string); ok {
		env.Action = Action(v)
	}
	if v, ok := m["inResponseTo"].(string); ok {
		env.InResponseTo = v
	}
	if v, ok := m["agentID"].(string); ok {
		env.AgentID = v
	}
	if v, ok := m["agentIDs"].([]any); ok {
		for _, e := range v {
			if s, ok := e.(string); ok {
				env.AgentIDs = append(env.AgentIDs, s)
			}
		}
	}
	if v, ok := m["agentTypes"].([]any); ok {
		for _, e := range v {
			if s, ok := e.(string); ok {
				env.AgentTypes = append(env.AgentTypes, s)
			}
		}
	}
	if v, ok := m["service"].(string); ok {
		env.Service = v
	}
	if v, ok := m["services"].([]any); ok {
		for _, e := range v {
			if s, ok := e.(string); ok {
				env.Services = append(env.Services, s)
			}
		}
	}
	if v, ok := m["answer"].(bool); ok {
		env.Answer = &v
	}
	if v, ok := m["relay"].(bool); ok {
		env.Relay = &v
	}
	if v, ok := m["message"].(map[string]any); ok {
		env.Message = classTaggedFromMap(v)
	}
	return env, nil
}

func classTaggedFromMap(m map[string]any) *ClassTagged {
	ct := &ClassTagged{Data: map[string]any{}}
	if c, ok := m["clazz"].(string); ok {
		ct.Clazz = c
	}
	if d, ok := m["data"].(map[string]any); ok {
		ct.Data = d
	}
	return ct
}

// EncodeLine renders env into a single compact JSON line (no trailing
// newline), omitting every attribute left at its zero value, matching
// JSONMessage.to_json's "skip None" behaviour.
func EncodeLine(env *Envelope) ([]byte, error) {
	m := map[string]any{"id": env.ID}
	if env.Action != "" {
		m["action"] = env.Action
	}
	if env.InResponseTo != "" {
		m["inResponseTo"] = env.InResponseTo
	}
	if env.AgentID != "" {
		m["agentID"] = env.AgentID
	}
	if len(env.AgentIDs) > 0 {
		m["agentIDs"] = env.AgentIDs
	}
	if len(env.AgentTypes) > 0 {
		m["agentTypes"] = env.AgentTypes
	}
	if env.Service != "" {
		m["service"] = env.Service
	}
	if len(env.Services) > 0 {
		m["services"] = env.Services
	}
	if env.Answer != nil {
		m["answer"] = *env.Answer
	}
	if env.Relay != nil {
		m["relay"] = *env.Relay
	}
	if env.Message != nil {
		m["message"] = map[string]any{
			"clazz": env.Message.Clazz,
			"data":  env.Message.Data,
		}
	}
	return json.Marshal(m)
}

func boolPtr(b bool) *bool { return &b }

// NewSendEnvelope builds a "send" action envelope carrying msg.
func NewSendEnvelope(id string, msg *ClassTagged, relay bool) *Envelope {
	return &Envelope{ID: id, Action: ActionSend, Message: msg, Relay: boolPtr(relay)}
}

// NewWantsMessagesForEnvelope builds a subscription-reconciliation frame.
func NewWantsMessagesForEnvelope(id string, agentIDs []string) *Envelope {
	return &Envelope{ID: id, Action: ActionWantsMessagesFor, AgentIDs: agentIDs}
}

// NewAgentsEnvelope builds an "agents" platform metadata query.
func NewAgentsEnvelope(id string) *Envelope {
	return &Envelope{ID: id, Action: ActionAgents}
}

// NewContainsAgentEnvelope builds a "containsAgent" query.
func NewContainsAgentEnvelope(id, agentID string) *Envelope {
	return &Envelope{ID: id, Action: ActionContainsAgent, AgentID: agentID}
}

// NewAgentForServiceEnvelope builds an "agentForService" query.
func NewAgentForServiceEnvelope(id, service string) *Envelope {
	return &Envelope{ID: id, Action: ActionAgentForService, Service: service}
}

// NewAgentsForServiceEnvelope builds an "agentsForService" query.
func NewAgentsForServiceEnvelope(id, service string) *Envelope {
	return &Envelope{ID: id, Action: ActionAgentsForService, Service: service}
}
