// pkg/fjage/message.go
// Message is the Go equivalent of fjagepy's Message: a class-tagged bag of
// named fields plus a handful of header attributes every message carries
// (msgID, performative, sender, recipient, inReplyTo). Go has no dynamic
// attribute access, so arbitrary payload fields live in Data rather than as
// struct fields assigned via **kwargs/setattr as the Python base class does.
package fjage

import (
	"strings"

	"github.com/nsilva/fjagego/internal/wire"
)

// Message is an immutable-by-convention value: setters return a modified
// copy rather than mutating in place, so callers building a request cannot
// accidentally share mutable state with one already handed to Send/Request.
type Message struct {
	Clazz     string
	MsgID     string
	Perf      Performative
	Sender    Identifier
	Recipient Identifier
	InReplyTo string
	Data      map[string]any
}

// NewMessage returns a new Message of the base class with a fresh UUID7
// msgID and the class's default performative.
func NewMessage() Message {
	return newMessageOfClazz(baseMessageClazz)
}

// NewGenericMessage returns a new org.arl.fjage.GenericMessage.
func NewGenericMessage() Message {
	return newMessageOfClazz(genericMsgClazz)
}

func newMessageOfClazz(clazz string) Message {
	return Message{
		Clazz: clazz,
		MsgID: wire.NewMessageID(),
		Perf:  DefaultPerformativeFor(clazz),
		Data:  map[string]any{},
	}
}

// InReplyTo builds a reply to req: recipient becomes req.Sender and
// InReplyTo becomes req.MsgID, matching fjagepy's
// Message(in_reply_to_msg=req) constructor argument.
func InReplyTo(req Message, perf Performative) Message {
	m := NewMessage()
	m.Perf = perf
	m.Recipient = req.Sender
	m.InReplyTo = req.MsgID
	return m
}

// WithPerf returns a copy of m with Perf set.
func (m Message) WithPerf(p Performative) Message {
	m.Perf = p
	return m
}

// WithSender returns a copy of m with Sender set.
func (m Message) WithSender(id Identifier) Message {
	m.Sender = id
	return m
}

// withRecipient returns a copy of m with Recipient set, used by
// Identifier.Send/Request to stamp the destination.
func (m Message) withRecipient(id Identifier) Message {
	m.Recipient = id
	return m
}

// Set returns a copy of m with Data[key] = value. The underlying map is
// cloned so earlier copies of m are unaffected.
func (m Message) Set(key string, value any) Message {
	clone := make(map[string]any, len(m.Data)+1)
	for k, v := range m.Data {
		clone[k] = v
	}
	clone[key] = value
	m.Data = clone
	return m
}

// Get returns Data[key].
func (m Message) Get(key string) (any, bool) {
	v, ok := m.Data[key]
	return v, ok
}

// ShortClazz returns the unqualified trailing segment of Clazz.
func (m Message) ShortClazz() string { return ShortNameOf(m.Clazz) }

// String renders a short human-readable summary, echoing fjagepy's
// Message.__str__.
func (m Message) String() string {
	if m.Clazz == "" || m.Clazz == baseMessageClazz {
		return string(m.Perf)
	}
	return string(m.Perf) + ": " + m.ShortClazz()
}

// toFrame serialises m into a wire.ClassTagged, the inner "message" value of
// a send envelope. Complex-number slices are interleaved and flagged with a
// "<key>__isComplex" sentinel; Identifier fields render to their wire string
// form; everything else passes through unchanged, mirroring
// Message.to_json.
func (m Message) toFrame() *wire.ClassTagged {
	data := make(map[string]any, len(m.Data)+4)
	for k, v := range m.Data {
		switch vv := v.(type) {
		case []complex128:
			data[k] = wire.InterleaveComplex(vv)
			data[k+"__isComplex"] = true
		case Identifier:
			data[k] = vv.String()
		default:
			data[k] = vv
		}
	}
	data["msgID"] = m.MsgID
	if m.Perf != "" {
		data["perf"] = string(m.Perf)
	}
	if !m.Sender.isZero() {
		data["sender"] = m.Sender.String()
	}
	if !m.Recipient.isZero() {
		data["recipient"] = m.Recipient.String()
	}
	if m.InReplyTo != "" {
		data["inReplyTo"] = m.InReplyTo
	}
	clazz := m.Clazz
	if clazz == "" {
		clazz = baseMessageClazz
	}
	return &wire.ClassTagged{Clazz: clazz, Data: data}
}

// messageFromFrame inflates a Message from a decoded wire.ClassTagged,
// mirroring Message.from_json: sender/recipient decode as Identifier, perf
// decodes as Performative, isComplex-flagged arrays decode to []complex128,
// and everything else is resolved via wire.ResolveValue.
func messageFromFrame(ct *wire.ClassTagged) Message {
	m := Message{Clazz: ct.Clazz, Data: map[string]any{}}
	for k, v := range ct.Data {
		switch k {
		case "msgID":
			if s, ok := v.(string); ok {
				m.MsgID = s
			}
		case "perf":
			if s, ok := v.(string); ok {
				m.Perf = Performative(s)
			}
		case "sender":
			if s, ok := v.(string); ok {
				m.Sender = ParseIdentifier(s)
			}
		case "recipient":
			if s, ok := v.(string); ok {
				m.Recipient = ParseIdentifier(s)
			}
		case "inReplyTo":
			if s, ok := v.(string); ok {
				m.InReplyTo = s
			}
		default:
			if strings.HasSuffix(k, "__isComplex") {
				continue // consumed alongside its base key below
			}
			if flagged, _ := ct.Data[k+"__isComplex"].(bool); flagged {
				flat, ok := v.([]float64)
				if arr, isArr := v.([]any); isArr {
					flat, ok = make([]float64, len(arr)), true
					for i, e := range arr {
						if f, isNum := e.(float64); isNum {
							flat[i] = f
						} else {
							ok = false
						}
					}
				}
				if ok {
					if cs, err := wire.DeinterleaveComplex(flat); err == nil {
						m.Data[k] = cs
						continue
					}
				}
			}
			m.Data[k] = wire.ResolveValue(v, func(raw any) any {
				if s, ok := raw.(string); ok {
					return ParseIdentifier(s)
				}
				return raw
			})
		}
	}
	if m.MsgID == "" {
		m.MsgID = wire.NewMessageID()
	}
	if m.Perf == "" {
		m.Perf = DefaultPerformativeFor(m.Clazz)
	}
	return m
}
