// pkg/fjage/filter.go
// Filter predicates used by Gateway.Receive, the receiver pool and the
// inbox, grounded on fjagepy's Gateway.match_filter: a filter may match by
// exact message class, by in-reply-to id, or via an arbitrary predicate
// function; a nil Filter always matches (Gateway.receive(filter=None)).
package fjage

// Filter decides whether a Message should be delivered to a particular
// waiter. A nil Filter always matches.
type Filter func(Message) bool

// match reports whether f matches m, treating a nil Filter as "match all".
func (f Filter) match(m Message) (matched bool, paniced bool) {
	if f == nil {
		return true, false
	}
	defer func() {
		if r := recover(); r != nil {
			matched, paniced = false, true
		}
	}()
	return f(m), false
}

// MatchAny matches every message.
func MatchAny() Filter { return func(Message) bool { return true } }

// MatchClazz matches messages whose class equals clazz, either as a fully
// qualified name or as its short trailing segment (so callers can filter on
// "ParameterRsp" without spelling out the org.arl.fjage.param prefix).
func MatchClazz(clazz string) Filter {
	short := ShortNameOf(clazz)
	return func(m Message) bool {
		return m.Clazz == clazz || m.ShortClazz() == short
	}
}

// MatchInReplyTo matches messages replying to the given message id.
func MatchInReplyTo(msgID string) Filter {
	return func(m Message) bool { return m.InReplyTo == msgID }
}

// MatchID matches a message with the given msgID.
func MatchID(msgID string) Filter {
	return func(m Message) bool { return m.MsgID == msgID }
}

// MatchPerf matches messages carrying the given performative.
func MatchPerf(p Performative) Filter {
	return func(m Message) bool { return m.Perf == p }
}

// And combines filters so all must match.
func And(filters ...Filter) Filter {
	return func(m Message) bool {
		for _, f := range filters {
			if f == nil {
				continue
			}
			if ok, _ := f.match(m); !ok {
				return false
			}
		}
		return true
	}
}
