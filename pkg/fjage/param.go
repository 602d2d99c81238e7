// pkg/fjage/param.go
// ParameterReq/ParameterRsp fluent builders, grounded on fjagepy's
// ParameterReq.get/set (chaining additional (param[, value]) pairs into a
// "requests" list after the first is absorbed into the bare param/value
// fields) and ParameterRsp.get/parameters (merging the single param/value
// pair with the "values" map).
package fjage

// ParamPair is one entry of a ParameterReq's Requests list: a parameter name
// and, for a set, its new value.
type ParamPair struct {
	Param string
	Value any
}

// ParameterReq requests one or more parameter gets/sets from an agent in a
// single round trip.
type ParameterReq struct {
	Index    int
	Param    string
	Value    any
	Requests []ParamPair
}

// NewParameterReq returns an empty, unindexed ParameterReq.
func NewParameterReq() ParameterReq {
	return ParameterReq{Index: noIndex}
}

// Get queues a parameter read. The first call is stored in Param; subsequent
// calls append to Requests, matching fjagepy's ParameterReq.get.
func (r ParameterReq) Get(param string) ParameterReq {
	if r.Param == "" {
		r.Param = param
	} else {
		r.Requests = append(append([]ParamPair{}, r.Requests...), ParamPair{Param: param})
	}
	return r
}

// Set queues a parameter write. The first call occupies Param/Value;
// subsequent calls append to Requests, matching fjagepy's ParameterReq.set.
func (r ParameterReq) Set(param string, value any) ParameterReq {
	if r.Param == "" && r.Value == nil {
		r.Param = param
		r.Value = value
	} else {
		r.Requests = append(append([]ParamPair{}, r.Requests...), ParamPair{Param: param, Value: value})
	}
	return r
}

// WithIndex returns a copy of r scoped to the given device/channel index.
func (r ParameterReq) WithIndex(index int) ParameterReq {
	r.Index = index
	return r
}

// ToMessage renders r into a sendable Message of clazz ParameterReq.
func (r ParameterReq) ToMessage() Message {
	m := newMessageOfClazz(ClazzParameterReq).WithPerf(Request)
	m = m.Set("index", r.Index)
	if r.Param != "" {
		m = m.Set("param", r.Param)
	}
	if r.Value != nil {
		m = m.Set("value", r.Value)
	}
	reqs := make([]map[string]any, 0, len(r.Requests))
	for _, p := range r.Requests {
		e := map[string]any{"param": p.Param}
		if p.Value != nil {
			e["value"] = p.Value
		}
		reqs = append(reqs, e)
	}
	m = m.Set("requests", reqs)
	return m
}

// ParameterRsp is the decoded reply to a ParameterReq.
type ParameterRsp struct {
	Index  int
	Param  string
	Value  any
	Values map[string]any
}

// ParameterRspFromMessage extracts a ParameterRsp view from a reply Message.
func ParameterRspFromMessage(m Message) ParameterRsp {
	rsp := ParameterRsp{Index: noIndex, Values: map[string]any{}}
	if v, ok := m.Get("index"); ok {
		if f, ok := v.(float64); ok {
			rsp.Index = int(f)
		}
	}
	if v, ok := m.Get("param"); ok {
		if s, ok := v.(string); ok {
			rsp.Param = s
		}
	}
	if v, ok := m.Get("value"); ok {
		rsp.Value = v
	}
	if v, ok := m.Get("values"); ok {
		if mm, ok := v.(map[string]any); ok {
			rsp.Values = mm
		}
	}
	return rsp
}

// Get returns the value of param, matching on the bare field first, then the
// Values map, falling back to a short-name match against both (an agent may
// echo a fully qualified parameter name while the caller asked with its
// short form, or vice versa).
func (r ParameterRsp) Get(param string) (any, bool) {
	if r.Param != "" && (r.Param == param || ShortNameOf(r.Param) == ShortNameOf(param)) {
		return r.Value, true
	}
	if v, ok := r.Values[param]; ok {
		return v, true
	}
	for k, v := range r.Values {
		if ShortNameOf(k) == ShortNameOf(param) {
			return v, true
		}
	}
	return nil, false
}

// Parameters returns every parameter in the response as a flat map.
func (r ParameterRsp) Parameters() map[string]any {
	out := make(map[string]any, len(r.Values)+1)
	for k, v := range r.Values {
		out[k] = v
	}
	if r.Param != "" {
		out[r.Param] = r.Value
	}
	return out
}
