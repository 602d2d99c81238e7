// internal/wire/generic.go
// Passthrough handling for nested {"clazz":...,"data":...} values that are
// not messages, agent IDs, or packed numeric arrays, grounded on fjagepy's
// Message._value/_GenericObject: java.util.Date and java.util.ArrayList
// unwrap to their raw "data" payload, everything else with an unrecognised
// clazz becomes a GenericValue the caller can still inspect.
package wire

// GenericValue wraps a nested class-tagged object whose clazz this module
// has no typed representation for. Fields is the raw "data" payload.
type GenericValue struct {
	Clazz  string
	Fields map[string]any
}

const (
	clazzDate      = "java.util.Date"
	clazzArrayList = "java.util.ArrayList"
	clazzAgentID   = "org.arl.fjage.AgentID"
)

// ResolveValue implements fjagepy's _value(): a decoded JSON value that is a
// {"clazz":...,"data":...} map is unwrapped according to well-known clazz
// names, or wrapped in a GenericValue; an identifierFn callback (bound by
// the pkg/fjage caller) resolves org.arl.fjage.AgentID values into whatever
// identifier type the caller uses, since this package does not depend on
// pkg/fjage.
func ResolveValue(v any, identifierFn func(data any) any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	clazz, hasClazz := m["clazz"].(string)
	data, hasData := m["data"]
	if hasClazz {
		switch clazz {
		case clazzDate, clazzArrayList:
			return data
		case clazzAgentID:
			if identifierFn != nil {
				return identifierFn(data)
			}
			return data
		}
		fields, _ := data.(map[string]any)
		if fields == nil {
			fields = map[string]any{}
		}
		return GenericValue{Clazz: clazz, Fields: fields}
	}
	if hasData {
		return data
	}
	return v
}
