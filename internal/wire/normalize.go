// internal/wire/normalize.go
// NormalizeJSON walks a generically-decoded JSON tree (the result of
// json.Unmarshal into `any`) and replaces every
// {"clazz":"[X","data":"<base64>"} object with the unpacked []float64,
// reproducing fjagepy's JSONMessage._decode_base64 object_hook, which Go's
// encoding/json has no equivalent hook for.
package wire

func NormalizeJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if clazz, ok := t["clazz"].(string); ok && len(clazz) == 2 && IsPackedNumericClazz(clazz) {
			if b64, ok := t["data"].(string); ok {
				if arr, err := DecodePackedNumericArray(clazz, b64); err == nil {
					return arr
				}
			}
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = NormalizeJSON(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = NormalizeJSON(e)
		}
		return out
	default:
		return v
	}
}
