// internal/wire/numeric.go
// Numeric/complex array handling for the fjåge JSON wire format, grounded on
// fjagepy's JSONMessage._decode_base64 and Message._serialize_numpy_array.
//
// On the wire, primitive numeric arrays are sometimes packed as
// {"clazz":"[I","data":"<base64>"} (little-endian, one of [B,[S,[I,[J,[F,[D)
// instead of a plain JSON number array. Decoding must unpack these; encoding
// deliberately never re-packs them (see the comment at the end of this file
// and DESIGN.md for why).
package wire

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

// numericClazzWidth maps a fjåge base64-array clazz tag to the element byte width.
var numericClazzWidth = map[string]int{
	"[B": 1, // int8
	"[S": 2, // int16
	"[I": 4, // int32
	"[J": 8, // int64
	"[F": 4, // float32
	"[D": 8, // float64
}

// IsPackedNumericClazz reports whether clazz names a base64-packed numeric
// array (exactly one of [B,[S,[I,[J,[F,[D).
func IsPackedNumericClazz(clazz string) bool {
	_, ok := numericClazzWidth[clazz]
	return ok
}

// DecodePackedNumericArray decodes a base64 payload tagged with one of the
// packed-numeric clazz strings into a []float64 (the Go side deals uniformly
// in float64 regardless of source width, matching fjagepy's use of plain
// Python numbers once unpacked).
func DecodePackedNumericArray(clazz, b64 string) ([]float64, error) {
	width, ok := numericClazzWidth[clazz]
	if !ok {
		return nil, fmt.Errorf("wire: not a packed numeric clazz: %q", clazz)
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("wire: base64 decode %q: %w", clazz, err)
	}
	if len(raw)%width != 0 {
		return nil, fmt.Errorf("wire: %q payload length %d not a multiple of %d", clazz, len(raw), width)
	}
	n := len(raw) / width
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		chunk := raw[i*width : (i+1)*width]
		switch clazz {
		case "[B":
			out[i] = float64(int8(chunk[0]))
		case "[S":
			out[i] = float64(int16(binary.LittleEndian.Uint16(chunk)))
		case "[I":
			out[i] = float64(int32(binary.LittleEndian.Uint32(chunk)))
		case "[J":
			out[i] = float64(int64(binary.LittleEndian.Uint64(chunk)))
		case "[F":
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(chunk)))
		case "[D":
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(chunk))
		}
	}
	return out, nil
}

// DeinterleaveComplex turns a flat [re0,im0,re1,im1,...] array (as produced
// for a field marked "<key>__isComplex":true) into complex128 values,
// matching fjagepy's from_json complex-pair reconstruction.
func DeinterleaveComplex(flat []float64) ([]complex128, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("wire: complex array has odd length %d", len(flat))
	}
	out := make([]complex128, len(flat)/2)
	for i := range out {
		out[i] = complex(flat[2*i], flat[2*i+1])
	}
	return out, nil
}

// InterleaveComplex is the encode-side inverse of DeinterleaveComplex, used
// whenever a caller sets a []complex128 field before Send/Request.
func InterleaveComplex(values []complex128) []float64 {
	out := make([]float64, 0, len(values)*2)
	for _, c := range values {
		out = append(out, real(c), imag(c))
	}
	return out
}

// Outgoing numeric arrays are always emitted as plain JSON number arrays,
// never re-packed into a "[X"/base64 envelope. fjåge containers accept plain
// arrays on the SEND path; the packed form only ever appears on messages the
// container itself originates. Re-packing here would require guessing an
// element width the caller never specified and buys no interoperability
// benefit, so internal/wire intentionally has no EncodePackedNumericArray.
