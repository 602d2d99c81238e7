// pkg/session/filters.go
// Convenience slicing helpers over []Frame, grounded on
// pkg/trace/filters.go's ByTimeRange/ByEventTypes/Downsample shape,
// generalised from event-type/goroutine filters to direction/time filters
// appropriate for wire-frame sessions.
package session

import "time"

// ByTimeRange returns frames whose At falls within [from, to). A zero from
// means -inf; a zero to means +inf.
func ByTimeRange(frames []Frame, from, to time.Time) []Frame {
	if from.IsZero() && to.IsZero() {
		return clone(frames)
	}
	var out []Frame
	for _, f := range frames {
		if !from.IsZero() && f.At.Before(from) {
			continue
		}
		if !to.IsZero() && !f.At.Before(to) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ByDirection keeps only frames matching dir.
func ByDirection(frames []Frame, dir Direction) []Frame {
	var out []Frame
	for _, f := range frames {
		if f.Direction == dir {
			out = append(out, f)
		}
	}
	return out
}

// Downsample returns every nth frame (n >= 2); n <= 1 returns clone(frames).
func Downsample(frames []Frame, n int) []Frame {
	if n <= 1 {
		return clone(frames)
	}
	out := make([]Frame, 0, len(frames)/n+1)
	for i := 0; i < len(frames); i += n {
		out = append(out, frames[i])
	}
	return out
}

func clone(src []Frame) []Frame {
	if len(src) == 0 {
		return nil
	}
	dst := make([]Frame, len(src))
	copy(dst, src)
	return dst
}
