// internal/wire/uuid7.go
// Message identifiers on the fjåge wire are UUID7 strings: time-ordered
// 128-bit identifiers so that log correlation and replay tooling can sort
// messages by send time without a separate sequence counter. google/uuid
// implements RFC 9562 UUIDv7 generation directly (NewV7), so no manual
// construction (as fjagepy's UUID7.py does by hand) is needed here.
package wire

import "github.com/google/uuid"

// NewMessageID returns a new UUID7 string suitable for Message.MsgID.
func NewMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// entropy/clock failure; fall back to a random v4 rather than panic,
		// since message-id collisions are far worse than losing time-order.
		return uuid.NewString()
	}
	return id.String()
}
