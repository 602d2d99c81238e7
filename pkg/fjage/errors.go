// pkg/fjage/errors.go
// Typed error taxonomy for the gateway façade, mirrored on the teacher's
// sentinel-error style in internal/gateway/auth.go (ErrInvalidToken,
// ErrUnauthenticated). Callers should use errors.Is against these sentinels
// rather than string-matching.
package fjage

import "errors"

var (
	// ErrTransportUnavailable is returned by New/Open when the transport's
	// initial connection attempt fails.
	ErrTransportUnavailable = errors.New("fjage: transport unavailable")

	// ErrTransportBroken is returned when writing a frame to the transport
	// fails (connection lost, reconnect in progress, or transport closed).
	ErrTransportBroken = errors.New("fjage: transport broken")

	// ErrDecodeFault is returned when an outbound envelope cannot be encoded.
	// Malformed inbound frames are logged and dropped by the read loop
	// rather than returned.
	ErrDecodeFault = errors.New("fjage: decode fault")

	// ErrCorrelationMiss names a platform answer whose id matches no pending
	// query (already timed out, or was never sent). The Gateway drops such
	// frames with a debug log entry; no Gateway method returns this error.
	ErrCorrelationMiss = errors.New("fjage: correlation miss")

	// ErrTimeout is returned by blocking operations whose deadline elapsed
	// before a matching reply or message arrived.
	ErrTimeout = errors.New("fjage: timeout")

	// ErrInvalidArgument is returned for caller-supplied arguments that
	// violate a documented precondition (an identifier with no bound
	// Gateway).
	ErrInvalidArgument = errors.New("fjage: invalid argument")

	// ErrPredicateFault is logged when a receiver filter function panics;
	// the panic is recovered and the filter counts as a non-match.
	ErrPredicateFault = errors.New("fjage: predicate fault")

	// ErrClosed is returned by any operation attempted on a Gateway after
	// Close has been called.
	ErrClosed = errors.New("fjage: gateway closed")
)
