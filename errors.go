package av1bridge

import "errors"

// Error taxonomy for the bridge. Every fallible operation returns one of
// these sentinels (possibly wrapped with context) so hosts can branch
// with errors.Is instead of string matching.
var (
	// ErrMalformedBuffer indicates a pixel buffer whose declared
	// dimensions or stride are inconsistent with its storage length.
	ErrMalformedBuffer = errors.New("malformed pixel buffer")

	// ErrUnsupportedFormat indicates no conversion routine is registered
	// for the requested format pair.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")

	// ErrInvalidConfigValue indicates a recognized configuration key
	// carried a malformed or out-of-range value.
	ErrInvalidConfigValue = errors.New("invalid config value")

	// ErrFormatMismatch indicates a frame submitted to a session whose
	// configured input format differs. This is a caller contract
	// violation and fails fast.
	ErrFormatMismatch = errors.New("frame format mismatch")

	// ErrSessionClosed indicates an operation on a closed session.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionDraining indicates a submit after Flush.
	ErrSessionDraining = errors.New("session draining")

	// ErrEngineFailure wraps an opaque fault reported by the encoder
	// engine. The session transitions to Closed; engine state after an
	// internal fault is not assumed safe to continue.
	ErrEngineFailure = errors.New("encoder engine failure")

	// ErrEngineNotFound indicates no engine is registered under the
	// configured name.
	ErrEngineNotFound = errors.New("encoder engine not available")

	// ErrPacketConsumed indicates a packet was marshaled twice.
	ErrPacketConsumed = errors.New("packet already consumed")

	// ErrBufferReleased indicates use of a frame handle after Release.
	ErrBufferReleased = errors.New("buffer handle released")
)
