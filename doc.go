// Package av1bridge exposes a native AV1 encoder to script hosts
// across a sandbox boundary.
//
// The bridge accepts raw pixel frames captured from host visual
// elements (canvas, image, video surfaces), converts them to the
// planar format the encoder requires, drives the external encoder
// engine frame by frame, and returns compressed packets plus metadata
// in a boundary-safe form.
//
// # Architecture
//
//	FrameProvider -> BufferManager -> Converter -> Session -> MarshalPacket -> host
//
// Pixel buffers are single-owner: the component holding a buffer owns
// it exclusively, and ownership transfers explicitly at each stage.
// The BufferManager issues handles for buffers transferred in from the
// host; a released handle is permanently invalid.
//
// A Session wraps one encoder engine instance. The engine's lookahead
// means Submit may not immediately yield output; packets surface via
// Drain, in strict encode order. Flush signals end of input, after
// which draining to empty closes the session.
//
// All calls are synchronous. The bridge never blocks indefinitely and
// never spawns background work; the host's event loop provides any
// desired asynchrony.
//
// # Native Engine
//
// The default engine binds libbridge_av1 via purego (CGO_ENABLED=0).
// Set BRIDGE_AV1_LIB_PATH to the library location. Alternative
// backends register through RegisterEngine.
//
// # Output Sinks
//
// Marshaled packets can be forwarded as-is, written to IVF or
// fragmented MP4 via host-supplied writers, packetized for RTP, or
// published on a WebRTC sample track.
package av1bridge
