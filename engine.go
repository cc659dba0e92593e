package av1bridge

import (
	"fmt"
	"sync"
)

// EnginePacket is one encoded unit surfaced by an engine. The Data
// slice is owned by the engine's output arena and is only valid until
// the next Drain call; the session copies what it keeps.
type EnginePacket struct {
	Data      []byte
	FrameType FrameType
	ShowFrame bool
	PTS       int64
}

// Engine is the opaque external AV1 encoder. The bridge drives it
// frame by frame and treats its internals (lookahead, reordering, rate
// control) as a black box; only the submit/drain ordering contract
// matters here.
type Engine interface {
	// Submit hands one frame to the engine. Lookahead means a submit
	// may not immediately produce a packet.
	Submit(frame *PixelBuffer, pts int64, forceKeyframe bool) error

	// Drain returns the next completed packet in bitstream order, or
	// (nil, nil) when none is ready. Absence of a packet is not an
	// error.
	Drain() (*EnginePacket, error)

	// Flush signals end of input and forces emission of all buffered
	// packets on subsequent Drain calls.
	Flush() error

	// Close releases the engine. No calls are valid afterwards.
	Close() error
}

// EngineFactory constructs an engine for a validated config.
type EngineFactory func(EncoderConfig) (Engine, error)

type engineRegistry struct {
	mu        sync.RWMutex
	factories map[string]EngineFactory
}

var globalEngineRegistry = &engineRegistry{
	factories: make(map[string]EngineFactory),
}

// RegisterEngine registers an engine factory under a name. The native
// library binding registers itself as "native"; tests and alternative
// backends may register their own.
func RegisterEngine(name string, factory EngineFactory) {
	globalEngineRegistry.mu.Lock()
	defer globalEngineRegistry.mu.Unlock()
	globalEngineRegistry.factories[name] = factory
}

// Engines returns the names of all registered engine factories.
func Engines() []string {
	globalEngineRegistry.mu.RLock()
	defer globalEngineRegistry.mu.RUnlock()
	names := make([]string, 0, len(globalEngineRegistry.factories))
	for name := range globalEngineRegistry.factories {
		names = append(names, name)
	}
	return names
}

func newEngine(cfg EncoderConfig) (Engine, error) {
	name := cfg.Engine
	if name == "" {
		name = "native"
	}

	globalEngineRegistry.mu.RLock()
	factory, ok := globalEngineRegistry.factories[name]
	globalEngineRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEngineNotFound, name)
	}
	return factory(cfg)
}
