package av1bridge

import (
	"errors"
	"fmt"
	"sync"
)

// SessionState tracks the lifecycle of an encoder session.
type SessionState int

const (
	SessionUninitialized SessionState = iota
	SessionReady
	SessionDraining
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionUninitialized:
		return "Uninitialized"
	case SessionReady:
		return "Ready"
	case SessionDraining:
		return "Draining"
	case SessionClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Session owns one live encoder engine instance plus its immutable
// configuration. All calls are synchronous: a submit either hands the
// frame to the engine and returns, or fails immediately. When the host
// submits faster than it drains, Submit blocks inside the engine call
// rather than dropping frames.
type Session struct {
	mu     sync.Mutex
	state  SessionState
	config EncoderConfig
	engine Engine

	seq      int64 // next sequence/timestamp value assigned on Submit
	lastPTS  int64 // last drained PTS, for the encode-order guarantee
	drained  bool  // at least one packet has drained
	frames   uint64
	keyfr    uint64
	outBytes uint64
}

// NewSession creates a session in the Ready state, resolving the
// engine named by the config from the registry.
func NewSession(cfg EncoderConfig) (*Session, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	return &Session{state: SessionReady, config: cfg, engine: engine}, nil
}

// NewSessionWithEngine creates a session around an externally
// constructed engine. The caller is responsible for matching the
// engine to the config.
func NewSessionWithEngine(cfg EncoderConfig, engine Engine) (*Session, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Session{state: SessionReady, config: cfg, engine: engine}, nil
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns the immutable session configuration.
func (s *Session) Config() EncoderConfig {
	return s.config
}

// Submit hands one frame to the engine. The frame's format must exactly
// match the configured input format; a mismatch is a caller contract
// violation and fails fast without touching the engine. The frame is
// consumed on success and must not be reused by the caller.
//
// Lookahead inside the engine means a submit may not yield a packet;
// output surfaces only via Drain, potentially several submissions
// later, in strict encode order.
func (s *Session) Submit(frame *PixelBuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SessionClosed:
		return fmt.Errorf("%w: submit", ErrSessionClosed)
	case SessionDraining:
		return fmt.Errorf("%w: submit after flush", ErrSessionDraining)
	}

	if frame.Format != s.config.Format {
		return fmt.Errorf("%w: frame is %s, session accepts %s", ErrFormatMismatch, frame.Format, s.config.Format)
	}
	if frame.Width != s.config.Width || frame.Height != s.config.Height {
		return fmt.Errorf("%w: frame is %dx%d, session accepts %dx%d",
			ErrFormatMismatch, frame.Width, frame.Height, s.config.Width, s.config.Height)
	}
	if err := frame.Validate(); err != nil {
		return err
	}

	pts := s.seq
	forceKey := pts == 0
	if err := s.engine.Submit(frame, pts, forceKey); err != nil {
		return s.failEngine("submit", err)
	}
	s.seq++
	s.frames++
	return nil
}

// Drain returns all packets the engine has completed, in encode order.
// Zero packets is not an error; it signals "not yet ready". After a
// Flush, the drain that observes the engine empty transitions the
// session to Closed.
func (s *Session) Drain() ([]*EncodedPacket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SessionClosed {
		return nil, fmt.Errorf("%w: drain", ErrSessionClosed)
	}

	var packets []*EncodedPacket
	for {
		ep, err := s.engine.Drain()
		if err != nil {
			return packets, s.failEngine("drain", err)
		}
		if ep == nil {
			break
		}
		if s.drained && ep.PTS <= s.lastPTS {
			return packets, s.failEngine("drain",
				fmt.Errorf("%w: packet pts %d after %d breaks encode order", ErrEngineFailure, ep.PTS, s.lastPTS))
		}
		s.lastPTS = ep.PTS
		s.drained = true

		// Copy out of the engine's output arena; the engine reuses it
		// on the next drain.
		data := make([]byte, len(ep.Data))
		copy(data, ep.Data)
		packets = append(packets, &EncodedPacket{
			Data:      data,
			FrameType: ep.FrameType,
			ShowFrame: ep.ShowFrame,
			PTS:       ep.PTS,
		})
		if ep.FrameType.IsKey() {
			s.keyfr++
		}
		s.outBytes += uint64(len(ep.Data))
	}

	if s.state == SessionDraining {
		// Engine reported empty after flush: nothing more will come.
		s.state = SessionClosed
		if err := s.engine.Close(); err != nil {
			return packets, fmt.Errorf("%w: close after drain: %v", ErrEngineFailure, err)
		}
	}
	return packets, nil
}

// Flush signals end of input and forces emission of all buffered
// packets. The session transitions to Draining; keep calling Drain
// until it reports the session Closed. Flush during Draining is a
// no-op.
func (s *Session) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SessionClosed:
		return fmt.Errorf("%w: flush", ErrSessionClosed)
	case SessionDraining:
		return nil
	}

	if err := s.engine.Flush(); err != nil {
		return s.failEngine("flush", err)
	}
	s.state = SessionDraining
	return nil
}

// Close terminates the session abruptly, discarding any unflushed
// buffered packets. This is a deliberate data-loss path; use Flush
// followed by draining when the output matters. Every call after Close
// fails with ErrSessionClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SessionClosed {
		return fmt.Errorf("%w: close", ErrSessionClosed)
	}
	s.state = SessionClosed
	return s.engine.Close()
}

// SessionStats reports encode counters for diagnostics.
type SessionStats struct {
	FramesSubmitted uint64
	PacketsKey      uint64
	BytesDrained    uint64
}

// Stats returns the session's counters.
func (s *Session) Stats() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionStats{
		FramesSubmitted: s.frames,
		PacketsKey:      s.keyfr,
		BytesDrained:    s.outBytes,
	}
}

// failEngine surfaces an unrecoverable engine fault: the crash hook is
// notified, the engine is destroyed, and the session closes. Engine
// state after an internal fault is not assumed safe to continue, so
// the failure is never retried.
func (s *Session) failEngine(op string, err error) error {
	if !errors.Is(err, ErrEngineFailure) {
		err = fmt.Errorf("%w: %s: %v", ErrEngineFailure, op, err)
	}
	reportCrash(err.Error())
	s.state = SessionClosed
	s.engine.Close()
	return err
}
