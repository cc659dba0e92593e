package av1bridge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"
)

// EncoderConfig holds the recognized encoder options. A config is
// immutable once a session has been constructed from it.
type EncoderConfig struct {
	Width  int
	Height int

	// Format is the pixel format the session accepts on Submit, after
	// color conversion. Only planar formats are valid encoder input.
	Format PixelFormat

	Speed            int  // effort preset, 0 (slowest) to 10 (fastest)
	BitrateKbps      int  // target bitrate; 0 selects constant-quantizer mode
	Quantizer        int  // base quantizer, 0 to 255
	TileCols         int  // log2 tile columns
	TileRows         int  // log2 tile rows
	KeyframeInterval int  // maximum GOP length in frames; 0 disables forced keyframes
	FPS              int  // timebase hint for the engine
	Threads          int  // 0 = engine default
	LowLatency       bool // disable lookahead inside the engine

	// Engine names the registered engine factory to use.
	Engine string
}

// DefaultEncoderConfig returns the documented defaults. These mirror
// the engine's own defaults exactly, so loading a config that omits a
// key never changes more than the supplied fields.
func DefaultEncoderConfig() EncoderConfig {
	return EncoderConfig{
		Format:           PixelFormatI420,
		Speed:            6,
		BitrateKbps:      0,
		Quantizer:        100,
		TileCols:         0,
		TileRows:         0,
		KeyframeInterval: 240,
		FPS:              30,
		Threads:          0,
		LowLatency:       false,
		Engine:           "native",
	}
}

// LoadConfig deserializes a textual configuration payload supplied by
// the host. The payload is a JSON document; comments and trailing
// commas are tolerated. Unrecognized keys are ignored for forward
// compatibility. A malformed value for a recognized key fails with
// ErrInvalidConfigValue naming the key. Empty input yields the
// defaults.
func LoadConfig(text string) (EncoderConfig, error) {
	cfg := DefaultEncoderConfig()

	if strings.TrimSpace(text) == "" {
		return cfg, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON([]byte(text)), &raw); err != nil {
		return cfg, fmt.Errorf("%w: document: %v", ErrInvalidConfigValue, err)
	}

	for key, val := range raw {
		var err error
		switch key {
		case "width":
			err = loadInt(&cfg.Width, val, 1, 65535)
		case "height":
			err = loadInt(&cfg.Height, val, 1, 65535)
		case "format":
			err = loadFormat(&cfg.Format, val)
		case "speed":
			err = loadInt(&cfg.Speed, val, 0, 10)
		case "bitrate_kbps":
			err = loadInt(&cfg.BitrateKbps, val, 0, 1<<30)
		case "quantizer":
			err = loadInt(&cfg.Quantizer, val, 0, 255)
		case "tile_cols":
			err = loadInt(&cfg.TileCols, val, 0, 6)
		case "tile_rows":
			err = loadInt(&cfg.TileRows, val, 0, 6)
		case "keyframe_interval":
			err = loadInt(&cfg.KeyframeInterval, val, 0, 1<<20)
		case "fps":
			err = loadInt(&cfg.FPS, val, 1, 1000)
		case "threads":
			err = loadInt(&cfg.Threads, val, 0, 256)
		case "low_latency":
			err = json.Unmarshal(val, &cfg.LowLatency)
		case "engine":
			err = json.Unmarshal(val, &cfg.Engine)
		default:
			// Unknown key: ignored.
			continue
		}
		if err != nil {
			return DefaultEncoderConfig(), fmt.Errorf("%w: %q: %v", ErrInvalidConfigValue, key, err)
		}
	}

	return cfg, nil
}

func loadInt(dst *int, raw json.RawMessage, min, max int) error {
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	if v < min || v > max {
		return fmt.Errorf("%d out of range [%d, %d]", v, min, max)
	}
	*dst = v
	return nil
}

func loadFormat(dst *PixelFormat, raw json.RawMessage) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return err
	}
	switch name {
	case "I420":
		*dst = PixelFormatI420
	case "I444":
		*dst = PixelFormatI444
	default:
		return fmt.Errorf("unknown encoder input format %q", name)
	}
	return nil
}

// validateConfig checks the fields a session requires beyond the range
// checks LoadConfig performs.
func validateConfig(cfg EncoderConfig) error {
	if cfg.Width <= 0 {
		return fmt.Errorf("%w: %q: missing or non-positive", ErrInvalidConfigValue, "width")
	}
	if cfg.Height <= 0 {
		return fmt.Errorf("%w: %q: missing or non-positive", ErrInvalidConfigValue, "height")
	}
	if !cfg.Format.Planar() {
		return fmt.Errorf("%w: %q: encoder input must be planar, got %s", ErrInvalidConfigValue, "format", cfg.Format)
	}
	return nil
}
