//go:build darwin || linux

// Native AV1 engine binding via libbridge_av1 using purego.

package av1bridge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	bridgeAV1Once    sync.Once
	bridgeAV1Handle  uintptr
	bridgeAV1InitErr error
	bridgeAV1Loaded  bool
)

// libbridge_av1 function pointers
var (
	bridgeAV1EncoderCreate        func(width, height, fps, bitrateKbps, quantizer, speed, tileCols, tileRows, keyint, threads, lowLatency int32) uint64
	bridgeAV1EncoderSubmit        func(encoder uint64, yPlane, uPlane, vPlane uintptr, yStride, uvStride int32, pts int64, forceKeyframe int32) int32
	bridgeAV1EncoderDrain         func(encoder uint64, outData uintptr, outCapacity int32, outFrameType, outShowFrame, outPts uintptr) int32
	bridgeAV1EncoderFlush         func(encoder uint64) int32
	bridgeAV1EncoderMaxOutputSize func(encoder uint64) int32
	bridgeAV1EncoderDestroy       func(encoder uint64)

	bridgeAV1GetError         func() uintptr
	bridgeAV1EncoderAvailable func() int32
)

// Constants from bridge_av1.h
const (
	bridgeAV1FrameKey       = 0
	bridgeAV1FrameInter     = 1
	bridgeAV1FrameIntraOnly = 2
	bridgeAV1FrameSwitch    = 3

	bridgeAV1OK           = 0
	bridgeAV1Error        = -1
	bridgeAV1ErrorNoMem   = -2
	bridgeAV1ErrorInvalid = -3
	bridgeAV1ErrorCodec   = -4
)

func loadBridgeAV1() error {
	bridgeAV1Once.Do(func() {
		bridgeAV1InitErr = loadBridgeAV1Lib()
		if bridgeAV1InitErr == nil {
			bridgeAV1Loaded = true
		}
	})
	return bridgeAV1InitErr
}

func loadBridgeAV1Lib() error {
	paths := getBridgeAV1LibPaths()

	var lastErr error
	for _, path := range paths {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			bridgeAV1Handle = handle
			loadBridgeAV1Symbols()
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to load libbridge_av1: %w", lastErr)
	}
	return errors.New("libbridge_av1 not found in any standard location")
}

func getBridgeAV1LibPaths() []string {
	var paths []string

	libName := "libbridge_av1.so"
	if runtime.GOOS == "darwin" {
		libName = "libbridge_av1.dylib"
	}

	// Environment variable overrides (highest priority)
	if envPath := os.Getenv("BRIDGE_AV1_LIB_PATH"); envPath != "" {
		paths = append(paths, envPath)
	}
	if envPath := os.Getenv("BRIDGE_SDK_LIB_PATH"); envPath != "" {
		paths = append(paths, filepath.Join(envPath, libName))
	}

	// Search relative to executable location
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, libName),
			filepath.Join(exeDir, "..", "lib", libName),
		)
	}

	// Search relative to the module root (find go.mod from cwd)
	if moduleRoot := findModuleRoot(); moduleRoot != "" {
		paths = append(paths,
			filepath.Join(moduleRoot, "build", libName),
			filepath.Join(moduleRoot, "build", "ffi", libName),
		)
	}

	// System paths (lowest priority)
	switch runtime.GOOS {
	case "darwin":
		paths = append(paths,
			"libbridge_av1.dylib",
			"/usr/local/lib/libbridge_av1.dylib",
			"/opt/homebrew/lib/libbridge_av1.dylib",
		)
	case "linux":
		paths = append(paths,
			"libbridge_av1.so",
			"/usr/local/lib/libbridge_av1.so",
			"/usr/lib/libbridge_av1.so",
		)
	}

	return paths
}

func loadBridgeAV1Symbols() {
	purego.RegisterLibFunc(&bridgeAV1EncoderCreate, bridgeAV1Handle, "bridge_av1_encoder_create")
	purego.RegisterLibFunc(&bridgeAV1EncoderSubmit, bridgeAV1Handle, "bridge_av1_encoder_submit")
	purego.RegisterLibFunc(&bridgeAV1EncoderDrain, bridgeAV1Handle, "bridge_av1_encoder_drain")
	purego.RegisterLibFunc(&bridgeAV1EncoderFlush, bridgeAV1Handle, "bridge_av1_encoder_flush")
	purego.RegisterLibFunc(&bridgeAV1EncoderMaxOutputSize, bridgeAV1Handle, "bridge_av1_encoder_max_output_size")
	purego.RegisterLibFunc(&bridgeAV1EncoderDestroy, bridgeAV1Handle, "bridge_av1_encoder_destroy")

	purego.RegisterLibFunc(&bridgeAV1GetError, bridgeAV1Handle, "bridge_av1_get_error")
	purego.RegisterLibFunc(&bridgeAV1EncoderAvailable, bridgeAV1Handle, "bridge_av1_encoder_available")
}

// IsNativeEngineAvailable checks if libbridge_av1 can be loaded and
// reports an available encoder.
func IsNativeEngineAvailable() bool {
	if err := loadBridgeAV1(); err != nil {
		return false
	}
	return bridgeAV1Loaded && bridgeAV1EncoderAvailable() != 0
}

func getBridgeAV1Error() string {
	ptr := bridgeAV1GetError()
	if ptr == 0 {
		return "unknown error"
	}
	return goStringFromPtr(ptr)
}

// nativeEngine implements Engine on top of libbridge_av1.
type nativeEngine struct {
	handle    uint64
	outputBuf []byte
	mu        sync.Mutex
}

func newNativeEngine(cfg EncoderConfig) (Engine, error) {
	if err := loadBridgeAV1(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineNotFound, err)
	}
	if bridgeAV1EncoderAvailable() == 0 {
		return nil, fmt.Errorf("%w: libbridge_av1 built without encoder", ErrEngineNotFound)
	}
	if cfg.Format != PixelFormatI420 {
		return nil, fmt.Errorf("%w: native engine accepts I420, config requests %s", ErrInvalidConfigValue, cfg.Format)
	}

	lowLatency := int32(0)
	if cfg.LowLatency {
		lowLatency = 1
	}

	handle := bridgeAV1EncoderCreate(
		int32(cfg.Width),
		int32(cfg.Height),
		int32(cfg.FPS),
		int32(cfg.BitrateKbps),
		int32(cfg.Quantizer),
		int32(cfg.Speed),
		int32(cfg.TileCols),
		int32(cfg.TileRows),
		int32(cfg.KeyframeInterval),
		int32(cfg.Threads),
		lowLatency,
	)
	if handle == 0 {
		return nil, fmt.Errorf("%w: create: %s", ErrEngineFailure, getBridgeAV1Error())
	}

	maxOutput := bridgeAV1EncoderMaxOutputSize(handle)
	if maxOutput <= 0 {
		maxOutput = int32(cfg.Width * cfg.Height * 3 / 2)
	}

	return &nativeEngine{
		handle:    handle,
		outputBuf: make([]byte, maxOutput),
	}, nil
}

// Submit implements Engine.
func (e *nativeEngine) Submit(frame *PixelBuffer, pts int64, forceKeyframe bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == 0 {
		return fmt.Errorf("%w: engine destroyed", ErrEngineFailure)
	}

	force := int32(0)
	if forceKeyframe {
		force = 1
	}

	yPlane := frame.Plane(0)
	uPlane := frame.Plane(1)
	vPlane := frame.Plane(2)

	result := bridgeAV1EncoderSubmit(
		e.handle,
		uintptr(unsafe.Pointer(&yPlane[0])),
		uintptr(unsafe.Pointer(&uPlane[0])),
		uintptr(unsafe.Pointer(&vPlane[0])),
		int32(frame.Stride),
		int32(frame.ChromaStride()),
		pts,
		force,
	)
	if result < 0 {
		return fmt.Errorf("%w: submit: %s", ErrEngineFailure, getBridgeAV1Error())
	}
	return nil
}

// Drain implements Engine.
func (e *nativeEngine) Drain() (*EnginePacket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == 0 {
		return nil, fmt.Errorf("%w: engine destroyed", ErrEngineFailure)
	}

	var frameType, showFrame int32
	var pts int64

	result := bridgeAV1EncoderDrain(
		e.handle,
		uintptr(unsafe.Pointer(&e.outputBuf[0])),
		int32(len(e.outputBuf)),
		uintptr(unsafe.Pointer(&frameType)),
		uintptr(unsafe.Pointer(&showFrame)),
		uintptr(unsafe.Pointer(&pts)),
	)
	if result < 0 {
		return nil, fmt.Errorf("%w: drain: %s", ErrEngineFailure, getBridgeAV1Error())
	}
	if result == 0 {
		return nil, nil
	}

	ft := FrameTypeInter
	switch frameType {
	case bridgeAV1FrameKey:
		ft = FrameTypeKey
	case bridgeAV1FrameIntraOnly:
		ft = FrameTypeIntraOnly
	case bridgeAV1FrameSwitch:
		ft = FrameTypeSwitch
	}

	return &EnginePacket{
		Data:      e.outputBuf[:result],
		FrameType: ft,
		ShowFrame: showFrame != 0,
		PTS:       pts,
	}, nil
}

// Flush implements Engine.
func (e *nativeEngine) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == 0 {
		return fmt.Errorf("%w: engine destroyed", ErrEngineFailure)
	}
	if bridgeAV1EncoderFlush(e.handle) != bridgeAV1OK {
		return fmt.Errorf("%w: flush: %s", ErrEngineFailure, getBridgeAV1Error())
	}
	return nil
}

// Close implements Engine.
func (e *nativeEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle != 0 {
		bridgeAV1EncoderDestroy(e.handle)
		e.handle = 0
	}
	return nil
}

func init() {
	RegisterEngine("native", newNativeEngine)
}
