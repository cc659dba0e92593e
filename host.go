package av1bridge

import "sync"

// FrameProvider models a host-managed visual element (canvas, video or
// image surface) as an opaque capability that yields pixel buffers on
// demand. Implement one adapter per host environment.
type FrameProvider interface {
	// NextFrame captures the element's current contents. The returned
	// buffer is owned by the caller.
	NextFrame() (*PixelBuffer, error)
}

// ProviderFunc adapts a function to the FrameProvider interface.
type ProviderFunc func() (*PixelBuffer, error)

// NextFrame implements FrameProvider.
func (f ProviderFunc) NextFrame() (*PixelBuffer, error) { return f() }

var (
	crashMu sync.Mutex
	crashFn func(msg string)
)

// SetCrashHandler installs a process-wide hook that receives a
// human-readable message when an unrecoverable engine fault occurs,
// just before the owning session becomes unusable. Hosts typically
// forward the message to their logging surface. A nil handler removes
// the hook.
func SetCrashHandler(fn func(msg string)) {
	crashMu.Lock()
	crashFn = fn
	crashMu.Unlock()
}

func reportCrash(msg string) {
	crashMu.Lock()
	fn := crashFn
	crashMu.Unlock()
	if fn != nil {
		fn(msg)
	}
}
