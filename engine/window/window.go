package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetCursorMoveCallback sets the callback for cursor movement.
	// Coordinates are framebuffer pixels with sub-pixel precision,
	// origin at the top-left corner.
	//
	// Parameters:
	//   - callback: function receiving cursor x, y position
	SetCursorMoveCallback(callback func(x, y float32))

	// SetCursorLeaveCallback sets the callback invoked when the cursor enters
	// or leaves the window's content area.
	//
	// Parameters:
	//   - callback: function receiving true when the cursor leaves the window
	SetCursorLeaveCallback(callback func(left bool))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// heroWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type heroWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the framebuffer is resized.
	onResize func(width, height int)

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)

	// onCursorMove is called when the cursor moves within the window.
	onCursorMove func(x, y float32)

	// onCursorLeave is called when the cursor enters or leaves the window.
	onCursorLeave func(left bool)
}

var _ Window = &heroWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window (not yet spawned)
func NewWindow(options ...WindowBuilderOption) Window {
	w := &heroWindow{
		title:  "Hero Grid",
		width:  1280,
		height: 720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *heroWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *heroWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *heroWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *heroWindow) SetCursorMoveCallback(callback func(x, y float32)) {
	w.onCursorMove = callback
}

func (w *heroWindow) SetCursorLeaveCallback(callback func(left bool)) {
	w.onCursorLeave = callback
}

func (w *heroWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *heroWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *heroWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *heroWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *heroWindow) Width() int {
	return w.width
}

func (w *heroWindow) Height() int {
	return w.height
}
