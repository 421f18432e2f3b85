package renderer

import (
	"github.com/Carmen-Shannon/herogrid/engine/mesh"
	"github.com/Carmen-Shannon/herogrid/engine/window"
)

// BackendType enumerates the supported rendering backends.
type BackendType int

const (
	// BackendTypeWGPU selects the WebGPU backend. It is currently the only
	// backend and the default for new renderers.
	BackendTypeWGPU BackendType = iota
)

// PresentMode controls how finished frames are handed to the display.
type PresentMode int

const (
	// PresentModeVSync synchronizes presentation with the display refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames as fast as they are produced.
	PresentModeUncapped
)

// MSAASampleCount is the fixed multisample count used for every render target.
const MSAASampleCount = 4

// GPUInstance is the per-instance record uploaded to the instance storage
// buffers each frame. The layout matches the Instance struct declared in the
// grid shaders: a column-major model matrix followed by an RGBA color.
type GPUInstance struct {
	Model [16]float32
	Color [4]float32
}

// Renderer is the drawing surface for the cube grid. It owns the GPU device,
// the swap chain, and the two fixed pipelines (solid fill and wireframe) that
// the grid is drawn with.
//
// The frame protocol is BeginFrame, zero or more WriteInstances/DrawGrid
// pairs, EndFrame, Present. All methods must be called from the thread that
// created the renderer.
type Renderer interface {
	// Resize reconfigures the swap chain and depth/multisample targets for a
	// new surface size. Zero dimensions are ignored.
	//
	// Parameters:
	//   - width: new surface width in pixels
	//   - height: new surface height in pixels
	Resize(width, height int)

	// SetPresentMode switches between vsync and uncapped presentation. The
	// change takes effect on the next surface configuration.
	//
	// Parameters:
	//   - mode: the presentation mode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the background color used when clearing the frame.
	//
	// Parameters:
	//   - r, g, b: color channels in [0, 1]
	SetClearColor(r, g, b float32)

	// InitGridResources uploads the shared fill and edge geometry and
	// allocates instance storage for up to maxInstances cubes. It must be
	// called once before the first frame.
	//
	// Parameters:
	//   - fill: triangle-list mesh shared by the solid pipeline
	//   - edges: line-list mesh shared by the wireframe pipeline
	//   - maxInstances: capacity of each instance buffer
	//
	// Returns:
	//   - error: if any GPU resource could not be created
	InitGridResources(fill, edges mesh.Mesh, maxInstances int) error

	// WriteCamera uploads the combined view-projection matrix to the camera
	// uniform buffer.
	//
	// Parameters:
	//   - viewProj: column-major view-projection matrix
	WriteCamera(viewProj [16]float32)

	// WriteInstances uploads the per-cube instance data for the current
	// frame. Slices longer than the configured capacity are truncated.
	//
	// Parameters:
	//   - fill: instances drawn by the solid pipeline
	//   - edges: instances drawn by the wireframe pipeline
	WriteInstances(fill, edges []GPUInstance)

	// BeginFrame acquires the next surface texture and opens the frame's
	// render pass, clearing color and depth.
	//
	// Returns:
	//   - error: if the surface texture could not be acquired
	BeginFrame() error

	// DrawGrid records the draw calls for the grid: fillCount solid cubes
	// followed by edgeCount wireframe cubes.
	//
	// Parameters:
	//   - fillCount: number of solid instances to draw
	//   - edgeCount: number of wireframe instances to draw
	DrawGrid(fillCount, edgeCount uint32)

	// EndFrame closes the render pass and submits the frame's command buffer
	// to the GPU queue.
	EndFrame()

	// Present hands the finished frame to the display.
	Present()

	// Release destroys all GPU resources owned by the renderer. It is safe to
	// call more than once.
	Release()
}

// renderer is the implementation of the Renderer interface. It delegates all
// GPU work to a rendererBackend selected by BackendType.
type renderer struct {
	backendType BackendType
	backend     rendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingClearColor    *[3]float32
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance drawing to the given window's
// surface. The renderer requests a GPU adapter and device during construction
// and panics if neither is available.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window whose surface the renderer draws to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType BackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		c := *r.pendingClearColor
		r.backend.SetClearColor(c[0], c[1], c[2])
	}

	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(red, green, blue float32) {
	r.backend.SetClearColor(red, green, blue)
}

func (r *renderer) InitGridResources(fill, edges mesh.Mesh, maxInstances int) error {
	return r.backend.InitGridResources(fill, edges, maxInstances)
}

func (r *renderer) WriteCamera(viewProj [16]float32) {
	r.backend.WriteCamera(viewProj)
}

func (r *renderer) WriteInstances(fill, edges []GPUInstance) {
	r.backend.WriteInstances(fill, edges)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawGrid(fillCount, edgeCount uint32) {
	r.backend.DrawGrid(fillCount, edgeCount)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.backend.Release()
}
