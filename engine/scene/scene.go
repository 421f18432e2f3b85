package scene

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/herogrid/common"
	"github.com/Carmen-Shannon/herogrid/engine/camera"
	"github.com/Carmen-Shannon/herogrid/engine/mesh"
	"github.com/Carmen-Shannon/herogrid/engine/renderer"
	"github.com/Carmen-Shannon/herogrid/engine/theme"
	"github.com/chewxy/math32"
)

// pointerOffscreen is the sentinel NDC coordinate used while the pointer is
// outside the surface. It is far enough outside clip space that hit-testing
// is disabled without special-casing.
const pointerOffscreen float32 = -1000

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam camera.Camera
	r   renderer.Renderer

	rng   *rand.Rand
	cells []*cell
	clock float32

	hovered  *cell
	pointerX float32
	pointerY float32

	width  int
	height int

	pal theme.Palette

	// computePool manages a bounded set of reusable goroutines for the
	// parallel per-row instance build each frame.
	computePool    worker.DynamicWorkerPool
	computeWorkers int

	// Per-row staging slices written concurrently by pool workers, gathered
	// serially in row order afterwards.
	rowFill [gridSize][]renderer.GPUInstance
	rowEdge [gridSize][]renderer.GPUInstance

	fillInstances []renderer.GPUInstance
	edgeInstances []renderer.GPUInstance
	fillCount     uint32
	edgeCount     uint32

	released bool
}

// Scene owns the animated cube grid: the camera, the per-cell state machine,
// pointer hover tracking, and the per-frame instance upload to the renderer.
//
// PrepareFrame and DrawCalls are driven once per frame by the engine;
// PointerMove, PointerLeave, Resize, and ApplyTheme may be called from
// window and theme callbacks at any time.
type Scene interface {
	// Name returns the scene's display name.
	//
	// Returns:
	//   - string: the scene's name
	Name() string

	// Active reports whether the scene should be updated and drawn.
	//
	// Returns:
	//   - bool: true if the scene is active
	Active() bool

	// SetActive enables or disables per-frame updates and drawing.
	//
	// Parameters:
	//   - active: true to update and draw the scene each frame
	SetActive(active bool)

	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the camera the grid is viewed through
	Camera() camera.Camera

	// Renderer returns the renderer the scene draws with.
	//
	// Returns:
	//   - renderer.Renderer: the scene's renderer
	Renderer() renderer.Renderer

	// ApplyTheme swaps the active color palette and the background clear
	// color to the given theme's. The next prepared frame uses the new
	// colors.
	//
	// Parameters:
	//   - t: the theme to color the grid with
	ApplyTheme(t theme.Theme)

	// PointerMove updates the tracked pointer position from surface pixel
	// coordinates and re-resolves which cell is hovered.
	//
	// Parameters:
	//   - px, py: pointer position in surface pixels, origin top-left
	PointerMove(px, py float32)

	// PointerLeave marks the pointer as off-surface, clearing any hover that
	// is not mid-collapse.
	PointerLeave()

	// Resize updates the camera aspect ratio and the renderer surface for a
	// new surface size.
	//
	// Parameters:
	//   - width, height: new surface size in pixels
	Resize(width, height int)

	// PrepareFrame advances the clock one step, runs every cell's state
	// machine, and uploads the camera matrix and per-cube instances for the
	// frame. No-op once torn down or while inactive.
	PrepareFrame()

	// DrawCalls records the frame's draw calls with the renderer. Must be
	// called between the renderer's BeginFrame and EndFrame.
	DrawCalls()

	// Teardown deactivates the scene and releases the renderer's GPU
	// resources. Safe to call more than once; later calls are no-ops.
	Teardown()
}

var _ Scene = &scene{}

// NewScene creates the cube grid scene and uploads its shared geometry
// through the renderer. Both the camera and renderer are required; passing
// nil for either panics.
//
// Parameters:
//   - cam: the camera the grid is viewed through
//   - r: the renderer the grid draws with
//   - options: variadic list of SceneBuilderOption functions to configure the Scene
//
// Returns:
//   - Scene: a new instance of Scene configured with the specified options
func NewScene(cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: camera is required")
	}
	if r == nil {
		panic("scene: renderer is required")
	}

	s := &scene{
		mu:             &sync.RWMutex{},
		name:           "Hero Grid",
		active:         true,
		cam:            cam,
		r:              r,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		pal:            theme.PaletteFor(theme.ThemeLight),
		computeWorkers: max(runtime.NumCPU()-1, 1),
		pointerX:       pointerOffscreen,
		pointerY:       pointerOffscreen,
		width:          1280,
		height:         720,
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can
	// override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)

	cellCount := gridSize * gridSize
	s.cells = make([]*cell, 0, cellCount)
	for gx := 0; gx < gridSize; gx++ {
		for gz := 0; gz < gridSize; gz++ {
			s.cells = append(s.cells, newCell(gx, gz, s.rng))
		}
	}

	for row := range s.rowFill {
		s.rowFill[row] = make([]renderer.GPUInstance, 0, gridSize)
		s.rowEdge[row] = make([]renderer.GPUInstance, 0, gridSize)
	}
	s.fillInstances = make([]renderer.GPUInstance, 0, cellCount)
	s.edgeInstances = make([]renderer.GPUInstance, 0, cellCount)

	if err := s.r.InitGridResources(mesh.Cube(), mesh.CubeEdges(), cellCount); err != nil {
		panic("scene: failed to init grid resources: " + err.Error())
	}
	s.r.SetClearColor(s.pal.Background[0], s.pal.Background[1], s.pal.Background[2])
	s.cam.SetAspect(float32(s.width) / float32(s.height))

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) ApplyTheme(t theme.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pal = theme.PaletteFor(t)
	if s.r != nil && !s.released {
		s.r.SetClearColor(s.pal.Background[0], s.pal.Background[1], s.pal.Background[2])
	}
}

func (s *scene) PointerMove(px, py float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.width <= 0 || s.height <= 0 {
		return
	}
	s.pointerX = 2*px/float32(s.width) - 1
	s.pointerY = -(2*py/float32(s.height) - 1)
	s.updateHoverLocked()
}

func (s *scene) PointerLeave() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pointerX = pointerOffscreen
	s.pointerY = pointerOffscreen
	s.updateHoverLocked()
}

// updateHoverLocked casts a ray from the camera through the tracked pointer
// position and resolves the hovered cell. Collapsing cells ignore hover
// changes in both directions. Callers must hold s.mu.
func (s *scene) updateHoverLocked() {
	var hit *cell
	if s.pointerX != pointerOffscreen {
		ray := s.cam.ScreenRay(s.pointerX, s.pointerY)
		nearest := float32(math32.MaxFloat32)
		for _, c := range s.cells {
			if !c.visible {
				continue
			}
			center, halfExtents := c.bounds()
			if dist, ok := ray.IntersectAABB(center, halfExtents); ok && dist < nearest {
				nearest = dist
				hit = c
			}
		}
	}

	if hit == s.hovered {
		return
	}
	if s.hovered != nil && !s.hovered.collapsing() {
		s.hovered.hovered = false
		s.hovered = nil
	}
	if s.hovered == nil && hit != nil && !hit.collapsing() {
		hit.hovered = true
		s.hovered = hit
	}
}

func (s *scene) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}
	s.width = width
	s.height = height
	s.cam.SetAspect(float32(width) / float32(height))
	if s.r != nil && !s.released {
		s.r.Resize(width, height)
	}
}

func (s *scene) PrepareFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released || !s.active {
		return
	}

	s.clock += clockStep

	// Phase 1: serial state stepping. The state machine shares one random
	// source, and seeded runs must replay identically, so cells step in grid
	// order on this goroutine.
	hoverActive := s.hovered != nil
	for _, c := range s.cells {
		c.step(s.clock, hoverActive, s.rng, s.pal)
	}

	// Phase 2: parallel instance build — one task per grid row. Workers are
	// reused across frames (no goroutine spawn overhead). A WaitGroup
	// provides per-frame barrier sync since pool.Wait() blocks until workers
	// idle-exit which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	for row := 0; row < gridSize; row++ {
		wg.Add(1)
		rowCap := row // capture for closure
		s.computePool.SubmitTask(worker.Task{
			ID: rowCap,
			Do: func() (any, error) {
				defer wg.Done()
				s.buildRowInstances(rowCap)
				return nil, nil
			},
		})
	}
	wg.Wait()

	// Phase 3: serial gather in row order, then upload.
	s.fillInstances = s.fillInstances[:0]
	s.edgeInstances = s.edgeInstances[:0]
	for row := 0; row < gridSize; row++ {
		s.fillInstances = append(s.fillInstances, s.rowFill[row]...)
		s.edgeInstances = append(s.edgeInstances, s.rowEdge[row]...)
	}
	s.fillCount = uint32(len(s.fillInstances))
	s.edgeCount = uint32(len(s.edgeInstances))

	s.r.WriteCamera(s.cam.ViewProjectionMatrix())
	s.r.WriteInstances(s.fillInstances, s.edgeInstances)
}

// buildRowInstances composes the model matrix and colors for every visible
// cell of one grid row into the row's staging slices. Cells with zero fill
// opacity skip the fill pipeline entirely so they cannot occlude wireframes
// behind them. Runs on pool workers while PrepareFrame holds the lock.
func (s *scene) buildRowInstances(row int) {
	fill := s.rowFill[row][:0]
	edge := s.rowEdge[row][:0]

	for gz := 0; gz < gridSize; gz++ {
		c := s.cells[row*gridSize+gz]
		if !c.visible {
			continue
		}

		var inst renderer.GPUInstance
		common.ComposeTransform(inst.Model[:], c.posX, c.offsetY, c.posZ, 1, c.scaleY, 1)

		if c.opacity > 0 {
			inst.Color = [4]float32{c.fill[0], c.fill[1], c.fill[2], c.opacity}
			fill = append(fill, inst)
		}

		inst.Color = [4]float32{c.wire[0], c.wire[1], c.wire[2], 1}
		edge = append(edge, inst)
	}

	s.rowFill[row] = fill
	s.rowEdge[row] = edge
}

func (s *scene) DrawCalls() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.released || !s.active {
		return
	}
	s.r.DrawGrid(s.fillCount, s.edgeCount)
}

func (s *scene) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return
	}
	s.released = true
	s.active = false
	s.hovered = nil

	if s.r != nil {
		s.r.Release()
	}
}
