package scene

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/herogrid/engine/camera"
	"github.com/Carmen-Shannon/herogrid/engine/mesh"
	"github.com/Carmen-Shannon/herogrid/engine/renderer"
	"github.com/Carmen-Shannon/herogrid/engine/theme"
	"github.com/chewxy/math32"
)

// stubRenderer records renderer calls so scene behavior can be tested
// without a GPU.
type stubRenderer struct {
	initCalls    int
	maxInstances int

	clearColor [3]float32

	resizedWidth  int
	resizedHeight int

	lastViewProj [16]float32
	lastFill     []renderer.GPUInstance
	lastEdge     []renderer.GPUInstance
	writeCalls   int

	drawFillCount uint32
	drawEdgeCount uint32
	drawCalls     int

	releaseCalls int
}

var _ renderer.Renderer = &stubRenderer{}

func (r *stubRenderer) Resize(width, height int) {
	r.resizedWidth = width
	r.resizedHeight = height
}

func (r *stubRenderer) SetPresentMode(renderer.PresentMode) {}

func (r *stubRenderer) SetClearColor(red, green, blue float32) {
	r.clearColor = [3]float32{red, green, blue}
}

func (r *stubRenderer) InitGridResources(fill, edges mesh.Mesh, maxInstances int) error {
	r.initCalls++
	r.maxInstances = maxInstances
	return nil
}

func (r *stubRenderer) WriteCamera(viewProj [16]float32) {
	r.lastViewProj = viewProj
}

func (r *stubRenderer) WriteInstances(fill, edges []renderer.GPUInstance) {
	r.lastFill = append(r.lastFill[:0], fill...)
	r.lastEdge = append(r.lastEdge[:0], edges...)
	r.writeCalls++
}

func (r *stubRenderer) BeginFrame() error { return nil }

func (r *stubRenderer) DrawGrid(fillCount, edgeCount uint32) {
	r.drawFillCount = fillCount
	r.drawEdgeCount = edgeCount
	r.drawCalls++
}

func (r *stubRenderer) EndFrame() {}
func (r *stubRenderer) Present()  {}

func (r *stubRenderer) Release() {
	r.releaseCalls++
}

func newTestScene(t *testing.T, seed int64) (Scene, *stubRenderer) {
	t.Helper()
	stub := &stubRenderer{}
	cam := camera.NewCamera(
		camera.WithPosition(0, 0, 10),
		camera.WithTarget(0, 0, 0),
		camera.WithAspect(16.0/9.0),
	)
	s := NewScene(cam, stub,
		WithRandomSource(rand.New(rand.NewSource(seed))),
		WithComputeWorkers(2),
	)
	return s, stub
}

func TestNewSceneGrid(t *testing.T) {
	s, stub := newTestScene(t, 7)
	impl := s.(*scene)

	if got := len(impl.cells); got != 25 {
		t.Fatalf("cell count = %d, want 25", got)
	}
	if stub.initCalls != 1 || stub.maxInstances != 25 {
		t.Errorf("grid resources init = %d calls with capacity %d, want 1 call with 25", stub.initCalls, stub.maxInstances)
	}

	// Grid centered at the origin with 1.2 spacing.
	var sumX, sumZ float32
	for _, c := range impl.cells {
		sumX += c.posX
		sumZ += c.posZ
		if c.visible {
			t.Error("cells must start invisible for the staggered reveal")
		}
	}
	if math32.Abs(sumX) > 1e-4 || math32.Abs(sumZ) > 1e-4 {
		t.Errorf("grid centroid = (%v, %v), want origin", sumX/25, sumZ/25)
	}

	// The clear color matches the light palette's background before any
	// theme change.
	if want := theme.PaletteFor(theme.ThemeLight).Background; stub.clearColor != want {
		t.Errorf("clear color = %v, want %v", stub.clearColor, want)
	}
}

func TestNewSceneRequiresCollaborators(t *testing.T) {
	tests := []struct {
		name string
		call func()
	}{
		{name: "nil camera", call: func() { NewScene(nil, &stubRenderer{}) }},
		{name: "nil renderer", call: func() { NewScene(camera.NewCamera(), nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			tt.call()
		})
	}
}

func TestPrepareFrameAdvancesClock(t *testing.T) {
	s, _ := newTestScene(t, 7)
	impl := s.(*scene)

	for range 5 {
		s.PrepareFrame()
	}
	if want := float32(5 * clockStep); math32.Abs(impl.clock-want) > 1e-5 {
		t.Errorf("clock = %v, want %v", impl.clock, want)
	}
}

func TestPrepareFrameUploadsInstances(t *testing.T) {
	s, stub := newTestScene(t, 7)
	impl := s.(*scene)

	// Enough frames for every spawn delay in [0,3) to elapse and growth to
	// finish: 150 frames of clock plus 34 growth frames.
	for range 200 {
		s.PrepareFrame()
	}

	visible := 0
	for _, c := range impl.cells {
		if c.visible {
			visible++
		}
	}
	if visible == 0 {
		t.Fatal("no cells visible after 200 frames")
	}

	// One wireframe instance per visible cell; fill instances only for cells
	// with nonzero opacity.
	if got := len(stub.lastEdge); got != visible {
		t.Errorf("edge instances = %d, want %d (one per visible cell)", got, visible)
	}
	if len(stub.lastFill) > visible {
		t.Errorf("fill instances = %d exceed visible cells %d", len(stub.lastFill), visible)
	}
	for _, inst := range stub.lastFill {
		if inst.Color[3] <= 0 {
			t.Error("zero-opacity fill instance was uploaded")
		}
	}
	for _, inst := range stub.lastEdge {
		if inst.Color[3] != 1 {
			t.Error("wireframe instances draw fully opaque")
		}
	}

	if stub.lastViewProj != impl.cam.ViewProjectionMatrix() {
		t.Error("camera upload does not match the camera's view-projection matrix")
	}

	s.DrawCalls()
	if stub.drawFillCount != uint32(len(stub.lastFill)) || stub.drawEdgeCount != uint32(len(stub.lastEdge)) {
		t.Error("draw counts do not match the uploaded instances")
	}
}

func TestSeededRunsAreIdentical(t *testing.T) {
	a, stubA := newTestScene(t, 42)
	b, stubB := newTestScene(t, 42)

	for range 400 {
		a.PrepareFrame()
		b.PrepareFrame()
	}

	implA := a.(*scene)
	implB := b.(*scene)
	for i := range implA.cells {
		ca, cb := implA.cells[i], implB.cells[i]
		if ca.mode != cb.mode || ca.visible != cb.visible {
			t.Fatalf("cell %d diverged: mode %v/%v visible %v/%v", i, ca.mode, cb.mode, ca.visible, cb.visible)
		}
		if ca.scaleY != cb.scaleY || ca.offsetY != cb.offsetY {
			t.Fatalf("cell %d diverged: scaleY %v/%v offsetY %v/%v", i, ca.scaleY, cb.scaleY, ca.offsetY, cb.offsetY)
		}
	}

	if len(stubA.lastFill) != len(stubB.lastFill) || len(stubA.lastEdge) != len(stubB.lastEdge) {
		t.Fatal("seeded runs uploaded different instance counts")
	}
	for i := range stubA.lastEdge {
		if stubA.lastEdge[i] != stubB.lastEdge[i] {
			t.Fatalf("edge instance %d differs between seeded runs", i)
		}
	}
}

// forceIdleGrid puts every cell into a known idle pose so hover tests do not
// depend on the animation timeline.
func forceIdleGrid(impl *scene) {
	for _, c := range impl.cells {
		c.mode = modeIdle
		c.visible = true
		c.scaleY = 1
		c.offsetY = 0
	}
}

func TestPointerHover(t *testing.T) {
	s, _ := newTestScene(t, 7)
	impl := s.(*scene)
	forceIdleGrid(impl)

	// Screen center casts straight down -z from (0,0,10) through the gx=2
	// column; the nearest cell along the ray is (2,4) at z=+2.4.
	s.PointerMove(640, 360)

	if impl.hovered == nil {
		t.Fatal("no cell hovered from a center ray")
	}
	if impl.hovered.gridX != 2 || impl.hovered.gridZ != 4 {
		t.Fatalf("hovered cell = (%d, %d), want (2, 4)", impl.hovered.gridX, impl.hovered.gridZ)
	}
	if !impl.hovered.hovered {
		t.Error("hover flag not set on the hit cell")
	}

	// Invisible cells are excluded from hit-testing: hiding the front cell
	// passes the ray to the next one in the column.
	front := impl.hovered
	front.visible = false
	front.hovered = false
	impl.hovered = nil
	s.PointerMove(640, 360)
	if impl.hovered == nil || impl.hovered.gridZ != 3 {
		t.Error("ray should fall through an invisible cell to the next in the column")
	}
}

func TestPointerHoverSkipsCollapsing(t *testing.T) {
	s, _ := newTestScene(t, 7)
	impl := s.(*scene)
	forceIdleGrid(impl)

	// A collapsing cell never acquires hover.
	target := impl.cells[2*gridSize+4]
	target.mode = modeCollapsing
	s.PointerMove(640, 360)
	if impl.hovered == target {
		t.Fatal("collapsing cell acquired hover")
	}

	// A hovered cell that starts collapsing keeps its hover until the
	// episode ends.
	target.mode = modeIdle
	impl.hovered = nil
	s.PointerMove(640, 360)
	if impl.hovered != target {
		t.Fatal("setup failed: target not hovered")
	}
	target.mode = modeCollapsing
	s.PointerLeave()
	if impl.hovered != target || !target.hovered {
		t.Error("hover cleared from a mid-collapse cell")
	}
}

func TestPointerLeaveClearsHover(t *testing.T) {
	s, _ := newTestScene(t, 7)
	impl := s.(*scene)
	forceIdleGrid(impl)

	s.PointerMove(640, 360)
	if impl.hovered == nil {
		t.Fatal("setup failed: nothing hovered")
	}

	s.PointerLeave()
	if impl.hovered != nil {
		t.Error("hover survived the pointer leaving the surface")
	}
	if impl.pointerX != pointerOffscreen || impl.pointerY != pointerOffscreen {
		t.Error("pointer coordinates not reset to the off-surface sentinel")
	}
}

func TestApplyTheme(t *testing.T) {
	s, stub := newTestScene(t, 7)
	impl := s.(*scene)

	s.ApplyTheme(theme.ThemeDark)

	dark := theme.PaletteFor(theme.ThemeDark)
	if impl.pal != dark {
		t.Error("palette not swapped to the dark theme")
	}
	if stub.clearColor != dark.Background {
		t.Errorf("clear color = %v, want dark background %v", stub.clearColor, dark.Background)
	}

	// The next prepared frame colors instances from the new palette.
	forceIdleGrid(impl)
	s.PointerMove(640, 360) // hover one cell so a fill instance exists
	s.PrepareFrame()
	found := false
	for _, inst := range stub.lastFill {
		if inst.Color[3] == 1 {
			found = true
			if got := [3]float32{inst.Color[0], inst.Color[1], inst.Color[2]}; got != dark.FillHover {
				t.Errorf("hovered fill = %v, want %v", got, dark.FillHover)
			}
		}
	}
	if !found {
		t.Error("no hovered fill instance found after theme change")
	}
}

func TestResize(t *testing.T) {
	s, stub := newTestScene(t, 7)
	impl := s.(*scene)

	s.Resize(200, 100)

	if stub.resizedWidth != 200 || stub.resizedHeight != 100 {
		t.Errorf("renderer resized to %dx%d, want 200x100", stub.resizedWidth, stub.resizedHeight)
	}
	if got := impl.cam.Aspect(); got != 2 {
		t.Errorf("camera aspect = %v, want 2", got)
	}

	// Degenerate sizes are ignored.
	s.Resize(0, 100)
	if stub.resizedWidth != 200 {
		t.Error("zero-width resize reached the renderer")
	}
}

func TestTeardownIdempotent(t *testing.T) {
	s, stub := newTestScene(t, 7)

	s.Teardown()
	s.Teardown()

	if stub.releaseCalls != 1 {
		t.Errorf("renderer released %d times, want once", stub.releaseCalls)
	}
	if s.Active() {
		t.Error("scene still active after teardown")
	}

	// Frames after teardown are no-ops.
	writesBefore := stub.writeCalls
	s.PrepareFrame()
	s.DrawCalls()
	if stub.writeCalls != writesBefore || stub.drawCalls != 0 {
		t.Error("torn-down scene still talks to the renderer")
	}
}

func TestInactiveSceneSkipsFrames(t *testing.T) {
	s, stub := newTestScene(t, 7)
	impl := s.(*scene)

	s.SetActive(false)
	s.PrepareFrame()

	if impl.clock != 0 {
		t.Error("inactive scene advanced its clock")
	}
	if stub.writeCalls != 0 {
		t.Error("inactive scene uploaded instances")
	}
}
