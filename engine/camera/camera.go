package camera

import (
	"sync"

	"github.com/Carmen-Shannon/herogrid/common"
	"github.com/chewxy/math32"
)

type cameraImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32
	up       [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix              [16]float32
	projectionMatrix        [16]float32
	viewProjectionMatrix    [16]float32
	inverseViewProjMatrix   [16]float32
	inverseViewProjMatrixOK bool
}

// Camera defines the interface for the scene camera.
// The camera holds a fixed perspective view of the grid and recomputes its
// matrices whenever a setting changes. ScreenRay unprojects normalized device
// coordinates into a world-space picking ray.
type Camera interface {
	// Position returns the camera position in world space.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Target returns the point the camera looks at.
	//
	// Returns:
	//   - x, y, z: target components
	Target() (x, y, z float32)

	// Fov returns the field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// ScreenRay unprojects a point in normalized device coordinates into a
	// world-space ray from the camera position through that point.
	// NDC x and y are in [-1, 1] with y pointing up. Coordinates far outside
	// that range produce a ray that misses every scene object, which is how
	// the pointer subsystem represents an off-surface cursor.
	//
	// Parameters:
	//   - ndcX, ndcY: pointer position in normalized device coordinates
	//
	// Returns:
	//   - common.Ray: the world-space picking ray
	ScreenRay(ndcX, ndcY float32) common.Ray

	// SetPosition moves the camera and recomputes matrices.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// SetTarget changes the look-at point and recomputes matrices.
	//
	// Parameters:
	//   - x, y, z: new target components
	SetTarget(x, y, z float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings:
// 45° field of view, aspect 1, near 0.1, far 100, positioned on the
// +Z axis looking at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: [3]float32{0, 0, 10},
		target:   [3]float32{0, 0, 0},
		up:       [3]float32{0, 1, 0},
		fov:      45.0 * (math32.Pi / 180.0), // radians
		aspect:   1.0,
		near:     0.1,
		far:      100.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position[0], c.position[1], c.position[2]
}

func (c *cameraImpl) Target() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target[0], c.target[1], c.target[2]
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) ScreenRay(ndcX, ndcY float32) common.Ray {
	c.mu.Lock()
	defer c.mu.Unlock()

	ray := common.Ray{Origin: c.position}
	if !c.inverseViewProjMatrixOK {
		// Degenerate view-projection matrix; aim straight at the target.
		ray.Dir = [3]float32{
			c.target[0] - c.position[0],
			c.target[1] - c.position[1],
			c.target[2] - c.position[2],
		}
		common.Normalize(&ray.Dir)
		return ray
	}

	// Unproject the pointer onto the far plane (clip depth 1 in WebGPU's
	// [0,1] convention) and aim from the camera position through it.
	m := c.inverseViewProjMatrix
	cx, cy, cz, cw := ndcX, ndcY, float32(1), float32(1)
	wx := m[0]*cx + m[4]*cy + m[8]*cz + m[12]*cw
	wy := m[1]*cx + m[5]*cy + m[9]*cz + m[13]*cw
	wz := m[2]*cx + m[6]*cy + m[10]*cz + m[14]*cw
	ww := m[3]*cx + m[7]*cy + m[11]*cz + m[15]*cw
	if ww != 0 {
		wx /= ww
		wy /= ww
		wz /= ww
	}

	ray.Dir = [3]float32{wx - c.position[0], wy - c.position[1], wz - c.position[2]}
	common.Normalize(&ray.Dir)
	return ray
}

func (c *cameraImpl) SetPosition(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection, view-projection, and
// inverse view-projection matrices. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.LookAt(c.viewMatrix[:],
		c.position[0], c.position[1], c.position[2],
		c.target[0], c.target[1], c.target[2],
		c.up[0], c.up[1], c.up[2],
	)

	common.Perspective(c.projectionMatrix[:],
		c.fov, c.aspect, c.near, c.far,
	)

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	c.inverseViewProjMatrixOK = common.Invert4(c.inverseViewProjMatrix[:], c.viewProjectionMatrix[:])
}
