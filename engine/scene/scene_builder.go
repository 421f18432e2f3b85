package scene

import (
	"math/rand"

	"github.com/Carmen-Shannon/herogrid/engine/theme"
)

// SceneBuilderOption is a functional option applied to a scene during construction via NewScene.
type SceneBuilderOption func(*scene)

// WithName sets the scene's display name.
//
// Parameters:
//   - name: the name to assign to the scene
//
// Returns:
//   - SceneBuilderOption: a function that applies the name option to a scene
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithActive sets whether the scene starts active. Scenes default to active.
//
// Parameters:
//   - active: true to update and draw the scene each frame
//
// Returns:
//   - SceneBuilderOption: a function that applies the active option to a scene
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithRandomSource replaces the scene's random source. Grid construction and
// every later episode draw from this source, so a fixed seed replays the same
// animation.
//
// Parameters:
//   - rng: the random source to draw spawn delays, episode styles, and hidden intervals from
//
// Returns:
//   - SceneBuilderOption: a function that applies the random source option to a scene
func WithRandomSource(rng *rand.Rand) SceneBuilderOption {
	return func(s *scene) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithTheme sets the palette the scene starts with, before any theme store
// subscription fires.
//
// Parameters:
//   - t: the theme to color the grid with initially
//
// Returns:
//   - SceneBuilderOption: a function that applies the theme option to a scene
func WithTheme(t theme.Theme) SceneBuilderOption {
	return func(s *scene) {
		s.pal = theme.PaletteFor(t)
	}
}

// WithSurfaceSize sets the initial surface size used for pointer
// normalization and the camera aspect ratio.
//
// Parameters:
//   - width, height: initial surface size in pixels
//
// Returns:
//   - SceneBuilderOption: a function that applies the surface size option to a scene
func WithSurfaceSize(width, height int) SceneBuilderOption {
	return func(s *scene) {
		if width > 0 && height > 0 {
			s.width = width
			s.height = height
		}
	}
}

// WithComputeWorkers sets the number of workers in the scene's per-frame
// compute pool.
//
// Parameters:
//   - workers: the worker count; values below 1 are ignored
//
// Returns:
//   - SceneBuilderOption: a function that applies the compute workers option to a scene
func WithComputeWorkers(workers int) SceneBuilderOption {
	return func(s *scene) {
		if workers >= 1 {
			s.computeWorkers = workers
		}
	}
}
