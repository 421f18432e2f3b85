package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/herogrid/common"
	"github.com/Carmen-Shannon/herogrid/engine"
	"github.com/Carmen-Shannon/herogrid/engine/camera"
	"github.com/Carmen-Shannon/herogrid/engine/renderer"
	"github.com/Carmen-Shannon/herogrid/engine/scene"
	"github.com/Carmen-Shannon/herogrid/engine/theme"
	"github.com/Carmen-Shannon/herogrid/engine/window"
)

func main() {
	win := window.NewWindow(
		window.WithTitle("Hero Grid"),
		window.WithWidth(1280),
		window.WithHeight(720),
	)

	store := theme.NewStore(theme.WithPath(themeConfigPath()))

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)

	cam := camera.NewCamera(
		camera.WithPosition(4, 4, 6),
		camera.WithTarget(0, 0, 0),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
	)

	s := scene.NewScene(cam, r,
		scene.WithTheme(store.Current()),
		scene.WithSurfaceSize(win.Width(), win.Height()),
	)

	unsubscribe := store.Subscribe(func(t theme.Theme) {
		s.ApplyTheme(t)
	})
	defer unsubscribe()

	win.SetCursorMoveCallback(func(x, y float32) {
		s.PointerMove(x, y)
	})
	win.SetCursorLeaveCallback(func(left bool) {
		if left {
			s.PointerLeave()
		}
	})
	win.SetKeyDownCallback(func(keyCode uint32) {
		if keyCode == common.KeyT {
			store.Toggle()
		}
	})

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(s),
	)

	// Run blocks until the window closes, then tears the scene down.
	e.Run()

	if err := win.Close(); err != nil {
		log.Printf("[Main] window close: %v", err)
	}
}

// themeConfigPath returns the persisted theme file location under the user's
// config directory. An empty path disables persistence.
func themeConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "herogrid")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "theme.yaml")
}
