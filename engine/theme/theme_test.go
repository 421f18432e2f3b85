package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreDefaults(t *testing.T) {
	s := NewStore()
	if got := s.Current(); got != ThemeLight {
		t.Errorf("default theme = %v, want %v", got, ThemeLight)
	}

	s = NewStore(WithDefault(ThemeDark))
	if got := s.Current(); got != ThemeDark {
		t.Errorf("theme = %v, want %v", got, ThemeDark)
	}

	// Unknown defaults are ignored.
	s = NewStore(WithDefault(Theme("sepia")))
	if got := s.Current(); got != ThemeLight {
		t.Errorf("theme = %v, want %v after invalid default", got, ThemeLight)
	}
}

func TestStoreToggle(t *testing.T) {
	s := NewStore()

	if got := s.Toggle(); got != ThemeDark {
		t.Errorf("first toggle = %v, want %v", got, ThemeDark)
	}
	if got := s.Current(); got != ThemeDark {
		t.Errorf("current = %v, want %v", got, ThemeDark)
	}
	if got := s.Toggle(); got != ThemeLight {
		t.Errorf("second toggle = %v, want %v", got, ThemeLight)
	}
}

func TestStoreSet(t *testing.T) {
	s := NewStore()

	var notified []Theme
	s.Subscribe(func(th Theme) {
		notified = append(notified, th)
	})

	s.Set(ThemeDark)
	s.Set(ThemeDark) // no-op, already active
	s.Set(Theme("bogus"))

	if got := s.Current(); got != ThemeDark {
		t.Errorf("current = %v, want %v", got, ThemeDark)
	}
	if len(notified) != 1 || notified[0] != ThemeDark {
		t.Errorf("notifications = %v, want exactly one %v", notified, ThemeDark)
	}
}

func TestStoreSubscribeUnsubscribe(t *testing.T) {
	s := NewStore()

	count := 0
	unsubscribe := s.Subscribe(func(Theme) {
		count++
	})

	s.Toggle()
	unsubscribe()
	unsubscribe() // safe to call twice
	s.Toggle()

	if count != 1 {
		t.Errorf("callback ran %d times, want 1", count)
	}
}

func TestStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")

	s := NewStore(WithPath(path))
	s.Set(ThemeDark)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("theme file not written: %v", err)
	}

	// A fresh store loads the persisted choice.
	reloaded := NewStore(WithPath(path))
	if got := reloaded.Current(); got != ThemeDark {
		t.Errorf("reloaded theme = %v, want %v", got, ThemeDark)
	}
}

func TestStoreInvalidFileFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing file", content: ""},
		{name: "not yaml", content: "{{{{"},
		{name: "unknown theme", content: "theme: sepia\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "theme.yaml")
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			s := NewStore(WithPath(path))
			if got := s.Current(); got != ThemeLight {
				t.Errorf("theme = %v, want default %v", got, ThemeLight)
			}
		})
	}
}

func TestPaletteFor(t *testing.T) {
	light := PaletteFor(ThemeLight)
	dark := PaletteFor(ThemeDark)

	if light == dark {
		t.Fatal("light and dark palettes must differ")
	}

	// Unknown themes resolve to the light palette.
	if got := PaletteFor(Theme("sepia")); got != light {
		t.Errorf("unknown theme palette = %v, want light palette", got)
	}

	// The two backgrounds sit on opposite ends of the brightness range.
	if light.Background[0] < dark.Background[0] {
		t.Error("light background should be brighter than dark background")
	}
}
