package theme

import (
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Theme identifies one of the two supported color themes.
type Theme string

const (
	// ThemeLight is the light color theme and the default when no preference
	// has been persisted.
	ThemeLight Theme = "light"

	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// storeConfig is the on-disk representation of the persisted theme choice.
type storeConfig struct {
	Theme string `yaml:"theme"`
}

// store is the implementation of the Store interface.
type store struct {
	mu *sync.Mutex

	current Theme
	path    string

	subscribers map[int]func(Theme)
	nextID      int
}

// Store holds the current Theme and notifies subscribers when it changes.
// The choice is persisted to a YAML file when a path is configured; a missing
// or unreadable file silently falls back to the default theme.
//
// Subscriber callbacks run synchronously on the goroutine that changed the
// theme, outside the store's lock. Callbacks must not block.
type Store interface {
	// Current returns the active theme.
	//
	// Returns:
	//   - Theme: the active theme
	Current() Theme

	// Set switches to the given theme, persists it, and notifies subscribers.
	// Setting the already-active theme is a no-op. Unknown values are ignored.
	//
	// Parameters:
	//   - t: the theme to activate
	Set(t Theme)

	// Toggle switches between light and dark, persists the result, and
	// notifies subscribers.
	//
	// Returns:
	//   - Theme: the theme active after the toggle
	Toggle() Theme

	// Subscribe registers a callback invoked with the new theme after every
	// change. The returned function unregisters the callback; calling it more
	// than once is safe.
	//
	// Parameters:
	//   - fn: the callback to invoke on theme changes
	//
	// Returns:
	//   - func(): unsubscribes the callback
	Subscribe(fn func(Theme)) func()
}

var _ Store = &store{}

// NewStore creates a new Store. When a persistence path is configured via
// WithPath, the previously saved theme is loaded; otherwise (or when the file
// is missing or invalid) the default theme is used.
//
// Parameters:
//   - options: variadic list of StoreBuilderOption functions to configure the Store
//
// Returns:
//   - Store: a new instance of Store configured with the specified options
func NewStore(options ...StoreBuilderOption) Store {
	s := &store{
		mu:          &sync.Mutex{},
		current:     ThemeLight,
		subscribers: make(map[int]func(Theme)),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.path != "" {
		if t, ok := loadTheme(s.path); ok {
			s.current = t
		}
	}
	return s
}

func (s *store) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *store) Set(t Theme) {
	if t != ThemeLight && t != ThemeDark {
		return
	}

	s.mu.Lock()
	if t == s.current {
		s.mu.Unlock()
		return
	}
	s.current = t
	subs := s.snapshotSubscribersLocked()
	path := s.path
	s.mu.Unlock()

	if path != "" {
		saveTheme(path, t)
	}
	for _, fn := range subs {
		fn(t)
	}
}

func (s *store) Toggle() Theme {
	s.mu.Lock()
	next := ThemeDark
	if s.current == ThemeDark {
		next = ThemeLight
	}
	s.current = next
	subs := s.snapshotSubscribersLocked()
	path := s.path
	s.mu.Unlock()

	if path != "" {
		saveTheme(path, next)
	}
	for _, fn := range subs {
		fn(next)
	}
	return next
}

func (s *store) Subscribe(fn func(Theme)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// snapshotSubscribersLocked copies the subscriber set so callbacks can run
// outside the lock. Callers must hold s.mu.
func (s *store) snapshotSubscribersLocked() []func(Theme) {
	subs := make([]func(Theme), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func loadTheme(path string) (Theme, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var cfg storeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", false
	}
	switch Theme(cfg.Theme) {
	case ThemeLight, ThemeDark:
		return Theme(cfg.Theme), true
	default:
		return "", false
	}
}

func saveTheme(path string, t Theme) {
	data, err := yaml.Marshal(storeConfig{Theme: string(t)})
	if err != nil {
		log.Printf("[Theme] failed to encode theme file: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("[Theme] failed to write theme file: %v", err)
	}
}
