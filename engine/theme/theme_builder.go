package theme

// StoreBuilderOption is a functional option applied to a store during construction via NewStore.
type StoreBuilderOption func(*store)

// WithPath sets the YAML file the theme choice is persisted to. When unset,
// the store keeps the theme in memory only.
//
// Parameters:
//   - path: the file path to load and save the theme from
//
// Returns:
//   - StoreBuilderOption: a function that applies the path option to a store
func WithPath(path string) StoreBuilderOption {
	return func(s *store) {
		s.path = path
	}
}

// WithDefault sets the theme used when no persisted choice exists. Unknown
// values are ignored.
//
// Parameters:
//   - t: the default theme
//
// Returns:
//   - StoreBuilderOption: a function that applies the default theme option to a store
func WithDefault(t Theme) StoreBuilderOption {
	return func(s *store) {
		if t == ThemeLight || t == ThemeDark {
			s.current = t
		}
	}
}
