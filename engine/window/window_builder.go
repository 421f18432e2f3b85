package window

// WindowBuilderOption is a functional option for configuring a Window.
// Use the With* functions to create options.
type WindowBuilderOption func(*heroWindow)

// WithTitle sets the window title.
//
// Parameters:
//   - title: the title to display in the title bar
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *heroWindow) {
		w.title = title
	}
}

// WithWidth sets the initial window width in pixels.
//
// Parameters:
//   - width: the initial width
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *heroWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height in pixels.
//
// Parameters:
//   - height: the initial height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *heroWindow) {
		w.height = height
	}
}
