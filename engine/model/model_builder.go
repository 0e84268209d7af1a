package model

import "log/slog"

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that overrides the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithAnimationName is an option builder that selects the animation bound to the skeleton.
// The first animation is used when the name is empty or not found.
//
// Parameters:
//   - name: the animation name
//
// Returns:
//   - ModelBuilderOption: a function that applies the animation option to a model
func WithAnimationName(name string) ModelBuilderOption {
	return func(m *model) {
		m.animationName = name
	}
}

// WithGlobalInverseMode is an option builder that sets how the root transform is cancelled.
//
// Parameters:
//   - mode: the global inverse mode
//
// Returns:
//   - ModelBuilderOption: a function that applies the mode option to a model
func WithGlobalInverseMode(mode GlobalInverseMode) ModelBuilderOption {
	return func(m *model) {
		m.globalInverseMode = mode
	}
}

// WithLogger is an option builder that sets the logger for import diagnostics.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - ModelBuilderOption: a function that applies the logger option to a model
func WithLogger(logger *slog.Logger) ModelBuilderOption {
	return func(m *model) {
		if logger != nil {
			m.logger = logger
		}
	}
}
