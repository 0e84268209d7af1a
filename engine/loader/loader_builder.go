package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/volcano/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithScene is an option builder that pre-populates the scene cache.
//
// Parameters:
//   - key: the cache key for the scene
//   - scene: the scene to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the scene option to a loader
func WithScene(key string, scene *model.ImportedScene) LoaderBuilderOption {
	return func(l *loader) {
		l.sceneCache[key] = scene
	}
}

// WithWorkers is an option builder that sets how many goroutines LoadAll uses.
// Values below 1 are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the workers option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithRequireSkin is an option builder that makes Load fail with ErrNoSkin for assets without a skin.
//
// Parameters:
//   - require: whether a skin is required
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithRequireSkin(require bool) LoaderBuilderOption {
	return func(l *loader) {
		l.requireSkin = require
	}
}

// WithLogger is an option builder that sets the logger for import diagnostics.
//
// Parameters:
//   - logger: the logger; nil keeps the default
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
