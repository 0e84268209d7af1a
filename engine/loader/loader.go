package loader

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/pkg/errors"
)

// LoaderBackendType identifies the file format backend used by a Loader.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// DefaultWorkers is the number of goroutines LoadAll imports with.
const DefaultWorkers = 4

var (
	// ErrUnsupportedFormat is returned for file extensions no backend handles.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrNoSkin is returned by a Loader configured with WithRequireSkin for assets without a skin.
	ErrNoSkin = errors.New("asset has no skin")
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu          sync.RWMutex
	sceneCache  map[string]*model.ImportedScene
	backend     loaderBackend
	logger      *slog.Logger
	workers     int
	requireSkin bool

	poolOnce sync.Once
	pool     worker.DynamicWorkerPool
}

// Loader defines the interface for importing asset files into ImportedScenes.
// Results are cached by path, so a second Load of the same file is free.
type Loader interface {
	// Load imports a single file, or returns the cached scene for a path already loaded.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedScene: the imported scene
	//   - error: error if the format is unsupported or the import fails
	Load(path string) (*model.ImportedScene, error)

	// LoadAll imports several files concurrently on the loader's worker pool.
	// Results are returned in input order. The first failure in input order is returned.
	//
	// Parameters:
	//   - paths: the file paths to load
	//
	// Returns:
	//   - []*model.ImportedScene: one scene per path, nil where the import failed
	//   - error: the first error encountered, if any
	LoadAll(paths []string) ([]*model.ImportedScene, error)

	// LoadModel imports a file and builds a Model from it.
	// The loader's logger is passed to the model before the given options.
	//
	// Parameters:
	//   - path: the file path to load
	//   - options: builder options forwarded to model.NewModel
	//
	// Returns:
	//   - model.Model: the built model
	//   - error: error if loading or model construction fails
	LoadModel(path string, options ...model.ModelBuilderOption) (model.Model, error)

	// Get returns a cached scene by path.
	//
	// Parameters:
	//   - path: the cache key
	//
	// Returns:
	//   - *model.ImportedScene: the cached scene, or nil if not loaded
	Get(path string) *model.ImportedScene

	// Scenes returns a copy of the scene cache.
	//
	// Returns:
	//   - map[string]*model.ImportedScene: the cached scenes keyed by path
	Scenes() map[string]*model.ImportedScene
}

var _ Loader = &loader{}

// NewLoader creates a new Loader for the given backend type.
// Applies default values first, then each option in order.
//
// Parameters:
//   - backendType: the file format backend
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the loader
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		sceneCache: make(map[string]*model.ImportedScene),
		logger:     slog.Default(),
		workers:    DefaultWorkers,
	}
	for _, opt := range options {
		opt(l)
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFImporter(l.logger)
	default:
		panic("loader: unknown backend type")
	}
	return l
}

func (l *loader) Load(path string) (*model.ImportedScene, error) {
	l.mu.RLock()
	if cached, ok := l.sceneCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scene, err := backend.Import(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	if l.requireSkin && len(scene.Bones) == 0 {
		return nil, errors.Wrapf(ErrNoSkin, "failed to load %s", path)
	}
	l.logger.Info("[Loader] loaded", "path", path, "bones", len(scene.Bones), "meshes", len(scene.Meshes), "elapsed", time.Since(start))

	l.mu.Lock()
	l.sceneCache[path] = scene
	l.mu.Unlock()

	return scene, nil
}

func (l *loader) LoadAll(paths []string) ([]*model.ImportedScene, error) {
	l.poolOnce.Do(func() {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	})

	scenes := make([]*model.ImportedScene, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		idx, p := i, path
		l.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				scenes[idx], errs[idx] = l.Load(p)
				return nil, errs[idx]
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return scenes, err
		}
	}
	return scenes, nil
}

func (l *loader) LoadModel(path string, options ...model.ModelBuilderOption) (model.Model, error) {
	scene, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	opts := append([]model.ModelBuilderOption{model.WithLogger(l.logger)}, options...)
	m, err := model.NewModel(scene, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build model from %s", path)
	}
	return m, nil
}

func (l *loader) Get(path string) *model.ImportedScene {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sceneCache[path]
}

func (l *loader) Scenes() map[string]*model.ImportedScene {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*model.ImportedScene, len(l.sceneCache))
	for k, v := range l.sceneCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
}
