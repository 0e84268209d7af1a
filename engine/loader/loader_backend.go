package loader

import (
	"github.com/Carmen-Shannon/volcano/engine/model"
)

// loaderBackend defines the generic interface for importing scenes from files.
// Concrete implementations (e.g., gltfImporter) handle format-specific details.
type loaderBackend interface {
	// Import performs a full scene import from the given file path.
	// This extracts the node tree, bone table, animations and meshes.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedScene: the imported scene data
	//   - error: error if loading fails
	Import(path string) (*model.ImportedScene, error)
}
