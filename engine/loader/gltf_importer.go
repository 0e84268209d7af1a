package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// gltfImporter is a loaderBackend implementation for glTF/GLB files.
// It decodes the document with qmuntal/gltf and combines the node, skin, animation
// and mesh extractors to produce a complete ImportedScene.
type gltfImporter struct {
	logger *slog.Logger
}

var _ loaderBackend = &gltfImporter{}

// newGLTFImporter creates a new glTF importer.
//
// Parameters:
//   - logger: destination for import diagnostics
//
// Returns:
//   - *gltfImporter: the importer
func newGLTFImporter(logger *slog.Logger) *gltfImporter {
	return &gltfImporter{logger: logger}
}

func (imp *gltfImporter) Import(path string) (*model.ImportedScene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return imp.importDocument(doc, path)
}

// importDocument performs a full import from an already decoded document.
func (imp *gltfImporter) importDocument(doc *gltf.Document, path string) (*model.ImportedScene, error) {
	root, err := gltfExtractNodeTree(doc)
	if err != nil {
		return nil, errors.Wrap(err, "node tree extraction failed")
	}

	bones, err := gltfExtractBones(doc)
	if err != nil {
		return nil, errors.Wrap(err, "skin extraction failed")
	}

	var animations []model.ImportedAnimation
	if len(doc.Animations) > 0 {
		anim, warnings, err := gltfExtractAnimation(doc, 0)
		if err != nil {
			return nil, errors.Wrap(err, "animation extraction failed")
		}
		for _, w := range warnings {
			imp.logger.Warn("[Loader] animation channel skipped", "path", path, "reason", w)
		}
		animations = append(animations, *anim)
	}

	meshes, err := gltfExtractMeshes(doc)
	if err != nil {
		return nil, errors.Wrap(err, "mesh extraction failed")
	}

	scene := &model.ImportedScene{
		Name:       gltfExtractSceneName(doc, path),
		Root:       root,
		Bones:      bones,
		Animations: animations,
		Meshes:     meshes,
	}

	if imp.logger.Enabled(context.Background(), slog.LevelDebug) {
		imp.logger.Debug("[Loader] imported scene", "path", path, "dump", spew.Sdump(gltfSummarize(scene)))
	}
	return scene, nil
}

// gltfImportSummary is the shape dumped at debug level; vertex data is reduced to counts.
type gltfImportSummary struct {
	Name       string
	Bones      []string
	Animations []string
	Channels   int
	Meshes     map[string]int
}

func gltfSummarize(scene *model.ImportedScene) gltfImportSummary {
	s := gltfImportSummary{Name: scene.Name, Meshes: make(map[string]int, len(scene.Meshes))}
	for _, b := range scene.Bones {
		s.Bones = append(s.Bones, b.Name)
	}
	for _, a := range scene.Animations {
		s.Animations = append(s.Animations, a.Name)
		s.Channels += len(a.Channels)
	}
	for _, m := range scene.Meshes {
		s.Meshes[m.Name] = len(m.Positions)
	}
	return s
}

// gltfExtractSceneName picks the default scene's name, falling back to the file name.
func gltfExtractSceneName(doc *gltf.Document, path string) string {
	if i, ok := gltfIndex(doc.Scene); ok && i < len(doc.Scenes) && doc.Scenes[i].Name != "" {
		return doc.Scenes[i].Name
	}
	if len(doc.Scenes) > 0 && doc.Scenes[0].Name != "" {
		return doc.Scenes[0].Name
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// gltfNodeName returns the node's name, synthesizing one for unnamed nodes so bones and
// channels can still be matched by name.
func gltfNodeName(doc *gltf.Document, idx int) string {
	if idx >= 0 && idx < len(doc.Nodes) && doc.Nodes[idx].Name != "" {
		return doc.Nodes[idx].Name
	}
	return fmt.Sprintf("node_%d", idx)
}

// gltfIndex dereferences an optional glTF index.
func gltfIndex[T ~uint32 | ~int](p *T) (int, bool) {
	if p == nil {
		return 0, false
	}
	return int(*p), true
}
