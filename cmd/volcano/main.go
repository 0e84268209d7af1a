package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/volcano/engine"
	"github.com/Carmen-Shannon/volcano/engine/config"
	"github.com/Carmen-Shannon/volcano/engine/loader"
	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/Carmen-Shannon/volcano/engine/renderer"
	"github.com/Carmen-Shannon/volcano/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/volcano/engine/scene"
	"github.com/Carmen-Shannon/volcano/engine/window"
)

func main() {
	configPath := flag.String("config", "", "scene config file (.yaml, .yml or .toml)")
	headless := flag.Bool("headless", false, "run the simulation without a window")
	profile := flag.Bool("profile", false, "log frame and memory stats once a second")
	flag.Parse()

	// ── Config ──────────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("[Main] config load failed", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	var configs <-chan config.SceneConfig
	if *configPath != "" {
		w, err := config.NewWatcher(*configPath, config.WithWatcherLogger(logger))
		if err != nil {
			logger.Warn("[Main] config watch disabled", "error", err)
		} else {
			defer w.Close()
			configs = w.Configs()
		}
	}

	// ── Assets ──────────────────────────────────────────────────────────
	assets := loadAssets(cfg, logger)

	// ── Scene ───────────────────────────────────────────────────────────
	s := scene.NewScene(cfg.Window.Title, scene.ConfigOptions(cfg, assets, logger)...)

	opts := []engine.EngineBuilderOption{
		engine.WithLogger(logger),
		engine.WithConfigs(configs),
		engine.WithFixedStep(cfg.Engine.TickSeconds),
		engine.WithProfiling(cfg.Engine.Profile || *profile),
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	if !(cfg.Engine.Headless || *headless) {
		win := window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)
		defer win.Close()

		lib := pipeline.NewLibrary(
			pipeline.WithLogger(logger),
			pipeline.WithPipelines(pipeline.NewParticlePipeline(scene.PipelineParticles)),
			pipeline.WithPipelines(pipeline.NewLavaPipeline(scene.PipelineLava)),
			pipeline.WithPipelines(pipeline.NewModelPipelines(scene.PipelineModel, cfg.Animation.MaxBones)...),
		)
		defer lib.Release()

		r := renderer.NewRenderer(
			renderer.BackendTypeWGPU,
			win,
			renderer.WithLogger(logger),
			renderer.WithDrawHook(lib.Hook()),
		)
		defer r.Release()

		opts = append(opts, engine.WithWindow(win), engine.WithRenderer(r))
	}

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(s, opts...)
	logger.Info("[Main] running", "title", cfg.Window.Title, "headless", eng.Window() == nil)
	eng.Run()
}

// loadAssets imports the configured models in parallel. A model that fails to load is logged
// and left nil so the scene still simulates without drawing it.
func loadAssets(cfg config.SceneConfig, logger *slog.Logger) scene.Assets {
	mode, err := cfg.GlobalInverseMode()
	if err != nil {
		logger.Warn("[Main] global inverse mode", "error", err)
	}

	paths := make([]string, 0, 2+len(cfg.Models.Static))
	paths = append(paths, cfg.Models.Fish, cfg.Models.Crab)
	paths = append(paths, cfg.Models.Static...)

	paths = nonEmpty(paths)
	l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(logger))
	scenes, err := l.LoadAll(paths)
	if err != nil {
		logger.Warn("[Main] some models failed to load", "error", err)
	}

	byPath := make(map[string]*model.ImportedScene, len(scenes))
	for i, imported := range scenes {
		if imported != nil {
			byPath[paths[i]] = imported
		}
	}
	build := func(path string) model.Model {
		imported := byPath[path]
		if imported == nil {
			return nil
		}
		m, err := model.NewModel(imported,
			model.WithGlobalInverseMode(mode),
			model.WithLogger(logger),
		)
		if err != nil {
			logger.Warn("[Main] model build failed", "path", path, "error", err)
			return nil
		}
		return m
	}

	assets := scene.Assets{
		Fish: build(cfg.Models.Fish),
		Crab: build(cfg.Models.Crab),
	}
	for _, path := range cfg.Models.Static {
		if m := build(path); m != nil {
			assets.Static = append(assets.Static, m)
		}
	}
	return assets
}

func nonEmpty(paths []string) []string {
	out := paths[:0:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
