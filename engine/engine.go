package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/volcano/common"
	"github.com/Carmen-Shannon/volcano/engine/config"
	"github.com/Carmen-Shannon/volcano/engine/profiler"
	"github.com/Carmen-Shannon/volcano/engine/renderer"
	"github.com/Carmen-Shannon/volcano/engine/scene"
	"github.com/Carmen-Shannon/volcano/engine/window"
)

// engine implements the Engine interface.
// Every Step runs on the goroutine that called Run.
type engine struct {
	running atomic.Bool

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene
	configs  <-chan config.SceneConfig
	logger   *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	fixedStep      float32
	clock          func() time.Time
	lastStep       time.Time
	frames         atomic.Uint64
}

// Engine is the main entry point for the engine.
// It drives the scene from the window's idle callback, or from a fixed-rate ticker when no
// window is attached, one Step per iteration: tick the scene, then render it.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the scene the engine drives.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the headless tick rate in frames per second.
	// It must be called before Run.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// Step applies the newest pending config, advances the scene by deltaTime and renders it.
	// Render failures are logged and returned; they never stop the loop.
	//
	// Parameters:
	//   - deltaTime: the tick duration in seconds
	//
	// Returns:
	//   - error: the render error, if any
	Step(deltaTime float32) error

	// Frames returns the number of completed Steps.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Run starts the main engine loop and blocks until the window closes or Quit is called.
	Run()

	// Quit signals the engine loop to stop.
	// Safe to call multiple times and from any goroutine; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance driving the given scene.
// Options are applied directly to the engine struct via the option-builder pattern.
// When a window is attached its resize and input callbacks are routed to the renderer and scene.
//
// Parameters:
//   - s: the scene to drive
//   - options: functional options for engine configuration (window, renderer, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(s scene.Scene, options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel:    make(chan struct{}),
		scene:          s,
		logger:         slog.Default(),
		engineTickRate: time.Second / 60,
		clock:          time.Now,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if e.window != nil {
		e.bindWindow()
	}
	return e
}

func (e *engine) bindWindow() {
	e.window.SetResizeCallback(func(width, height int) {
		if e.renderer != nil {
			e.renderer.Resize(width, height)
		}
		e.scene.Resize(width, height)
	})
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		e.scene.SetKey(int(keyCode), true)
	})
	e.window.SetKeyUpCallback(func(keyCode uint32) {
		e.scene.SetKey(int(keyCode), false)
	})
	e.window.SetMouseButtonCallback(func(button common.MouseButton, pressed bool, x, y int32) {
		e.scene.MouseButton(button, pressed, float32(x), float32(y))
	})
	e.window.SetMouseMoveCallback(func(x, y int32) {
		e.scene.MouseMove(float32(x), float32(y))
	})
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Step(deltaTime float32) error {
	e.drainConfigs()
	e.scene.Update(deltaTime)

	var err error
	if e.renderer != nil {
		if err = e.scene.Render(e.renderer); err != nil {
			e.logger.Warn("[Engine] render failed", "frame", e.frames.Load(), "error", err)
		}
	}

	if e.profilingEnabled {
		e.profiler.Tick(e.scene.Stats())
	}
	e.frames.Add(1)
	return err
}

// drainConfigs hands the newest published config to the scene.
func (e *engine) drainConfigs() {
	if e.configs == nil {
		return
	}
	for {
		select {
		case cfg, ok := <-e.configs:
			if !ok {
				e.configs = nil
				return
			}
			e.scene.ApplyConfig(cfg)
		default:
			return
		}
	}
}

// elapsed returns the fixed step when one is set, else the wall time since the previous Step.
func (e *engine) elapsed() float32 {
	if e.fixedStep > 0 {
		return e.fixedStep
	}
	now := e.clock()
	dt := float32(now.Sub(e.lastStep).Seconds())
	e.lastStep = now
	return dt
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

func (e *engine) Run() {
	if !e.running.CompareAndSwap(false, true) {
		return
	}
	defer e.running.Store(false)

	e.lastStep = e.clock()
	if e.window == nil {
		e.runHeadless()
		return
	}

	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			_ = e.window.Close()
			return
		default:
		}
		_ = e.Step(e.elapsed())
	})
	e.window.ProcessMessages()
	e.Quit()
}

// runHeadless ticks the scene at the configured rate until Quit is called.
func (e *engine) runHeadless() {
	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			_ = e.Step(e.elapsed())
		}
	}
}

// Quit signals the engine loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	e.engineTickRate = time.Duration(float64(time.Second) / fps)
}
