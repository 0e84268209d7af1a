package config

import (
	"log/slog"
	"strings"

	"github.com/Carmen-Shannon/volcano/engine/camera"
	"github.com/Carmen-Shannon/volcano/engine/game_object"
	"github.com/Carmen-Shannon/volcano/engine/lava"
	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/Carmen-Shannon/volcano/engine/particle"
	"github.com/Carmen-Shannon/volcano/engine/renderer/animator"
	"github.com/pkg/errors"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid scene config")

// SceneConfig is the full set of tunables for the volcano scene.
// Fields missing from a config file keep their Default values.
type SceneConfig struct {
	Window    WindowConfig    `yaml:"window" toml:"window"`
	Engine    EngineConfig    `yaml:"engine" toml:"engine"`
	Camera    CameraConfig    `yaml:"camera" toml:"camera"`
	Particles ParticleConfig  `yaml:"particles" toml:"particles"`
	Animation AnimationConfig `yaml:"animation" toml:"animation"`
	Fish      FishConfig      `yaml:"fish" toml:"fish"`
	Crabs     CrabConfig      `yaml:"crabs" toml:"crabs"`
	Lava      LavaConfig      `yaml:"lava" toml:"lava"`
	Light     LightConfig     `yaml:"light" toml:"light"`
	Models    ModelsConfig    `yaml:"models" toml:"models"`
}

// WindowConfig sizes the host window.
type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

// EngineConfig controls the frame loop.
type EngineConfig struct {
	// TickSeconds is the fixed step fed to fish, crabs and animators each frame.
	TickSeconds float32 `yaml:"tick_seconds" toml:"tick_seconds"`

	// Headless runs the loop from a ticker instead of a window.
	Headless bool `yaml:"headless" toml:"headless"`

	// Profile enables the once-a-second profiler log.
	Profile bool `yaml:"profile" toml:"profile"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

type CameraConfig struct {
	Position         [3]float32 `yaml:"position" toml:"position"`
	Yaw              float32    `yaml:"yaw" toml:"yaw"`
	Pitch            float32    `yaml:"pitch" toml:"pitch"`
	MoveSpeed        float32    `yaml:"move_speed" toml:"move_speed"`
	MouseSensitivity float32    `yaml:"mouse_sensitivity" toml:"mouse_sensitivity"`
	PitchLimit       float32    `yaml:"pitch_limit" toml:"pitch_limit"`
	FovDegrees       float32    `yaml:"fov_degrees" toml:"fov_degrees"`
	Near             float32    `yaml:"near" toml:"near"`
	Far              float32    `yaml:"far" toml:"far"`
}

type ParticleConfig struct {
	Capacity    int        `yaml:"capacity" toml:"capacity"`
	MaxLifetime float32    `yaml:"max_lifetime" toml:"max_lifetime"`
	StepSeconds float32    `yaml:"step_seconds" toml:"step_seconds"`
	SpawnBudget int        `yaml:"spawn_budget" toml:"spawn_budget"`
	Origin      [3]float32 `yaml:"origin" toml:"origin"`
	Seed        uint64     `yaml:"seed" toml:"seed"`
}

type AnimationConfig struct {
	// GlobalInverse is one of auto, always or never.
	GlobalInverse          string  `yaml:"global_inverse" toml:"global_inverse"`
	FallbackTicksPerSecond float32 `yaml:"fallback_ticks_per_second" toml:"fallback_ticks_per_second"`
	Speed                  float32 `yaml:"speed" toml:"speed"`
	MaxBones               int     `yaml:"max_bones" toml:"max_bones"`
}

type FishConfig struct {
	Count int     `yaml:"count" toml:"count"`
	Speed float32 `yaml:"speed" toml:"speed"`
}

type CrabPlacementConfig struct {
	Position   [3]float32 `yaml:"position" toml:"position"`
	YawDegrees float32    `yaml:"yaw_degrees" toml:"yaw_degrees"`
}

type CrabConfig struct {
	FleeSeconds  float32               `yaml:"flee_seconds" toml:"flee_seconds"`
	FleeVelocity [3]float32            `yaml:"flee_velocity" toml:"flee_velocity"`
	Radius       float32               `yaml:"radius" toml:"radius"`
	Placements   []CrabPlacementConfig `yaml:"placements" toml:"placements"`
}

type LavaConfig struct {
	Rows      int        `yaml:"rows" toml:"rows"`
	Cols      int        `yaml:"cols" toml:"cols"`
	Width     float32    `yaml:"width" toml:"width"`
	Depth     float32    `yaml:"depth" toml:"depth"`
	Placement [3]float32 `yaml:"placement" toml:"placement"`
	Amplitude float32    `yaml:"amplitude" toml:"amplitude"`
	Frequency float32    `yaml:"frequency" toml:"frequency"`
	Phase     float32    `yaml:"phase" toml:"phase"`
}

type LightConfig struct {
	Color     [3]float32 `yaml:"color" toml:"color"`
	Intensity float32    `yaml:"intensity" toml:"intensity"`
}

// ModelsConfig lists the asset files the scene loads.
type ModelsConfig struct {
	Fish   string   `yaml:"fish" toml:"fish"`
	Crab   string   `yaml:"crab" toml:"crab"`
	Static []string `yaml:"static" toml:"static"`
}

// Default returns the configuration the demo ships with.
//
// Returns:
//   - SceneConfig: a fully populated config
func Default() SceneConfig {
	placements := make([]CrabPlacementConfig, len(game_object.DefaultCrabPlacements))
	for i, p := range game_object.DefaultCrabPlacements {
		placements[i] = CrabPlacementConfig{Position: p.Position, YawDegrees: p.YawDeg}
	}

	return SceneConfig{
		Window: WindowConfig{Title: "Underwater Volcano", Width: 1440, Height: 720},
		Engine: EngineConfig{TickSeconds: 0.016, LogLevel: "info"},
		Camera: CameraConfig{
			Position:         camera.DefaultPosition,
			Yaw:              camera.DefaultYaw,
			Pitch:            camera.DefaultPitch,
			MoveSpeed:        camera.DefaultMoveSpeed,
			MouseSensitivity: camera.DefaultMouseSensitivity,
			PitchLimit:       camera.DefaultPitchLimit,
			FovDegrees:       45,
			Near:             0.1,
			Far:              1000,
		},
		Particles: ParticleConfig{
			Capacity:    particle.DefaultCapacity,
			MaxLifetime: particle.DefaultMaxLifetime,
			StepSeconds: 0.01,
			SpawnBudget: 3,
			Origin:      particle.DefaultEmissionOrigin,
			Seed:        1,
		},
		Animation: AnimationConfig{
			GlobalInverse:          "auto",
			FallbackTicksPerSecond: animator.FallbackTicksPerSecond,
			Speed:                  1,
			MaxBones:               animator.DefaultMaxBones,
		},
		Fish: FishConfig{Count: game_object.DefaultFishCount, Speed: game_object.DefaultFishSpeed},
		Crabs: CrabConfig{
			FleeSeconds:  game_object.DefaultFleeDuration,
			FleeVelocity: game_object.DefaultFleeVelocity,
			Radius:       game_object.DefaultCrabRadius,
			Placements:   placements,
		},
		Lava: LavaConfig{
			Rows:      lava.DefaultResolution,
			Cols:      lava.DefaultResolution,
			Width:     lava.DefaultSize,
			Depth:     lava.DefaultSize,
			Placement: lava.DefaultPlacement,
			Amplitude: lava.DefaultWave.Amplitude,
			Frequency: lava.DefaultWave.Frequency,
			Phase:     lava.DefaultWave.Phase,
		},
		Light: LightConfig{Color: [3]float32{1, 1, 1}, Intensity: 1},
		Models: ModelsConfig{
			Fish: "assets/fish.glb",
			Crab: "assets/crab.glb",
		},
	}
}

// Validate reports the first value the scene cannot be built with.
//
// Returns:
//   - error: ErrInvalid wrapped with the offending field, or nil
func (c *SceneConfig) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Wrapf(ErrInvalid, "window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Engine.TickSeconds <= 0:
		return errors.Wrapf(ErrInvalid, "engine.tick_seconds %v", c.Engine.TickSeconds)
	case c.Particles.Capacity <= 0:
		return errors.Wrapf(ErrInvalid, "particles.capacity %d", c.Particles.Capacity)
	case c.Particles.MaxLifetime <= 0:
		return errors.Wrapf(ErrInvalid, "particles.max_lifetime %v", c.Particles.MaxLifetime)
	case c.Particles.SpawnBudget < 0:
		return errors.Wrapf(ErrInvalid, "particles.spawn_budget %d", c.Particles.SpawnBudget)
	case c.Fish.Count < 0:
		return errors.Wrapf(ErrInvalid, "fish.count %d", c.Fish.Count)
	case c.Lava.Rows < 2 || c.Lava.Cols < 2:
		return errors.Wrapf(ErrInvalid, "lava resolution %dx%d", c.Lava.Rows, c.Lava.Cols)
	case c.Camera.PitchLimit <= 0 || c.Camera.PitchLimit >= 90:
		return errors.Wrapf(ErrInvalid, "camera.pitch_limit %v", c.Camera.PitchLimit)
	}
	if _, err := c.GlobalInverseMode(); err != nil {
		return errors.Wrapf(ErrInvalid, "animation.global_inverse: %v", err)
	}
	return nil
}

// GlobalInverseMode parses Animation.GlobalInverse.
//
// Returns:
//   - model.GlobalInverseMode: the parsed mode
//   - error: error if the name is unknown
func (c *SceneConfig) GlobalInverseMode() (model.GlobalInverseMode, error) {
	return model.ParseGlobalInverseMode(strings.ToLower(c.Animation.GlobalInverse))
}

// LogLevel parses Engine.LogLevel, falling back to info for unknown names.
//
// Returns:
//   - slog.Level: the level
func (c *SceneConfig) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Engine.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
