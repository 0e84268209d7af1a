package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/volcano/engine/camera"
	"github.com/Carmen-Shannon/volcano/engine/config"
	"github.com/Carmen-Shannon/volcano/engine/game_object"
	"github.com/Carmen-Shannon/volcano/engine/lava"
	"github.com/Carmen-Shannon/volcano/engine/light"
	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/Carmen-Shannon/volcano/engine/particle"
	"github.com/Carmen-Shannon/volcano/engine/renderer/animator"
	"github.com/go-gl/mathgl/mgl32"
)

// Assets are the models a scene draws. Any of them may be nil when the file failed to load.
type Assets struct {
	Fish   model.Model
	Crab   model.Model
	Static []model.Model
}

// ConfigOptions builds the scene objects described by cfg.
// Skinned assets get one animator each, configured from the animation section.
//
// Parameters:
//   - cfg: a validated scene config
//   - assets: the loaded models
//   - logger: the logger handed to every object that reports diagnostics
//
// Returns:
//   - []SceneBuilderOption: options for NewScene
func ConfigOptions(cfg config.SceneConfig, assets Assets, logger *slog.Logger) []SceneBuilderOption {
	if logger == nil {
		logger = slog.Default()
	}

	c := cfg.Camera
	cam := camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(c.FovDegrees)),
		camera.WithAspect(float32(cfg.Window.Width)/float32(cfg.Window.Height)),
		camera.WithNear(c.Near),
		camera.WithFar(c.Far),
		camera.WithController(camera.NewCameraController(
			camera.WithPosition(c.Position),
			camera.WithYawPitch(c.Yaw, c.Pitch),
			camera.WithMoveSpeed(c.MoveSpeed),
			camera.WithMouseSensitivity(c.MouseSensitivity),
			camera.WithPitchLimit(c.PitchLimit),
		)),
	)

	p := cfg.Particles
	pool := particle.NewParticlePool(
		particle.WithCapacity(p.Capacity),
		particle.WithMaxLifetime(p.MaxLifetime),
		particle.WithEmissionOrigin(p.Origin),
		particle.WithSeed(p.Seed),
		particle.WithLogger(logger),
	)

	newAnimator := func(m model.Model) animator.Animator {
		if m == nil || !m.Skinned() {
			return nil
		}
		return animator.NewAnimator(
			animator.WithMaxBones(cfg.Animation.MaxBones),
			animator.WithFallbackTicksPerSecond(cfg.Animation.FallbackTicksPerSecond),
			animator.WithSpeed(cfg.Animation.Speed),
			animator.WithModel(m),
		)
	}
	fishAnim := newAnimator(assets.Fish)
	crabAnim := newAnimator(assets.Crab)

	schoolObj := []game_object.GameObjectBuilderOption{game_object.WithModel(assets.Fish)}
	if fishAnim != nil {
		schoolObj = append(schoolObj, game_object.WithAnimator(fishAnim))
	}
	school := game_object.NewFishSchool(
		game_object.WithFishCount(cfg.Fish.Count),
		game_object.WithFishSpeed(cfg.Fish.Speed),
		game_object.WithSchoolObject(game_object.NewGameObject(schoolObj...)),
	)

	crabs := make([]game_object.Crab, 0, len(cfg.Crabs.Placements))
	for i, pl := range cfg.Crabs.Placements {
		obj := game_object.NewGameObject(
			game_object.WithID(uint64(i)),
			game_object.WithModel(assets.Crab),
			game_object.WithPosition(pl.Position[0], pl.Position[1], pl.Position[2]),
			game_object.WithRotation(0, mgl32.DegToRad(pl.YawDegrees), 0),
			game_object.WithBoundingRadius(cfg.Crabs.Radius),
		)
		crabs = append(crabs, game_object.NewCrab(
			game_object.WithCrabObject(obj),
			game_object.WithFleeDuration(cfg.Crabs.FleeSeconds),
			game_object.WithFleeVelocity(cfg.Crabs.FleeVelocity),
		))
	}

	l := cfg.Lava
	surface := lava.NewSurface(
		lava.WithResolution(l.Rows, l.Cols),
		lava.WithSize(l.Width, l.Depth),
		lava.WithPlacement(l.Placement),
		lava.WithWave(lava.Wave{Amplitude: l.Amplitude, Frequency: l.Frequency, Phase: l.Phase}),
	)

	sun := light.NewSun(
		light.WithColor(cfg.Light.Color[0], cfg.Light.Color[1], cfg.Light.Color[2]),
		light.WithIntensity(cfg.Light.Intensity),
	)

	return []SceneBuilderOption{
		WithLogger(logger),
		WithViewport(cfg.Window.Width, cfg.Window.Height),
		WithCamera(cam),
		WithParticlePool(pool),
		WithSpawnBudget(p.SpawnBudget),
		WithParticleStep(p.StepSeconds),
		WithAnimators(fishAnim, crabAnim),
		WithFishSchool(school, assets.Fish),
		WithCrabHerd(game_object.NewCrabHerd(logger, crabs...), assets.Crab),
		WithLava(surface),
		WithSun(sun),
		WithStaticModels(assets.Static...),
	}
}
