package scene

import (
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/volcano/common"
	"github.com/Carmen-Shannon/volcano/engine/camera"
	"github.com/Carmen-Shannon/volcano/engine/config"
	"github.com/Carmen-Shannon/volcano/engine/game_object"
	"github.com/Carmen-Shannon/volcano/engine/lava"
	"github.com/Carmen-Shannon/volcano/engine/light"
	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/Carmen-Shannon/volcano/engine/particle"
	"github.com/Carmen-Shannon/volcano/engine/profiler"
	"github.com/Carmen-Shannon/volcano/engine/renderer"
	"github.com/Carmen-Shannon/volcano/engine/renderer/animator"
	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Pipeline names carried by the draw calls. The host's draw hook owns the pipelines.
const (
	PipelineParticles = "particles"
	PipelineLava      = "lava"
	PipelineModel     = "model"
)

const (
	// DefaultSpawnBudget is the number of particles resurrected per frame.
	DefaultSpawnBudget = 3

	// DefaultParticleStep is the fixed integration step of the particle pool, in seconds.
	// The pool advances by this amount every frame regardless of wall-clock time.
	DefaultParticleStep float32 = 0.01

	quadVertexCount = 6
)

// meshRef is one mesh's GPU buffers, staged on first use.
type meshRef struct {
	vertexKey  string
	indexKey   string
	vertexData []byte
	indexData  []byte
	count      uint32
	staged     bool
}

func (m *meshRef) stage(frame *staging.Frame) {
	if m.staged {
		return
	}
	frame.Writes = append(frame.Writes,
		staging.BufferWrite{Buffer: m.vertexKey, Usage: staging.BufferUsageVertex, Data: m.vertexData},
		staging.BufferWrite{Buffer: m.indexKey, Usage: staging.BufferUsageIndex, Data: m.indexData},
	)
	m.staged = true
}

// instanced is a mesh drawn once per model matrix from its own instance buffer.
type instanced struct {
	mesh        *meshRef
	instanceKey string
	bonesKey    string
	buf         []byte
}

func (in *instanced) stage(frame *staging.Frame, uniforms []string, matrices []mgl32.Mat4) {
	if in.mesh == nil || len(matrices) == 0 {
		return
	}
	in.mesh.stage(frame)
	if len(in.buf) != len(matrices)*64 {
		in.buf = make([]byte, len(matrices)*64)
	}
	for i, m := range matrices {
		common.PutMat4(in.buf[i*64:(i+1)*64], m)
	}
	frame.Writes = append(frame.Writes, staging.BufferWrite{
		Buffer: in.instanceKey,
		Usage:  staging.BufferUsageVertex,
		Data:   in.buf,
	})

	if in.bonesKey != "" {
		uniforms = append(uniforms, in.bonesKey)
	}
	frame.Draws = append(frame.Draws, staging.DrawCall{
		Pipeline:       PipelineModel,
		VertexBuffers:  []string{in.mesh.vertexKey, in.instanceKey},
		IndexBuffer:    in.mesh.indexKey,
		UniformBuffers: uniforms,
		Count:          in.mesh.count,
		InstanceCount:  uint32(len(matrices)),
	})
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex // guards pending only; everything else belongs to the frame loop

	name   string
	logger *slog.Logger

	cam       camera.Camera
	particles particle.ParticlePool
	fish      game_object.FishSchool
	crabs     game_object.CrabHerd
	lava      lava.Surface
	sun       light.Sun
	animators []animator.Animator

	fishModel    model.Model
	crabModel    model.Model
	staticModels []model.Model

	spawnBudget  int
	particleStep float32
	elapsed      float32
	width        int
	height       int

	pending *config.SceneConfig

	// Render state, built lazily on the first Render.
	ready       bool
	fishParts   [3]*instanced
	crabDraw    *instanced
	staticDraws []*instanced
	lavaModel   []byte
	lavaStaged  bool
	crabMats    []mgl32.Mat4
	frame       staging.Frame
}

// Scene defines the interface for the underwater volcano scene.
//
// A Scene owns every simulated object and advances them in a fixed order once per tick.
// Rendering stages named buffer writes and draw calls; the Scene never touches GPU objects.
// Update, Render and the input setters must be called from the frame loop. ApplyConfig may be
// called from any goroutine; the config takes effect at the start of the next Update.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Update advances the scene by one tick in the order: pending config, sun, fish, crabs,
	// particles, lava, animators, camera.
	//
	// Parameters:
	//   - deltaTime: the tick duration in seconds
	Update(deltaTime float32)

	// Render stages the frame's buffer writes and draw calls and hands them to the renderer.
	// No particle draw is emitted while no particle is alive.
	//
	// Parameters:
	//   - r: the renderer to submit to
	//
	// Returns:
	//   - error: the first renderer error
	Render(r renderer.Renderer) error

	// ApplyConfig queues a config whose tunables are applied at the start of the next Update.
	// Only the most recent config is kept.
	//
	// Parameters:
	//   - cfg: the new config
	ApplyConfig(cfg config.SceneConfig)

	// Resize updates the viewport used for the camera aspect and picking.
	// A zero dimension is ignored.
	//
	// Parameters:
	//   - width: the viewport width in pixels
	//   - height: the viewport height in pixels
	Resize(width, height int)

	// SetKey forwards a key press or release to the camera controller.
	//
	// Parameters:
	//   - key: the key code
	//   - pressed: true on press, false on release
	SetKey(key int, pressed bool)

	// MouseButton forwards a mouse button event to the camera controller.
	// A left press also casts a picking ray and startles the nearest crab it hits.
	//
	// Parameters:
	//   - button: the mouse button
	//   - pressed: true on press, false on release
	//   - x, y: the cursor position in pixels
	MouseButton(button common.MouseButton, pressed bool, x, y float32)

	// MouseMove forwards a cursor move to the camera controller.
	//
	// Parameters:
	//   - x, y: the cursor position in pixels
	MouseMove(x, y float32)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Particles returns the ash particle pool.
	Particles() particle.ParticlePool

	// Fish returns the fish school.
	Fish() game_object.FishSchool

	// Crabs returns the crab herd.
	Crabs() game_object.CrabHerd

	// Lava returns the lava surface.
	Lava() lava.Surface

	// Sun returns the moving sun.
	Sun() light.Sun

	// Animators returns the skeletal animators advanced every tick.
	Animators() []animator.Animator

	// Elapsed returns the accumulated tick time in seconds.
	Elapsed() float32

	// SpawnBudget returns the particles resurrected per Update.
	SpawnBudget() int

	// ParticleStep returns the fixed particle integration step.
	ParticleStep() float32

	// Stats returns the counters the profiler reports.
	//
	// Returns:
	//   - profiler.FrameStats: alive particles and bones evaluated this tick
	Stats() profiler.FrameStats
}

var _ Scene = &scene{}

// NewScene creates a Scene with default objects, then applies each option in order.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:           &sync.Mutex{},
		name:         name,
		logger:       slog.Default(),
		spawnBudget:  DefaultSpawnBudget,
		particleStep: DefaultParticleStep,
		width:        1440,
		height:       720,
	}
	for _, opt := range options {
		opt(s)
	}

	if s.cam == nil {
		s.cam = camera.NewCamera(camera.WithController(camera.NewCameraController()))
	}
	if s.particles == nil {
		s.particles = particle.NewParticlePool(particle.WithLogger(s.logger))
	}
	if s.fish == nil {
		s.fish = game_object.NewFishSchool()
	}
	if s.crabs == nil {
		s.crabs = game_object.NewCrabHerd(s.logger, game_object.NewCrabsFromPlacements(game_object.DefaultCrabPlacements)...)
	}
	if s.lava == nil {
		s.lava = lava.NewSurface()
	}
	if s.sun == nil {
		s.sun = light.NewSun()
	}
	s.cam.SetAspect(float32(s.width) / float32(s.height))
	s.cam.Update()
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Update(deltaTime float32) {
	s.applyPending()

	s.elapsed += deltaTime
	s.sun.Update(s.elapsed)
	s.fish.Update(deltaTime, s.elapsed)

	var camPos mgl32.Vec3
	if ctrl := s.cam.Controller(); ctrl != nil {
		camPos = ctrl.Position()
	}
	s.crabs.Update(deltaTime, camPos)

	s.particles.Update(s.particleStep, s.spawnBudget)
	s.lava.Update(s.elapsed)

	for _, a := range s.animators {
		a.PrepareFrame(deltaTime)
	}

	if ctrl := s.cam.Controller(); ctrl != nil {
		ctrl.Tick()
	}
	s.cam.Update()
}

func (s *scene) applyPending() {
	s.mu.Lock()
	cfg := s.pending
	s.pending = nil
	s.mu.Unlock()
	if cfg == nil {
		return
	}

	s.spawnBudget = max(cfg.Particles.SpawnBudget, 0)
	if cfg.Particles.StepSeconds > 0 {
		s.particleStep = cfg.Particles.StepSeconds
	}
	s.particles.SetEmissionOrigin(cfg.Particles.Origin)
	s.fish.SetSpeed(cfg.Fish.Speed)
	if ctrl := s.cam.Controller(); ctrl != nil && cfg.Camera.MoveSpeed > 0 {
		ctrl.SetMoveSpeed(cfg.Camera.MoveSpeed)
	}
	for _, a := range s.animators {
		a.SetSpeed(cfg.Animation.Speed)
	}
	l := s.sun.Light()
	l.SetColor(cfg.Light.Color)
	l.SetIntensity(cfg.Light.Intensity)

	s.logger.Info("[Scene] config applied",
		"spawn_budget", s.spawnBudget,
		"particle_step", s.particleStep,
		"fish_speed", cfg.Fish.Speed,
		"camera_speed", cfg.Camera.MoveSpeed,
	)
}

func (s *scene) ApplyConfig(cfg config.SceneConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &cfg
}

func (s *scene) prepareDraws() {
	if s.ready {
		return
	}
	s.ready = true

	if s.fishModel != nil {
		bones := s.bonesKey(s.fishModel)
		meshes := s.fishModel.Meshes()
		if len(meshes) >= len(s.fishParts) {
			for i := range s.fishParts {
				part := game_object.FishPart(i)
				s.fishParts[i] = &instanced{
					mesh:        partMesh(s.fishModel, i),
					instanceKey: s.fish.BufferKey(part),
					bonesKey:    bones,
				}
			}
		} else {
			s.fishParts[game_object.FishBody] = &instanced{
				mesh:        wholeMesh(s.fishModel),
				instanceKey: s.fish.BufferKey(game_object.FishBody),
				bonesKey:    bones,
			}
		}
	}

	if s.crabModel != nil {
		s.crabDraw = &instanced{
			mesh:        wholeMesh(s.crabModel),
			instanceKey: "crabs/instances",
			bonesKey:    s.bonesKey(s.crabModel),
		}
	}

	for _, m := range s.staticModels {
		s.staticDraws = append(s.staticDraws, &instanced{
			mesh:        wholeMesh(m),
			instanceKey: "static/" + m.Name() + "/instance",
		})
	}
}

func (s *scene) bonesKey(m model.Model) string {
	for _, a := range s.animators {
		if a.Model() == m {
			return a.BufferKey()
		}
	}
	return ""
}

func wholeMesh(m model.Model) *meshRef {
	return &meshRef{
		vertexKey:  "mesh/" + m.Name(),
		indexKey:   "mesh/" + m.Name() + "/index",
		vertexData: m.VertexData(),
		indexData:  m.IndexData(),
		count:      uint32(m.IndexCount()),
	}
}

func partMesh(m model.Model, i int) *meshRef {
	mesh := &m.Meshes()[i]
	vertices, indices := model.PackMesh(mesh)
	key := "mesh/" + m.Name() + "/" + mesh.Name
	return &meshRef{
		vertexKey:  key,
		indexKey:   key + "/index",
		vertexData: vertices,
		indexData:  indices,
		count:      uint32(len(mesh.Indices)),
	}
}

func (s *scene) Render(r renderer.Renderer) error {
	s.prepareDraws()
	s.frame.Reset()

	s.cam.Flush()
	s.frame.Writes = append(s.frame.Writes, s.cam.StagedWriteData()...)
	s.sun.Flush()
	s.frame.Writes = append(s.frame.Writes, s.sun.StagedWriteData()...)
	lit := []string{s.cam.BufferKey(), s.sun.BufferKey()}

	if !s.lavaStaged {
		s.lavaModel = make([]byte, 64)
		common.PutMat4(s.lavaModel, s.lava.ModelMatrix())
		s.frame.Writes = append(s.frame.Writes, staging.BufferWrite{
			Buffer: s.lavaModelKey(),
			Usage:  staging.BufferUsageUniform,
			Data:   s.lavaModel,
		})
		s.lavaStaged = true
	}
	lavaCount := s.lava.Flush()
	s.frame.Writes = append(s.frame.Writes, s.lava.StagedWriteData()...)
	s.frame.Draws = append(s.frame.Draws, staging.DrawCall{
		Pipeline:       PipelineLava,
		VertexBuffers:  []string{s.lava.VertexBufferKey()},
		IndexBuffer:    s.lava.IndexBufferKey(),
		UniformBuffers: []string{s.cam.BufferKey(), s.sun.BufferKey(), s.lavaModelKey()},
		Count:          lavaCount,
		InstanceCount:  1,
	})

	for _, a := range s.animators {
		a.Flush()
		s.frame.Writes = append(s.frame.Writes, a.StagedWriteData()...)
	}

	s.fish.Flush()
	s.frame.Writes = append(s.frame.Writes, s.fish.StagedWriteData()...)
	for i, part := range s.fishParts {
		if part == nil {
			continue
		}
		// The school already staged the instance buffer; only the mesh and draw remain.
		part.mesh.stage(&s.frame)
		uniforms := append([]string{}, lit...)
		if part.bonesKey != "" {
			uniforms = append(uniforms, part.bonesKey)
		}
		s.frame.Draws = append(s.frame.Draws, staging.DrawCall{
			Pipeline:       PipelineModel,
			VertexBuffers:  []string{part.mesh.vertexKey, part.instanceKey},
			IndexBuffer:    part.mesh.indexKey,
			UniformBuffers: uniforms,
			Count:          part.mesh.count,
			InstanceCount:  uint32(len(s.fish.PartMatrices(game_object.FishPart(i)))),
		})
	}

	if s.crabDraw != nil {
		s.crabMats = s.crabs.ModelMatrices(s.crabMats[:0])
		s.crabDraw.stage(&s.frame, append([]string{}, lit...), s.crabMats)
	}

	for _, d := range s.staticDraws {
		d.stage(&s.frame, append([]string{}, lit...), []mgl32.Mat4{mgl32.Ident4()})
	}

	if n := s.particles.Flush(); n > 0 {
		s.frame.Draws = append(s.frame.Draws, staging.DrawCall{
			Pipeline:       PipelineParticles,
			VertexBuffers:  []string{s.particles.QuadBufferKey(), s.particles.InstanceBufferKey()},
			UniformBuffers: []string{s.cam.BufferKey()},
			Count:          quadVertexCount,
			InstanceCount:  n,
		})
	}
	s.frame.Writes = append(s.frame.Writes, s.particles.StagedWriteData()...)

	if err := r.WriteBuffers(s.frame.Writes); err != nil {
		return errors.Wrap(err, "write buffers")
	}
	return errors.Wrap(r.Submit(s.frame.Draws), "submit")
}

func (s *scene) lavaModelKey() string {
	return s.lava.VertexBufferKey() + "/model"
}

func (s *scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.cam.SetAspect(float32(width) / float32(height))
}

func (s *scene) SetKey(key int, pressed bool) {
	if ctrl := s.cam.Controller(); ctrl != nil {
		ctrl.SetKey(key, pressed)
	}
}

func (s *scene) MouseButton(button common.MouseButton, pressed bool, x, y float32) {
	if ctrl := s.cam.Controller(); ctrl != nil {
		ctrl.MouseButton(button, pressed, x, y)
	}
	if button != common.MouseButtonLeft || !pressed {
		return
	}
	ray, ok := s.cam.ScreenRay(x, y, float32(s.width), float32(s.height))
	if !ok {
		return
	}
	s.crabs.Pick(ray)
}

func (s *scene) MouseMove(x, y float32) {
	if ctrl := s.cam.Controller(); ctrl != nil {
		ctrl.MouseMove(x, y)
	}
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Particles() particle.ParticlePool {
	return s.particles
}

func (s *scene) Fish() game_object.FishSchool {
	return s.fish
}

func (s *scene) Crabs() game_object.CrabHerd {
	return s.crabs
}

func (s *scene) Lava() lava.Surface {
	return s.lava
}

func (s *scene) Sun() light.Sun {
	return s.sun
}

func (s *scene) Animators() []animator.Animator {
	return s.animators
}

func (s *scene) Elapsed() float32 {
	return s.elapsed
}

func (s *scene) SpawnBudget() int {
	return s.spawnBudget
}

func (s *scene) ParticleStep() float32 {
	return s.particleStep
}

func (s *scene) Stats() profiler.FrameStats {
	bones := 0
	for _, a := range s.animators {
		bones += a.BoneCount()
	}
	return profiler.FrameStats{AliveParticles: s.particles.AliveCount(), Bones: bones}
}
