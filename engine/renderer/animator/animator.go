package animator

import (
	"math"

	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/go-gl/mathgl/mgl32"
)

// animator is the implementation of the Animator interface.
type animator struct {
	model           model.Model
	opts            EvaluateOptions
	elapsed         float64
	speed           float32
	playing         bool
	bufferKey       string
	matrices        []mgl32.Mat4
	gpu             GPUBoneMatrices
	gpuBuf          []byte
	stagedWriteData []staging.BufferWrite
}

// Animator defines the public interface for skeletal playback of one model.
//
// The Animator owns the playback clock of a model's clip, evaluates the pose once per frame
// and stages the resulting skinning matrices as a uniform buffer write. It does not read GPU
// memory back.
type Animator interface {
	// SetModel binds a model, resets the playback clock and evaluates the bind pose.
	//
	// Parameters:
	//   - m: the model to animate (nil unbinds)
	SetModel(m model.Model)

	// Model returns the bound model.
	//
	// Returns:
	//   - model.Model: the model, or nil
	Model() model.Model

	// PrepareFrame advances the playback clock by deltaTime and evaluates the pose.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	PrepareFrame(deltaTime float32)

	// Flush stages the current skinning matrices as a GPU buffer write.
	// The staged data is reused by the next Flush.
	//
	// Returns:
	//   - int: the number of bone matrices written before identity padding
	Flush() int

	// StagedWriteData returns and clears the pending GPU buffer writes.
	// The Renderer should call this to drain staged writes and submit them via WriteBuffers.
	//
	// Returns:
	//   - []staging.BufferWrite: the slice of pending buffer writes
	StagedWriteData() []staging.BufferWrite

	// BoneMatrices returns the skinning matrices of the last evaluation, indexed by bone ID.
	// The slice is reused by the next PrepareFrame.
	//
	// Returns:
	//   - []mgl32.Mat4: the skinning matrices
	BoneMatrices() []mgl32.Mat4

	// BoneCount returns the number of skinning matrices produced per frame.
	//
	// Returns:
	//   - int: min(bone count, max bones)
	BoneCount() int

	// Time returns the playback clock in seconds.
	//
	// Returns:
	//   - float64: the elapsed playback time
	Time() float64

	// SetTime moves the playback clock and re-evaluates the pose.
	//
	// Parameters:
	//   - seconds: the new playback time
	SetTime(seconds float64)

	// SetSpeed sets the playback rate multiplier.
	//
	// Parameters:
	//   - speed: 1 for normal speed, 0 to freeze
	SetSpeed(speed float32)

	// SetPlaying starts or pauses the playback clock.
	//
	// Parameters:
	//   - playing: true to advance the clock in PrepareFrame
	SetPlaying(playing bool)

	// Playing reports whether the playback clock advances.
	//
	// Returns:
	//   - bool: true if playing
	Playing() bool

	// BufferKey returns the name of the uniform buffer the matrices are staged into.
	//
	// Returns:
	//   - string: the buffer name
	BufferKey() string
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the configured animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		opts:    DefaultEvaluateOptions(),
		speed:   1,
		playing: true,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animator) SetModel(m model.Model) {
	a.model = m
	a.elapsed = 0
	a.opts.GlobalInverse = mgl32.Ident4()
	a.opts.ApplyGlobalInverse = false
	if m == nil {
		a.matrices = a.matrices[:0]
		return
	}
	a.opts.GlobalInverse, a.opts.ApplyGlobalInverse = m.GlobalInverse()
	if a.bufferKey == "" {
		a.bufferKey = "bones/" + m.Name()
	}
	a.evaluate()
}

func (a *animator) Model() model.Model {
	return a.model
}

func (a *animator) PrepareFrame(deltaTime float32) {
	if a.playing {
		a.elapsed += float64(deltaTime) * float64(a.speed)
	}
	a.evaluate()
}

func (a *animator) evaluate() {
	if a.model == nil {
		return
	}
	a.matrices = EvaluateInto(a.matrices, a.model.Skeleton(), a.model.Clip(), a.loopSeconds(), a.opts)
}

// loopSeconds narrows the playback clock to float32 after wrapping it to one clip loop.
func (a *animator) loopSeconds() float32 {
	clip := a.model.Clip()
	if clip == nil || clip.Duration <= 0 {
		return float32(a.elapsed)
	}
	tps := float64(clip.TicksPerSecond)
	if tps <= 0 {
		tps = float64(a.opts.FallbackTicksPerSecond)
	}
	if tps <= 0 {
		return float32(a.elapsed)
	}
	return float32(math.Mod(a.elapsed, float64(clip.Duration)/tps))
}

func (a *animator) Flush() int {
	if a.model == nil {
		return 0
	}
	a.gpu.Bones = a.matrices
	a.gpu.MaxBones = a.opts.MaxBones
	a.gpuBuf = a.gpu.MarshalInto(a.gpuBuf)
	a.stagedWriteData = append(a.stagedWriteData, staging.BufferWrite{
		Buffer: a.bufferKey,
		Usage:  staging.BufferUsageUniform,
		Offset: 0,
		Data:   a.gpuBuf,
	})
	return len(a.matrices)
}

func (a *animator) StagedWriteData() []staging.BufferWrite {
	writes := a.stagedWriteData
	a.stagedWriteData = nil
	return writes
}

func (a *animator) BoneMatrices() []mgl32.Mat4 {
	return a.matrices
}

func (a *animator) BoneCount() int {
	return len(a.matrices)
}

func (a *animator) Time() float64 {
	return a.elapsed
}

func (a *animator) SetTime(seconds float64) {
	a.elapsed = seconds
	a.evaluate()
}

func (a *animator) SetSpeed(speed float32) {
	a.speed = speed
}

func (a *animator) SetPlaying(playing bool) {
	a.playing = playing
}

func (a *animator) Playing() bool {
	return a.playing
}

func (a *animator) BufferKey() string {
	return a.bufferKey
}
