package game_object

import (
	"github.com/Carmen-Shannon/volcano/common"
	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultFishCount is the number of fish in a school.
	DefaultFishCount = 30

	// DefaultFishSpeed is the angular speed of every fish in radians per second.
	DefaultFishSpeed float32 = 0.075
)

// FishPart names one of the separately drawn meshes of a fish.
type FishPart int

const (
	FishBody FishPart = iota
	FishHead
	FishFin
)

// String returns the buffer suffix of the part.
func (p FishPart) String() string {
	switch p {
	case FishBody:
		return "body"
	case FishHead:
		return "head"
	case FishFin:
		return "fin"
	default:
		return "unknown"
	}
}

var fishParts = [...]FishPart{FishBody, FishHead, FishFin}

type fishSchool struct {
	obj          GameObject
	count        int
	speed        float32
	orbits       []Orbit
	elapsed      float32
	headLocal    mgl32.Mat4
	finLocal     mgl32.Mat4
	body         Oscillator
	head         Oscillator
	fin          Oscillator
	bufferPrefix string

	matrices        [len(fishParts)][]mgl32.Mat4
	buffers         [len(fishParts)][]byte
	stagedWriteData []staging.BufferWrite
}

// FishSchool defines the interface for a group of fish orbiting the volcano.
// Each fish is drawn as three instanced parts. The body sways with the body oscillator; the
// head and fin are placed by their mesh-local transforms and then sway on their own.
type FishSchool interface {
	// Object returns the GameObject carrying the school's model and animator.
	//
	// Returns:
	//   - GameObject: the school object
	Object() GameObject

	// Update advances every orbit by dt and recomputes the part matrices.
	//
	// Parameters:
	//   - dt: elapsed time since the last update in seconds
	//   - elapsed: total elapsed time in seconds, driving the oscillators
	Update(dt, elapsed float32)

	// Orbits returns the per-fish orbits. Callers must not modify the slice.
	//
	// Returns:
	//   - []Orbit: one orbit per fish
	Orbits() []Orbit

	// Count returns the number of fish.
	//
	// Returns:
	//   - int: the instance count
	Count() int

	// SetSpeed changes the angular speed of every fish.
	//
	// Parameters:
	//   - speed: radians per second
	SetSpeed(speed float32)

	// PartMatrices returns the instance matrices of one part as computed by the last Update.
	//
	// Parameters:
	//   - part: the fish part
	//
	// Returns:
	//   - []mgl32.Mat4: one matrix per fish
	PartMatrices(part FishPart) []mgl32.Mat4

	// BufferKey returns the name of the instance buffer of one part.
	//
	// Parameters:
	//   - part: the fish part
	//
	// Returns:
	//   - string: the buffer name
	BufferKey(part FishPart) string

	// Flush stages the instance matrices of every part.
	//
	// Returns:
	//   - uint32: the instance count to draw
	Flush() uint32

	// StagedWriteData returns and clears the pending GPU buffer writes.
	//
	// Returns:
	//   - []staging.BufferWrite: the slice of pending buffer writes
	StagedWriteData() []staging.BufferWrite
}

var _ FishSchool = &fishSchool{}

// NewFishSchool creates a new FishSchool with the specified options.
// Part matrices are computed for time zero so the school can be drawn before its first Update.
//
// Parameters:
//   - options: functional options to configure the school
//
// Returns:
//   - FishSchool: the fish school
func NewFishSchool(options ...FishSchoolBuilderOption) FishSchool {
	s := &fishSchool{
		headLocal:    mgl32.Ident4(),
		finLocal:     mgl32.Ident4(),
		body:         BodyOscillator,
		head:         HeadOscillator,
		fin:          FinOscillator,
		bufferPrefix: "fish",
		count:        DefaultFishCount,
		speed:        DefaultFishSpeed,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.obj == nil {
		s.obj = NewGameObject()
	}
	s.orbits = make([]Orbit, s.count)
	for i := range s.orbits {
		s.orbits[i] = NewFishOrbit(i, s.speed)
	}
	for i := range s.matrices {
		s.matrices[i] = make([]mgl32.Mat4, s.count)
	}
	s.recompute()
	return s
}

func (s *fishSchool) Object() GameObject {
	return s.obj
}

func (s *fishSchool) Update(dt, elapsed float32) {
	for i := range s.orbits {
		s.orbits[i].Advance(dt)
	}
	s.elapsed = elapsed
	s.recompute()
}

func (s *fishSchool) recompute() {
	body := s.body.YawMatrix(s.elapsed)
	head := s.headLocal.Mul4(s.head.YawMatrix(s.elapsed))
	fin := s.finLocal.Mul4(s.fin.YawMatrix(s.elapsed))
	for i := range s.orbits {
		swayed := s.orbits[i].Matrix().Mul4(body)
		s.matrices[FishBody][i] = swayed
		s.matrices[FishHead][i] = swayed.Mul4(head)
		s.matrices[FishFin][i] = swayed.Mul4(fin)
	}
}

func (s *fishSchool) Orbits() []Orbit {
	return s.orbits
}

func (s *fishSchool) Count() int {
	return len(s.orbits)
}

func (s *fishSchool) SetSpeed(speed float32) {
	s.speed = speed
	for i := range s.orbits {
		s.orbits[i].Speed = speed
	}
}

func (s *fishSchool) PartMatrices(part FishPart) []mgl32.Mat4 {
	if part < FishBody || part > FishFin {
		return nil
	}
	return s.matrices[part]
}

func (s *fishSchool) BufferKey(part FishPart) string {
	return s.bufferPrefix + "/" + part.String()
}

func (s *fishSchool) Flush() uint32 {
	if len(s.orbits) == 0 {
		return 0
	}
	for _, part := range fishParts {
		mats := s.matrices[part]
		if len(s.buffers[part]) != len(mats)*64 {
			s.buffers[part] = make([]byte, len(mats)*64)
		}
		buf := s.buffers[part]
		for i, m := range mats {
			common.PutMat4(buf[i*64:(i+1)*64], m)
		}
		s.stagedWriteData = append(s.stagedWriteData, staging.BufferWrite{
			Buffer: s.BufferKey(part),
			Usage:  staging.BufferUsageVertex,
			Data:   buf,
		})
	}
	return uint32(len(s.orbits))
}

func (s *fishSchool) StagedWriteData() []staging.BufferWrite {
	writes := s.stagedWriteData
	s.stagedWriteData = nil
	return writes
}
