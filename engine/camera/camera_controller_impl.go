package camera

import (
	"sync"

	"github.com/Carmen-Shannon/volcano/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultYaw is the heading the camera starts with, in degrees.
	DefaultYaw float32 = -80

	// DefaultPitch is the vertical angle the camera starts with, in degrees.
	DefaultPitch float32 = -5

	// DefaultMoveSpeed is the distance moved per tick per held key.
	DefaultMoveSpeed float32 = 0.1

	// DefaultMouseSensitivity is the drag rotation in degrees per pixel.
	DefaultMouseSensitivity float32 = 0.3

	// DefaultPitchLimit bounds the pitch away from the poles, in degrees.
	DefaultPitchLimit float32 = 87
)

// DefaultPosition overlooks the crater from the south-west.
var DefaultPosition = mgl32.Vec3{-4, 8, 30}

var worldUp = mgl32.Vec3{0, 1, 0}

type movement int

const (
	moveForward movement = iota
	moveBack
	moveLeft
	moveRight
	moveDown
	moveUp
	moveCount
)

var keyMovements = map[int]movement{
	common.KeyW: moveForward,
	common.KeyS: moveBack,
	common.KeyA: moveLeft,
	common.KeyD: moveRight,
	common.KeyQ: moveDown,
	common.KeyE: moveUp,
}

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	yaw      float32
	pitch    float32

	defaultPosition mgl32.Vec3
	defaultYaw      float32
	defaultPitch    float32

	moveSpeed        float32
	mouseSensitivity float32
	pitchLimit       float32

	held       [moveCount]bool
	reset      bool
	shift      [2]bool
	dragging   bool
	lastCursor mgl32.Vec2
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new free-fly camera controller.
// Options that set the position or view angles also set what Reset restores.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:               &sync.Mutex{},
		defaultPosition:  DefaultPosition,
		defaultYaw:       DefaultYaw,
		defaultPitch:     DefaultPitch,
		moveSpeed:        DefaultMoveSpeed,
		mouseSensitivity: DefaultMouseSensitivity,
		pitchLimit:       DefaultPitchLimit,
	}
	for _, option := range options {
		option(cc)
	}
	cc.position = cc.defaultPosition
	cc.yaw = cc.defaultYaw
	cc.pitch = mgl32.Clamp(cc.defaultPitch, -cc.pitchLimit, cc.pitchLimit)
	return cc
}

// forward computes the view direction. Caller must hold the mutex.
func (cc *cameraControllerImpl) forward() mgl32.Vec3 {
	yaw := mgl32.DegToRad(cc.yaw)
	pitch := mgl32.DegToRad(cc.pitch)
	return mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(position mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position.Add(cc.forward())
}

func (cc *cameraControllerImpl) Forward() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.forward()
}

func (cc *cameraControllerImpl) Right() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.forward().Cross(worldUp).Normalize()
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) SetYawPitch(yaw, pitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = yaw
	cc.pitch = mgl32.Clamp(pitch, -cc.pitchLimit, cc.pitchLimit)
}

func (cc *cameraControllerImpl) SetKey(key int, pressed bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	switch key {
	case common.KeyLeftShift:
		cc.shift[0] = pressed
	case common.KeyRightShift:
		cc.shift[1] = pressed
	case common.KeyR:
		cc.reset = pressed
	default:
		if m, ok := keyMovements[key]; ok {
			cc.held[m] = pressed
		}
	}
}

func (cc *cameraControllerImpl) MouseButton(button common.MouseButton, pressed bool, x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	switch button {
	case common.MouseButtonLeft:
		cc.dragging = pressed
		cc.lastCursor = mgl32.Vec2{x, y}
	case common.MouseButtonRight:
		if pressed {
			cc.yaw = cc.defaultYaw
			cc.pitch = mgl32.Clamp(cc.defaultPitch, -cc.pitchLimit, cc.pitchLimit)
		}
	}
}

func (cc *cameraControllerImpl) MouseMove(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.dragging {
		return
	}
	dx := x - cc.lastCursor[0]
	dy := y - cc.lastCursor[1]
	cc.lastCursor = mgl32.Vec2{x, y}
	cc.yaw += dx * cc.mouseSensitivity
	cc.pitch = mgl32.Clamp(cc.pitch-dy*cc.mouseSensitivity, -cc.pitchLimit, cc.pitchLimit)
}

func (cc *cameraControllerImpl) Tick() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	speed := cc.moveSpeed
	if cc.shift[0] || cc.shift[1] {
		speed *= 2
	}
	forward := cc.forward()
	right := forward.Cross(worldUp).Normalize()
	axes := [moveCount]mgl32.Vec3{
		moveForward: forward,
		moveBack:    forward.Mul(-1),
		moveLeft:    right.Mul(-1),
		moveRight:   right,
		moveDown:    worldUp.Mul(-1),
		moveUp:      worldUp,
	}

	moved := false
	for m, held := range cc.held {
		if held {
			cc.position = cc.position.Add(axes[m].Mul(speed))
			moved = true
		}
	}
	if cc.reset {
		cc.position = cc.defaultPosition
		moved = true
	}
	return moved
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = cc.defaultPosition
	cc.yaw = cc.defaultYaw
	cc.pitch = mgl32.Clamp(cc.defaultPitch, -cc.pitchLimit, cc.pitchLimit)
	cc.held = [moveCount]bool{}
	cc.reset = false
	cc.shift = [2]bool{}
	cc.dragging = false
}

func (cc *cameraControllerImpl) MoveSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.moveSpeed
}

func (cc *cameraControllerImpl) SetMoveSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.moveSpeed = speed
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}
