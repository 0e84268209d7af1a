package camera

import (
	"github.com/Carmen-Shannon/volcano/common"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController defines the interface for a free-fly camera control system.
// The controller owns positional state (position, yaw, pitch) and input state (held keys,
// mouse drag). Camera reads from the controller and computes view/projection matrices.
//
// Keyboard motion is applied once per Tick for every movement key that is held, so the
// speed is in world units per tick rather than per second.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - position: world-space coordinates
	SetPosition(position mgl32.Vec3)

	// Target returns Position + Forward, the point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: world-space look-at point
	Target() mgl32.Vec3

	// Forward returns the unit view direction
	// (cos yaw cos pitch, sin pitch, sin yaw cos pitch).
	//
	// Returns:
	//   - mgl32.Vec3: the forward axis
	Forward() mgl32.Vec3

	// Right returns normalize(Forward x worldUp).
	//
	// Returns:
	//   - mgl32.Vec3: the right axis
	Right() mgl32.Vec3

	// Yaw returns the horizontal heading in degrees.
	//
	// Returns:
	//   - float32: yaw in degrees
	Yaw() float32

	// Pitch returns the vertical angle in degrees.
	//
	// Returns:
	//   - float32: pitch in degrees, within the pitch limit
	Pitch() float32

	// SetYawPitch sets the view angles directly. Pitch is clamped to the pitch limit.
	//
	// Parameters:
	//   - yaw: heading in degrees
	//   - pitch: vertical angle in degrees
	SetYawPitch(yaw, pitch float32)

	// SetKey records a key press or release. Unknown keys are ignored.
	//
	// Parameters:
	//   - key: a key code from the common package
	//   - pressed: true on press, false on release
	SetKey(key int, pressed bool)

	// MouseButton records a mouse button press or release at the given cursor position.
	// A left press starts a drag; a right press resets yaw and pitch.
	//
	// Parameters:
	//   - button: the mouse button
	//   - pressed: true on press, false on release
	//   - x, y: cursor position in window coordinates
	MouseButton(button common.MouseButton, pressed bool, x, y float32)

	// MouseMove turns the camera while a drag is active: yaw += dx * sensitivity and
	// pitch -= dy * sensitivity.
	//
	// Parameters:
	//   - x, y: cursor position in window coordinates
	MouseMove(x, y float32)

	// Tick applies one step of keyboard motion for every held movement key.
	//
	// Returns:
	//   - bool: true if the camera moved
	Tick() bool

	// Reset restores the default position and view angles and clears held keys.
	Reset()

	// MoveSpeed returns the distance moved per tick per held key.
	//
	// Returns:
	//   - float32: world units per tick
	MoveSpeed() float32

	// SetMoveSpeed sets the distance moved per tick per held key.
	//
	// Parameters:
	//   - speed: world units per tick
	SetMoveSpeed(speed float32)

	// MouseSensitivity returns the mouse drag sensitivity multiplier.
	//
	// Returns:
	//   - float32: degrees per pixel
	MouseSensitivity() float32
}
