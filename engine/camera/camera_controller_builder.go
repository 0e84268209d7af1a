package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial and reset position of the camera.
//
// Parameters:
//   - position: world-space coordinates
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(position mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.defaultPosition = position
	}
}

// WithYawPitch sets the initial and reset view angles.
//
// Parameters:
//   - yaw: heading in degrees
//   - pitch: vertical angle in degrees
//
// Returns:
//   - CameraControllerOption: functional option to set the view angles
func WithYawPitch(yaw, pitch float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.defaultYaw = yaw
		cc.defaultPitch = pitch
	}
}

// WithMoveSpeed sets the distance moved per tick per held key.
//
// Parameters:
//   - speed: world units per tick
//
// Returns:
//   - CameraControllerOption: functional option to set the move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithMouseSensitivity sets the drag rotation per pixel.
//
// Parameters:
//   - sensitivity: degrees per pixel
//
// Returns:
//   - CameraControllerOption: functional option to set the mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithPitchLimit sets the symmetric bound on pitch.
//
// Parameters:
//   - degrees: the largest allowed absolute pitch (ignored unless in (0, 90))
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch limit
func WithPitchLimit(degrees float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if degrees > 0 && degrees < 90 {
			cc.pitchLimit = degrees
		}
	}
}
