package render

const (
	moveSpeed      = 0.1
	rotateSpeed    = 0.02 // radians per input
	fastMultiplier = 4
)

// Controls is one input sample. Held keys map to the movement fields;
// Reset and ToggleMode are edge-triggered.
type Controls struct {
	Forward, Back bool
	Left, Right   bool
	Up, Down      bool

	RotateLeft, RotateRight bool

	ViewplaneNearer, ViewplaneFarther bool

	Fast       bool
	Reset      bool
	ToggleMode bool
}

// ApplyInput moves the camera. In orbit mode the next tick overrides the pose.
func (e *Engine) ApplyInput(c Controls) {
	if c.ToggleMode {
		e.ToggleMode()
	}
	if c.Reset {
		e.camera.Reset()
	}

	speed, rot := float32(moveSpeed), float32(rotateSpeed)
	if c.Fast {
		speed *= fastMultiplier
		rot *= fastMultiplier
	}

	cam := e.camera
	if c.Forward {
		cam.MoveForward(speed)
	}
	if c.Back {
		cam.MoveForward(-speed)
	}
	if c.Left {
		cam.MoveRight(-speed)
	}
	if c.Right {
		cam.MoveRight(speed)
	}
	if c.Up {
		cam.MoveUp(speed)
	}
	if c.Down {
		cam.MoveUp(-speed)
	}
	if c.RotateLeft {
		cam.Rotate(cam.WorldUp(), rot)
	}
	if c.RotateRight {
		cam.Rotate(cam.WorldUp(), -rot)
	}
	if c.ViewplaneNearer {
		cam.AdjustViewplane(-speed)
	}
	if c.ViewplaneFarther {
		cam.AdjustViewplane(speed)
	}
}
