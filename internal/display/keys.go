package display

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/OCharnyshevich/voxels/internal/render"
)

// pollControls samples the keyboard. Movement keys are read while held,
// reset and mode toggle only on the frame they go down.
func pollControls() render.Controls {
	held := ebiten.IsKeyPressed
	return render.Controls{
		Forward: held(ebiten.KeyW),
		Back:    held(ebiten.KeyS),
		Left:    held(ebiten.KeyA),
		Right:   held(ebiten.KeyD),
		Up:      held(ebiten.KeySpace),
		Down:    held(ebiten.KeyControlLeft),

		RotateLeft:  held(ebiten.KeyQ),
		RotateRight: held(ebiten.KeyE),

		ViewplaneNearer:  held(ebiten.KeyT),
		ViewplaneFarther: held(ebiten.KeyG),

		Fast:       held(ebiten.KeyShiftLeft),
		Reset:      inpututil.IsKeyJustPressed(ebiten.KeyR),
		ToggleMode: inpututil.IsKeyJustPressed(ebiten.KeyM),
	}
}
