package portals

import (
	"github.com/gekko3d/portals/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	KeyW int = iota
	KeyA
	KeyS
	KeyD
	KeyE
	KeySpace
	KeyTab
	KeyEscape
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// Input is fed by the host window layer once per frame.
type Input struct {
	Pressed [256]bool

	JustPressed  [256]bool
	JustReleased [256]bool

	MouseDeltaX, MouseDeltaY float64
	// MouseSensitivity is radians of turn per pixel of mouse travel.
	MouseSensitivity float32
}

func (input *Input) Press(key int) {
	if !input.Pressed[key] {
		input.JustPressed[key] = true
	}
	input.Pressed[key] = true
}

func (input *Input) Release(key int) {
	if input.Pressed[key] {
		input.JustReleased[key] = true
	}
	input.Pressed[key] = false
}

func (input *Input) MoveMouse(dx, dy float64) {
	input.MouseDeltaX += dx
	input.MouseDeltaY += dy
}

func (input *Input) endFrame() {
	input.JustPressed = [256]bool{}
	input.JustReleased = [256]bool{}
	input.MouseDeltaX = 0
	input.MouseDeltaY = 0
}

// InputModule maps input to portal actions: left and right click fire the blue and orange
// portal, Tab toggles editing, mouse movement turns the player.
type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{MouseSensitivity: mgl32.DegToRad(0.1)})
	app.UseSystem(
		System(inputActionSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(inputEndFrameSystem).
			InStage(Finale).
			RunAlways(),
	)
}

func inputActionSystem(cmd *Commands, input *Input, shots *PlacementQueue) {
	if input.JustPressed[MouseButtonLeft] {
		shots.Shoot(Blue)
	}
	if input.JustPressed[MouseButtonRight] {
		shots.Shoot(Orange)
	}

	if input.JustPressed[KeyTab] && cmd.Stateful() {
		if cmd.app.State() == StateEditing {
			cmd.ChangeState(StatePlaying)
		} else {
			cmd.ChangeState(StateEditing)
		}
	}

	player := GetResource[Player](cmd.app)
	if player == nil || (input.MouseDeltaX == 0 && input.MouseDeltaY == 0) {
		return
	}
	pose := player.Pose()
	yaw := pose.Yaw() - float32(input.MouseDeltaX)*input.MouseSensitivity
	pose.Rotation = core.YawPose(pose.Position, yaw).Rotation
	player.SetPose(pose)
	player.Look(player.Pitch - float32(input.MouseDeltaY)*input.MouseSensitivity)
}

func inputEndFrameSystem(input *Input) {
	input.endFrame()
}
