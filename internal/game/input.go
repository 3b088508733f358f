package game

import (
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"

	"voxcraft/internal/physics"
	"voxcraft/internal/world"
)

// installCallbacks registers mouse look, zoom, block edits and the debug
// keys. Edge-triggered actions live here; held movement keys are polled in
// processMovement.
func (l *Loop) installCallbacks() {
	l.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		resizeViewport(width, height)
	})

	l.window.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if l.firstMouse {
			l.lastX, l.lastY = xpos, ypos
			l.firstMouse = false
		}
		dx := float32(xpos - l.lastX)
		dy := float32(l.lastY - ypos) // inverted: screen y grows downward
		l.lastX, l.lastY = xpos, ypos
		l.camera.ProcessMouseMovement(dx, dy)
	})

	l.window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		l.camera.ProcessMouseScroll(float32(yoff))
	})

	l.window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch button {
		case glfw.MouseButtonLeft:
			if res := physics.RemoveBlock(l.world, l.camera.Position, l.camera.Front); res.Hit {
				log.Printf("removed voxel at (%d, %d, %d)",
					res.HitPosition[0], res.HitPosition[1], res.HitPosition[2])
			}
		case glfw.MouseButtonRight:
			if res := physics.PlaceBlock(l.world, l.camera.Position, l.camera.Front, world.Stone); res.Hit {
				log.Printf("placed stone at (%d, %d, %d)",
					res.LastAir[0], res.LastAir[1], res.LastAir[2])
			}
		}
	})

	l.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyG:
			l.renderer.ToggleWireframe()
		case glfw.KeyR:
			log.Printf("camera pos=(%.2f, %.2f, %.2f) yaw=%.1f pitch=%.1f",
				l.camera.Position.X(), l.camera.Position.Y(), l.camera.Position.Z(),
				l.camera.Yaw, l.camera.Pitch)
		}
	})
}
