package game

import (
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"voxcraft/internal/graphics"
	"voxcraft/internal/profiling"
	"voxcraft/internal/world"
)

// Loop ties the window, camera, world and renderer into the frame cycle.
type Loop struct {
	window   *glfw.Window
	world    *world.World
	renderer *graphics.Renderer
	camera   *graphics.Camera
	limiter  *FPSLimiter

	lastFrame  float64
	lastX      float64
	lastY      float64
	firstMouse bool

	frames   int
	fpsTimer float64
}

// NewLoop wires input callbacks and returns a ready-to-run loop.
func NewLoop(window *glfw.Window, w *world.World, r *graphics.Renderer, cam *graphics.Camera) *Loop {
	l := &Loop{
		window:     window,
		world:      w,
		renderer:   r,
		camera:     cam,
		limiter:    NewFPSLimiter(),
		firstMouse: true,
	}
	l.installCallbacks()
	return l
}

// Run blocks until the window closes.
func (l *Loop) Run() {
	l.lastFrame = glfw.GetTime()
	l.fpsTimer = l.lastFrame

	for !l.window.ShouldClose() {
		profiling.ResetFrame()

		now := glfw.GetTime()
		dt := float32(now - l.lastFrame)
		l.lastFrame = now

		glfw.PollEvents()
		l.processMovement(dt)

		l.renderer.Update(l.camera.Position)

		gl.ClearColor(0.53, 0.81, 0.92, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		width, height := l.window.GetFramebufferSize()
		if height == 0 {
			height = 1
		}
		projection := mgl32.Perspective(
			mgl32.DegToRad(l.camera.Zoom),
			float32(width)/float32(height),
			0.1, 1000,
		)
		l.renderer.Render(l.camera.ViewMatrix(), projection, l.camera.Position)

		l.window.SwapBuffers()
		l.limiter.Wait()

		if dt > 0.1 {
			log.Printf("slow frame: %.0fms [%s]", dt*1000, profiling.TopN(3))
		}

		l.frames++
		if now-l.fpsTimer >= 1.0 {
			log.Printf("fps=%d chunks=%d pos=(%.1f, %.1f, %.1f) frame=[%s]",
				l.frames, l.world.ChunkCount(),
				l.camera.Position.X(), l.camera.Position.Y(), l.camera.Position.Z(),
				profiling.TopN(3))
			l.frames = 0
			l.fpsTimer = now
		}
	}
}

func (l *Loop) processMovement(dt float32) {
	if l.window.GetKey(glfw.KeyEscape) == glfw.Press {
		l.window.SetShouldClose(true)
	}
	if l.window.GetKey(glfw.KeyW) == glfw.Press {
		l.camera.ProcessKeyboard(graphics.MoveForward, dt)
	}
	if l.window.GetKey(glfw.KeyS) == glfw.Press {
		l.camera.ProcessKeyboard(graphics.MoveBackward, dt)
	}
	if l.window.GetKey(glfw.KeyA) == glfw.Press {
		l.camera.ProcessKeyboard(graphics.MoveLeft, dt)
	}
	if l.window.GetKey(glfw.KeyD) == glfw.Press {
		l.camera.ProcessKeyboard(graphics.MoveRight, dt)
	}
	if l.window.GetKey(glfw.KeySpace) == glfw.Press {
		l.camera.ProcessKeyboard(graphics.MoveUp, dt)
	}
	if l.window.GetKey(glfw.KeyLeftShift) == glfw.Press {
		l.camera.ProcessKeyboard(graphics.MoveDown, dt)
	}
}
