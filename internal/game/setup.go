package game

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// SetupWindow creates the GLFW window with a 4.1 core context and
// initializes the OpenGL bindings.
func SetupWindow(width, height int, title string) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		return nil, err
	}

	// Disable V-Sync; the FPS limiter owns pacing
	glfw.SwapInterval(0)
	// Capture the cursor for mouse look
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}

// resizeViewport matches the GL viewport to the framebuffer; on retina
// displays this is larger than the window size.
func resizeViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}
