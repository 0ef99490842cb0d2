package engine

import (
	"fmt"
	"runtime"

	"Cloudscape/internal/logger"
	"Cloudscape/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Gopher owns the window, the OpenGL context and the frame loop.
type Gopher struct {
	Width   int32
	Height  int32
	Title   string
	Visible bool

	Camera   *renderer.Camera
	Textures *renderer.TextureManager

	window           *glfw.Window
	onStartCallback  func() error
	onRenderCallback func(elapsed, deltaTime float64)
}

func NewGopher() *Gopher {
	return &Gopher{
		Width:  1024,
		Height: 768,
		Title:  "Cloudscape",
	}
}

// SetOnStartCallback runs once after the context is current, before the first frame.
func (gopher *Gopher) SetOnStartCallback(callback func() error) {
	gopher.onStartCallback = callback
}

// SetOnRenderCallback sets a callback that will be called each frame
func (gopher *Gopher) SetOnRenderCallback(callback func(elapsed, deltaTime float64)) {
	gopher.onRenderCallback = callback
}

// Render opens the window and runs the frame loop until the window closes
// or, when frames > 0, for that many frames.
func (gopher *Gopher) Render(frames int) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("could not initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if gopher.Visible {
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	window, err := glfw.CreateWindow(int(gopher.Width), int(gopher.Height), gopher.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("could not create glfw window: %w", err)
	}
	defer window.Destroy()
	gopher.window = window

	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return fmt.Errorf("could not initialize OpenGL: %w", err)
	}
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	logger.Log.Info("OpenGL context ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gopher.Camera = renderer.NewDefaultCamera(gopher.Height, gopher.Width)
	gopher.Textures = renderer.NewTextureManager()
	defer gopher.Textures.Clear()

	if gopher.onStartCallback != nil {
		if err := gopher.onStartCallback(); err != nil {
			return err
		}
	}

	gopher.RenderLoop(frames)
	return nil
}

func (gopher *Gopher) RenderLoop(frames int) {
	start := glfw.GetTime()
	lastTime := start

	for frame := 0; !gopher.window.ShouldClose(); frame++ {
		if frames > 0 && frame >= frames {
			break
		}
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastTime
		lastTime = currentTime

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		if gopher.onRenderCallback != nil {
			gopher.onRenderCallback(currentTime-start, deltaTime)
		}

		gopher.window.SwapBuffers()
		glfw.PollEvents()
	}
}
