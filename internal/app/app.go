// Package app wires the window, the GPU backend and the renderer together
// and runs the main loop.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/forwardlit/internal/config"
	"github.com/Faultbox/forwardlit/internal/engine/debugui"
	"github.com/Faultbox/forwardlit/internal/engine/gpu/glbackend"
	"github.com/Faultbox/forwardlit/internal/engine/input"
	"github.com/Faultbox/forwardlit/internal/engine/lighting"
	"github.com/Faultbox/forwardlit/internal/engine/loader"
	"github.com/Faultbox/forwardlit/internal/engine/renderer"
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/internal/engine/texture"
	"github.com/Faultbox/forwardlit/internal/engine/window"
	"github.com/Faultbox/forwardlit/internal/logger"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// App is the running viewer.
type App struct {
	cfg      *config.Config
	window   *window.Window
	input    *input.SDLSource
	renderer *renderer.Renderer
}

// RendererConfig maps application settings to renderer settings.
func RendererConfig(cfg *config.Config) (renderer.Config, error) {
	mode, err := shader.ParseMode(cfg.Graphics.ShadingMode)
	if err != nil {
		return renderer.Config{}, err
	}
	cam := cfg.Camera

	controls := input.DefaultSettings()
	controls.MinSpeed = cam.MinSpeed
	controls.MaxSpeed = cam.MaxSpeed
	controls.SpeedDecrement = cam.SpeedDecrement
	controls.SpeedIncrement = cam.SpeedIncrement
	controls.RotateStep = cam.RotateStep
	controls.MouseSensitivity = cam.MouseSensitivity
	controls.GamepadDeadzone = cam.GamepadDeadzone
	controls.ResetPosition = math.Vec3From(cam.ResetPosition)

	lights := make([]lighting.Light, 0, len(cfg.Scene.PointLights))
	for _, pl := range cfg.Scene.PointLights {
		l := lighting.NewPoint(math.Vec3From(pl.Position),
			math.RGBA(0, 0, 0, 1),
			math.Vec4(pl.Diffuse),
			math.Vec4(pl.Specular),
			math.Vec3From(pl.Attenuation))
		if pl.Range > 0 {
			l.Range = pl.Range
		}
		lights = append(lights, l)
	}

	return renderer.Config{
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		VSync:          cfg.Window.VSync,
		FovDegrees:     cfg.Graphics.FOV,
		Near:           cfg.Graphics.Near,
		Far:            cfg.Graphics.Far,
		ClearColor:     math.Vec4(cfg.Graphics.ClearColor),
		Wireframe:      cfg.Graphics.Wireframe,
		Multisample:    cfg.Graphics.MSAASamples > 1,
		ShadingMode:    mode,
		ShowEmitters:   cfg.Scene.ShowEmitters,
		ScenePath:      cfg.Scene.Path,
		PointLights:    lights,
		EmitterTexture: cfg.Scene.CubeTexture,
		LoadPosition:   math.Vec3From(cam.LoadPosition),
		CameraSpeed:    cam.Speed,
		Controls:       controls,
	}, nil
}

// New opens the window and initializes the renderer on it.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	rcfg, err := RendererConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("renderer config: %w", err)
	}

	a := &App{cfg: cfg}
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The drawable can differ from the requested size on high-DPI displays.
	rcfg.Width, rcfg.Height = a.window.GetSize()

	importer := loader.NewRegistry(loader.Options{
		DefaultTexture: cfg.Scene.DefaultTexture,
		CubeTexture:    cfg.Scene.CubeTexture,
	})
	a.input = input.NewSDLSource()
	a.renderer, err = renderer.New(rcfg, renderer.Deps{
		Devices:  glbackend.Factory(a.window.SDL(), cfg.Graphics.MSAASamples),
		Input:    a.input,
		Importer: importer,
		Textures: texture.NewLoader(),
		UI:       debugui.OverlayFactory,
	})
	if err == nil {
		err = a.renderer.Initialize()
	}
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	logger.Info("viewer initialized")
	return a, nil
}

// Run ticks the renderer until exit is requested or a frame fails.
func (a *App) Run() error {
	logger.Info("starting main loop")

	frames := 0
	fpsTimer := time.Now()
	for !a.renderer.ExitRequested() {
		if err := a.renderer.Tick(); err != nil {
			return fmt.Errorf("frame error: %w", err)
		}

		frames++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			fps := float64(frames) / elapsed.Seconds()
			a.window.SetTitle(fmt.Sprintf("%s - %.0f FPS", a.cfg.Window.Title, fps))
			logger.Debug("fps",
				zap.Float64("fps", fps),
				zap.Duration("frame_time", a.renderer.FrameTime()))
			frames = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// Close releases the renderer, the input source and the window.
func (a *App) Close() {
	logger.Info("closing viewer")
	if a.renderer != nil {
		clock := a.renderer.Clock()
		logger.Info("session stats",
			zap.Uint64("frames", clock.FrameCount()),
			zap.Duration("run_time", clock.Total()))
		if err := a.renderer.Close(); err != nil {
			logger.Warn("renderer release incomplete", zap.Error(err))
		}
	}
	if a.input != nil {
		a.input.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
