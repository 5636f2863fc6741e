// Package config handles renderer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all application settings.
type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window"`
	Graphics GraphicsConfig `yaml:"graphics" toml:"graphics"`
	Camera   CameraConfig   `yaml:"camera" toml:"camera"`
	Scene    SceneConfig    `yaml:"scene" toml:"scene"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// WindowConfig holds window settings.
type WindowConfig struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
}

// GraphicsConfig holds rendering settings.
type GraphicsConfig struct {
	FOV         float32    `yaml:"fov" toml:"fov"` // vertical, degrees
	Near        float32    `yaml:"near" toml:"near"`
	Far         float32    `yaml:"far" toml:"far"`
	ClearColor  [4]float32 `yaml:"clear_color" toml:"clear_color"`
	Wireframe   bool       `yaml:"wireframe" toml:"wireframe"`
	MSAASamples int        `yaml:"msaa_samples" toml:"msaa_samples"`
	ShadingMode string     `yaml:"shading_mode" toml:"shading_mode"` // lit, unlit or normal
}

// CameraConfig holds camera and control tuning.
type CameraConfig struct {
	Speed            float32    `yaml:"speed" toml:"speed"`
	MinSpeed         float32    `yaml:"min_speed" toml:"min_speed"`
	MaxSpeed         float32    `yaml:"max_speed" toml:"max_speed"`
	SpeedDecrement   float32    `yaml:"speed_decrement" toml:"speed_decrement"`
	SpeedIncrement   float32    `yaml:"speed_increment" toml:"speed_increment"`
	RotateStep       float32    `yaml:"rotate_step" toml:"rotate_step"` // radians per tick
	MouseSensitivity float32    `yaml:"mouse_sensitivity" toml:"mouse_sensitivity"`
	GamepadDeadzone  float32    `yaml:"gamepad_deadzone" toml:"gamepad_deadzone"`
	ResetPosition    [3]float32 `yaml:"reset_position" toml:"reset_position"`
	LoadPosition     [3]float32 `yaml:"load_position" toml:"load_position"`
}

// SceneConfig holds the scene loaded at startup and its extras.
type SceneConfig struct {
	Path           string             `yaml:"path" toml:"path"`
	DefaultTexture string             `yaml:"default_texture" toml:"default_texture"`
	CubeTexture    string             `yaml:"cube_texture" toml:"cube_texture"`
	ShowEmitters   bool               `yaml:"show_emitters" toml:"show_emitters"`
	PointLights    []PointLightConfig `yaml:"point_lights" toml:"point_lights"`
}

// PointLightConfig is a point light added after every scene load.
type PointLightConfig struct {
	Position    [3]float32 `yaml:"position" toml:"position"`
	Diffuse     [4]float32 `yaml:"diffuse" toml:"diffuse"`
	Specular    [4]float32 `yaml:"specular" toml:"specular"`
	Attenuation [3]float32 `yaml:"attenuation" toml:"attenuation"`
	Range       float32    `yaml:"range" toml:"range"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "forwardlit",
			Width:  1920,
			Height: 1080,
			VSync:  true,
		},
		Graphics: GraphicsConfig{
			FOV:         80,
			Near:        0.1,
			Far:         10000,
			ClearColor:  [4]float32{0, 1, 1, 1},
			MSAASamples: 1,
			ShadingMode: "lit",
		},
		Camera: CameraConfig{
			Speed:            0.5,
			MinSpeed:         0.1,
			MaxSpeed:         50,
			SpeedDecrement:   0.05,
			SpeedIncrement:   0.1,
			RotateStep:       0.025,
			MouseSensitivity: 0.0025,
			GamepadDeadzone:  0.2,
			ResetPosition:    [3]float32{0, 0, -7},
			LoadPosition:     [3]float32{0, 5, -7},
		},
		Scene: SceneConfig{
			Path:           "assets/scene.yaml",
			DefaultTexture: "assets/textures/default.png",
			CubeTexture:    "assets/textures/light.png",
			ShowEmitters:   true,
			PointLights:    DefaultPointLights(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DefaultPointLights returns the red and blue lights placed in every scene.
func DefaultPointLights() []PointLightConfig {
	att := [3]float32{1, 0.0014, 0.000007}
	return []PointLightConfig{
		{
			Position:    [3]float32{-100, 100, 0},
			Diffuse:     [4]float32{1, 0, 0, 1},
			Specular:    [4]float32{1, 0, 0, 1},
			Attenuation: att,
			Range:       500,
		},
		{
			Position:    [3]float32{300, 100, 0},
			Diffuse:     [4]float32{0, 0, 1, 1},
			Specular:    [4]float32{0, 0, 1, 1},
			Attenuation: att,
			Range:       500,
		},
	}
}

// Validate fixes values that can be clamped and reports the ones that cannot.
func (c *Config) Validate() error {
	c.Window.Width = max(c.Window.Width, 1)
	c.Window.Height = max(c.Window.Height, 1)
	c.Graphics.MSAASamples = max(c.Graphics.MSAASamples, 1)

	cam := &c.Camera
	if cam.MinSpeed > cam.MaxSpeed {
		cam.MinSpeed, cam.MaxSpeed = cam.MaxSpeed, cam.MinSpeed
	}
	cam.Speed = min(max(cam.Speed, cam.MinSpeed), cam.MaxSpeed)

	var errs []error
	g := c.Graphics
	if g.FOV <= 0 || g.FOV >= 180 {
		errs = append(errs, fmt.Errorf("graphics.fov %v out of range (0, 180)", g.FOV))
	}
	if g.Near <= 0 {
		errs = append(errs, fmt.Errorf("graphics.near %v must be positive", g.Near))
	}
	if g.Far <= g.Near {
		errs = append(errs, fmt.Errorf("graphics.far %v must exceed near %v", g.Far, g.Near))
	}
	if cam.MinSpeed <= 0 {
		errs = append(errs, fmt.Errorf("camera.min_speed %v must be positive", cam.MinSpeed))
	}
	return errors.Join(errs...)
}
