package cubefx

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the YAML document read by LoadConfig. Every field has a
// default; a document only needs the keys it changes.
type Config struct {
	Window struct {
		Title   string `yaml:"title"`
		Width   int    `yaml:"width"`
		Height  int    `yaml:"height"`
		ShowFPS bool   `yaml:"showFPS"`
	} `yaml:"window"`

	Camera struct {
		FOV      float64 `yaml:"fov"`
		Distance float64 `yaml:"distance"`
		Zoom     float64 `yaml:"zoom"`
		// ZoomEase names the curve used by "zoom" commands (see EaseByName).
		ZoomEase string `yaml:"zoomEase"`
		// ZoomDuration is how long "zoom" commands take.
		ZoomDuration time.Duration `yaml:"zoomDuration"`
	} `yaml:"camera"`

	Confetti struct {
		Speed      Range         `yaml:"speed"`
		Revolution Range         `yaml:"revolution"`
		Size       Range         `yaml:"size"`
		Colors     []string      `yaml:"colors"`
		Stages     []StageConfig `yaml:"stages"`
	} `yaml:"confetti"`

	// Theme is applied at startup.
	Theme string `yaml:"theme"`
	// ThemeFade crossfades theme switches over this long. Zero switches
	// instantly.
	ThemeFade time.Duration `yaml:"themeFade"`

	Remote struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientID"`
		Topics   struct {
			Command string `yaml:"command"`
			Status  string `yaml:"status"`
		} `yaml:"topics"`
	} `yaml:"remote"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	var cfg Config
	cfg.Window.Title = "cubefx"
	cfg.Window.Width = 800
	cfg.Window.Height = 600

	cam := newCamera(Rect{})
	cfg.Camera.FOV = cam.FOVDegrees
	cfg.Camera.Distance = cam.Dist
	cfg.Camera.Zoom = 1
	cfg.Camera.ZoomEase = "power-out"
	cfg.Camera.ZoomDuration = 500 * time.Millisecond

	opts := DefaultConfettiOptions()
	cfg.Confetti.Speed = opts.Speed
	cfg.Confetti.Revolution = opts.Revolution
	cfg.Confetti.Size = opts.Size
	for _, c := range opts.Colors {
		cfg.Confetti.Colors = append(cfg.Confetti.Colors, c.HexString())
	}
	cfg.Confetti.Stages = DefaultStages()

	cfg.Theme = "cube"

	cfg.Remote.ClientID = "cubefx"
	cfg.Remote.Topics.Command = "cubefx/command"
	cfg.Remote.Topics.Status = "cubefx/status"
	return cfg
}

// ErrInvalidConfig is wrapped by every validation error from LoadConfig.
var ErrInvalidConfig = errors.New("invalid config")

// LoadConfig decodes a YAML document over DefaultConfig and validates the
// result. An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and that every color and ease name parses.
func (c Config) Validate() error {
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("%w: camera fov %v out of (0, 180)", ErrInvalidConfig, c.Camera.FOV)
	}
	if c.Camera.Zoom <= 0 {
		return fmt.Errorf("%w: camera zoom %v must be positive", ErrInvalidConfig, c.Camera.Zoom)
	}
	for name, r := range map[string]Range{
		"speed":      c.Confetti.Speed,
		"revolution": c.Confetti.Revolution,
		"size":       c.Confetti.Size,
	} {
		if r.Min > r.Max {
			return fmt.Errorf("%w: confetti %s min %v > max %v", ErrInvalidConfig, name, r.Min, r.Max)
		}
	}
	if c.ThemeFade < 0 {
		return fmt.Errorf("%w: theme fade %v is negative", ErrInvalidConfig, c.ThemeFade)
	}
	if len(c.Confetti.Colors) == 0 {
		return fmt.Errorf("%w: confetti colors empty", ErrInvalidConfig)
	}
	for i, st := range c.Confetti.Stages {
		if st.Count < 0 {
			return fmt.Errorf("%w: stage %d count %d", ErrInvalidConfig, i, st.Count)
		}
		if st.Distance >= c.Camera.Distance {
			return fmt.Errorf("%w: stage %d distance %v not in front of the camera", ErrInvalidConfig, i, st.Distance)
		}
	}
	if _, err := c.ConfettiOptions(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := EaseByName(c.Camera.ZoomEase); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ConfettiOptions builds a fresh option set from the confetti section.
func (c Config) ConfettiOptions() (*ConfettiOptions, error) {
	opts := &ConfettiOptions{
		Speed:      c.Confetti.Speed,
		Revolution: c.Confetti.Revolution,
		Size:       c.Confetti.Size,
		Colors:     make([]Color, len(c.Confetti.Colors)),
	}
	for i, s := range c.Confetti.Colors {
		col, err := ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("confetti color %d: %w", i, err)
		}
		opts.Colors[i] = col
	}
	return opts, nil
}

// ConfettiConfig builds the coordinator configuration from the confetti
// section.
func (c Config) ConfettiConfig() (ConfettiConfig, error) {
	opts, err := c.ConfettiOptions()
	if err != nil {
		return ConfettiConfig{}, err
	}
	return ConfettiConfig{
		Options: opts,
		Stages:  append([]StageConfig(nil), c.Confetti.Stages...),
	}, nil
}

// ApplyCamera copies the camera section onto cam without animating and
// notifies viewport listeners.
func (c Config) ApplyCamera(cam *Camera) {
	cam.FOVDegrees = c.Camera.FOV
	cam.Dist = c.Camera.Distance
	if c.Camera.Zoom > 0 {
		cam.zoom = c.Camera.Zoom
	}
	cam.notify()
}

// RunConfig returns the window section as a RunConfig.
func (c Config) RunConfig() RunConfig {
	return RunConfig{
		Title:     c.Window.Title,
		Width:     c.Window.Width,
		Height:    c.Window.Height,
		ShowFPS:   c.Window.ShowFPS,
		Resizable: true,
	}
}
