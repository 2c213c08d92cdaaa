package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	// Sample history
	DefaultCapacity     = 10000 // Samples kept per series (N)
	DefaultWindow       = 1000  // Samples drawn per paint (W)
	DefaultScaleFactor  = 5000.0
	DefaultDarkenFactor = 0.5
	DefaultSliderStride = 100 // Samples per slider step

	// Scope display
	DefaultExtent = 300.0 // Half-width of the plot in fixed-point units
	AspectRatio   = 0.5   // Terminal char aspect correction (chars are ~2:1 tall)
	RingCount     = 2     // Guide circles drawn behind the points
	TargetFPS     = 30    // Target frames per second
	DragStep      = 10    // Samples per arrow-key drag

	// Topic discovery
	DefaultTopicType     = "std_msgs/Float64"
	DefaultTopicContains = "position"
	DiscoverTimeout      = 5 * time.Second

	// Demo mode
	DemoRate       = 100 // Samples per second per demo topic
	DemoJointCount = 6

	// App
	AppName    = "CIRCLE-SCOPE"
	AppVersion = "1.0"
)

const (
	defaultConfigPath = "~/.config/circle-scope/config.toml"
	defaultLogFile    = "~/.local/state/circle-scope/circle-scope.log"
)

// PaletteColor is one named entry of the row color dropdown.
type PaletteColor struct {
	Name string `toml:"name"`
	Hex  string `toml:"hex"`
}

// DefaultPalette mirrors the fixed color list offered for each row.
var DefaultPalette = []PaletteColor{
	{Name: "red", Hex: "#FF0000"},
	{Name: "green", Hex: "#00FF00"},
	{Name: "blue", Hex: "#0000FF"},
	{Name: "yellow", Hex: "#FFFF00"},
	{Name: "cyan", Hex: "#00FFFF"},
	{Name: "magenta", Hex: "#FF00FF"},
	{Name: "white", Hex: "#FFFFFF"},
}

// Config holds the tunables read from config.toml.
type Config struct {
	Capacity      int            `toml:"capacity"`
	Window        int            `toml:"window"`
	ScaleFactor   float64        `toml:"scale_factor"`
	DarkenFactor  float64        `toml:"darken_factor"`
	SliderStride  int            `toml:"slider_stride"`
	Extent        float64        `toml:"extent"`
	TargetFPS     int            `toml:"target_fps"`
	RosbridgeURL  string         `toml:"rosbridge_url"`
	TopicType     string         `toml:"topic_type"`
	TopicContains string         `toml:"topic_contains"`
	LogFile       string         `toml:"log_file"`
	Palette       []PaletteColor `toml:"palette"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	palette := make([]PaletteColor, len(DefaultPalette))
	copy(palette, DefaultPalette)
	return Config{
		Capacity:      DefaultCapacity,
		Window:        DefaultWindow,
		ScaleFactor:   DefaultScaleFactor,
		DarkenFactor:  DefaultDarkenFactor,
		SliderStride:  DefaultSliderStride,
		Extent:        DefaultExtent,
		TargetFPS:     TargetFPS,
		TopicType:     DefaultTopicType,
		TopicContains: DefaultTopicContains,
		LogFile:       mustExpand(defaultLogFile),
		Palette:       palette,
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file at path, falling back to defaults when it is missing.
// Keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg.Palette = nil
	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.RosbridgeURL = strings.TrimSpace(cfg.RosbridgeURL)
	cfg.TopicType = strings.TrimSpace(cfg.TopicType)
	cfg.TopicContains = strings.TrimSpace(cfg.TopicContains)
	if strings.TrimSpace(cfg.LogFile) == "" {
		cfg.LogFile = defaultLogFile
	}
	cfg.LogFile = mustExpand(cfg.LogFile)
	if len(cfg.Palette) == 0 {
		cfg.Palette = Defaults().Palette
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unusable values and clamps the window to the capacity.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %d", c.Window)
	}
	if c.Window > c.Capacity {
		c.Window = c.Capacity
	}
	if c.ScaleFactor == 0 {
		return fmt.Errorf("scale_factor must be non-zero")
	}
	if c.DarkenFactor < 0 || c.DarkenFactor > 1 {
		return fmt.Errorf("darken_factor must be within [0, 1], got %v", c.DarkenFactor)
	}
	if c.SliderStride <= 0 {
		c.SliderStride = DefaultSliderStride
	}
	if c.Extent <= 0 {
		c.Extent = DefaultExtent
	}
	if c.TargetFPS <= 0 {
		c.TargetFPS = TargetFPS
	}
	return nil
}

// FrameInterval returns the paint period derived from TargetFPS.
func (c Config) FrameInterval() time.Duration {
	fps := c.TargetFPS
	if fps <= 0 {
		fps = TargetFPS
	}
	return time.Second / time.Duration(fps)
}

// ExpandPath resolves a leading ~ and returns the absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
