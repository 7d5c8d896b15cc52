package scanner

import (
	"image/color"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the immutable-per-frame tuning surface described in spec.md
// §3. A Session reads it once at frame entry (see Session.ProcessFrame)
// so a concurrent UpdateConfig call never tears a single frame's view of
// the configuration.
type Config struct {
	MinContourArea        float64 `toml:"min_contour_area"`
	MinFrameAreaPercent   float64 `toml:"min_frame_area_percent"`
	SmoothingAlpha        float32 `toml:"smoothing_alpha"`
	RequiredStableFrames  uint32  `toml:"required_stable_frames"`
	PostCaptureCooldownMs uint64  `toml:"post_capture_cooldown_ms"`
	MinPolygonDistance    float32 `toml:"min_polygon_distance"`
	AutoCapture           bool    `toml:"auto_capture"`
	DetectionMode         uint8   `toml:"detection_mode"`

	// StrokeColor and FillAlpha are rendering hints passed through to the
	// UI layer; the core never reads them.
	StrokeColor color.RGBA `toml:"-"`
	FillAlpha   float64    `toml:"fill_alpha"`
}

// DefaultConfig returns the defaults from spec.md §3's configuration table.
func DefaultConfig() Config {
	return Config{
		MinContourArea:        3000,
		MinFrameAreaPercent:   0.12,
		SmoothingAlpha:        0.15,
		RequiredStableFrames:  20,
		PostCaptureCooldownMs: 2500,
		MinPolygonDistance:    50,
		AutoCapture:           true,
		DetectionMode:         1,
		StrokeColor:           color.RGBA{R: 0, G: 200, B: 0, A: 255},
		FillAlpha:             0.15,
	}
}

// LoadConfigFile reads TOML overrides on top of DefaultConfig. A host
// application ships a scanner.toml instead of hardcoding tuning constants;
// any field the file omits keeps its default value.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
