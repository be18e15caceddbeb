package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is wrapped by every validation failure reported by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// LogConfig controls the process logger.
type LogConfig struct {
	Level      string `toml:"level" json:"level"`           // debug, info, warn or error
	File       string `toml:"file" json:"file"`             // Empty logs to stderr
	MaxSizeMB  int    `toml:"maxSizeMB" json:"maxSizeMB"`   // Rotation threshold for File
	MaxBackups int    `toml:"maxBackups" json:"maxBackups"` // Rotated files kept
	MaxAgeDays int    `toml:"maxAgeDays" json:"maxAgeDays"` // Days a rotated file is kept
}

// Config holds all configurable match parameters.
type Config struct {
	// Server
	Addr string `toml:"addr" json:"addr"` // HTTP listen address

	// Timing
	TickRate int `toml:"tickRate" json:"tickRate"` // Fixed simulation steps per second

	// Court
	CourtWidth    float64 `toml:"courtWidth" json:"courtWidth"`       // Full width, centered at the origin
	CourtHeight   float64 `toml:"courtHeight" json:"courtHeight"`     // Full height, centered at the origin
	WallThickness float64 `toml:"wallThickness" json:"wallThickness"` // Height of the top and bottom walls

	// Paddles
	PaddleWidth    float64 `toml:"paddleWidth" json:"paddleWidth"`
	PaddleHeight   float64 `toml:"paddleHeight" json:"paddleHeight"`
	PaddleSpeed    float64 `toml:"paddleSpeed" json:"paddleSpeed"`       // Units per second at full intent
	PaddleResponse string  `toml:"paddleResponse" json:"paddleResponse"` // "angle" or "reflect"

	// Ball
	BallRadius        float64 `toml:"ballRadius" json:"ballRadius"`
	BallSpeed         float64 `toml:"ballSpeed" json:"ballSpeed"`                 // Outgoing speed after a paddle hit
	ServeSpeed        float64 `toml:"serveSpeed" json:"serveSpeed"`               // Per-axis speed of the diagonal serve
	MaxBounceAngleDeg float64 `toml:"maxBounceAngleDeg" json:"maxBounceAngleDeg"` // Deflection for a hit at the paddle edge
	ClampBounce       bool    `toml:"clampBounce" json:"clampBounce"`             // Clamp the normalized hit offset to [-1, 1]
	Separate          bool    `toml:"separate" json:"separate"`                   // Push the ball out of obstacles after resolving

	Log LogConfig `toml:"log" json:"log"`
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	return Config{
		Addr: DefaultAddr,

		TickRate: DefaultTickRate,

		CourtWidth:    CourtWidth,
		CourtHeight:   CourtHeight,
		WallThickness: WallThickness,

		PaddleWidth:    PaddleWidth,
		PaddleHeight:   PaddleHeight,
		PaddleSpeed:    PaddleSpeed,
		PaddleResponse: ResponseAngle,

		BallRadius:        BallRadius,
		BallSpeed:         BallSpeed,
		ServeSpeed:        BallSpeed,
		MaxBounceAngleDeg: MaxBounceAngleDeg,
		ClampBounce:       true,
		Separate:          false,

		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// TickPeriod is the wall-clock interval between two fixed steps.
func (c Config) TickPeriod() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// TickSeconds is the fixed step duration fed to the simulation.
func (c Config) TickSeconds() float64 {
	return 1.0 / float64(c.TickRate)
}

// MaxBounceAngle returns the bounce angle cap in radians.
func (c Config) MaxBounceAngle() float64 {
	return c.MaxBounceAngleDeg * math.Pi / 180.0
}

// PaddleLimit is the largest |y| a paddle center may reach without overlapping a wall.
func (c Config) PaddleLimit() float64 {
	return c.CourtHeight/2 - c.WallThickness - c.PaddleHeight/2
}

// Validate rejects configurations that would produce a degenerate court.
// All violations are reported together.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfig}, args...)...))
	}

	if c.TickRate <= 0 {
		invalid("tickRate must be positive, got %d", c.TickRate)
	}
	positives := []struct {
		name  string
		value float64
	}{
		{"courtWidth", c.CourtWidth},
		{"courtHeight", c.CourtHeight},
		{"wallThickness", c.WallThickness},
		{"paddleWidth", c.PaddleWidth},
		{"paddleHeight", c.PaddleHeight},
		{"ballRadius", c.BallRadius},
	}
	for _, p := range positives {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			invalid("%s must be positive and finite, got %v", p.name, p.value)
		}
	}
	speeds := []struct {
		name  string
		value float64
	}{
		{"paddleSpeed", c.PaddleSpeed},
		{"ballSpeed", c.BallSpeed},
		{"serveSpeed", c.ServeSpeed},
	}
	for _, s := range speeds {
		if !(s.value >= 0) || math.IsInf(s.value, 0) {
			invalid("%s must be non-negative and finite, got %v", s.name, s.value)
		}
	}
	if !(c.MaxBounceAngleDeg >= 0 && c.MaxBounceAngleDeg < 90) {
		invalid("maxBounceAngleDeg must be in [0, 90), got %v", c.MaxBounceAngleDeg)
	}
	if c.CourtHeight > 0 && c.PaddleHeight > 0 && c.WallThickness > 0 && c.PaddleLimit() < 0 {
		invalid("paddle of height %v does not fit between walls of a %v high court", c.PaddleHeight, c.CourtHeight)
	}
	if c.CourtWidth > 0 && c.PaddleWidth > 0 && c.CourtWidth <= 2*c.PaddleWidth {
		invalid("courtWidth %v leaves no room between paddles of width %v", c.CourtWidth, c.PaddleWidth)
	}
	switch c.PaddleResponse {
	case ResponseAngle, ResponseReflect:
	default:
		invalid("paddleResponse must be %q or %q, got %q", ResponseAngle, ResponseReflect, c.PaddleResponse)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		invalid("log level %q is not supported", c.Log.Level)
	}

	return errors.Join(errs...)
}

// LoadConfig decodes a TOML file over DefaultConfig and validates the result.
// Keys absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("load config %s: %w: unknown keys %s", path, ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
