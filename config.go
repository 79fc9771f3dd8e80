package vic3d

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"github.com/simvicus/vic3d/view3d/buffers"
	"github.com/simvicus/vic3d/view3d/nav"
	"github.com/simvicus/vic3d/view3d/pick"
	"github.com/simvicus/vic3d/view3d/snap"
)

var ErrInvalidConfig = errors.New("invalid config")

type GridConfig struct {
	Offset       [3]float64 `toml:"offset"`
	Normal       [3]float64 `toml:"normal"`
	LocalX       [3]float64 `toml:"local_x"`
	Spacing      float64    `toml:"spacing"`
	MajorSpacing float64    `toml:"major_spacing"`
	Extent       float64    `toml:"extent"`
	Color        string     `toml:"color"`
}

type SnapConfig struct {
	Enabled    bool     `toml:"enabled"`
	Categories []string `toml:"categories"`
	Distance   float64  `toml:"distance"`
}

type NavigationConfig struct {
	InvertY           bool    `toml:"invert_y"`
	RotationSpeed     float64 `toml:"rotation_speed"`
	FlySpeed          float64 `toml:"fly_speed"`
	RollSpeed         float64 `toml:"roll_speed"`
	ZoomStep          float64 `toml:"zoom_step"`
	FastFactor        float64 `toml:"fast_factor"`
	DampeningDistance float64 `toml:"dampening_distance"`
	WrapMargin        float64 `toml:"wrap_margin"`
	// squared pixels of accumulated mouse movement below which a release
	// counts as a click
	ClickThreshold float64 `toml:"click_threshold"`
}

type GizmoConfig struct {
	AxisLength          float64 `toml:"axis_length"`
	HandleRadius        float64 `toml:"handle_radius"`
	RotationSnapDegrees float64 `toml:"rotation_snap_degrees"`
}

type ViewConfig struct {
	FieldOfView      float64 `toml:"field_of_view"`
	NearPlane        float64 `toml:"near_plane"`
	FarPlane         float64 `toml:"far_plane"`
	DevicePixelRatio float64 `toml:"device_pixel_ratio"`
	Background       string  `toml:"background"`
	ColorMode        string  `toml:"color_mode"`
	// seconds for animated camera moves, 0 jumps
	TransitionTime float64 `toml:"transition_time"`
}

type Config struct {
	Grids      []GridConfig     `toml:"grid"`
	Snap       SnapConfig       `toml:"snap"`
	Navigation NavigationConfig `toml:"navigation"`
	Gizmo      GizmoConfig      `toml:"gizmo"`
	View       ViewConfig       `toml:"view"`
	Debug      bool             `toml:"debug"`
}

func DefaultConfig() Config {
	g := pick.DefaultGrid()
	s := nav.DefaultSettings()
	return Config{
		Grids: []GridConfig{{
			Normal:       g.Normal,
			LocalX:       g.LocalX,
			Spacing:      g.Spacing,
			MajorSpacing: g.MajorSpacing,
			Extent:       g.Extent,
			Color:        "#808080",
		}},
		Snap: SnapConfig{
			Enabled:    true,
			Categories: []string{"grid", "vertex", "center", "edge-center"},
			Distance:   2,
		},
		Navigation: NavigationConfig{
			RotationSpeed:     s.RotationSpeed,
			FlySpeed:          s.FlySpeed,
			RollSpeed:         s.RollSpeed,
			ZoomStep:          s.ZoomStep,
			FastFactor:        s.FastFactor,
			DampeningDistance: s.DampeningDistance,
			WrapMargin:        20,
			ClickThreshold:    9,
		},
		Gizmo: GizmoConfig{
			AxisLength:          2,
			HandleRadius:        0.25,
			RotationSnapDegrees: 10,
		},
		View: ViewConfig{
			FieldOfView:      45,
			NearPlane:        0.1,
			FarPlane:         10000,
			DevicePixelRatio: 1,
			Background:       "#2b2b2b",
			ColorMode:        "default",
			TransitionTime:   0.5,
		},
	}
}

// ParseConfig reads TOML on top of the defaults and validates the result.
// Grids given in data replace the default grid.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	grids := cfg.Grids
	cfg.Grids = nil
	if err := toml.Unmarshal(data, &cfg); err != nil {
		cfg.Grids = grids
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(cfg.Grids) == 0 {
		cfg.Grids = grids
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func (c Config) Validate() error {
	for i, g := range c.Grids {
		if g.Spacing <= 0 || g.MajorSpacing <= 0 {
			return invalid("grid %d: spacing must be positive", i)
		}
		if mgl64.Vec3(g.Normal).Len() == 0 {
			return invalid("grid %d: zero normal", i)
		}
		if g.Color != "" {
			if _, err := colorful.Hex(g.Color); err != nil {
				return invalid("grid %d: color %q", i, g.Color)
			}
		}
	}
	if _, err := snap.ParseOptions(c.Snap.Categories); err != nil {
		return invalid("snap: %v", err)
	}
	if c.Snap.Distance <= 0 {
		return invalid("snap: distance must be positive")
	}
	if c.Navigation.ClickThreshold <= 0 {
		return invalid("navigation: click threshold must be positive")
	}
	if c.Gizmo.AxisLength <= 0 || c.Gizmo.HandleRadius <= 0 {
		return invalid("gizmo: axis length and handle radius must be positive")
	}
	if c.Gizmo.RotationSnapDegrees < 0 {
		return invalid("gizmo: negative rotation snap")
	}
	if c.View.NearPlane <= 0 || c.View.FarPlane <= c.View.NearPlane {
		return invalid("view: near %g far %g", c.View.NearPlane, c.View.FarPlane)
	}
	if c.View.FieldOfView <= 0 || c.View.FieldOfView >= 180 {
		return invalid("view: field of view %g", c.View.FieldOfView)
	}
	if _, err := colorful.Hex(c.View.Background); err != nil {
		return invalid("view: background %q", c.View.Background)
	}
	if _, err := buffers.ParseColorMode(c.View.ColorMode); err != nil {
		return invalid("view: %v", err)
	}
	return nil
}

// SnapConfig converts the snap section. The config must be valid.
func (c Config) SnapConfig() snap.Config {
	opts, _ := snap.ParseOptions(c.Snap.Categories)
	return snap.Config{Enabled: c.Snap.Enabled, Options: opts, Distance: c.Snap.Distance}
}

func (c Config) GridPlanes() []pick.GridPlane {
	out := make([]pick.GridPlane, len(c.Grids))
	for i, g := range c.Grids {
		out[i] = pick.GridPlane{
			Offset:       g.Offset,
			Normal:       g.Normal,
			LocalX:       g.LocalX,
			Spacing:      g.Spacing,
			MajorSpacing: g.MajorSpacing,
			Extent:       g.Extent,
		}
	}
	return out
}

func (c Config) NavSettings() nav.Settings {
	n := c.Navigation
	return nav.Settings{
		RotationSpeed:     n.RotationSpeed,
		InvertY:           n.InvertY,
		FlySpeed:          n.FlySpeed,
		RollSpeed:         n.RollSpeed,
		ZoomStep:          n.ZoomStep,
		FastFactor:        n.FastFactor,
		DampeningDistance: n.DampeningDistance,
	}
}

func hexColor(s string, fallback color.RGBA) color.RGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// BackgroundColor is the theme clear color.
func (c Config) BackgroundColor() color.RGBA {
	return hexColor(c.View.Background, color.RGBA{A: 255})
}

// GridColor is the line color of grid i.
func (c Config) GridColor(i int) color.RGBA {
	if i < 0 || i >= len(c.Grids) {
		return color.RGBA{A: 255}
	}
	return hexColor(c.Grids[i].Color, color.RGBA{R: 128, G: 128, B: 128, A: 255})
}

func (c Config) ColorMode() buffers.ColorMode {
	m, _ := buffers.ParseColorMode(c.View.ColorMode)
	return m
}
