// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CanvasConfig is the output slide size in inches.
type CanvasConfig struct {
	// WidthIn is the slide width (default 16).
	WidthIn float64 `json:"width_in" yaml:"width_in"`

	// HeightIn is the slide height (default 9).
	HeightIn float64 `json:"height_in" yaml:"height_in"`
}

// ConversionConfig holds settings for the conversion engine.
type ConversionConfig struct {
	Canvas CanvasConfig `json:"canvas" yaml:"canvas"`

	// DefaultFont is used for spans whose font name is empty (default "Calibri").
	DefaultFont string `json:"default_font" yaml:"default_font"`

	// TitleMarker is the substring that marks the title block on a page
	// (default "Test Page"). Empty disables title detection.
	TitleMarker string `json:"title_marker" yaml:"title_marker"`

	// Strict clamps colors to 0-255 and progress percentages to 0-100.
	// When false, values pass through as the source reports them.
	Strict bool `json:"strict" yaml:"strict"`

	// RenderShapes draws classified vector shapes onto the slide.
	RenderShapes bool `json:"render_shapes" yaml:"render_shapes"`

	// Validate runs a structural check of the PDF before reading pages.
	Validate bool `json:"validate" yaml:"validate"`

	// WidgetsFile is an optional YAML widget table.
	WidgetsFile string `json:"widgets_file,omitempty" yaml:"widgets_file,omitempty"`

	// Jobs bounds how many files a batch converts at once (default 4).
	Jobs int `json:"jobs" yaml:"jobs"`
}

// ServeConfig holds settings for the upload service.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// MaxUploadBytes caps the request body (default 10 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`

	// Token, when set, is required as a bearer token on uploads.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// HistoryConfig holds settings for the conversion history store.
type HistoryConfig struct {
	// Enabled turns on job recording.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// DBPath is the SQLite database file (default "pdf2deck.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// Config groups all settings.
type Config struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Serve      ServeConfig      `json:"serve" yaml:"serve"`
	History    HistoryConfig    `json:"history" yaml:"history"`
}

// Defaults.
const (
	DefaultCanvasWidthIn  = 16.0
	DefaultCanvasHeightIn = 9.0
	DefaultFont           = "Calibri"
	DefaultTitleMarker    = "Test Page"
	DefaultJobs           = 4
	DefaultServeAddr      = ":8080"
	DefaultMaxUploadBytes = 10 << 20
	DefaultHistoryDB      = "pdf2deck.db"
)

// DefaultConversionConfig returns the engine defaults.
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		Canvas:       CanvasConfig{WidthIn: DefaultCanvasWidthIn, HeightIn: DefaultCanvasHeightIn},
		DefaultFont:  DefaultFont,
		TitleMarker:  DefaultTitleMarker,
		RenderShapes: true,
		Validate:     true,
		Jobs:         DefaultJobs,
	}
}

// WithDefaults fills zero-valued fields from DefaultConversionConfig.
// TitleMarker is left as given so an empty marker can disable detection.
func (c ConversionConfig) WithDefaults() ConversionConfig {
	d := DefaultConversionConfig()
	if c.Canvas.WidthIn <= 0 {
		c.Canvas.WidthIn = d.Canvas.WidthIn
	}
	if c.Canvas.HeightIn <= 0 {
		c.Canvas.HeightIn = d.Canvas.HeightIn
	}
	if c.DefaultFont == "" {
		c.DefaultFont = d.DefaultFont
	}
	if c.Jobs <= 0 {
		c.Jobs = d.Jobs
	}
	return c
}
