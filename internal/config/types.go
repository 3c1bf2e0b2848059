// Package config loads the ltable configuration: table options, theme colors and
// named column presets. User files are merged over the embedded defaults.
package config

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the merged configuration.
type Config struct {
	App     AppConfig         `yaml:"app"`
	Table   TableConfig       `yaml:"table"`
	Presets map[string]Preset `yaml:"presets,omitempty"`
}

type AppConfig struct {
	About AboutConfig `yaml:"about"`
	Debug DebugConfig `yaml:"debug"`
}

type AboutConfig struct {
	Name          string `yaml:"name,omitempty"`
	Description   string `yaml:"description,omitempty"`
	License       string `yaml:"license,omitempty"`
	RepositoryURL string `yaml:"repository_url,omitempty"`
}

type DebugConfig struct {
	// LogFormat is json or console.
	LogFormat string `yaml:"log_format,omitempty"`
}

// TableConfig holds the table options. Pointer fields distinguish "unset" from
// false so a user file only overrides what it names.
type TableConfig struct {
	Striped           *bool       `yaml:"striped,omitempty"`
	ColumnLines       *bool       `yaml:"column_lines,omitempty"`
	ResizeHeadersOnly *bool       `yaml:"resize_headers_only,omitempty"`
	ReorderColumns    *bool       `yaml:"reorder_columns,omitempty"`
	FillHorizontal    *bool       `yaml:"fill_horizontal,omitempty"`
	FillVertical      *bool       `yaml:"fill_vertical,omitempty"`
	HScroll           *bool       `yaml:"hscroll,omitempty"`
	VScroll           *bool       `yaml:"vscroll,omitempty"`
	ResizeStep        *int        `yaml:"resize_step,omitempty"`
	DefaultWidth      *int        `yaml:"default_width,omitempty"`
	Theme             ThemeConfig `yaml:"theme"`
}

// TableSettings is TableConfig with every option resolved.
type TableSettings struct {
	Striped           bool
	ColumnLines       bool
	ResizeHeadersOnly bool
	ReorderColumns    bool
	FillHorizontal    bool
	FillVertical      bool
	HScroll           bool
	VScroll           bool
	ResizeStep        int
	DefaultWidth      int
}

// Settings resolves unset options to false, a resize step of 1 and a default
// width of 120.
func (t TableConfig) Settings() TableSettings {
	s := TableSettings{
		Striped:           boolValue(t.Striped),
		ColumnLines:       boolValue(t.ColumnLines),
		ResizeHeadersOnly: boolValue(t.ResizeHeadersOnly),
		ReorderColumns:    boolValue(t.ReorderColumns),
		FillHorizontal:    boolValue(t.FillHorizontal),
		FillVertical:      boolValue(t.FillVertical),
		HScroll:           boolValue(t.HScroll),
		VScroll:           boolValue(t.VScroll),
		ResizeStep:        1,
		DefaultWidth:      120,
	}
	if t.ResizeStep != nil && *t.ResizeStep > 0 {
		s.ResizeStep = *t.ResizeStep
	}
	if t.DefaultWidth != nil && *t.DefaultWidth > 0 {
		s.DefaultWidth = *t.DefaultWidth
	}
	return s
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

// ColorValue is an ANSI color code or hex string. Numeric values are written back
// as YAML integers.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	*c = ColorValue(value.Value)
	return nil
}

type ThemeConfig struct {
	HeaderFG       ColorValue `yaml:"header_fg,omitempty"`
	HeaderBG       ColorValue `yaml:"header_bg,omitempty"`
	TextFG         ColorValue `yaml:"text_fg,omitempty"`
	StripeBG       ColorValue `yaml:"stripe_bg,omitempty"`
	FocusFG        ColorValue `yaml:"focus_fg,omitempty"`
	FocusBG        ColorValue `yaml:"focus_bg,omitempty"`
	SeparatorColor ColorValue `yaml:"separator_color,omitempty"`
	FooterFG       ColorValue `yaml:"footer_fg,omitempty"`
}

// Preset is a named column set.
type Preset struct {
	Description string         `yaml:"description,omitempty"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig is the YAML form of a layout column.
type ColumnConfig struct {
	Name      string  `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`
	Mode      string  `yaml:"mode,omitempty" json:"mode,omitempty" toml:"mode,omitempty"`
	Width     float64 `yaml:"width,omitempty" json:"width,omitempty" toml:"width,omitempty"`
	Min       float64 `yaml:"min,omitempty" json:"min,omitempty" toml:"min,omitempty"`
	Max       float64 `yaml:"max,omitempty" json:"max,omitempty" toml:"max,omitempty"`
	Weight    float64 `yaml:"weight,omitempty" json:"weight,omitempty" toml:"weight,omitempty"`
	Resizable bool    `yaml:"resizable,omitempty" json:"resizable,omitempty" toml:"resizable,omitempty"`
	Fixed     bool    `yaml:"fixed,omitempty" json:"fixed,omitempty" toml:"fixed,omitempty"`
	Align     string  `yaml:"align,omitempty" json:"align,omitempty" toml:"align,omitempty"`
}
