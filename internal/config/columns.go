package config

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/ltable/pkg/layout"
)

// ErrUnknownPreset is returned when a preset name is not configured.
var ErrUnknownPreset = errors.New("unknown preset")

// Column converts the YAML form into a layout column. A fill column without a
// weight gets weight 1.
func (c ColumnConfig) Column() (layout.Column, error) {
	mode, err := layout.ParseMode(c.Mode)
	if err != nil {
		return layout.Column{}, err
	}
	align, err := layout.ParseAlign(c.Align)
	if err != nil {
		return layout.Column{}, err
	}

	var col layout.Column
	switch mode {
	case layout.ModeExact:
		col = layout.Exact(c.Width)
	case layout.ModeInitial:
		col = layout.Initial(c.Width)
	case layout.ModeFill:
		weight := c.Weight
		if weight == 0 {
			weight = 1
		}
		col = layout.Fill(weight)
		col.Width = c.Width
	default:
		col = layout.Auto()
	}
	if c.Min != 0 {
		col = col.WithMin(c.Min)
	}
	if c.Max != 0 {
		col = col.WithMax(c.Max)
	}
	return col.WithResizable(c.Resizable).WithFixed(c.Fixed).WithAlign(align), nil
}

// FromColumn is the inverse of ColumnConfig.Column.
func FromColumn(name string, col layout.Column) ColumnConfig {
	cc := ColumnConfig{
		Name:      name,
		Mode:      col.Mode.String(),
		Width:     col.Width,
		Min:       col.Min,
		Max:       col.Max,
		Resizable: col.Resizable,
		Fixed:     col.Fixed,
	}
	if col.IsFill() {
		cc.Weight = col.Weight
	}
	if col.Mode == layout.ModeExact {
		cc.Min, cc.Max = 0, 0
	}
	if col.Align != layout.AlignLeft {
		cc.Align = col.Align.String()
	}
	return cc
}

// Columns converts a list of column configs. It returns the layout columns and
// their names in the same order.
func Columns(cfgs []ColumnConfig) ([]layout.Column, []string, error) {
	cols := make([]layout.Column, 0, len(cfgs))
	names := make([]string, 0, len(cfgs))
	for i, cc := range cfgs {
		col, err := cc.Column()
		if err != nil {
			return nil, nil, fmt.Errorf("column %d (%s): %w", i, cc.Name, err)
		}
		cols = append(cols, col)
		names = append(names, cc.Name)
	}
	return cols, names, nil
}

// Preset looks up a named preset.
func (c Config) Preset(name string) (Preset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w %q (available: %v)", ErrUnknownPreset, name, c.PresetNames())
	}
	return p, nil
}

// PresetNames returns the configured preset names in sorted order.
func (c Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for n := range c.Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ColumnFile is the input of `ltable resolve`: a column list plus the sizing
// context to resolve it in.
type ColumnFile struct {
	AvailableWidth float64        `yaml:"available_width,omitempty"`
	FillHorizontal bool           `yaml:"fill_horizontal,omitempty"`
	Measured       []float64      `yaml:"measured,omitempty"`
	Previous       []float64      `yaml:"previous,omitempty"`
	Columns        []ColumnConfig `yaml:"columns"`
}

// DecodeColumnFile reads a column file.
func DecodeColumnFile(r io.Reader) (ColumnFile, error) {
	var f ColumnFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return f, errors.New("column file is empty")
		}
		return f, fmt.Errorf("decode column file: %w", err)
	}
	if len(f.Columns) == 0 {
		return f, errors.New("column file has no columns")
	}
	return f, nil
}

// Context builds the sizing context described by the file.
func (f ColumnFile) Context() layout.Context {
	return layout.Context{
		AvailableWidth: f.AvailableWidth,
		FillHorizontal: f.FillHorizontal,
		Measured:       f.Measured,
		Previous:       f.Previous,
	}
}
