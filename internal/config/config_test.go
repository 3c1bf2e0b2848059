package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/ltable/pkg/layout"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "ltable", cfg.App.About.Name)
	s := cfg.Table.Settings()
	assert.True(t, s.Striped)
	assert.True(t, s.FillHorizontal)
	assert.Equal(t, 2, s.ResizeStep)
	assert.Equal(t, ColorValue("12"), cfg.Table.Theme.HeaderFG)
	assert.Equal(t, []string{"compact", "fields", "split"}, cfg.PresetNames())
}

func TestDefaultPresetsAreValid(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	for _, name := range cfg.PresetNames() {
		p, err := cfg.Preset(name)
		require.NoError(t, err)
		cols, names, err := Columns(p.Columns)
		require.NoError(t, err, name)
		assert.Len(t, names, len(cols))
		assert.NoError(t, layout.Validate(cols), name)
	}
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}

func TestLoadMergesUserFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
app:
  about:
    name: racing
table:
  striped: false
  resize_step: 5
  theme:
    header_fg: "#ff8800"
presets:
  fields:
    columns:
      - name: Field
        mode: exact
        width: 30
  mine:
    columns:
      - name: A
        mode: fill
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "racing", cfg.App.About.Name)
	assert.Equal(t, "MIT", cfg.App.About.License, "unset fields keep defaults")

	s := cfg.Table.Settings()
	assert.False(t, s.Striped)
	assert.True(t, s.ColumnLines)
	assert.Equal(t, 5, s.ResizeStep)
	assert.Equal(t, ColorValue("#ff8800"), cfg.Table.Theme.HeaderFG)
	assert.Equal(t, ColorValue("236"), cfg.Table.Theme.HeaderBG)

	fields, err := cfg.Preset("fields")
	require.NoError(t, err)
	require.Len(t, fields.Columns, 1)
	_, err = cfg.Preset("compact")
	assert.NoError(t, err)
	_, err = cfg.Preset("mine")
	assert.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	_, err = Load(writeFile(t, "bad.yaml", "table: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode config")
}

func TestMergeDoesNotAliasOverride(t *testing.T) {
	v := true
	out := Merge(Config{}, Config{Table: TableConfig{Striped: &v}})
	v = false
	assert.True(t, out.Table.Settings().Striped)
}

func TestSettingsDefaults(t *testing.T) {
	s := TableConfig{}.Settings()
	assert.Equal(t, TableSettings{ResizeStep: 1, DefaultWidth: 120}, s)
}

func TestPresetUnknown(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	_, err = cfg.Preset("nope")
	require.ErrorIs(t, err, ErrUnknownPreset)
	assert.Contains(t, err.Error(), "fields")
}

func TestColumnConfigConversion(t *testing.T) {
	tests := []struct {
		name string
		in   ColumnConfig
		want layout.Column
	}{
		{name: "empty is auto", in: ColumnConfig{}, want: layout.Auto()},
		{name: "exact", in: ColumnConfig{Mode: "exact", Width: 8}, want: layout.Exact(8)},
		{
			name: "initial bounded",
			in:   ColumnConfig{Mode: "initial", Width: 20, Min: 5, Max: 40, Resizable: true},
			want: layout.Initial(20).WithMin(5).WithMax(40).WithResizable(true),
		},
		{name: "fill default weight", in: ColumnConfig{Mode: "fill"}, want: layout.Fill(1)},
		{
			name: "fill with initial width",
			in:   ColumnConfig{Mode: "fill_space", Weight: 3, Width: 12, Align: "right", Fixed: true},
			want: layout.Fill(3).WithInitialWidth(12).WithAlign(layout.AlignRight).WithFixed(true),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Column()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnConfigErrors(t *testing.T) {
	_, _, err := Columns([]ColumnConfig{{Name: "ok"}, {Name: "bad", Mode: "stretch"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column 1 (bad)")

	_, err = ColumnConfig{Align: "justify"}.Column()
	assert.Error(t, err)
}

func TestFromColumnRoundTrip(t *testing.T) {
	cols := []layout.Column{
		layout.Exact(10),
		layout.Initial(20).WithMin(5).WithResizable(true),
		layout.Fill(2).WithMax(60).WithAlign(layout.AlignCenter),
		layout.Auto().WithFixed(true),
	}
	for _, col := range cols {
		back, err := FromColumn("c", col).Column()
		require.NoError(t, err)
		assert.Equal(t, col, back)
	}
}

func TestDecodeColumnFile(t *testing.T) {
	f, err := DecodeColumnFile(strings.NewReader(`
available_width: 500
fill_horizontal: true
columns:
  - {name: id, mode: exact, width: 100}
  - {name: note, mode: initial, width: 50}
  - {name: a, mode: fill, weight: 1}
  - {name: b, mode: fill, weight: 2}
`))
	require.NoError(t, err)
	require.Len(t, f.Columns, 4)

	cols, _, err := Columns(f.Columns)
	require.NoError(t, err)
	res := layout.Resolve(cols, f.Context())
	assert.InDelta(t, 500, res.TableWidth, 1e-9)
}

func TestDecodeColumnFileErrors(t *testing.T) {
	_, err := DecodeColumnFile(strings.NewReader(""))
	assert.EqualError(t, err, "column file is empty")

	_, err = DecodeColumnFile(strings.NewReader("available_width: 10\n"))
	assert.EqualError(t, err, "column file has no columns")

	_, err = DecodeColumnFile(strings.NewReader("colums: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode column file")
}

func TestColorValueYAML(t *testing.T) {
	out, err := yaml.Marshal(ThemeConfig{HeaderFG: "12", HeaderBG: "#112233"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "header_fg: 12\n")
	assert.Contains(t, string(out), `header_bg: '#112233'`)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "explicit.yaml", ResolvePath("explicit.yaml"))

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Empty(t, ResolvePath(""))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ltable"), 0o755))
	path := filepath.Join(dir, "ltable", "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: {}\n"), 0o600))
	assert.Equal(t, path, ResolvePath(""))
}
