package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	runewidth "github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/ltable/internal/config"
	"github.com/oakwood-commons/ltable/pkg/layout"
	"github.com/oakwood-commons/ltable/pkg/loader"
	"github.com/oakwood-commons/ltable/pkg/settings"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the root command with args, isolated from any user config.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRunCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, stdin, args...)
	require.NoError(t, err)
	return out
}

func outputLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

const scenarioColumns = `available_width: 500
fill_horizontal: true
columns:
  - {name: Name, mode: exact, width: 100}
  - {name: Start, mode: initial, width: 50}
  - {name: One, mode: fill, weight: 1}
  - {name: Two, mode: fill, weight: 2}
`

func TestResolve_PresetJSON(t *testing.T) {
	out := mustRunCLI(t, "", "resolve", "--preset", "split", "--width", "500", "--fill", "-o", "json")

	var report resolveReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Columns, 4)
	assert.InDelta(t, 500, report.TableWidth, 1e-9)
	assert.InDelta(t, 20, report.Columns[0].Width, 1e-9)
	assert.InDelta(t, 10, report.Columns[1].Width, 1e-9)
	assert.InDelta(t, 470.0/3, report.Columns[2].Width, 1e-9)
	assert.InDelta(t, 940.0/3, report.Columns[3].Width, 1e-9)
	assert.Equal(t, "fill", report.Columns[3].Mode)

	cells := 0
	for _, c := range report.Columns {
		cells += c.Cells
	}
	assert.Equal(t, 500, cells)
	assert.Equal(t, 157, report.Columns[2].Cells)
}

func TestResolve_ColumnFileFromStdin(t *testing.T) {
	out := mustRunCLI(t, scenarioColumns, "resolve", "-f", "-", "--no-color")

	assert.Contains(t, out, "116.67")
	assert.Contains(t, out, "233.33")
	assert.Contains(t, out, "table width 500 of 500 (fill true")
	assert.Contains(t, out, "Start")
}

func TestResolve_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioColumns), 0o600))

	out := mustRunCLI(t, "", "resolve", "-f", path, "--width", "200", "--fill=false", "-o", "yaml")
	var report resolveReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.False(t, report.FillHorizontal)
	assert.InDelta(t, 200, report.AvailableWidth, 1e-9)
	// Without filling, fill columns fall back to their minimum of zero.
	assert.InDelta(t, 150, report.TableWidth, 1e-9)
}

func TestResolve_TOML(t *testing.T) {
	out := mustRunCLI(t, scenarioColumns, "resolve", "-o", "toml")
	assert.Contains(t, out, "table_width = 500")
	assert.Contains(t, out, "[[columns]]")
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "empty input", args: []string{"resolve"}, want: "column file is empty"},
		{name: "bad output", stdin: scenarioColumns, args: []string{"resolve", "-o", "xml"}, want: "unsupported output format"},
		{name: "unknown preset", args: []string{"resolve", "--preset", "nope"}, want: "unknown preset"},
		{name: "file and preset", args: []string{"resolve", "-f", "x.yaml", "--preset", "split"}, want: "none of the others can be"},
		{name: "bad mode", stdin: "columns:\n  - {mode: stretch}\n", args: []string{"resolve"}, want: "unknown column mode"},
		{name: "missing file", args: []string{"resolve", "-f", "does-not-exist.yaml"}, want: "open input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRender_CSVFromStdin(t *testing.T) {
	out := mustRunCLI(t, "name,score\nalice,10\nbob,7\n", "render", "--no-color", "--column-lines=false", "--width", "40")
	assert.Equal(t, []string{
		"name   score",
		"────────────",
		"alice  10   ",
		"bob    7    ",
	}, outputLines(out))
	assert.True(t, runParams().Input.FromStdin())
}

func TestRender_StructuredInput(t *testing.T) {
	want := []string{
		"name   score",
		"────────────",
		"alice  10   ",
		"bob    7    ",
	}
	inputs := map[string]string{
		"json":   `[{"name": "alice", "score": 10}, {"name": "bob", "score": 7}]`,
		"ndjson": "{\"name\": \"alice\", \"score\": 10}\n{\"name\": \"bob\", \"score\": 7}\n",
		"yaml":   "- name: alice\n  score: 10\n- name: bob\n  score: 7\n",
		"toml":   "[[rows]]\nname = \"alice\"\nscore = 10\n\n[[rows]]\nname = \"bob\"\nscore = 7\n",
	}
	for format, in := range inputs {
		t.Run(format, func(t *testing.T) {
			out := mustRunCLI(t, in, "render", "--no-color", "--column-lines=false", "--width", "40")
			assert.Equal(t, want, outputLines(out))
		})
	}

	t.Run("file extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scores.json")
		require.NoError(t, os.WriteFile(path, []byte(inputs["json"]), 0o600))
		out := mustRunCLI(t, "", "render", path, "--no-color", "--column-lines=false")
		assert.Equal(t, want, outputLines(out))
		assert.Equal(t, path, runParams().Input.Path)
	})

	t.Run("explicit format", func(t *testing.T) {
		out := mustRunCLI(t, "key: value\n", "render", "--format", "csv", "--no-color", "--column-lines=false")
		assert.Equal(t, []string{"key: value", "──────────"}, outputLines(out))
	})
}

func TestRender_LimitRows(t *testing.T) {
	csv := "n\n1\n2\n3\n4\n5\n"
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "limit", args: []string{"--limit", "2"}, want: []string{"1", "2"}},
		{name: "offset and limit", args: []string{"--offset", "1", "--limit", "2"}, want: []string{"2", "3"}},
		{name: "tail", args: []string{"--tail", "2"}, want: []string{"4", "5"}},
		{name: "offset past end", args: []string{"--offset", "9"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", "--no-color", "--column-lines=false"}, tt.args...)
			lines := outputLines(mustRunCLI(t, csv, args...))
			require.Len(t, lines, 2+len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w, strings.TrimSpace(lines[2+i]))
			}
		})
	}

	_, err := runCLI(t, csv, "render", "--limit", "1", "--tail", "1")
	assert.ErrorContains(t, err, "mutually exclusive")
	_, err = runCLI(t, csv, "render", "--limit", "-1")
	assert.ErrorContains(t, err, "non-negative")
}

func TestRender_PresetFillsWidth(t *testing.T) {
	csv := "Two,One,Initial,Exact\nd,c,b,a\n"
	out := mustRunCLI(t, csv, "render", "--no-color", "--preset", "split", "--width", "506", "--fill", "--column-lines=false")

	lines := outputLines(out)
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, 506, runewidth.StringWidth(l), "line %q", l)
	}
	// Preset order wins over file order.
	assert.True(t, strings.HasPrefix(lines[2], "a "))
	assert.Equal(t, 506, runParams().Width)
}

func TestRender_Errors(t *testing.T) {
	_, err := runCLI(t, "", "render")
	assert.ErrorIs(t, err, loader.ErrEmpty)

	_, err = runCLI(t, "a,b\n", "render", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = runCLI(t, "a: [1\n", "render", "--format", "yaml")
	assert.ErrorContains(t, err, "invalid YAML")

	_, err = runCLI(t, "a,b\n1,2\n", "render", "--preset", "compact")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "Field" not found`)

	_, err = runCLI(t, "", "render", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "open input")
}

func TestFields_FilteredTable(t *testing.T) {
	out := mustRunCLI(t, "", "fields", "--no-color", "--preset", "compact", "--column-lines=false",
		"--width", "80", "--filter", `f.acc == "n/a"`)

	lines := outputLines(out)
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Field"))
	assert.Contains(t, lines[0], "iRacing")
	assert.True(t, strings.HasPrefix(lines[2], "laps "))
	assert.Contains(t, lines[2], "n/a")
	assert.True(t, strings.HasPrefix(lines[3], "laps_remaining"))
}

func TestFields_DefaultPresetFillsWidth(t *testing.T) {
	out := mustRunCLI(t, "", "fields", "--no-color", "--width", "120")
	lines := outputLines(out)
	require.Len(t, lines, 54)
	for _, l := range lines {
		assert.Equal(t, 120, runewidth.StringWidth(l), "line %q", l)
	}
}

func TestFields_StructuredOutput(t *testing.T) {
	out := mustRunCLI(t, "", "fields", "-o", "json", "--sort", "name")
	var doc struct {
		Fields []fieldRecord `json:"fields"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Fields, 52)
	for i := 1; i < len(doc.Fields); i++ {
		assert.LessOrEqual(t, doc.Fields[i-1].Name, doc.Fields[i].Name)
	}
	assert.Contains(t, doc.Fields[0].Status, "acc")
	assert.Contains(t, doc.Fields[0].Status, "iracing")
}

func TestFields_LimitStructuredOutput(t *testing.T) {
	out := mustRunCLI(t, "", "fields", "-o", "json", "--sort", "name", "--tail", "3")
	var doc struct {
		Fields []fieldRecord `json:"fields"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Fields, 3)

	lines := outputLines(mustRunCLI(t, "", "fields", "--no-color", "--limit", "5", "--width", "120"))
	assert.Len(t, lines, 7)
}

func TestFields_Summary(t *testing.T) {
	out := mustRunCLI(t, "", "fields", "--summary", "--no-color")
	assert.Contains(t, out, "ACC")
	assert.Contains(t, out, "iRacing")
	assert.Contains(t, out, "coverage")
	assert.Contains(t, out, "%")

	out = mustRunCLI(t, "", "fields", "--summary", "-o", "yaml")
	var doc struct {
		Summary []summaryRecord `yaml:"summary"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Summary, 2)
	for _, s := range doc.Summary {
		assert.Equal(t, 52, s.Total)
		sum := 0
		for _, n := range s.Counts {
			sum += n
		}
		assert.Equal(t, 52, sum)
	}
}

func TestFields_CustomCatalog(t *testing.T) {
	md := "## Lap\n\n| Field | Description | rF2 |\n|---|---|---|\n| `lap_time` | Time of the lap | done |\n"
	path := filepath.Join(t.TempDir(), "fields.md")
	require.NoError(t, os.WriteFile(path, []byte(md), 0o600))

	out := mustRunCLI(t, "", "fields", "--catalog", path, "--preset", "", "--no-color", "--column-lines=false")
	lines := outputLines(out)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "rF2")
	assert.Contains(t, lines[2], "lap_time")
}

func TestFields_Errors(t *testing.T) {
	_, err := runCLI(t, "", "fields", "--filter", "f.name")
	assert.ErrorContains(t, err, "filter")

	_, err = runCLI(t, "", "fields", "--catalog", filepath.Join(t.TempDir(), "none.md"))
	assert.ErrorContains(t, err, "read catalog")

	_, err = runCLI(t, "", "fields", "--preset", "split")
	assert.ErrorContains(t, err, "not found")
}

func TestConfig_Output(t *testing.T) {
	out := mustRunCLI(t, "", "config", "-o", "json")
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	app := tree["app"].(map[string]any)
	about := app["about"].(map[string]any)
	assert.Equal(t, settings.CliBinaryName, about["name"])

	out = mustRunCLI(t, "", "config", "--default")
	assert.Equal(t, string(config.DefaultConfigYAML()), out)

	out = mustRunCLI(t, "", "config")
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Contains(t, cfg.Presets, "split")
}

func TestConfig_UserFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`presets:
  wide:
    description: Two fill columns
    columns:
      - {name: A, mode: fill, weight: 3}
      - {name: B, mode: fill}
`), 0o600))

	out := mustRunCLI(t, "", "--config-file", path, "resolve", "--preset", "wide", "--width", "100", "--fill", "-o", "json")
	var report resolveReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.InDelta(t, 75, report.Columns[0].Width, 1e-9)
	assert.InDelta(t, 25, report.Columns[1].Width, 1e-9)
	assert.Equal(t, path, runParams().ConfigFile)

	out = mustRunCLI(t, "", "--config-file", path, "config", "presets", "--no-color")
	assert.Contains(t, out, "wide")
	assert.Contains(t, out, "split")

	_, err := runCLI(t, "", "--config-file", filepath.Join(t.TempDir(), "none.yaml"), "version")
	assert.ErrorContains(t, err, "read config")
}

func TestVersion(t *testing.T) {
	out := mustRunCLI(t, "", "version")
	assert.True(t, strings.HasPrefix(out, "ltable "+settings.VersionInformation.BuildVersion))

	out = mustRunCLI(t, "", "version", "-o", "json")
	var v versionReport
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, settings.VersionInformation.Commit, v.Commit)
	assert.NotEmpty(t, v.GoVersion)
}

func TestDebugFlagSetsLogLevel(t *testing.T) {
	mustRunCLI(t, "", "--debug", "version")
	assert.True(t, runParams().Debug())

	mustRunCLI(t, "", "version")
	assert.False(t, runParams().Debug())
}

func TestPresetColumns(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	cols, index, err := presetColumns(cfg, "", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []layout.Column{layout.Auto(), layout.Auto()}, cols)
	assert.Equal(t, []int{0, 1}, index)

	cols, index, err = presetColumns(cfg, "compact", []string{"field", "Group", "ACC", "iRacing"})
	require.NoError(t, err)
	assert.Len(t, cols, 3)
	assert.Equal(t, []int{0, 2, 3}, index)
	assert.True(t, cols[0].Fixed)

	cfg.Presets["positional"] = config.Preset{Columns: []config.ColumnConfig{{Mode: "exact", Width: 4}, {}}}
	_, index, err = presetColumns(cfg, "positional", []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, index)

	headers, rows := projectAll([]string{"x", "y", "z"}, [][]string{{"1", "2", "3"}, {"4"}}, []int{2, 0})
	assert.Equal(t, []string{"z", "x"}, headers)
	assert.Equal(t, [][]string{{"3", "1"}, {"", "4"}}, rows)
}
