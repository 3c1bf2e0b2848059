package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/ltable/pkg/settings"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default decodes the embedded default config.
func Default() (Config, error) {
	var cfg Config
	if len(embeddedDefaultConfig) == 0 {
		return cfg, fmt.Errorf("embedded default config is empty")
	}
	if err := yaml.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults merged with the file at path. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	var user Config
	if err := yaml.Unmarshal(data, &user); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return Merge(cfg, user), nil
}

// Merge applies every field set in override on top of base. Presets are
// replaced by name.
func Merge(base, override Config) Config {
	out := base

	str := func(src string, dst *string) {
		if src != "" {
			*dst = src
		}
	}
	str(override.App.About.Name, &out.App.About.Name)
	str(override.App.About.Description, &out.App.About.Description)
	str(override.App.About.License, &out.App.About.License)
	str(override.App.About.RepositoryURL, &out.App.About.RepositoryURL)
	str(override.App.Debug.LogFormat, &out.App.Debug.LogFormat)

	flag := func(src *bool, dst **bool) {
		if src != nil {
			v := *src
			*dst = &v
		}
	}
	t, o := &out.Table, override.Table
	flag(o.Striped, &t.Striped)
	flag(o.ColumnLines, &t.ColumnLines)
	flag(o.ResizeHeadersOnly, &t.ResizeHeadersOnly)
	flag(o.ReorderColumns, &t.ReorderColumns)
	flag(o.FillHorizontal, &t.FillHorizontal)
	flag(o.FillVertical, &t.FillVertical)
	flag(o.HScroll, &t.HScroll)
	flag(o.VScroll, &t.VScroll)
	if o.ResizeStep != nil {
		v := *o.ResizeStep
		t.ResizeStep = &v
	}
	if o.DefaultWidth != nil {
		v := *o.DefaultWidth
		t.DefaultWidth = &v
	}
	t.Theme = mergeTheme(t.Theme, o.Theme)

	if len(override.Presets) > 0 {
		presets := make(map[string]Preset, len(base.Presets)+len(override.Presets))
		for k, v := range base.Presets {
			presets[k] = v
		}
		for k, v := range override.Presets {
			presets[k] = v
		}
		out.Presets = presets
	}
	return out
}

func mergeTheme(base, override ThemeConfig) ThemeConfig {
	out := base
	apply := func(src ColorValue, dst *ColorValue) {
		if src != "" {
			*dst = src
		}
	}
	apply(override.HeaderFG, &out.HeaderFG)
	apply(override.HeaderBG, &out.HeaderBG)
	apply(override.TextFG, &out.TextFG)
	apply(override.StripeBG, &out.StripeBG)
	apply(override.FocusFG, &out.FocusFG)
	apply(override.FocusBG, &out.FocusBG)
	apply(override.SeparatorColor, &out.SeparatorColor)
	apply(override.FooterFG, &out.FooterFG)
	return out
}

// ResolvePath returns explicit when set, otherwise the config file under the
// XDG config directory if it exists, otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
