// Package formatter renders string tables to plain or styled text using the
// layout resolver for column widths.
package formatter

import (
	"image/color"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/oakwood-commons/ltable/internal/config"
	"github.com/oakwood-commons/ltable/pkg/layout"
)

var (
	defaultHeaderFG  = lipgloss.Color("12")
	defaultHeaderBG  = lipgloss.Color("236")
	defaultTextFG    = lipgloss.Color("252")
	defaultStripeBG  = lipgloss.Color("235")
	defaultSeparator = lipgloss.Color("240")

	headerStyle    lipgloss.Style
	cellStyle      lipgloss.Style
	stripeStyle    lipgloss.Style
	separatorStyle lipgloss.Style
)

// TableColors controls the rendered colors. Nil fields fall back to defaults.
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	TextFG         color.Color
	StripeBG       color.Color
	SeparatorColor color.Color
}

func applyTableTheme(tc TableColors) {
	pick := func(c, def color.Color) color.Color {
		if c == nil {
			return def
		}
		return c
	}
	hfg := pick(tc.HeaderFG, defaultHeaderFG)
	hbg := pick(tc.HeaderBG, defaultHeaderBG)
	tfg := pick(tc.TextFG, defaultTextFG)
	sbg := pick(tc.StripeBG, defaultStripeBG)
	sep := pick(tc.SeparatorColor, defaultSeparator)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(hfg).Background(hbg)
	cellStyle = lipgloss.NewStyle().Foreground(tfg)
	stripeStyle = lipgloss.NewStyle().Foreground(tfg).Background(sbg)
	separatorStyle = lipgloss.NewStyle().Foreground(sep)
}

// SetTableTheme overrides the package table styles.
func SetTableTheme(tc TableColors) {
	applyTableTheme(tc)
}

// ColorsFromTheme converts configured theme colors.
func ColorsFromTheme(t config.ThemeConfig) TableColors {
	conv := func(v config.ColorValue) color.Color {
		if v == "" {
			return nil
		}
		return lipgloss.Color(string(v))
	}
	return TableColors{
		HeaderFG:       conv(t.HeaderFG),
		HeaderBG:       conv(t.HeaderBG),
		TextFG:         conv(t.TextFG),
		StripeBG:       conv(t.StripeBG),
		SeparatorColor: conv(t.SeparatorColor),
	}
}

//nolint:gochecknoinits // default theme for package consumers
func init() {
	applyTableTheme(TableColors{})
}

// CellText flattens line breaks and tabs so a value stays on one line.
func CellText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return strings.ReplaceAll(s, "\t", "    ")
}

// truncate cuts s to width display cells, ending in "..." when there is room.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width < 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// Fit truncates and pads s to exactly width cells.
func Fit(s string, width int, align layout.Align) string {
	s = truncate(s, width)
	switch align {
	case layout.AlignRight:
		return runewidth.FillLeft(s, width)
	case layout.AlignCenter:
		gap := width - runewidth.StringWidth(s)
		if gap <= 0 {
			return s
		}
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return runewidth.FillRight(s, width)
	}
}

// getTerminalWidth returns the terminal width, or a default if detection fails.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}
