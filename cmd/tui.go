package cmd

import (
	"context"
	"os"
	"runtime"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/ltable/internal/config"
	"github.com/oakwood-commons/ltable/internal/formatter"
	"github.com/oakwood-commons/ltable/internal/ui/table"
	"github.com/oakwood-commons/ltable/pkg/layout"
)

var (
	openTerminalIOFn = openTerminalIO
	newResizeTicker  = func(d time.Duration) resizeTicker { return realResizeTicker{Ticker: time.NewTicker(d)} }
	sendWindowSize   = func(p *tea.Program, msg tea.WindowSizeMsg) { p.Send(msg) }
	runModel         = func(m *table.Model, opts ...tea.ProgramOption) error { return table.Run(m, opts...) }
)

type resizeTicker interface {
	C() <-chan time.Time
	Stop()
}

type realResizeTicker struct {
	*time.Ticker
}

func (t realResizeTicker) C() <-chan time.Time { return t.Ticker.C }

// tableView is the data shown by the interactive table.
type tableView struct {
	title    string
	headers  []string
	rows     [][]string
	columns  []layout.Column
	settings config.TableSettings
	// cellStyle optionally styles a body cell by column and value.
	cellStyle func(col int, value string) (lipgloss.Style, bool)
}

func (v tableView) content(b *table.Body) {
	b.Row(table.NewHeader(), func(r *table.RowUI) {
		for _, h := range v.headers {
			r.Label(h)
		}
	})
	for _, row := range v.rows {
		b.Row(table.NewRow(), func(r *table.RowUI) {
			for i, value := range row {
				r.Cell(func(c *table.Cell) {
					c.Write(formatter.CellText(value))
					if v.cellStyle == nil {
						return
					}
					if s, ok := v.cellStyle(i, value); ok {
						c.SetStyle(s)
					}
				})
			}
		})
	}
}

func (v tableView) model() *table.Model {
	ts := v.settings
	t := table.New(table.Options{
		Columns:           v.columns,
		Striped:           ts.Striped,
		ColumnLines:       ts.ColumnLines,
		ResizeHeadersOnly: ts.ResizeHeadersOnly,
		ReorderColumns:    ts.ReorderColumns,
		FillHorizontal:    ts.FillHorizontal,
		FillVertical:      ts.FillVertical,
		HScroll:           ts.HScroll,
		VScroll:           ts.VScroll,
		NoColor:           noColor,
		Styles:            tableStyles(appConfig.Table.Theme),
	})
	opts := []table.ModelOption{
		table.WithTitle(v.title),
		table.WithResizeStep(ts.ResizeStep),
	}
	if w, h := detectTerminalSize(); w > 0 && h > 0 {
		opts = append(opts, table.WithSize(w, h))
	}
	return table.NewModel(t, v.content, opts...)
}

func runTableView(v tableView) error {
	opts, cleanup := getProgramOptions()
	defer cleanup()
	return runModel(v.model(), opts...)
}

// tableStyles applies the configured theme colors to the default styles.
func tableStyles(th config.ThemeConfig) table.Styles {
	s := table.DefaultStyles()
	set := func(v config.ColorValue, apply func(c string)) {
		if v != "" {
			apply(string(v))
		}
	}
	set(th.HeaderFG, func(c string) { s.Header = s.Header.Foreground(lipgloss.Color(c)) })
	set(th.HeaderBG, func(c string) { s.Header = s.Header.Background(lipgloss.Color(c)) })
	set(th.TextFG, func(c string) {
		s.Cell = s.Cell.Foreground(lipgloss.Color(c))
		s.Stripe = s.Stripe.Foreground(lipgloss.Color(c))
	})
	set(th.StripeBG, func(c string) { s.Stripe = s.Stripe.Background(lipgloss.Color(c)) })
	set(th.FocusFG, func(c string) { s.Focus = s.Focus.Foreground(lipgloss.Color(c)) })
	set(th.FocusBG, func(c string) { s.Focus = s.Focus.Background(lipgloss.Color(c)) })
	set(th.SeparatorColor, func(c string) { s.Separator = s.Separator.Foreground(lipgloss.Color(c)) })
	return s
}

// getProgramOptions reopens the terminal when stdin is piped so the program
// still gets keyboard input and resize events. The cleanup closes what it
// opened.
func getProgramOptions() ([]tea.ProgramOption, func()) {
	cleanup := func() {}
	if !stdinIsPiped() {
		return nil, cleanup
	}

	ttyIn, ttyOut, err := openTerminalIOFn()
	if err != nil {
		// No terminal (e.g. CI): keys and resizing will not work.
		if ttyIn != nil {
			_ = ttyIn.Close()
		}
		return nil, cleanup
	}
	cleanup = func() {
		_ = ttyIn.Close()
		if ttyOut != nil && ttyOut != ttyIn {
			_ = ttyOut.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithInput(ttyIn)}
	if ttyOut != nil {
		opts = append(opts, tea.WithOutput(ttyOut), withTTYResizeWatcher(ctx, ttyOut))
	}
	return opts, func() {
		cancel()
		cleanup()
	}
}

func openTerminalIO() (*os.File, *os.File, error) {
	in, out := terminalDeviceNames(runtime.GOOS)

	input, err := os.OpenFile(in, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	if out == "" || out == in {
		return input, input, nil
	}
	output, err := os.OpenFile(out, os.O_RDWR, 0)
	if err != nil {
		return input, nil, err
	}
	return input, output, nil
}

func terminalDeviceNames(goos string) (input string, output string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}
	return "/dev/tty", "/dev/tty"
}

// withTTYResizeWatcher polls the terminal size and sends a WindowSizeMsg when
// it changes. Resize signals do not reach the program when stdin is piped on
// some platforms. It stops when ctx is canceled.
func withTTYResizeWatcher(ctx context.Context, out *os.File) tea.ProgramOption {
	return func(p *tea.Program) {
		if ctx == nil || out == nil {
			return
		}
		go func() {
			t := newResizeTicker(250 * time.Millisecond)
			defer t.Stop()

			lastW, lastH := 0, 0
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C():
					w, h, err := termGetSize(int(out.Fd()))
					if err != nil {
						continue
					}
					if w == lastW && h == lastH {
						continue
					}
					lastW, lastH = w, h
					sendWindowSize(p, tea.WindowSizeMsg{Width: w, Height: h})
				}
			}
		}()
	}
}
