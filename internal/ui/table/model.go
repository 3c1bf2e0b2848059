package table

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/ltable/pkg/layout"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	scrollStep    = 4
)

// Model is a bubbletea model that shows a Table full screen and lets the user
// scroll, focus columns and resize them.
type Model struct {
	table   *Table
	content func(*Body)
	state   *layout.State
	keys    KeyMap
	help    help.Model

	title  string
	window Size
	scroll Scroll
	focus  Focus
	step   int
	status string
	frame  Frame

	titleStyle  lipgloss.Style
	statusStyle lipgloss.Style
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithTitle shows a title line above the table.
func WithTitle(title string) ModelOption {
	return func(m *Model) { m.title = title }
}

// WithResizeStep sets how many cells one resize key press changes.
func WithResizeStep(step int) ModelOption {
	return func(m *Model) {
		if step > 0 {
			m.step = step
		}
	}
}

// WithState uses caller-owned state, e.g. to keep widths across runs.
func WithState(s *layout.State) ModelOption {
	return func(m *Model) {
		if s != nil {
			m.state = s
		}
	}
}

// WithKeyMap replaces the key bindings.
func WithKeyMap(k KeyMap) ModelOption {
	return func(m *Model) { m.keys = k }
}

// WithSize sets the initial window size.
func WithSize(width, height int) ModelOption {
	return func(m *Model) {
		if width > 0 && height > 0 {
			m.window = Size{Width: width, Height: height}
		}
	}
}

// NewModel creates a model drawing content with t.
func NewModel(t *Table, content func(*Body), opts ...ModelOption) *Model {
	m := &Model{
		table:       t,
		content:     content,
		state:       &layout.State{},
		keys:        DefaultKeyMap(),
		help:        help.New(),
		window:      Size{Width: defaultWidth, Height: defaultHeight},
		step:        1,
		titleStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
	for _, opt := range opts {
		opt(m)
	}
	if t.Options().NoColor {
		m.titleStyle = lipgloss.NewStyle()
		m.statusStyle = lipgloss.NewStyle()
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.window = Size{Width: msg.Width, Height: msg.Height}
	case tea.KeyPressMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.status = ""
		m.handleKey(msg)
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) {
	page := max(1, m.tableSize().Height-1)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.scroll.Y--
	case key.Matches(msg, m.keys.Down):
		m.scroll.Y++
	case key.Matches(msg, m.keys.PageUp):
		m.scroll.Y -= page
	case key.Matches(msg, m.keys.PageDown):
		m.scroll.Y += page
	case key.Matches(msg, m.keys.Top):
		m.scroll.Y = 0
	case key.Matches(msg, m.keys.Bottom):
		m.scroll.Y = m.frame.ContentHeight
	case key.Matches(msg, m.keys.Left):
		m.scroll.X -= scrollStep
	case key.Matches(msg, m.keys.Right):
		m.scroll.X += scrollStep
	case key.Matches(msg, m.keys.NextColumn):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.PrevColumn):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.Shrink):
		m.resize(-m.step)
	case key.Matches(msg, m.keys.Grow):
		m.resize(m.step)
	case key.Matches(msg, m.keys.ToggleHeader):
		m.focus.Header = !m.focus.Header
	case key.Matches(msg, m.keys.Reset):
		m.state.Reset()
		m.status = "column widths reset"
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
}

func (m *Model) moveFocus(delta int) {
	n := len(m.table.Options().Columns)
	if n == 0 {
		return
	}
	m.focus.Column = (m.focus.Column + delta + n) % n
	m.revealFocus()
}

// revealFocus scrolls horizontally until the focused column is inside the
// free viewport.
func (m *Model) revealFocus() {
	i := m.focus.Column
	cols := m.table.Options().Columns
	if i >= len(m.frame.Widths) || cols[i].Fixed {
		return
	}
	x := 0
	for _, w := range m.frame.Widths[:i] {
		x += w
	}
	w := m.frame.Widths[i]
	free := m.frame.Columns.FreeViewport
	if float64(x-m.scroll.X) < free.Start {
		m.scroll.X = x - int(free.Start)
	} else if float64(x+w-m.scroll.X) > free.End {
		m.scroll.X = x + w - int(free.End)
	}
}

func (m *Model) resize(delta int) {
	opts := m.table.Options()
	i := m.focus.Column
	if opts.ResizeHeadersOnly && !m.focus.Header {
		m.status = "focus the header (H) to resize"
		return
	}
	if i >= len(opts.Columns) {
		return
	}
	if !opts.Columns[i].CanResize() {
		m.status = fmt.Sprintf("column %d is not resizable", i+1)
		return
	}
	if !m.state.Resize(i, float64(delta), opts.Columns) {
		m.status = fmt.Sprintf("column %d is at its limit", i+1)
	}
}

func (m *Model) chromeHeight() int {
	h := 2 // status and help
	if m.title != "" {
		h++
	}
	if m.help.ShowAll {
		h += len(m.keys.FullHelp()[0]) - 1
	}
	return h
}

func (m *Model) tableSize() Size {
	return Size{Width: m.window.Width, Height: max(1, m.window.Height-m.chromeHeight())}
}

// refresh draws a new frame and keeps the scroll offsets in range.
func (m *Model) refresh() {
	m.table.SetFocus(&m.focus)
	size := m.tableSize()
	m.scroll = clampScroll(m.scroll, m.frame.MaxScroll(size))
	m.frame = m.table.Show(size, m.scroll, m.state, m.content)
	if c := clampScroll(m.scroll, m.frame.MaxScroll(size)); c != m.scroll {
		m.scroll = c
		m.frame = m.table.Show(size, m.scroll, m.state, m.content)
	}
}

func clampScroll(s, limit Scroll) Scroll {
	s.X = min(max(s.X, 0), limit.X)
	s.Y = min(max(s.Y, 0), limit.Y)
	return s
}

// Frame returns the last drawn frame.
func (m *Model) Frame() Frame {
	return m.frame
}

// State returns the layout state holding the remembered widths.
func (m *Model) State() *layout.State {
	return m.state
}

// Scroll returns the current scroll offsets.
func (m *Model) Scroll() Scroll {
	return m.scroll
}

// Focus returns the focused column.
func (m *Model) Focus() Focus {
	return m.focus
}

// Status returns the last status message.
func (m *Model) Status() string {
	return m.status
}

func (m *Model) statusLine() string {
	var parts []string
	if n := len(m.frame.Widths); n > 0 && m.focus.Column < n {
		i := m.focus.Column
		name := ""
		if i < len(m.frame.Headers) {
			name = m.frame.Headers[i]
		}
		col := m.table.Options().Columns[i]
		part := fmt.Sprintf("column %d/%d", i+1, n)
		if name != "" {
			part += " " + name
		}
		parts = append(parts, part, fmt.Sprintf("%s %d", col.Mode, m.frame.Widths[i]))
	}
	if m.focus.Header {
		parts = append(parts, "header")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, " · ")
}

// Render returns the screen content.
func (m *Model) Render() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.titleStyle.Render(m.title))
		b.WriteByte('\n')
	}
	lines := m.frame.Lines
	b.WriteString(strings.Join(lines, "\n"))
	for i := len(lines); i < m.tableSize().Height; i++ {
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.statusStyle.Render(m.statusLine()))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Run starts a full screen program showing the model.
func Run(m *Model, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
