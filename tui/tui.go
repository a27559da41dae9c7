package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/storyseed/play"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text    string
	kind    play.Kind
	isInput bool // true for echoed player input
}

// Model is the Bubble Tea model for the storyseed TUI.
type Model struct {
	ctx  context.Context
	game *play.Game
	seed string

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated story lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	busy     bool // a choice is being resolved; input is ignored
	quitting bool
	lastCmd  string
}

// outputMsg carries output from the game into the Update loop.
type outputMsg struct {
	input string // echoed player input (empty for the opening)
	out   play.Output
}

// New creates a TUI model wired to the given game. The story starts from
// seed when the program initializes.
func New(ctx context.Context, g *play.Game, seed string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		ctx:     ctx,
		game:    g,
		seed:    seed,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, g *play.Game, seed string) error {
	m := New(ctx, g, seed)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the title, intro and
// opening choices.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startStory())
}

func (m Model) startStory() tea.Cmd {
	g, seed := m.game, m.seed
	return func() tea.Msg {
		out, err := g.Start(seed)
		if err != nil {
			out = play.Output{Lines: []play.Line{{Text: "Could not start the story: " + err.Error(), Kind: play.KindError}}}
		}
		return outputMsg{out: out}
	}
}

// Update routes key presses, resizes and game output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case outputMsg:
		m.busy = false
		m = m.appendOutput(msg)
		if msg.out.Quit {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize lays out the viewport above the status bar and input line.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vpHeight := max(height-2, 1)

	if m.ready {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	} else {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	}
	m.refreshViewport()
}

// handleKey deals with the keys the model owns. Anything else goes to the
// text input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit, true

	case "enter":
		next, cmd := m.handleEnter()
		return next, cmd, true

	case "up":
		if prev, ok := m.history.Prev(); ok {
			m.setInput(prev)
		}
		return m, nil, true

	case "down":
		next, ok := m.history.Next()
		if !ok {
			m.history.ResetCursor()
		}
		m.setInput(next)
		return m, nil, true

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

func (m *Model) setInput(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
}

// handleEnter processes the submitted input line. The game runs in a
// command so a slow enhancer never blocks rendering.
func (m Model) handleEnter() (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// "again" / "g" repeats the last input.
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(outputMsg{
				input: input,
				out:   play.Output{Lines: []play.Line{{Text: "Nothing to repeat.", Kind: play.KindSystem}}},
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	m.busy = true
	ctx, g := m.ctx, m.game
	return m, func() tea.Msg {
		return outputMsg{input: input, out: g.Handle(ctx, input)}
	}
}

// appendOutput adds lines to the story and refreshes the viewport.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, l := range msg.out.Lines {
		m.rawLines = append(m.rawLines, rawLine{text: l.Text, kind: l.Kind})
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(renderLines(m.rawLines, m.width), "\n"))
	m.viewport.GotoBottom()
}

func renderLines(lines []rawLine, width int) []string {
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, len(lines))
	for _, rl := range lines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		if rl.isInput {
			styled = append(styled, stylePlayerInput.Render(wordwrap.String(rl.text, width)))
			continue
		}
		styled = append(styled, renderLine(rl.text, rl.kind, width))
	}
	return styled
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
