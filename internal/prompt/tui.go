package prompt

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI asks in the terminal with a bubbletea text input.
// It renders to stderr by default so stdout stays free for the average.
type TUI struct {
	Input  io.Reader
	Output io.Writer
}

// NewTUI returns a terminal prompter bound to the process terminal.
func NewTUI() *TUI {
	return &TUI{Output: os.Stderr}
}

// Ask runs the input program until Enter with a valid number, Esc or Ctrl+C.
func (t *TUI) Ask(ctx context.Context, req Request) (string, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.Output != nil {
		opts = append(opts, tea.WithOutput(t.Output))
	}
	if t.Input != nil {
		opts = append(opts, tea.WithInput(t.Input))
	}

	final, err := tea.NewProgram(newInputModel(req), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("run prompt: %w", err)
	}

	m, ok := final.(inputModel)
	if !ok {
		return "", fmt.Errorf("run prompt: unexpected model %T", final)
	}
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.answer, nil
}

// tuiStyles uses the same lime/blue palette as the rest of the CLI output.
type tuiStyles struct {
	Title lipgloss.Style
	Text  lipgloss.Style
	Error lipgloss.Style
	Help  lipgloss.Style
	Box   lipgloss.Style
}

func defaultTUIStyles() tuiStyles {
	return tuiStyles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		Text:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f2f2f2")),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")),
		Help:  lipgloss.NewStyle().Faint(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2a3850")).
			Padding(0, 1),
	}
}

// inputModel is the bubbletea model behind TUI.
type inputModel struct {
	req    Request
	input  textinput.Model
	styles tuiStyles

	answer    string
	cancelled bool
	errMsg    string
}

func newInputModel(req Request) inputModel {
	ti := textinput.New()
	ti.Placeholder = req.Placeholder
	ti.CharLimit = 18 // int64 has 19 digits; keep clear of overflow
	ti.Width = 20
	ti.Prompt = "> "
	ti.Focus()

	return inputModel{
		req:    req,
		input:  ti,
		styles: defaultTUIStyles(),
	}
}

// Init starts the cursor blinking.
func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses.
func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if _, err := ParseValue(m.input.Value()); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.answer = strings.TrimSpace(m.input.Value())
			return m, tea.Quit
		case tea.KeyRunes:
			if !allDigits(msg.Runes) {
				return m, nil
			}
			m.errMsg = ""
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt box.
func (m inputModel) View() string {
	if m.answer != "" || m.cancelled {
		return ""
	}

	var b strings.Builder
	if m.req.Title != "" {
		b.WriteString(m.styles.Title.Render(m.req.Title))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Text.Render(m.req.Text))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter: save • esc: cancel"))

	return m.styles.Box.Render(b.String()) + "\n"
}

func allDigits(rs []rune) bool {
	if len(rs) == 0 {
		return false
	}
	for _, r := range rs {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
