package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/toto"
	"github.com/wippyai/toto/bridge"
)

const recentTokens = 8

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newBrowseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse FILE",
		Short: "Step through the token stream interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			b := bridge.New(bridge.Options{
				Output:   io.Discard,
				Renderer: a.renderer(os.Stdout),
				Logger:   a.log.Named("bridge"),
			})
			defer b.Close()

			p := tea.NewProgram(newBrowseModel(b, args[0]), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

type browseKeys struct {
	Next key.Binding
	All  key.Binding
	Goto key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.All, k.Goto, k.Help, k.Quit}
}

func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.All}, {k.Goto, k.Help, k.Quit}}
}

func defaultBrowseKeys() browseKeys {
	return browseKeys{
		Next: key.NewBinding(key.WithKeys("n", " ", "right"), key.WithHelp("n/space", "next token")),
		All:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "pull all")),
		Goto: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "resolve offset")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type browseState int

const (
	stateStep browseState = iota
	stateOffset
)

type browseModel struct {
	err      error
	b        *bridge.Bridge
	help     help.Model
	input    textinput.Model
	keys     browseKeys
	filename string
	position string
	diag     bytes.Buffer
	src      []byte
	steps    []bridge.Step
	faults   int
	h        bridge.TokenizerHandle
	state    browseState
	done     bool
}

func newBrowseModel(b *bridge.Bridge, filename string) *browseModel {
	ti := textinput.New()
	ti.Prompt = "offset: "
	ti.Placeholder = "byte offset"
	ti.Width = 20

	return &browseModel{
		b:        b,
		filename: filename,
		keys:     defaultBrowseKeys(),
		help:     help.New(),
		input:    ti,
	}
}

type loadedMsg struct {
	err error
	src []byte
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadFile
}

func (m *browseModel) loadFile() tea.Msg {
	src, err := os.ReadFile(m.filename)
	return loadedMsg{src: src, err: err}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		h, st := m.b.NewTokenizer(msg.src)
		if st != toto.StatusOK {
			m.err = fmt.Errorf("create tokenizer: %s", st)
			return m, nil
		}
		m.src, m.h = msg.src, h
		return m, nil

	case tea.KeyMsg:
		if m.state == stateOffset {
			return m.updateOffset(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.release()
			return m, tea.Quit
		case m.h == 0:
		case key.Matches(msg, m.keys.Next):
			m.pull()
		case key.Matches(msg, m.keys.All):
			for !m.done && m.err == nil {
				m.pull()
			}
		case key.Matches(msg, m.keys.Goto):
			m.state = stateOffset
			m.input.SetValue("")
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m *browseModel) updateOffset(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.release()
		return m, tea.Quit
	case tea.KeyEsc:
		m.state = stateStep
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.state = stateStep
		m.input.Blur()
		m.position = m.resolve(strings.TrimSpace(m.input.Value()))
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *browseModel) resolve(value string) string {
	offset, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Sprintf("offset %q: not a number", value)
	}
	col, row, st := m.b.Position(m.src, offset)
	if st != toto.StatusOK {
		return fmt.Sprintf("offset %d: %s", offset, st)
	}
	return fmt.Sprintf("offset %d: row %d, column %d", offset, row, col)
}

func (m *browseModel) pull() {
	if m.done {
		return
	}
	step, st := m.b.Next(m.h)
	switch st {
	case toto.StatusOK:
		m.steps = append(m.steps, step)
	case toto.StatusFinished:
		m.done = true
	case toto.StatusError:
		m.faults++
		m.diag.Reset()
		m.b.ExplainTo(&m.diag, step.Error, m.src)
		m.b.DestroyError(step.Error)
	default:
		m.err = fmt.Errorf("next: %s", st)
	}
}

func (m *browseModel) release() {
	if m.h != 0 {
		m.b.DestroyTokenizer(m.h)
		m.h = 0
	}
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.src == nil {
		return "Loading " + m.filename + "..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("toto browse"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	status := fmt.Sprintf("%d tokens, %d errors", len(m.steps), m.faults)
	if m.done {
		status += ", finished"
	}
	b.WriteString(dimStyle.Render(status))
	b.WriteString("\n\n")

	if n := len(m.steps); n > 0 {
		b.WriteString(m.currentLine(m.steps[n-1]))
		b.WriteString("\n\n")
		for i := max(0, n-recentTokens); i < n; i++ {
			line := formatStep(i, m.steps[i])
			if i == n-1 {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.diag.Len() > 0 {
		b.WriteString(m.diag.String())
		b.WriteString("\n")
	}
	if m.position != "" {
		b.WriteString(textStyle.Render(m.position))
		b.WriteString("\n\n")
	}
	if m.state == stateOffset {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("enter resolve • esc back"))
		return b.String()
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// currentLine renders the source line holding step with the token marked.
func (m *browseModel) currentLine(step bridge.Step) string {
	start := bytes.LastIndexByte(m.src[:step.Start], '\n') + 1
	end := len(m.src)
	if i := bytes.IndexByte(m.src[step.Start:], '\n'); i >= 0 {
		end = step.Start + i
	}
	mark := min(step.Start+max(step.Len(), 1), end)

	line := string(m.src[start:step.Start]) +
		selectedStyle.Render(string(m.src[step.Start:mark])) +
		string(m.src[mark:end])
	return strings.TrimRight(line, "\r")
}

func formatStep(i int, step bridge.Step) string {
	s := fmt.Sprintf("%04d ", i) + tagStyle.Render(fmt.Sprintf("%-26s", step.Tag)) + fmt.Sprintf(" @%d", step.Start)
	if step.HasText {
		s += " " + textStyle.Render(strconv.Quote(step.Text))
	}
	return s
}
