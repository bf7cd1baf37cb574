package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wit-adapter/manifest"
	"github.com/wippyai/wit-adapter/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err          error
	session      *session
	styled       *printer
	manifestFile string
	wasmFile     string
	stack        []types.Value
	inputs       []textinput.Model
	selected     int
	focusIdx     int
	state        modelState
}

type modelState int

const (
	stateSelectAdapter modelState = iota
	stateInputArgs
	stateShowStack
)

func newInteractiveModel(manifestFile, wasmFile string) *interactiveModel {
	return &interactiveModel{
		manifestFile: manifestFile,
		wasmFile:     wasmFile,
		styled:       &printer{styled: true},
		state:        stateSelectAdapter,
	}
}

type loadedMsg struct {
	err     error
	session *session
}

type runResultMsg struct {
	err   error
	stack []types.Value
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	s, err := openSession(context.Background(), m.manifestFile, m.wasmFile)
	return loadedMsg{err: err, session: s}
}

func (m *interactiveModel) adapters() []*manifest.Adapter {
	if m.session == nil {
		return nil
	}
	return m.session.manifest.Adapters
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateInputArgs && msg.String() == "q" {
				break
			}
			if m.session != nil {
				m.session.Close(context.Background())
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectAdapter && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectAdapter && m.selected < len(m.adapters())-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectAdapter:
				if len(m.adapters()) == 0 {
					break
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.runAdapter
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.runAdapter

			case stateShowStack:
				m.state = stateSelectAdapter
				m.stack = nil
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectAdapter
				m.inputs = nil
			case stateShowStack:
				m.state = stateSelectAdapter
				m.stack = nil
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session

	case runResultMsg:
		m.stack = msg.stack
		m.err = msg.err
		m.state = stateShowStack
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	a := m.adapters()[m.selected]
	params := a.WIT().Params
	m.inputs = make([]textinput.Model, len(params))
	for i, p := range params {
		ti := textinput.New()
		ti.Placeholder = witTypeStr(p.Type)
		ti.Prompt = p.Name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) runAdapter() tea.Msg {
	a := m.adapters()[m.selected]
	raw := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		raw[i] = strings.TrimSpace(input.Value())
	}

	stack, err := m.session.call(context.Background(), a, raw)
	return runResultMsg{stack: stack, err: err}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowStack {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.session == nil {
		return "Loading manifest..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Adapter Runner"))
	b.WriteString(" ")
	b.WriteString(m.session.wasmPath)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectAdapter:
		b.WriteString("Select an adapter to run:\n\n")
		for i, a := range m.adapters() {
			line := formatSignature(m.styled, a)
			if err := m.session.compile[a.Name]; err != nil {
				line += " " + errorStyle.Render("(unsupported)")
			}
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> ") + line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • q quit"))

	case stateInputArgs:
		a := m.adapters()[m.selected]
		b.WriteString(fmt.Sprintf("Running %s\n\n", funcStyle.Render(a.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(a.Params()[i].String()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter run • esc back"))

	case stateShowStack:
		a := m.adapters()[m.selected]
		b.WriteString(fmt.Sprintf("Stack after %s:\n\n", funcStyle.Render(a.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else if len(m.stack) == 0 {
			b.WriteString(helpStyle.Render("(empty)"))
		} else {
			for i := len(m.stack) - 1; i >= 0; i-- {
				b.WriteString(fmt.Sprintf("%d: %s\n", i, resultStyle.Render(m.stack[i].String())))
			}
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func witTypeStr(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func runInteractive(manifestFile, wasmFile string) error {
	p := tea.NewProgram(newInteractiveModel(manifestFile, wasmFile), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
