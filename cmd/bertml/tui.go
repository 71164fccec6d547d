package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	replyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type line struct {
	text  string
	reply bool
}

type chatModel struct {
	err     error
	convo   sender
	lines   []line
	input   textinput.Model
	waiting bool
}

type replyMsg struct {
	err  error
	text string
}

func newChatModel(convo sender) *chatModel {
	ti := textinput.New()
	ti.Placeholder = "say something"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()
	return &chatModel{convo: convo, input: ti}
}

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) send(text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.convo.Send(text)
		return replyMsg{text: reply, err: err}
	}
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			if text == "exit" {
				return m, tea.Quit
			}
			m.input.Reset()
			m.err = nil
			m.lines = append(m.lines, line{text: text})
			m.waiting = true
			return m, m.send(text)
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.lines = append(m.lines, line{text: msg.text, reply: true})
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *chatModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("bertml chat"))
	b.WriteString("\n\n")

	for _, l := range m.lines {
		if l.reply {
			b.WriteString(replyStyle.Render("< " + l.text))
		} else {
			b.WriteString(userStyle.Render("> " + l.text))
		}
		b.WriteString("\n")
	}
	if m.waiting {
		b.WriteString(helpStyle.Render("thinking..."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter send • exit or esc quit"))
	return b.String()
}

func runChatTUI(convo sender) error {
	p := tea.NewProgram(newChatModel(convo), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
