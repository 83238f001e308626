package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const gap = "\n\n"

const welcome = `Ask anything, or request a riddle!
Messages mentioning a riddle or a puzzle go to the riddle server.
Press Ctrl+C or Esc to quit.`

type model struct {
	viewport viewport.Model
	textarea textarea.Model
	messages []string
	chat     *Chat
	timeout  time.Duration
	waiting  bool
}

/*
New builds the chat screen. Each reply is produced in a tea.Cmd, so the
screen stays responsive while the riddle server works.
*/
func New(chat *Chat, timeout time.Duration) tea.Model {
	ta := textarea.New()
	ta.Placeholder = "Your message..."
	ta.Focus()

	ta.Prompt = "┃ "
	ta.CharLimit = 500

	ta.SetWidth(80)
	ta.SetHeight(3)

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(80, 20)
	vp.SetContent(welcome)

	return model{
		textarea: ta,
		viewport: vp,
		chat:     chat,
		timeout:  timeout,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.textarea.SetWidth(msg.Width)
		m.viewport.Height = msg.Height - m.textarea.Height() - lipgloss.Height(gap) - 2
		m.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeymap.quit):
			return m, tea.Quit
		case key.Matches(msg, defaultKeymap.send):
			text := strings.TrimSpace(m.textarea.Value())

			if text == "" || m.waiting {
				break
			}

			m.messages = append(m.messages, senderStyle.Render("You: ")+text)
			m.textarea.Reset()
			m.waiting = true
			m.refresh()

			return m, tea.Batch(tiCmd, vpCmd, m.reply(text))
		}

	case replyMsg:
		m.waiting = false
		m.messages = append(m.messages, renderReply(msg.text, msg.failed))
		m.refresh()
	}

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m model) View() string {
	status := statusBarStyle.Render("ready")

	if m.waiting {
		status = statusBarStyle.Render("thinking...")
	}

	return fmt.Sprintf(
		"%s\n%s%s%s\n%s",
		titleStyle.Render("Riddler"),
		m.viewport.View(),
		gap,
		m.textarea.View(),
		status,
	)
}

func (m model) reply(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		answer, err := m.chat.Reply(ctx, text)

		if err != nil {
			return replyMsg{text: err.Error(), failed: true}
		}

		return replyMsg{text: answer}
	}
}

func (m *model) refresh() {
	if len(m.messages) == 0 {
		return
	}

	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(strings.Join(m.messages, "\n")))
	m.viewport.GotoBottom()
}

func renderReply(text string, failed bool) string {
	if failed {
		return errorStyle.Render("Error: ") + text
	}

	return agentStyle.Render("Agent: ") + text
}
