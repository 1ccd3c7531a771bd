// Package widget is the terminal chat window: a PIN prompt that unlocks a scrolling transcript
// with a message input.
package widget

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/latentecho/backdrop/internal/chat"
	"github.com/latentecho/backdrop/internal/pin"
	"github.com/latentecho/backdrop/internal/storage"
	"github.com/latentecho/backdrop/internal/style"
)

// Roles of transcript entries.
const (
	RoleUser  = "user"
	RoleBot   = "bot"
	RoleError = "error"
)

const (
	defaultWidth   = 60
	defaultHeight  = 12
	transcriptSize = 200
)

// Entry is one line of the transcript.
type Entry struct {
	ID   string
	Role string
	Text string
}

type replyMsg struct {
	text string
	err  error
}

// Model is the chat widget.
type Model struct {
	ctx        context.Context
	gate       *pin.Gate
	sender     chat.Sender
	transcript storage.Transcript
	tokens     style.TokenSource
	styles     Styles

	pinInput textinput.Model
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	entries []Entry
	pinErr  string
	waiting bool
}

var _ tea.Model = &Model{}

// New creates the widget, locked behind gate.
//
// Parameters:
//   - gate: the PIN gate
//   - sender: sends unlocked messages
//   - options: functional options
//
// Returns:
//   - *Model: the widget
func New(gate *pin.Gate, sender chat.Sender, options ...ModelBuilderOption) *Model {
	m := &Model{
		ctx:    context.Background(),
		gate:   gate,
		sender: sender,
		tokens: style.NewResolver(nil, nil),
	}
	for _, opt := range options {
		opt(m)
	}
	m.styles = NewStyles(m.tokens)

	m.pinInput = textinput.New()
	m.pinInput.Placeholder = "PIN"
	m.pinInput.EchoMode = textinput.EchoPassword
	m.pinInput.CharLimit = pin.Length
	m.pinInput.Width = pin.Length + 1

	m.input = textinput.New()
	m.input.Placeholder = "Ask something..."
	m.input.Width = defaultWidth - 4

	m.viewport = viewport.New(defaultWidth, defaultHeight)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	if gate.Unlocked() {
		m.input.Focus()
	} else {
		m.pinInput.Focus()
	}
	m.loadTranscript()
	return m
}

func (m *Model) loadTranscript() {
	if m.transcript == nil {
		return
	}
	saved, err := m.transcript.Messages(m.ctx, transcriptSize)
	if err != nil {
		log.Printf("chat: loading transcript: %v", err)
		return
	}
	for _, s := range saved {
		m.entries = append(m.entries, Entry{ID: s.ID, Role: s.Role, Text: s.Text})
	}
	m.refreshViewport()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-8, 3)
		m.input.Width = msg.Width - 8
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if !m.gate.Unlocked() {
				return m, m.submitPIN()
			}
			return m, m.submitMessage()
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.appendEntry(RoleError, "Error: "+describe(msg.err))
		} else {
			m.appendEntry(RoleBot, msg.text)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.gate.Unlocked() {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.pinInput, cmd = m.pinInput.Update(msg)
	}
	if _, ok := msg.(tea.KeyMsg); !ok {
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmd = tea.Batch(cmd, vpCmd)
	}
	return m, cmd
}

func (m *Model) submitPIN() tea.Cmd {
	err := m.gate.Verify(m.pinInput.Value())
	m.pinInput.Reset()
	switch {
	case errors.Is(err, pin.ErrInvalidPIN):
		m.pinErr = "Please enter a 4-digit PIN"
		return nil
	case err != nil:
		m.pinErr = "Incorrect PIN"
		return nil
	}
	m.pinErr = ""
	m.pinInput.Blur()
	m.input.Focus()
	return textinput.Blink
}

func (m *Model) submitMessage() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return nil
	}
	m.input.Reset()
	m.appendEntry(RoleUser, text)
	m.waiting = true
	return tea.Batch(m.spinner.Tick, m.send(text))
}

func (m *Model) send(text string) tea.Cmd {
	sender, ctx := m.sender, m.ctx
	return func() tea.Msg {
		reply, err := sender.Send(ctx, text)
		return replyMsg{text: reply, err: err}
	}
}

func (m *Model) appendEntry(role, text string) {
	e := Entry{ID: uuid.NewString(), Role: role, Text: text}
	m.entries = append(m.entries, e)
	if m.transcript != nil {
		err := m.transcript.AppendMessage(m.ctx, storage.Message{ID: e.ID, Role: role, Text: text, CreatedAt: time.Now()})
		if err != nil {
			log.Printf("chat: saving message: %v", err)
		}
	}
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		switch e.Role {
		case RoleUser:
			b.WriteString(m.styles.User.Render("You: ") + e.Text)
		case RoleBot:
			b.WriteString(m.styles.Bot.Render("Bot: " + e.Text))
		default:
			b.WriteString(m.styles.Error.Render(e.Text))
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.gate.Unlocked() {
		content := m.styles.Title.Render("Enter PIN to chat") + "\n\n" + m.pinInput.View()
		if m.pinErr != "" {
			content += "\n" + m.styles.Error.Render(m.pinErr)
		}
		content += "\n\n" + m.styles.Help.Render("Enter: unlock  Esc: quit")
		return m.styles.Box.Render(content)
	}

	status := m.styles.Help.Render("Enter: send  Esc: quit")
	if m.waiting {
		status = m.spinner.View() + " " + m.styles.Help.Render("waiting for reply")
	}
	content := m.styles.Title.Render("Chat") + "\n" +
		m.viewport.View() + "\n\n" +
		m.input.View() + "\n" + status
	return m.styles.Box.Render(content)
}

// Unlocked reports whether the PIN prompt has been passed.
func (m *Model) Unlocked() bool {
	return m.gate.Unlocked()
}

// Waiting reports whether a reply is outstanding.
func (m *Model) Waiting() bool {
	return m.waiting
}

// Entries returns the transcript shown in the widget.
func (m *Model) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// PINError returns the message shown under the PIN prompt.
func (m *Model) PINError() string {
	return m.pinErr
}

func describe(err error) string {
	var se *chat.StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return err.Error()
}
