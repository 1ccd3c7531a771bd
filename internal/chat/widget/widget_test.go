package widget

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latentecho/backdrop/internal/chat"
	"github.com/latentecho/backdrop/internal/pin"
	"github.com/latentecho/backdrop/internal/storage"
)

type fakeSender struct {
	reply string
	err   error
	sent  []string
}

func (f *fakeSender) Send(_ context.Context, message string) (string, error) {
	f.sent = append(f.sent, message)
	return f.reply, f.err
}

func newGate(t *testing.T) *pin.Gate {
	t.Helper()
	g, err := pin.NewGate(pin.Hash("2468"))
	require.NoError(t, err)
	return g
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func enter(m *Model) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

// deliverReply runs the commands produced by a send and feeds the reply back into the model.
func deliverReply(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if reply, ok := c().(replyMsg); ok {
			m.Update(reply)
			return
		}
	}
	t.Fatal("no reply produced")
}

func TestPINGate(t *testing.T) {
	m := New(newGate(t), &fakeSender{})
	assert.False(t, m.Unlocked())
	assert.Contains(t, m.View(), "Enter PIN")

	typeText(m, "12")
	enter(m)
	assert.Equal(t, "Please enter a 4-digit PIN", m.PINError())

	typeText(m, "1111")
	enter(m)
	assert.Equal(t, "Incorrect PIN", m.PINError())
	assert.False(t, m.Unlocked())

	typeText(m, "2468")
	enter(m)
	assert.True(t, m.Unlocked())
	assert.Empty(t, m.PINError())
	assert.Contains(t, m.View(), "Chat")
}

func TestPINInputIsLimited(t *testing.T) {
	m := New(newGate(t), &fakeSender{})
	typeText(m, "246899")
	enter(m)
	assert.True(t, m.Unlocked())
}

func TestSendMessage(t *testing.T) {
	sender := &fakeSender{reply: "hi there"}
	transcript := storage.NewMemoryStore()
	m := New(newGate(t), sender, WithTranscript(transcript))
	typeText(m, "2468")
	enter(m)

	assert.Nil(t, enter(m), "empty input is ignored")

	typeText(m, "hello")
	cmd := enter(m)
	assert.True(t, m.Waiting())
	assert.Nil(t, enter(m), "no second send while waiting")

	deliverReply(t, m, cmd)
	assert.False(t, m.Waiting())
	assert.Equal(t, []string{"hello"}, sender.sent)

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, RoleUser, entries[0].Role)
	assert.Equal(t, "hello", entries[0].Text)
	assert.Equal(t, RoleBot, entries[1].Role)
	assert.Equal(t, "hi there", entries[1].Text)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	saved, err := transcript.Messages(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestSendFailureShowsError(t *testing.T) {
	sender := &fakeSender{err: &chat.StatusError{StatusCode: 500}}
	m := New(newGate(t), sender)
	typeText(m, "2468")
	enter(m)

	typeText(m, "hello")
	deliverReply(t, m, enter(m))

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, RoleError, entries[1].Role)
	assert.Contains(t, entries[1].Text, "500")

	sender.err = errors.New("boom")
	typeText(m, "again")
	deliverReply(t, m, enter(m))
	assert.Equal(t, "Error: boom", m.Entries()[3].Text)
}

func TestTranscriptIsRestored(t *testing.T) {
	ctx := context.Background()
	transcript := storage.NewMemoryStore()
	require.NoError(t, transcript.AppendMessage(ctx, storage.Message{ID: "1", Role: RoleUser, Text: "earlier"}))

	m := New(newGate(t), &fakeSender{}, WithTranscript(transcript))
	require.Len(t, m.Entries(), 1)
	assert.Equal(t, "earlier", m.Entries()[0].Text)
}

func TestQuitKeys(t *testing.T) {
	m := New(newGate(t), &fakeSender{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWindowResize(t *testing.T) {
	m := New(newGate(t), &fakeSender{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 96, m.viewport.Width)
	assert.Equal(t, 22, m.viewport.Height)
}
