package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/session"
	"taskdeck/internal/storage"
)

func newModel(t *testing.T) Model {
	t.Helper()
	store, err := storage.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	cfg := config.Default()
	sess := session.New(session.OptionsFromConfig(cfg, store, logging.Discard()))
	return New(sess, cfg)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

// addTask fills the five form fields in order.
func addTask(t *testing.T, m Model, title, desc, prio, due, cat string) Model {
	t.Helper()
	m = send(t, m, runes("a"))
	require.Equal(t, modeForm, m.mode)
	for _, v := range []string{title, desc, prio, due, cat} {
		m.input.SetValue("")
		if v != "" {
			m = send(t, m, runes(v))
		}
		m = send(t, m, enter())
	}
	return m
}

func TestModel_AddUndoRedo(t *testing.T) {
	m := newModel(t)

	m = addTask(t, m, "Buy milk", "", "1", "2024-01-01", "Personal")
	require.Equal(t, modeList, m.mode)
	assert.Equal(t, `Added "Buy milk"`, m.status)
	require.Len(t, m.sess.Tasks(), 1)
	assert.Len(t, m.sess.UrgentTasks(), 1)
	assert.Contains(t, m.View(), "1. Buy milk")

	m = send(t, m, runes("u"))
	assert.Empty(t, m.sess.Tasks())
	assert.Equal(t, `Undid add of "Buy milk"`, m.status)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Len(t, m.sess.Tasks(), 1)
	assert.Equal(t, `Redid add of "Buy milk"`, m.status)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, "Nothing to redo", m.status)
}

func TestModel_FormKeepsErrorsInStatus(t *testing.T) {
	m := newModel(t)

	m = addTask(t, m, "Bad date", "", "0", "next week", "Work")

	assert.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.status, "add failed")
	assert.Empty(t, m.sess.Tasks())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Cancelled", m.status)
}

func TestModel_RemoveWithConfirm(t *testing.T) {
	m := newModel(t)
	m = addTask(t, m, "Read", "", "0", "", "Studies")

	m = send(t, m, runes("d"))
	require.Equal(t, modeConfirmRemove, m.mode)
	m = send(t, m, runes("n"))
	assert.Len(t, m.sess.Tasks(), 1)

	m = send(t, m, runes("d"), runes("y"))
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, m.sess.Tasks())
	assert.Equal(t, "Removed task", m.status)
}

func TestModel_EditPrefillsAndModifies(t *testing.T) {
	m := newModel(t)
	m = addTask(t, m, "Report", "Q1", "0", "2024-03-01", "Work")

	m = send(t, m, runes("e"))
	require.NotNil(t, m.form)
	assert.Equal(t, "Report", m.input.Value())

	// jump to priority and make it urgent
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	m.input.SetValue("1")
	m = send(t, m, enter(), enter(), enter())

	require.Nil(t, m.form)
	got := m.sess.Find("Report")
	require.NotNil(t, got)
	assert.True(t, got.Urgent())
	assert.Equal(t, "Q1", got.Description)
	assert.Equal(t, "2024-03-01", got.DueString())
	assert.True(t, m.sess.CanUndo())
}

func TestModel_EmptyListMessages(t *testing.T) {
	m := newModel(t)

	m = send(t, m, runes("e"))
	assert.Equal(t, "No tasks to edit", m.status)
	m = send(t, m, runes("u"))
	assert.Equal(t, "Nothing to undo", m.status)
	assert.Contains(t, m.View(), "No tasks yet")
}

func TestClampAndWrap(t *testing.T) {
	assert.Equal(t, 0, clampCursor(5, 0))
	assert.Equal(t, 2, clampCursor(5, 3))
	assert.Equal(t, 0, clampCursor(-1, 3))
	assert.Equal(t, 4, wrapIndex(-1, 5))
	assert.Equal(t, 0, wrapIndex(5, 5))
}
