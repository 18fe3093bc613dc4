package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/scene-engine/internal/storage"
	"github.com/jwebster45206/scene-engine/pkg/dice"
	"github.com/jwebster45206/scene-engine/pkg/engine"
	"github.com/jwebster45206/scene-engine/pkg/minigame"
	"github.com/jwebster45206/scene-engine/pkg/player"
	"github.com/jwebster45206/scene-engine/pkg/stories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUI(t *testing.T, story string) (ConsoleUI, *storage.MemoryStorage) {
	t.Helper()
	games := minigame.DefaultRegistry()
	g, err := stories.Load(story, games)
	require.NoError(t, err)

	store := storage.NewMemoryStorage()
	eng := engine.New(g, games, dice.NewSequence(0), slog.New(slog.DiscardHandler))
	ui := NewConsoleUI(eng, store, story, "", slog.New(slog.DiscardHandler))

	model, _ := ui.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(ConsoleUI), store
}

func send(t *testing.T, m ConsoleUI, msgs ...tea.Msg) (ConsoleUI, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var model tea.Model
		model, cmd = m.Update(msg)
		m = model.(ConsoleUI)
	}
	return m, cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestConsoleUI_CharacterCreation(t *testing.T) {
	m, _ := newTestUI(t, stories.Dungeon)
	assert.Equal(t, stageName, m.stage)

	m, _ = send(t, m, key("ada   lovelace"), enter)
	assert.Equal(t, stageBackground, m.stage)
	assert.Equal(t, "Ada Lovelace", m.name)
	assert.Len(t, m.menuItems(), len(player.Backgrounds))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyUp}, enter)
	assert.Equal(t, stagePlaying, m.stage)
	require.NotNil(t, m.session.Player)
	assert.Equal(t, player.Backgrounds[1], m.session.Player.Background)
	assert.Contains(t, m.View(), "Health: 100")
}

func TestConsoleUI_InvalidNumber(t *testing.T) {
	m, _ := newTestUI(t, stories.Dungeon)
	m, _ = send(t, m, key("ada"), enter, key("1"))
	require.Equal(t, stagePlaying, m.stage)

	before := m.session.Scene
	m, _ = send(t, m, key("9"))
	assert.Equal(t, before, m.session.Scene)
	assert.Contains(t, m.notice, "Invalid choice")

	m, _ = send(t, m, key("x"))
	assert.Equal(t, before, m.session.Scene)
	assert.Contains(t, m.notice, "arrow keys")
}

func TestConsoleUI_PlayToSummary(t *testing.T) {
	m, store := newTestUI(t, stories.Dungeon)

	m, cmd := send(t, m, key("ada"), enter, key("1"), key("2"), key("1"))
	require.Equal(t, stageSummary, m.stage)
	require.NotNil(t, cmd, "a concluded run is saved")

	m, _ = send(t, m, cmd())
	assert.True(t, m.saved)
	assert.NoError(t, m.err)

	rec, err := store.LoadRun(context.Background(), m.session.ID)
	require.NoError(t, err)
	assert.Equal(t, "dungeon", rec.Story)
	assert.Equal(t, "victory", rec.Summary.Ending)

	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}
	m, _ = send(t, m, key("c"))
	assert.Contains(t, copied, "Name: Ada")
	assert.Equal(t, "Summary copied to clipboard.", m.notice)

	m.copyText = func(string) error { return errors.New("no clipboard") }
	m, _ = send(t, m, key("c"))
	assert.ErrorContains(t, m.err, "no clipboard")

	_, cmd = send(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestConsoleUI_SaveFailure(t *testing.T) {
	var buf bytes.Buffer
	m, _ := newTestUI(t, stories.Dungeon)
	m.logger = slog.New(slog.NewTextHandler(&buf, nil))

	m, _ = send(t, m, key("ada"), enter, key("1"), key("2"), key("1"))
	require.Equal(t, stageSummary, m.stage)

	m, _ = send(t, m, runSavedMsg{err: errors.New("redis down")})
	assert.False(t, m.saved)
	assert.ErrorContains(t, m.err, "redis down")

	out := buf.String()
	assert.Contains(t, out, "Failed to save run")
	assert.Contains(t, out, "session_id="+m.session.ID.String())
	assert.Contains(t, out, `error="redis down"`)
}

func TestConsoleUI_QuitModal(t *testing.T) {
	m, _ := newTestUI(t, stories.Jungle)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.showQuitModal)
	assert.Contains(t, m.View(), "Quit Game?")

	m, _ = send(t, m, key("n"))
	assert.False(t, m.showQuitModal)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd := send(t, m, key("y"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestConsoleUI_PilotSelection(t *testing.T) {
	m, _ := newTestUI(t, stories.Jungle)
	m, _ = send(t, m, key("ada"), enter, key("4"))

	// Hunt three times to exhaust the exploration rounds.
	for i := 0; i < 3 && m.stage == stagePlaying; i++ {
		m, _ = send(t, m, key("1"))
	}
	require.Equal(t, stagePilot, m.stage)
	require.Len(t, m.menuItems(), engine.CrewSize)

	pilot := m.session.Crew[1]
	m, _ = send(t, m, key("2"))
	assert.Equal(t, stagePlaying, m.stage)
	assert.Equal(t, pilot, m.session.Pilot)
}
