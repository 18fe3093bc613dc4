package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/scene-engine/internal/app"
	"github.com/jwebster45206/scene-engine/internal/logger"
	"github.com/jwebster45206/scene-engine/internal/storage"
	"github.com/jwebster45206/scene-engine/pkg/engine"
	"github.com/jwebster45206/scene-engine/pkg/player"
	"github.com/jwebster45206/scene-engine/pkg/textfilter"
	"github.com/muesli/reflow/wordwrap"
)

const PlaceHolderText = "What is your name, adventurer?"

// stage is the kind of input the UI is waiting for.
type stage int

const (
	stageName stage = iota
	stageBackground
	stagePlaying
	stagePilot
	stageSummary
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	engine   *engine.Engine
	session  *engine.Session
	store    storage.Storage
	story    string
	seed     string
	logger   *slog.Logger
	names    *textfilter.NameFilter
	copyText func(string) error

	stage         stage
	name          string
	cursor        int
	nameInput     textinput.Model
	storyViewport viewport.Model
	metaViewport  viewport.Model
	ready         bool
	width         int
	height        int
	notice        string
	err           error
	saved         bool

	showQuitModal bool
}

type runSavedMsg struct {
	err error
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sceneTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(eng *engine.Engine, store storage.Storage, story, seed string, log *slog.Logger) ConsoleUI {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderText
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = textfilter.MaxNameLength * 2
	ti.Width = 40
	ti.Focus()

	return ConsoleUI{
		engine:        eng,
		session:       eng.NewSession(),
		store:         store,
		story:         story,
		seed:          seed,
		logger:        log,
		names:         textfilter.NewNameFilter(),
		copyText:      clipboard.WriteAll,
		stage:         stageName,
		nameInput:     ti,
		storyViewport: viewport.New(50, 20),
		metaViewport:  viewport.New(20, 20),
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		storyWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - storyWidth - 6
		m.storyViewport.Width = storyWidth - 2
		m.storyViewport.Height = m.height - 5
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.nameInput.Width = storyWidth - 10
		m.ready = true
		m.refresh()
		return m, nil

	case runSavedMsg:
		if msg.err != nil {
			logger.WithError(logger.WithSession(m.logger, m.session.ID), msg.err).Error("Failed to save run")
			m.err = fmt.Errorf("failed to save run: %w", msg.err)
		} else {
			m.saved = true
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.storyViewport, cmd = m.storyViewport.Update(msg)
			return m, cmd
		}

		if m.stage == stageName {
			return m.updateName(msg)
		}
		return m.updateMenu(msg)
	}

	if m.stage == stageName {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ConsoleUI) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	m.name = m.names.Clean(m.nameInput.Value())
	m.nameInput.Blur()
	m.stage = stageBackground
	m.cursor = 0
	m.notice = ""
	m.refresh()
	return m, nil
}

func (m ConsoleUI) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.stage == stageSummary {
		switch msg.String() {
		case "c":
			if err := m.copyText(strings.Join(m.engine.Summary(m.session).Lines(), "\n")); err != nil {
				m.err = fmt.Errorf("failed to copy summary: %w", err)
			} else {
				m.notice = "Summary copied to clipboard."
			}
			m.refresh()
			return m, nil
		case "q", "enter":
			return m, tea.Quit
		}
		return m, nil
	}

	items := m.menuItems()
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		return m.choose(m.cursor)
	case tea.KeyRunes:
		key := msg.String()
		switch key {
		case "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "j":
			if m.cursor < len(items)-1 {
				m.cursor++
			}
		default:
			n, err := strconv.Atoi(key)
			if err != nil {
				m.notice = "Use the arrow keys or a number to choose."
				break
			}
			return m.choose(n - 1)
		}
	}
	m.refresh()
	return m, nil
}

// choose applies the menu entry at idx for the current stage.
func (m ConsoleUI) choose(idx int) (tea.Model, tea.Cmd) {
	items := m.menuItems()
	if idx < 0 || idx >= len(items) {
		m.notice = fmt.Sprintf("Invalid choice. Pick a number from 1 to %d.", len(items))
		m.refresh()
		return m, nil
	}
	m.notice = ""
	m.err = nil

	switch m.stage {
	case stageBackground:
		if err := m.engine.CreateCharacter(m.session, m.name, player.Backgrounds[idx]); err != nil {
			m.err = err
			break
		}
		m.stage = stagePlaying

	case stagePilot:
		if err := m.engine.ChoosePilot(m.session, m.session.Crew[idx]); err != nil {
			m.err = err
			break
		}
		m.stage = stagePlaying

	case stagePlaying:
		if _, err := m.engine.ResolveChoice(m.session, idx); err != nil {
			var invalid *engine.InvalidChoiceError
			if errors.As(err, &invalid) {
				m.notice = "Invalid choice. Try again."
			} else {
				m.err = err
			}
			break
		}
		if m.engine.IsTerminal(m.session) {
			m.stage = stageSummary
			m.cursor = 0
			m.refresh()
			return m, m.saveRun()
		}
		if m.session.Phase == engine.PhaseFinalEncounter && m.session.Pilot == "" {
			m.stage = stagePilot
		}
	}

	m.cursor = 0
	m.refresh()
	return m, nil
}

func (m ConsoleUI) saveRun() tea.Cmd {
	eng, s, store, story, seed := m.engine, m.session, m.store, m.story, m.seed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := app.RecordRun(ctx, store, eng, s, story, seed)
		return runSavedMsg{err: err}
	}
}

// menuItems lists the selectable entries for the current stage.
func (m ConsoleUI) menuItems() []string {
	switch m.stage {
	case stageBackground:
		items := make([]string, len(player.Backgrounds))
		for i, bg := range player.Backgrounds {
			items[i] = string(bg)
		}
		return items
	case stagePilot:
		return m.session.Crew
	case stagePlaying:
		sc, err := m.engine.CurrentScene(m.session)
		if err != nil {
			return nil
		}
		return sc.Labels()
	}
	return nil
}

// refresh re-renders both panels from the session.
func (m *ConsoleUI) refresh() {
	m.storyViewport.SetContent(m.writeStory(m.storyViewport.Width - 6))
	m.storyViewport.GotoBottom()
	m.metaViewport.SetContent(m.writeMetadata())
}

func (m ConsoleUI) writeStory(width int) string {
	if width < 20 {
		width = 20
	}
	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(m.engine.Graph().Name())) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, line := range m.session.Log {
		content.WriteString(narratorStyle.Render(wordwrap.String(line, width)) + "\n")
	}
	if len(m.session.Log) > 0 {
		content.WriteString("\n")
	}

	switch m.stage {
	case stageName:
		content.WriteString(wordwrap.String("Welcome! Before the adventure begins, tell us who you are.", width) + "\n")
	case stageBackground:
		content.WriteString(wordwrap.String(fmt.Sprintf("Welcome, %s! Choose your background:", m.name), width) + "\n\n")
	case stagePilot:
		content.WriteString(wordwrap.String("The crew has gathered at the helicopter. Who will fly you out?", width) + "\n\n")
	case stagePlaying:
		if sc, err := m.engine.CurrentScene(m.session); err == nil {
			if sc.Title != "" {
				content.WriteString(sceneTitleStyle.Render(sc.Title) + "\n")
			}
			content.WriteString(wordwrap.String(sc.Description, width) + "\n\n")
		}
	case stageSummary:
		content.WriteString(titleStyle.Render("Adventure Summary") + "\n\n")
		for _, line := range m.engine.Summary(m.session).Lines() {
			content.WriteString(wordwrap.String(line, width) + "\n")
		}
		content.WriteString("\n" + promptStyle.Render("Press C to copy the summary, Q to quit.") + "\n")
	}

	for i, item := range m.menuItems() {
		label := fmt.Sprintf("%d. %s", i+1, item)
		if i == m.cursor {
			content.WriteString(selectedItemStyle.Render("> "+label) + "\n")
		} else {
			content.WriteString(itemStyle.Render("  "+label) + "\n")
		}
	}

	if m.notice != "" {
		content.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}
	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	return content.String()
}

func (m ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("PLAYER") + "\n\n")

	p := m.session.Player
	if p == nil {
		content.WriteString(promptStyle.Render("No character yet.") + "\n")
	} else {
		fmt.Fprintf(&content, "Name: %s\n", p.Name)
		fmt.Fprintf(&content, "Background: %s\n", p.Background)
		fmt.Fprintf(&content, "Health: %d\n", p.Health)
		fmt.Fprintf(&content, "Food: %d\n", p.Food)
		content.WriteString("\nInventory:\n")
		if len(p.Inventory) == 0 {
			content.WriteString(promptStyle.Render("  Empty") + "\n")
		}
		for _, item := range p.Inventory {
			content.WriteString("  - " + item + "\n")
		}
	}

	content.WriteString("\n" + titleStyle.Render("ADVENTURE") + "\n\n")
	if r, ok := m.engine.Graph().Rounds(); ok {
		fmt.Fprintf(&content, "Round: %d/%d\n", m.session.Round, r.Max)
	}
	fmt.Fprintf(&content, "Phase: %s\n", m.session.Phase)
	if m.session.Pilot != "" {
		fmt.Fprintf(&content, "Pilot: %s\n", m.session.Pilot)
	}
	if m.saved {
		content.WriteString(promptStyle.Render("Run saved.") + "\n")
	}

	content.WriteString("\n" + promptStyle.Render("↑/↓ move · enter choose\n1-9 pick · pgup/pgdn scroll\nesc quit") + "\n")
	return content.String()
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	story := m.storyViewport.View()
	if m.stage == stageName {
		story += "\n" + m.nameInput.View()
	}
	left := storyPanelStyle.Render(story)
	right := metaPanelStyle.Render(m.metaViewport.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.stage == stageName {
					return m, m.nameInput.Focus()
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit your adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}
