package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/werewolf-gm/pkg/action"
	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

const (
	GMName          = "Game Master"
	PlaceHolderText = "Speak to the village, or /help..."
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config         *ConsoleConfig
	client         *http.Client
	match          *match.State
	logViewport    viewport.Model
	rosterViewport viewport.Model
	textarea       textarea.Model
	nameInput      textinput.Model
	ready          bool
	width          int
	height         int
	err            error
	notice         string
	loading        bool

	showStartModal bool
	showQuitModal  bool

	progressTick int
}

type matchMsg struct {
	state *match.State
	err   error
}

type progressTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	rosterPanelStyle = lipgloss.NewStyle().
				PaddingTop(2).
				PaddingBottom(0).
				PaddingLeft(0).
				PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	gmStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	deadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

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

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	ni := textinput.New()
	ni.Placeholder = "Player"
	ni.CharLimit = 32
	ni.Width = 32
	ni.SetValue(cfg.PlayerName)
	ni.Focus()

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	rosterVp := viewport.New(20, 20)

	return ConsoleUI{
		config:         cfg,
		client:         client,
		textarea:       ta,
		nameInput:      ni,
		logViewport:    logVp,
		rosterViewport: rosterVp,
		showStartModal: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textinput.Blink
}

// formatEntry renders one log line, wrapped to width
func formatEntry(entry match.LogEntry, humanName string, width int) string {
	var prefix string
	switch entry.Sender {
	case match.SenderGM:
		prefix = gmStyle.Render(GMName + ": ")
		width -= len(GMName) + 2
	case humanName:
		prefix = userStyle.Render("You: ")
		width -= len("You: ")
	default:
		prefix = speakerStyle.Render(entry.Sender + ": ")
		width -= len(entry.Sender) + 2
	}
	if width < 10 {
		width = 10
	}
	return prefix + wordwrap.String(entry.Message, width)
}

func gameOverBanner(state *match.State) string {
	if state.Winner == match.WinnerNone {
		return "GAME OVER"
	}
	return fmt.Sprintf("GAME OVER: %s win", state.Winner)
}

// writeLogContent rebuilds the log from the match state for the current viewport width
func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("WEREWOLF") + "\n\n")
	content.WriteString("Talk with the village, then vote out whoever you suspect.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(logWidth-6, 1))) + "\n\n")

	if m.match != nil {
		humanName := ""
		if h := m.match.Human(); h != nil {
			humanName = h.Name
		}
		for _, entry := range m.match.NarrativeLog {
			content.WriteString(formatEntry(entry, humanName, logWidth) + "\n\n")
		}
		if m.match.GameOver {
			content.WriteString(titleStyle.Render(gameOverBanner(m.match)) + "\n")
			content.WriteString(promptStyle.Render("Type /new to play again.") + "\n\n")
		}
	}

	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}
	if m.notice != "" {
		content.WriteString(promptStyle.Render(m.notice) + "\n\n")
	}
	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

// writeRoster renders the side panel with the day, scene and who is still alive
func writeRoster(state *match.State) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("VILLAGE") + "\n\n")
	if state == nil {
		return content.String()
	}

	content.WriteString(fmt.Sprintf("Match: %s...\n", state.ID.String()[:8]))
	content.WriteString(fmt.Sprintf("Day %d, %s\n\n", state.Day, state.Phase))

	content.WriteString(fmt.Sprintf("%s\n%s at %s\n\n", state.Context.Season, state.Context.TimeOfDay, state.Context.Location))

	if h := state.Human(); h != nil {
		content.WriteString(fmt.Sprintf("You are %s, a %s.\n\n", h.Name, h.Role))
	}

	content.WriteString(fmt.Sprintf("Alive: %d of %d\n", len(state.Survivors), len(state.Seats)))
	for _, seat := range state.Seats {
		label := seat.Name
		if state.GameOver {
			label = fmt.Sprintf("%s (%s)", seat.Name, seat.Role)
		}
		if seat.Alive() {
			content.WriteString("● " + label + "\n")
		} else {
			content.WriteString(deadStyle.Render("✝ "+label) + "\n")
		}
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• /ready\n")
	content.WriteString("• /vote <name>\n")
	content.WriteString("• /next\n")
	content.WriteString("• /new\n")
	content.WriteString("• Ctrl+Y: Copy log\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m *ConsoleUI) resize() {
	logWidth := int(float64(m.width)*0.72) - 4
	rosterWidth := m.width - logWidth - 6

	m.logViewport.Width = logWidth - 2
	m.logViewport.Height = m.height - 7
	m.rosterViewport.Width = rosterWidth - 2
	m.rosterViewport.Height = m.height - 4
	m.textarea.SetWidth(logWidth - 4)
}

func (m *ConsoleUI) refresh() {
	m.writeLogContent()
	m.rosterViewport.SetContent(writeRoster(m.match))
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showStartModal {
		return m.updateStartModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		rvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.rosterViewport, rvCmd = m.rosterViewport.Update(msg)
		return m, tea.Batch(vpCmd, rvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			m.copyLog()
			m.writeLogContent()
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := m.textarea.Value()
			if strings.TrimSpace(input) == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.handleInput(input)
		}

	case matchMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.match = msg.state
		}
		m.refresh()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeLogContent()
			return m, progressTick()
		}
		return m, nil
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.rosterViewport, rvCmd = m.rosterViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, rvCmd)
}

func (m ConsoleUI) handleInput(input string) (tea.Model, tea.Cmd) {
	m.notice = ""
	cmd, err := parseInput(input, m.match)
	if err != nil {
		m.notice = err.Error()
		m.writeLogContent()
		return m, nil
	}

	switch cmd.local {
	case localHelp:
		m.notice = helpText
		m.writeLogContent()
		return m, nil
	case localCopy:
		m.copyLog()
		m.writeLogContent()
		return m, nil
	case localQuit:
		m.showQuitModal = true
		return m, nil
	case localNew:
		return m.beginLoading(m.startMatch(m.nameInput.Value(), m.match))
	}

	return m.beginLoading(m.send(*cmd.action))
}

func (m ConsoleUI) beginLoading(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.loading = true
	m.err = nil
	m.progressTick = 0
	m.writeLogContent()
	return m, tea.Batch(cmd, progressTick())
}

func (m *ConsoleUI) copyLog() {
	text := logText(m.match)
	if text == "" {
		m.notice = "Nothing to copy yet."
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.notice = fmt.Sprintf("Could not copy to clipboard: %v", err)
		return
	}
	m.notice = fmt.Sprintf("Copied %d log lines to the clipboard.", len(m.match.NarrativeLog))
}

func (m ConsoleUI) send(req ActionRequest) tea.Cmd {
	return func() tea.Msg {
		state, err := sendAction(m.client, m.config.APIBaseURL, req)
		return matchMsg{state, err}
	}
}

// startMatch begins a new match, discarding previous from storage first
func (m ConsoleUI) startMatch(playerName string, previous *match.State) tea.Cmd {
	var previousID uuid.UUID
	if previous != nil {
		previousID = previous.ID
	}
	return func() tea.Msg {
		if previousID != uuid.Nil {
			// A failed delete only leaves the old match to expire
			_ = deleteMatch(m.client, m.config.APIBaseURL, previousID)
		}
		state, err := sendAction(m.client, m.config.APIBaseURL, ActionRequest{
			Action:  actionStartGame,
			Payload: action.StartGame{PlayerName: playerName},
		})
		return matchMsg{state, err}
	}
}

func (m ConsoleUI) updateStartModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case matchMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.match = msg.state
		m.showStartModal = false
		if m.width > 0 && m.height > 0 {
			m.resize()
		}
		m.ready = true
		m.nameInput.Blur()
		m.textarea.Focus()
		m.refresh()
		return m, textarea.Blink

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.err = nil
			return m, m.startMatch(strings.TrimSpace(m.nameInput.Value()), nil)
		}
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
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
				if m.showStartModal {
					return m, textinput.Blink
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("The werewolves will still be here tomorrow.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderStartModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	switch {
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Gathering the Village..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("The game master is setting the scene..."))
	default:
		content.WriteString(modalTitleStyle.Render("Werewolf"))
		content.WriteString("\n\n")
		content.WriteString("What is your name, traveller?\n\n")
		content.WriteString(m.nameInput.View())
		content.WriteString("\n\n")
		if m.err != nil {
			content.WriteString(errorStyle.Render(fmt.Sprintf("Could not start a match: %v", m.err)))
			content.WriteString("\n\n")
		}
		content.WriteString(promptStyle.Render("Enter to begin, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showStartModal {
		return m.renderStartModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.72) - 4
	rosterWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(logWidth-4, 1))),
			m.textarea.View(),
		),
	)

	rosterPanel := rosterPanelStyle.Width(rosterWidth).Height(m.height - 2).Render(
		m.rosterViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, rosterPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.logViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}
	usable = min(max(usable, 10), 80)

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := range usable {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
