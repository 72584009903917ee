package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-polypaint/internal/core"
	"github.com/vovakirdan/tui-polypaint/internal/games/polypaint"
	"github.com/vovakirdan/tui-polypaint/internal/multiplayer"
)

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateMatchStarting                    // Race is starting
	OnlineStateInMatch                          // In active race
	OnlineStateMatchEnded                       // Race has ended
)

// OnlineLobbyModel handles the online matchmaking flow.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	keyMapper   *KeyMapper
	gameID      string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	// Host state
	lobbyCode string

	// Join state
	joinCodeInput string
	joinError     string

	// Match state
	matchID    multiplayer.MatchID
	side       core.PlayerID
	opponentID multiplayer.SessionID

	// Result state
	backToMenu bool
	cancelled  bool
	quitting   bool

	// For receiving events from coordinator
	eventChan <-chan multiplayer.SessionEvent
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(
	gameID string,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	eventChan <-chan multiplayer.SessionEvent,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		keyMapper:   NewKeyMapper(),
		gameID:      gameID,
		sessionID:   sessionID,
		coordinator: coordinator,
		eventChan:   eventChan,
	}
}

// Init initializes the lobby model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for coordinator events.
func (m OnlineLobbyModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return nil
		}
		evt, ok := <-m.eventChan
		if !ok {
			return nil
		}
		return evt
	}
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
		return m, m.waitForEvent()
	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
		m.opponentID = msg.OpponentID
		return m, m.waitForEvent()
	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
		}
		return m, m.waitForEvent()
	case multiplayer.LobbyPlayerLeftEvent:
		// If in host waiting state and joiner left, stay waiting
		return m, m.waitForEvent()
	case multiplayer.MatchStartedEvent:
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.state = OnlineStateInMatch
		return m, nil // Exit to start the race view
	case multiplayer.MatchEndedEvent:
		m.state = OnlineStateMatchEnded
		return m, nil
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global quit
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	}

	return m, nil
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "h", "H", "1":
		// Host
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    m.gameID,
		})
		return m, m.waitForEvent()
	case "j", "J", "2":
		// Join
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
		return m, nil
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		// Cancel lobby
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
		m.cancelled = true
		m.backToMenu = true
		return m, nil
	case "q":
		// Cancel and quit
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "enter":
		if m.joinCodeInput != "" {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
			return m, m.waitForEvent()
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Accept alphanumeric input for code
		if len(key) == 1 && len(m.joinCodeInput) < 6 {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				m.joinCodeInput += c
			}
		}
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		// Leave lobby attempt
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.joinCodeInput,
		})
		m.state = OnlineStateJoinEnterCode
		return m, nil
	}

	return m, nil
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	switch m.state {
	case OnlineStateChooseMode:
		b.WriteString(m.viewChooseMode())
	case OnlineStateHostWaiting:
		b.WriteString(m.viewHostWaiting())
	case OnlineStateJoinEnterCode:
		b.WriteString(m.viewJoinEnterCode())
	case OnlineStateJoinWaiting:
		b.WriteString(m.viewJoinWaiting())
	case OnlineStateMatchStarting:
		b.WriteString(m.viewMatchStarting())
	}

	return b.String()
}

func (m OnlineLobbyModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("ONLINE RACE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("First to paint the threshold wins.", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a race", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a race", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewHostWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("HOSTING RACE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with your opponent:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", m.lobbyCode), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Waiting for player to join...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("JOIN RACE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the race code:", m.width))
	b.WriteString("\n\n")

	// Display code input with cursor
	codeDisplay := m.joinCodeInput
	if len(codeDisplay) < 6 {
		codeDisplay += "_"
		codeDisplay += strings.Repeat(" ", 5-len(m.joinCodeInput))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", codeDisplay), m.width))
	b.WriteString("\n")

	if m.joinError != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.joinError), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Connect  |  Esc: Back", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("CONNECTING", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Joining race: %s", m.joinCodeInput), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Please wait...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewMatchStarting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("RACE STARTING", m.width))
	b.WriteString("\n\n")

	sideText := "PLAYER 1"
	if m.side == core.Player2 {
		sideText = "PLAYER 2"
	}
	b.WriteString(centerText(fmt.Sprintf("You are: %s", sideText), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Get ready!", m.width))

	return b.String()
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID if a race was started.
func (m OnlineLobbyModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which side (P1/P2) this session plays.
func (m OnlineLobbyModel) Side() core.PlayerID {
	return m.side
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

// RaceModel renders an active online race from server snapshots. The session
// owns no simulation: rotation keys are forwarded to the coordinator and the
// view is rebuilt from the latest RaceSnapshot.
type RaceModel struct {
	width       int
	height      int
	screen      *core.Screen
	keyMapper   *KeyMapper
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator
	matchID     multiplayer.MatchID
	side        core.PlayerID

	snap     *polypaint.RaceSnapshot
	ended    bool
	endEvent multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool

	eventChan <-chan multiplayer.SessionEvent
}

// NewRaceModel creates a race view for an active match.
func NewRaceModel(
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	matchID multiplayer.MatchID,
	side core.PlayerID,
	eventChan <-chan multiplayer.SessionEvent,
	width, height int,
) RaceModel {
	return RaceModel{
		width:       width,
		height:      height,
		screen:      core.NewScreen(width, height),
		keyMapper:   NewKeyMapper(),
		sessionID:   sessionID,
		coordinator: coordinator,
		matchID:     matchID,
		side:        side,
		eventChan:   eventChan,
	}
}

// Init starts listening for race snapshots.
func (m RaceModel) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m RaceModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return nil
		}
		evt, ok := <-m.eventChan
		if !ok {
			return nil
		}
		return evt
	}
}

// Update handles messages.
func (m RaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case multiplayer.SnapshotEvent:
		if snap, ok := msg.Snapshot.(polypaint.RaceSnapshot); ok {
			m.snap = &snap
		}
		return m, m.waitForEvent()
	case multiplayer.MatchEndedEvent:
		m.ended = true
		m.endEvent = msg
		return m, nil
	}
	return m, nil
}

func (m RaceModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		m.coordinator.Send(multiplayer.LeaveMatchMsg{
			SessionID: m.sessionID,
			MatchID:   m.matchID,
		})
		m.quitting = true
		return m, tea.Quit
	case "esc", "b":
		if m.ended {
			m.backToMenu = true
			return m, nil
		}
		// Leaving mid-race forfeits
		m.coordinator.Send(multiplayer.LeaveMatchMsg{
			SessionID: m.sessionID,
			MatchID:   m.matchID,
		})
		m.backToMenu = true
		return m, nil
	}

	if m.ended {
		return m, nil
	}

	// Forward rotation input to the authoritative simulation
	frame := core.NewInputFrame()
	switch key {
	case "a", "left":
		frame.Set(core.ActionRotateLeft)
	case "d", "right":
		frame.Set(core.ActionRotateRight)
	default:
		return m, nil
	}

	m.coordinator.Send(multiplayer.PlayerInputMsg{
		MatchID: m.matchID,
		Player:  m.side,
		Input:   frame,
	})

	return m, nil
}

// View renders the race.
func (m RaceModel) View() string {
	if m.quitting {
		return ""
	}

	if m.snap == nil {
		return "\n" + centerText("Waiting for race data...", m.width)
	}

	m.renderRace()
	return RenderScreen(m.screen)
}

// renderRace draws the HUD and the local player's polygon into the screen buffer.
func (m RaceModel) renderRace() {
	m.screen.Clear()
	snap := m.snap

	mine := int(m.side) - 1
	if mine < 0 || mine > 1 {
		mine = 0
	}
	theirs := 1 - mine

	me := snap.Players[mine]
	opp := snap.Players[theirs]

	// HUD: coverage bars for both players
	barWidth := max(m.width/3, 10)
	m.screen.DrawTextColored(1, 0,
		fmt.Sprintf("YOU %s %5.1f%%", coverageBar(me.Coverage, snap.WinPercent, barWidth), me.Coverage),
		core.ColorBrightGreen)
	m.screen.DrawTextColored(1, 1,
		fmt.Sprintf("OPP %s %5.1f%%", coverageBar(opp.Coverage, snap.WinPercent, barWidth), opp.Coverage),
		core.ColorBrightRed)
	m.screen.DrawText(0, 2, strings.Repeat("─", m.width))

	// Local player's board fills the rest
	m.renderBoard(me, 3)

	if m.ended {
		m.renderResult()
	}
}

// coverageBar renders a progress bar scaled to the win threshold.
func coverageBar(coverage, winPercent float64, width int) string {
	if winPercent <= 0 {
		winPercent = 100
	}
	filled := int(coverage / winPercent * float64(width))
	filled = core.Clamp(filled, 0, width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// renderBoard scales the polygon from world coordinates into the viewport
// below the HUD and draws edges, paint state, and the circle.
func (m RaceModel) renderBoard(view polypaint.RacePlayerView, topRow int) {
	if len(view.Vertices) == 0 {
		return
	}

	availW := m.width
	availH := m.height - topRow
	if availW < 4 || availH < 4 {
		return
	}

	// Bounding box of the polygon plus the circle, with a small margin
	minX, minY := view.Vertices[0].X, view.Vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range view.Vertices {
		minX = min(minX, v.X)
		minY = min(minY, v.Y)
		maxX = max(maxX, v.X)
		maxY = max(maxY, v.Y)
	}
	minX = min(minX, view.CirclePos.X) - 10
	minY = min(minY, view.CirclePos.Y) - 10
	maxX = max(maxX, view.CirclePos.X) + 10
	maxY = max(maxY, view.CirclePos.Y) + 10

	scaleX := float64(availW-1) / (maxX - minX)
	scaleY := float64(availH-1) / (maxY - minY)

	toScreen := func(p core.Vec2) (int, int) {
		x := int((p.X - minX) * scaleX)
		y := topRow + int((p.Y-minY)*scaleY)
		return x, y
	}

	// Edges: hit edges turn red
	n := len(view.Vertices)
	for i := range n {
		x1, y1 := toScreen(view.Vertices[i])
		x2, y2 := toScreen(view.Vertices[(i+1)%n])

		color := core.ColorWhite
		if i < len(view.EdgeStates) && view.EdgeStates[i] == polypaint.EdgeHit {
			color = core.ColorRed
		}
		m.screen.DrawLine(x1, y1, x2, y2, polypaint.EdgeChar, color)
	}

	// Circle
	cx, cy := toScreen(view.CirclePos)
	m.screen.SetColored(cx, cy, polypaint.CircleChar, core.ColorBrightCyan)
}

// renderResult overlays the race outcome.
func (m RaceModel) renderResult() {
	won := m.endEvent.Winner == multiplayer.PlayerID(m.side)

	text := "YOU LOSE"
	color := core.ColorBrightRed
	if won {
		text = "YOU WIN!"
		color = core.ColorBrightGreen
	}
	if m.endEvent.Winner == 0 {
		text = m.endEvent.Reason.String()
		color = core.ColorBrightYellow
	}

	boxW := len(text) + 6
	boxH := 3
	x := (m.width - boxW) / 2
	y := (m.height - boxH) / 2
	m.screen.FillRect(x, y, boxW, boxH, ' ')
	m.screen.DrawBox(x, y, boxW, boxH)
	m.screen.DrawTextColored(x+3, y+1, text, color)
	m.screen.DrawText(max((m.width-24)/2, 0), min(y+boxH+1, m.height-1), "Esc: Back  |  Q: Quit")
}

// Ended returns true once the race result arrived.
func (m RaceModel) Ended() bool {
	return m.ended
}

// BackToMenu returns true if user wants to go back to menu.
func (m RaceModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m RaceModel) IsQuitting() bool {
	return m.quitting
}
