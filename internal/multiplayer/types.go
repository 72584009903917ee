// Package multiplayer provides session, lobby, and match coordination for
// online head-to-head coverage races over SSH.
package multiplayer

import "github.com/vovakirdan/tui-polypaint/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 is always the lobby host, Player2 the joiner.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a player's session (e.g., SSH connection).
// Used to track individual connections and pair them for races.
type SessionID string

// MatchID uniquely identifies a race match.
type MatchID string

// MatchMode defines how a match is configured.
type MatchMode int

const (
	// MatchModeSolo is a single-player game (local or SSH, no opponent).
	MatchModeSolo MatchMode = iota

	// MatchModeRace is a two-player online coverage race: both players get
	// the same polygon and the first past the threshold wins.
	MatchModeRace
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeSolo:
		return "Solo"
	case MatchModeRace:
		return "Online Race"
	default:
		return "Unknown"
	}
}

// MatchHandle provides access to match metadata.
// Games receive this to know their context without managing match lifecycle.
type MatchHandle interface {
	// ID returns the unique identifier for this match.
	ID() MatchID

	// Mode returns how this match is configured.
	Mode() MatchMode
}

// Match is a concrete implementation of MatchHandle.
// The platform creates matches and passes handles to games.
type Match struct {
	id   MatchID
	mode MatchMode

	// SessionIDs tracks which sessions are part of this match.
	// For Solo: one session. For Race: two sessions.
	SessionIDs []SessionID
}

// NewMatch creates a new match with the given parameters.
func NewMatch(id MatchID, mode MatchMode, sessions ...SessionID) *Match {
	return &Match{
		id:         id,
		mode:       mode,
		SessionIDs: sessions,
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Mode returns the match mode.
func (m *Match) Mode() MatchMode {
	return m.mode
}

// Sessions returns the session IDs participating in this match.
func (m *Match) Sessions() []SessionID {
	return m.SessionIDs
}
