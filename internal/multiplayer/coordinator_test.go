package multiplayer

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-polypaint/internal/core"
)

// stubGame is a minimal OnlineGame that ends after a fixed number of ticks.
type stubGame struct {
	ticks    int
	endAfter int
}

type stubSnapshot struct{ Tick int }

func (stubSnapshot) IsGameSnapshot() {}

func (g *stubGame) Reset(cfg core.RuntimeConfig) { g.ticks = 0 }

func (g *stubGame) StepMulti(in core.MultiInputFrame) core.StepResult {
	g.ticks++
	return core.StepResult{}
}

func (g *stubGame) Snapshot() GameSnapshot { return stubSnapshot{Tick: g.ticks} }
func (g *stubGame) IsGameOver() bool       { return g.ticks >= g.endAfter }
func (g *stubGame) Winner() PlayerID       { return Player1 }
func (g *stubGame) Score1() int            { return 9100 }
func (g *stubGame) Score2() int            { return 4500 }

func stubFactory(endAfter int) GameFactory {
	return func(gameID string, cfg core.RuntimeConfig) (OnlineGame, error) {
		g := &stubGame{endAfter: endAfter}
		g.Reset(cfg)
		return g, nil
	}
}

// waitFor reads session events until one matches or the timeout fires.
func waitFor[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if want, ok := evt.(T); ok {
				return want
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func newTestCoordinator(endAfter int) (*Coordinator, *SessionRegistry) {
	cfg := DefaultCoordinatorConfig()
	cfg.TickRate = 120 // fast ticks keep the test quick
	sessions := NewSessionRegistry()
	c := NewCoordinator(cfg, stubFactory(endAfter), sessions)
	return c, sessions
}

func TestJoinCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		code := generateJoinCode()
		if len(code) != 6 {
			t.Fatalf("join code %q should be 6 characters", code)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("join codes should vary")
	}
}

func TestCreateLobby(t *testing.T) {
	c, sessions := newTestCoordinator(1)

	host := NewChannelSession("host", 16)
	sessions.Register(host)

	c.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "polypaint"})

	created := waitFor[LobbyCreatedEvent](t, host)
	if len(created.Code) != 6 {
		t.Errorf("lobby code %q should be 6 characters", created.Code)
	}
	if created.GameID != "polypaint" {
		t.Errorf("lobby game = %q, expected polypaint", created.GameID)
	}
	if c.LobbyCount() != 1 {
		t.Errorf("LobbyCount = %d, expected 1", c.LobbyCount())
	}
}

func TestCreateLobbyTwiceRejected(t *testing.T) {
	c, sessions := newTestCoordinator(1)

	host := NewChannelSession("host", 16)
	sessions.Register(host)

	c.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "polypaint"})
	waitFor[LobbyCreatedEvent](t, host)

	c.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "polypaint"})
	waitFor[LobbyErrorEvent](t, host)

	if c.LobbyCount() != 1 {
		t.Errorf("second create should be rejected, LobbyCount = %d", c.LobbyCount())
	}
}

func TestJoinUnknownLobby(t *testing.T) {
	c, sessions := newTestCoordinator(1)

	joiner := NewChannelSession("joiner", 16)
	sessions.Register(joiner)

	c.handleMessage(JoinLobbyMsg{SessionID: "joiner", Code: "NOSUCH"})

	errEvt := waitFor[LobbyErrorEvent](t, joiner)
	if errEvt.Message != "Lobby not found" {
		t.Errorf("unexpected error message %q", errEvt.Message)
	}
}

func TestJoinStartsRaceAndCompletes(t *testing.T) {
	c, sessions := newTestCoordinator(1)

	host := NewChannelSession("host", 64)
	joiner := NewChannelSession("joiner", 64)
	sessions.Register(host)
	sessions.Register(joiner)

	c.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "polypaint"})
	created := waitFor[LobbyCreatedEvent](t, host)

	c.handleMessage(JoinLobbyMsg{SessionID: "joiner", Code: created.Code})

	// Both sides learn their assignments
	hostJoined := waitFor[LobbyJoinedEvent](t, host)
	if hostJoined.Side != Player1 {
		t.Errorf("host side = %v, expected Player1", hostJoined.Side)
	}
	joinerJoined := waitFor[LobbyJoinedEvent](t, joiner)
	if joinerJoined.Side != Player2 {
		t.Errorf("joiner side = %v, expected Player2", joinerJoined.Side)
	}

	// Match starts and the lobby is consumed
	waitFor[MatchStartedEvent](t, host)
	waitFor[MatchStartedEvent](t, joiner)
	if c.LobbyCount() != 0 {
		t.Errorf("lobby should be consumed, LobbyCount = %d", c.LobbyCount())
	}

	// The stub game ends on the first tick, so both sides see the result
	ended := waitFor[MatchEndedEvent](t, host)
	if ended.Winner != Player1 {
		t.Errorf("winner = %v, expected Player1", ended.Winner)
	}
	if ended.Score1 != 9100 || ended.Score2 != 4500 {
		t.Errorf("scores = %d/%d, expected 9100/4500", ended.Score1, ended.Score2)
	}
	waitFor[MatchEndedEvent](t, joiner)
}

func TestSnapshotBroadcast(t *testing.T) {
	c, sessions := newTestCoordinator(3)

	host := NewChannelSession("host", 64)
	joiner := NewChannelSession("joiner", 64)
	sessions.Register(host)
	sessions.Register(joiner)

	c.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "polypaint"})
	created := waitFor[LobbyCreatedEvent](t, host)
	c.handleMessage(JoinLobbyMsg{SessionID: "joiner", Code: created.Code})

	snap := waitFor[SnapshotEvent](t, host)
	if _, ok := snap.Snapshot.(stubSnapshot); !ok {
		t.Errorf("snapshot payload has wrong type %T", snap.Snapshot)
	}
	waitFor[SnapshotEvent](t, joiner)
}
