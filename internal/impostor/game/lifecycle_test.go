package game

import (
	"context"
	"errors"
	"testing"
	"time"

	roomdb "github.com/impostor-games/impostor/internal/database/room/database"
	"github.com/impostor-games/impostor/internal/database/room/model"
)

func TestJoinCreatesRoomWithHost(t *testing.T) {
	f := newFixture(t)

	room, player, err := f.manager.Join(context.Background(), "r1", "alice", "Alice")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	if room.HostID != "alice" || !player.IsHost {
		t.Fatalf("first player must be host, hostId=%s", room.HostID)
	}
	if room.Status != model.StatusWaiting {
		t.Fatalf("expected waiting, got %s", room.Status)
	}
	if room.UsedWords == nil {
		t.Fatal("usedWords must be initialized")
	}
}

func TestJoinAppendsAndKeepsHost(t *testing.T) {
	f := newFixture(t)
	f.join(t, "r1", "alice", "bob", "carol")

	room := f.room(t, "r1")
	if len(room.Players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(room.Players))
	}
	if room.HostID != "alice" {
		t.Fatalf("host changed to %s", room.HostID)
	}

	var hosts int
	for _, p := range room.Players {
		if p.IsHost {
			hosts++
		}
	}
	if hosts != 1 {
		t.Fatalf("expected exactly 1 isHost flag, got %d", hosts)
	}
}

func TestJoinGeneratesPlayerID(t *testing.T) {
	f := newFixture(t)

	_, player, err := f.manager.Join(context.Background(), "r1", "", "Anon")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if player.ID == "" {
		t.Fatal("expected generated player id")
	}
}

func TestJoinRejoinIsNoop(t *testing.T) {
	f := newFixture(t)
	f.join(t, "r1", "alice", "bob")

	room, _, err := f.manager.Join(context.Background(), "r1", "alice", "Alice Again")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if len(room.Players) != 2 {
		t.Fatalf("rejoin duplicated the player: %d players", len(room.Players))
	}
}

func TestRemoveTransfersHost(t *testing.T) {
	f := newFixture(t)
	f.join(t, "r1", "alice", "bob", "carol")

	room, err := f.manager.Remove(context.Background(), "r1", "alice", "alice")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}

	if room.HostID != "bob" {
		t.Fatalf("expected host transfer to bob, got %s", room.HostID)
	}
	for _, p := range room.Players {
		if p.IsHost != (p.ID == "bob") {
			t.Fatalf("isHost flags inconsistent: %+v", room.Players)
		}
	}
}

func TestRemoveLastPlayerDeletesRoom(t *testing.T) {
	f := newFixture(t)
	f.join(t, "r1", "alice")

	room, err := f.manager.Remove(context.Background(), "r1", "alice", "alice")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if room != nil {
		t.Fatal("expected room deletion")
	}

	if _, err := f.store.Fetch("r1"); !errors.Is(err, roomdb.ErrRoomNotFound) {
		t.Fatalf("expected room gone, got %v", err)
	}
}

func TestRemoveNonHostCannotRemoveOthers(t *testing.T) {
	f := newFixture(t)
	f.join(t, "r1", "alice", "bob", "carol")

	if _, err := f.manager.Remove(context.Background(), "r1", "bob", "carol"); !errors.Is(err, ErrNotHost) {
		t.Fatalf("expected ErrNotHost, got %v", err)
	}
}

func TestLeaveDuringActiveRoundRejected(t *testing.T) {
	f := newFixture(t)
	f.join(t, "r1", "alice", "bob", "carol", "dave")
	f.start(t, "r1", 1, 1)

	if _, err := f.manager.Remove(context.Background(), "r1", "bob", "bob"); !errors.Is(err, ErrLeaveDuringGame) {
		t.Fatalf("expected ErrLeaveDuringGame, got %v", err)
	}
}

func TestHostRemovingLastImpostorEndsGame(t *testing.T) {
	f := newFixture(t)
	f.join(t, "r1", "alice", "bob", "carol", "dave")
	started := f.start(t, "r1", 1, 1)

	impostor := impostorIDs(started)[0]
	room, err := f.manager.Remove(context.Background(), "r1", "alice", impostor)
	if err != nil {
		t.Fatalf("remove impostor: %v", err)
	}

	if room.Status != model.StatusFinished || room.Winner != model.WinnerCitizens {
		t.Fatalf("expected citizens win, got status=%s winner=%s", room.Status, room.Winner)
	}
}

func TestHostRemovalBelowMinimumAbortsRound(t *testing.T) {
	f := newFixture(t)
	f.join(t, "r1", "alice", "bob", "carol")
	started := f.start(t, "r1", 1, 1)

	// removing a citizen leaves 2 players with the impostor still in
	citizen := citizenIDs(started)[0]
	if citizen == "alice" {
		citizen = citizenIDs(started)[1]
	}

	room, err := f.manager.Remove(context.Background(), "r1", "alice", citizen)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}

	if room.Status != model.StatusAborted {
		t.Fatalf("expected aborted, got %s", room.Status)
	}
	if room.SecretWord != "" {
		t.Fatal("round fields must be cleared on abort")
	}
	if len(room.UsedWords) == 0 {
		t.Fatal("cross-round memory must survive the abort")
	}
}

func TestHeartbeatRecordsPresence(t *testing.T) {
	f := newFixture(t)
	f.join(t, "r1", "alice", "bob")

	f.advance(30 * time.Second)
	room, err := f.manager.Heartbeat(context.Background(), "r1", "bob")
	if err != nil {
		t.Fatalf("heartbeat: %v", err)
	}

	bob, _ := room.FindPlayer("bob")
	if !bob.LastHeartbeat.Equal(f.clock) {
		t.Fatalf("expected heartbeat at %v, got %v", f.clock, bob.LastHeartbeat)
	}

	// eviction is off by default: alice stays despite being silent
	if len(room.Players) != 2 {
		t.Fatalf("no eviction expected, got %d players", len(room.Players))
	}
}

func TestHeartbeatUnknownPlayer(t *testing.T) {
	f := newFixture(t)
	f.join(t, "r1", "alice")

	if _, err := f.manager.Heartbeat(context.Background(), "r1", "ghost"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestHeartbeatEvictsWhenConfigured(t *testing.T) {
	f := newFixture(t)
	f.manager.config.PlayerTTL = 20 * time.Second
	f.join(t, "r1", "alice", "bob", "carol")

	f.advance(25 * time.Second)
	room, err := f.manager.Heartbeat(context.Background(), "r1", "alice")
	if err != nil {
		t.Fatalf("heartbeat: %v", err)
	}

	if len(room.Players) != 1 || room.Players[0].ID != "alice" {
		t.Fatalf("expected silent players evicted, got %+v", room.Players)
	}
	if room.HostID != "alice" {
		t.Fatalf("host must remain alice, got %s", room.HostID)
	}
}

func TestHeartbeatEvictionEndsGameWhenImpostorLeaves(t *testing.T) {
	f := newFixture(t)
	f.manager.config.PlayerTTL = 20 * time.Second
	f.join(t, "r1", "alice", "bob", "carol", "dave")
	started := f.start(t, "r1", 1, 1)

	impostor := impostorIDs(started)[0]
	heartbeater := "alice"
	if impostor == "alice" {
		heartbeater = "bob"
	}

	// everyone but the heartbeater goes silent
	f.advance(25 * time.Second)
	room, err := f.manager.Heartbeat(context.Background(), "r1", heartbeater)
	if err != nil {
		t.Fatalf("heartbeat: %v", err)
	}

	// the impostor was among the evicted, citizens win on the spot
	if room.Status != model.StatusFinished || room.Winner != model.WinnerCitizens {
		t.Fatalf("expected citizens win after impostor eviction, got status=%s winner=%s", room.Status, room.Winner)
	}
	if _, ok := room.FindPlayer(impostor); ok {
		t.Fatal("impostor must be gone")
	}
}

func TestCreateRoom(t *testing.T) {
	f := newFixture(t)

	room, err := f.manager.CreateRoom(context.Background())
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if room.ID == "" || room.Status != model.StatusWaiting {
		t.Fatalf("unexpected room %+v", room)
	}
	if len(room.Players) != 0 {
		t.Fatal("new room must be empty")
	}

	// joining the pre-created empty room makes the joiner host
	joined, player, err := f.manager.Join(context.Background(), room.ID, "alice", "Alice")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.HostID != "alice" || !player.IsHost {
		t.Fatal("first member of an empty room must become host")
	}
}
