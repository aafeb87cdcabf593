package game

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/impostor-games/impostor/internal/cache/cachelru"
	"github.com/impostor-games/impostor/internal/database"
	roomdb "github.com/impostor-games/impostor/internal/database/room/database"
	"github.com/impostor-games/impostor/internal/database/room/model"
	"github.com/impostor-games/impostor/internal/impostor/words"
)

// fakeOracle hands out deterministic words without network access.
type fakeOracle struct {
	err   error
	calls int
}

func (f *fakeOracle) Generate(_ context.Context, theme string, _ []string) (words.Word, error) {
	f.calls++
	if f.err != nil {
		return words.Word{}, f.err
	}
	return words.Word{
		SecretWord: fmt.Sprintf("word-%d", f.calls),
		Category:   theme,
	}, nil
}

type fixture struct {
	manager *Manager
	store   *roomdb.DB
	oracle  *fakeOracle
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.NewFromEnv(context.Background(), &database.Config{
		FilePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(context.Background()) })

	cache, err := cachelru.NewLRU(64)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	f := &fixture{
		store:  roomdb.New(db, cache),
		oracle: &fakeOracle{},
		clock:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.manager = NewManager(f.store, words.NewPicker(f.oracle), Config{
		StartCooldown: 10 * time.Second,
	})
	f.manager.now = func() time.Time { return f.clock }

	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

// join seeds a waiting room with the named players, first one host.
func (f *fixture) join(t *testing.T, roomID string, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, _, err := f.manager.Join(context.Background(), roomID, name, name); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}
}

// start begins a round and returns the committed snapshot.
func (f *fixture) start(t *testing.T, roomID string, numImpostors, maxGuesses int) *model.Room {
	t.Helper()
	room, err := f.manager.StartRound(context.Background(), roomID, "90s shows", numImpostors, maxGuesses)
	if err != nil {
		t.Fatalf("start round: %v", err)
	}
	return room
}

func (f *fixture) room(t *testing.T, roomID string) model.Room {
	t.Helper()
	room, err := f.store.Fetch(roomID)
	if err != nil {
		t.Fatalf("fetch room: %v", err)
	}
	return room
}

func impostorIDs(room *model.Room) []string {
	var ids []string
	for _, p := range room.Players {
		if p.IsImpostor() {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func citizenIDs(room *model.Room) []string {
	var ids []string
	for _, p := range room.Players {
		if !p.IsImpostor() {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
