// Package game implements the authoritative room state machine: role
// assignment, word selection, turn ordering, vote collection and
// resolution, and the player lifecycle. Every operation is one atomic
// read-compute-commit against the room store.
package game

import (
	"time"

	roomdb "github.com/impostor-games/impostor/internal/database/room/database"
	"github.com/impostor-games/impostor/internal/impostor/words"
)

const minPlayers = 3

type Config struct {
	// StartCooldown is the minimum interval between round starts.
	StartCooldown time.Duration

	// PlayerTTL evicts players whose last heartbeat is older than the
	// TTL. Zero disables eviction and heartbeats only record presence.
	PlayerTTL time.Duration
}

func NewManager(store *roomdb.DB, picker *words.Picker, config Config) *Manager {
	return &Manager{
		store:  store,
		picker: picker,
		config: config,
		now:    time.Now,
	}
}

type Manager struct {
	store  *roomdb.DB
	picker *words.Picker
	config Config

	// now is swapped in tests to drive the rate limiter and eviction
	now func() time.Time
}

// Store exposes the underlying room store for snapshot reads and
// subscriptions.
func (m *Manager) Store() *roomdb.DB {
	return m.store
}
