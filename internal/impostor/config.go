// Package impostor carries the service-wide configuration.
package impostor

import (
	"time"

	"github.com/impostor-games/impostor/internal/database"
	"github.com/impostor-games/impostor/internal/impostor/words"
)

type Config struct {
	// Debug lowers the log level and enables verbose HTTP logging
	Debug bool `envconfig:"IMPOSTOR_DEBUG" default:"false"`

	// Port the HTTP API and WebSocket subscriptions listen on
	Port string `envconfig:"IMPOSTOR_PORT" default:"8080"`

	// Number of room snapshots kept in the read cache
	CacheSize int `envconfig:"IMPOSTOR_CACHE_SIZE" default:"1024"`

	// Minimum interval between round starts in the same room
	StartCooldown time.Duration `envconfig:"IMPOSTOR_START_COOLDOWN" default:"10s"`

	// Players silent longer than this are evicted on the next
	// heartbeat. Zero (the default) disables eviction entirely and a
	// heartbeat only records presence.
	PlayerTTL time.Duration `envconfig:"IMPOSTOR_PLAYER_TTL" default:"0"`

	Db     database.Config
	Oracle words.Config
}
