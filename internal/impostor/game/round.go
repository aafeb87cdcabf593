package game

import (
	"context"
	"errors"
	"fmt"
	"math"

	roomdb "github.com/impostor-games/impostor/internal/database/room/database"
	"github.com/impostor-games/impostor/internal/database/room/model"
	"github.com/impostor-games/impostor/internal/logging"
)

// StartRound validates the round configuration, acquires a secret word
// and commits the full round-start state in one transaction. No room
// state is written until the word is acquired; an oracle failure aborts
// the start with no partial mutation. On success the committed snapshot
// is returned to the caller as the explicit success signal.
func (m *Manager) StartRound(ctx context.Context, roomID, theme string, numImpostors, maxGuesses int) (*model.Room, error) {
	logger := logging.FromContext(ctx).Named("game.round")

	if theme == "" {
		return nil, ErrThemeRequired
	}
	if maxGuesses < 1 {
		maxGuesses = 1
	}

	room, err := m.store.Fetch(roomID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if err := m.validateStart(&room, numImpostors); err != nil {
		return nil, err
	}

	// the only long-latency suspension point, awaited before any commit
	word, usedWords, err := m.picker.Pick(ctx, theme, room.UsedWords)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracle, err)
	}

	committed, err := m.store.Mutate(roomID, func(current *model.Room) (*model.Room, error) {
		if current == nil {
			return nil, ErrRoomNotFound
		}

		// players and timestamps may have changed while the oracle ran;
		// the transaction re-checks so racing starts cannot both commit
		if err := m.validateStart(current, numImpostors); err != nil {
			return nil, err
		}

		players, impostorIDs, err := assignRoles(current.Players, numImpostors, current.LastImpostorIDs)
		if err != nil {
			return nil, err
		}

		order, starterID := turnOrder(players, current.LastStarterID)

		now := m.now()
		current.Players = players
		current.Status = model.StatusPlaying
		current.Theme = theme
		current.SecretWord = word.SecretWord
		current.Category = word.Category
		current.NumImpostors = numImpostors
		current.MaxGuesses = maxGuesses
		current.WrongGuesses = 0
		current.DeadPlayerIDs = nil
		current.VoteRequests = nil
		current.Votes = nil
		current.Winner = ""
		current.TurnOrder = order
		current.LastImpostorIDs = impostorIDs
		current.LastStarterID = starterID
		current.UsedWords = usedWords
		current.StartedAt = now
		current.LastGameStartedAt = now
		current.LastEliminationMessage = ""

		return current, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infof(
		"round started, room: %s, theme: %q, impostors: %d, players: %d",
		roomID, theme, numImpostors, len(committed.Players),
	)
	return committed, nil
}

// ResetRound clears the round-scoped state and returns the room to
// waiting. Cross-round memory (used words, last impostors, last
// starter) survives the reset.
func (m *Manager) ResetRound(ctx context.Context, roomID string) (*model.Room, error) {
	logger := logging.FromContext(ctx).Named("game.round")

	room, err := m.store.Mutate(roomID, func(current *model.Room) (*model.Room, error) {
		if current == nil {
			return nil, ErrRoomNotFound
		}

		current.ClearRound()
		current.Status = model.StatusWaiting
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("round reset, room: %s", roomID)
	return room, nil
}

func (m *Manager) validateStart(room *model.Room, numImpostors int) error {
	if len(room.Players) < minPlayers {
		return ErrNotEnoughPlayers
	}

	maxImpostors := len(room.Players) - 1
	if numImpostors < 1 || numImpostors > maxImpostors {
		return fmt.Errorf(
			"%w: between 1 and %d impostors allowed for %d players",
			ErrImpostorCount, maxImpostors, len(room.Players),
		)
	}

	if !room.LastGameStartedAt.IsZero() {
		elapsed := m.now().Sub(room.LastGameStartedAt)
		if elapsed < m.config.StartCooldown {
			remaining := int(math.Ceil((m.config.StartCooldown - elapsed).Seconds()))
			return fmt.Errorf(
				"%w: %d %s until a new round can start",
				ErrRateLimited, remaining, plural(remaining, "second", "seconds"),
			)
		}
	}

	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, roomdb.ErrRoomNotFound) {
		return ErrRoomNotFound
	}
	return err
}
