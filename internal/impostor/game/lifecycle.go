package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	roomdb "github.com/impostor-games/impostor/internal/database/room/database"
	"github.com/impostor-games/impostor/internal/database/room/model"
	"github.com/impostor-games/impostor/internal/hashutil"
	"github.com/impostor-games/impostor/internal/logging"
)

const roomCodeLen = 6

// CreateRoom allocates an empty room with a fresh code, the state a
// lobby visit produces before anyone joins.
func (m *Manager) CreateRoom(ctx context.Context) (*model.Room, error) {
	logger := logging.FromContext(ctx).Named("game.lifecycle")

	for attempt := 0; attempt < 3; attempt++ {
		code := hashutil.ShortCode(roomCodeLen)
		room, err := m.store.Mutate(code, func(current *model.Room) (*model.Room, error) {
			if current != nil {
				return nil, fmt.Errorf("%w: room code taken", roomdb.ErrRollback)
			}
			return &model.Room{
				ID:        code,
				Status:    model.StatusWaiting,
				UsedWords: []string{},
				CreatedAt: m.now(),
			}, nil
		})
		if err != nil {
			if errors.Is(err, roomdb.ErrRollback) {
				continue
			}
			return nil, err
		}

		logger.Infof("room created, code: %s", code)
		return room, nil
	}

	return nil, fmt.Errorf("could not allocate an unused room code")
}

// Join appends a player to the room, creating the room when it does not
// exist yet. The first member of a room becomes its host. Player ids
// are client-generated and trusted; a missing id gets a server uuid.
func (m *Manager) Join(ctx context.Context, roomID, playerID, name string) (*model.Room, model.Player, error) {
	logger := logging.FromContext(ctx).Named("game.lifecycle")

	if playerID == "" {
		playerID = uuid.NewString()
	}

	player := model.Player{
		ID:            playerID,
		Name:          name,
		LastHeartbeat: m.now(),
	}

	room, err := m.store.Mutate(roomID, func(current *model.Room) (*model.Room, error) {
		if current == nil {
			player.IsHost = true
			return &model.Room{
				ID:        roomID,
				Players:   []model.Player{player},
				HostID:    player.ID,
				Status:    model.StatusWaiting,
				UsedWords: []string{},
				CreatedAt: m.now(),
			}, nil
		}

		if _, ok := current.FindPlayer(playerID); ok {
			// rejoin with a known id is a no-op
			return current, nil
		}

		if len(current.Players) == 0 {
			player.IsHost = true
			current.HostID = player.ID
		}
		current.Players = append(current.Players, player)
		return current, nil
	})
	if err != nil {
		return nil, model.Player{}, err
	}

	logger.Infof("player %s joined room %s", playerID, roomID)
	return room, player, nil
}

// Remove takes a player out of the room. The self-leave path is
// rejected while a round is active; the host path may remove players
// mid-round and re-evaluates the win condition. Removing the last
// player deletes the room document entirely.
func (m *Manager) Remove(ctx context.Context, roomID, callerID, targetID string) (*model.Room, error) {
	logger := logging.FromContext(ctx).Named("game.lifecycle")

	room, err := m.store.Mutate(roomID, func(current *model.Room) (*model.Room, error) {
		if current == nil {
			return nil, ErrRoomNotFound
		}

		if callerID != targetID && callerID != current.HostID {
			return nil, ErrNotHost
		}
		if callerID == targetID && callerID != current.HostID && current.RoundActive() {
			return nil, ErrLeaveDuringGame
		}

		if _, ok := current.FindPlayer(targetID); !ok {
			return nil, ErrPlayerNotFound
		}

		return dropPlayer(current, targetID), nil
	})
	if err != nil {
		return nil, err
	}

	if room == nil {
		logger.Infof("room %s deleted, last player %s left", roomID, targetID)
	} else {
		logger.Infof("player %s removed from room %s", targetID, roomID)
	}
	return room, nil
}

// Heartbeat records the caller's liveness. With PlayerTTL configured it
// also evicts players that have been silent past the TTL; the default
// configuration performs no eviction.
func (m *Manager) Heartbeat(ctx context.Context, roomID, playerID string) (*model.Room, error) {
	logger := logging.FromContext(ctx).Named("game.lifecycle")

	return m.store.Mutate(roomID, func(current *model.Room) (*model.Room, error) {
		if current == nil {
			return nil, ErrRoomNotFound
		}

		found := false
		now := m.now()
		for i := range current.Players {
			if current.Players[i].ID == playerID {
				current.Players[i].LastHeartbeat = now
				found = true
				break
			}
		}
		if !found {
			return nil, ErrPlayerNotFound
		}

		if m.config.PlayerTTL <= 0 {
			return current, nil
		}

		var stale []string
		for _, p := range current.Players {
			if p.ID == playerID {
				continue
			}
			if !p.LastHeartbeat.IsZero() && now.Sub(p.LastHeartbeat) > m.config.PlayerTTL {
				stale = append(stale, p.ID)
			}
		}
		if len(stale) == 0 {
			return current, nil
		}

		for _, id := range stale {
			logger.Warnf("evicting inactive player %s from room %s", id, roomID)
			unlink(current, id)
		}
		return settle(current), nil
	})
}

// dropPlayer removes one player and settles the aftermath. Returning
// nil deletes the room.
func dropPlayer(room *model.Room, playerID string) *model.Room {
	unlink(room, playerID)
	return settle(room)
}

// unlink erases every trace of a player from the room: membership,
// dead flag, vote request, ballots cast by or against them, turn slot,
// and the host seat (first remaining player inherits it).
func unlink(room *model.Room, playerID string) {
	if _, ok := room.FindPlayer(playerID); !ok {
		return
	}

	players := room.Players[:0]
	for _, p := range room.Players {
		if p.ID != playerID {
			players = append(players, p)
		}
	}
	room.Players = players

	room.DeadPlayerIDs = removeString(room.DeadPlayerIDs, playerID)
	room.VoteRequests = removeString(room.VoteRequests, playerID)
	room.TurnOrder = removeString(room.TurnOrder, playerID)
	if room.Votes != nil {
		delete(room.Votes, playerID)
		for voter, targetID := range room.Votes {
			if targetID == playerID {
				delete(room.Votes, voter)
			}
		}
	}

	if room.HostID == playerID && len(room.Players) > 0 {
		room.HostID = room.Players[0].ID
	}
}

// settle re-evaluates the room after removals: the last alive impostor
// leaving hands citizens the win immediately, dropping below the player
// minimum aborts the round, and an emptied room is deleted (nil).
func settle(room *model.Room) *model.Room {
	if len(room.Players) == 0 {
		return nil
	}

	if room.RoundActive() {
		if room.AliveImpostors() == 0 {
			room.Status = model.StatusFinished
			room.Winner = model.WinnerCitizens
		} else if len(room.Players) < minPlayers {
			room.ClearRound()
			room.Status = model.StatusAborted
			room.LastEliminationMessage = abortMessage()
		}
	}

	return room
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
