package game

import (
	"context"
	"fmt"

	"github.com/impostor-games/impostor/internal/database/room/model"
	"github.com/impostor-games/impostor/internal/logging"
)

// RequestVote records a player's wish to vote. Once strictly more than
// half of the alive players (rounded up) have requested, the room moves
// to voting and previous ballots are cleared.
func (m *Manager) RequestVote(ctx context.Context, roomID, playerID string) (*model.Room, error) {
	logger := logging.FromContext(ctx).Named("game.voting")

	return m.store.Mutate(roomID, func(current *model.Room) (*model.Room, error) {
		if current == nil {
			return nil, ErrRoomNotFound
		}
		if current.Status != model.StatusPlaying {
			return nil, ErrNotPlaying
		}
		if _, ok := current.FindPlayer(playerID); !ok {
			return nil, ErrPlayerNotFound
		}
		if current.IsDead(playerID) {
			return nil, ErrVoterEliminated
		}
		if current.HasVoteRequest(playerID) {
			return nil, ErrAlreadyRequested
		}

		current.VoteRequests = append(current.VoteRequests, playerID)

		quorum := (current.AliveCount() + 1) / 2 // ceil(alive/2)
		if len(current.VoteRequests) > quorum {
			logger.Infof("vote quorum reached in room %s (%d requests)", roomID, len(current.VoteRequests))
			current.Status = model.StatusVoting
			current.Votes = map[string]string{}
		}

		return current, nil
	})
}

// SubmitVote records one ballot, last write per voter wins. When every
// alive player has voted the ballots resolve immediately.
func (m *Manager) SubmitVote(ctx context.Context, roomID, voterID, targetID string) (*model.Room, error) {
	logger := logging.FromContext(ctx).Named("game.voting")

	return m.store.Mutate(roomID, func(current *model.Room) (*model.Room, error) {
		if current == nil {
			return nil, ErrRoomNotFound
		}
		if current.Status != model.StatusVoting {
			return nil, ErrNotVoting
		}
		if _, ok := current.FindPlayer(voterID); !ok {
			return nil, ErrPlayerNotFound
		}
		if _, ok := current.FindPlayer(targetID); !ok {
			return nil, ErrPlayerNotFound
		}
		if current.IsDead(voterID) {
			return nil, ErrVoterEliminated
		}
		if current.IsDead(targetID) {
			return nil, ErrTargetEliminated
		}

		if current.Votes == nil {
			current.Votes = map[string]string{}
		}
		current.Votes[voterID] = targetID

		if len(current.Votes) >= current.AliveCount() {
			logger.Infof("all %d alive players voted in room %s, resolving", current.AliveCount(), roomID)
			if err := resolveVotes(current); err != nil {
				return nil, err
			}
		}

		return current, nil
	})
}

// ForceEndVoting lets the host resolve with the ballots cast so far.
// Rejected with no ballots: there is nothing to resolve.
func (m *Manager) ForceEndVoting(ctx context.Context, roomID, hostID string) (*model.Room, error) {
	logger := logging.FromContext(ctx).Named("game.voting")

	return m.store.Mutate(roomID, func(current *model.Room) (*model.Room, error) {
		if current == nil {
			return nil, ErrRoomNotFound
		}
		if current.HostID != hostID {
			return nil, ErrNotHost
		}
		if current.Status != model.StatusVoting {
			return nil, ErrNotVoting
		}
		if len(current.Votes) == 0 {
			return nil, ErrNoBallots
		}

		logger.Infof("host forced vote resolution in room %s with %d ballots", roomID, len(current.Votes))
		if err := resolveVotes(current); err != nil {
			return nil, err
		}

		return current, nil
	})
}

// resolveVotes tallies the ballots and applies the outcome. The most
// voted target needs a strict plurality; a tie or zero votes eliminates
// nobody and play continues. Resolution is deterministic in its ballot
// input.
func resolveVotes(room *model.Room) error {
	counts := map[string]int{}
	for _, targetID := range room.Votes {
		counts[targetID]++
	}

	mostVotedID := ""
	maxVotes := 0
	tied := false
	for targetID, n := range counts {
		switch {
		case n > maxVotes:
			maxVotes = n
			mostVotedID = targetID
			tied = false
		case n == maxVotes:
			tied = true
		}
	}

	if mostVotedID == "" || maxVotes == 0 || tied {
		room.Status = model.StatusPlaying
		room.Votes = nil
		room.VoteRequests = nil
		return nil
	}

	mostVoted, ok := room.FindPlayer(mostVotedID)
	if !ok {
		return fmt.Errorf("%w: voted player %s not in room", ErrInvariant, mostVotedID)
	}

	if mostVoted.IsImpostor() {
		room.Status = model.StatusFinished
		room.Winner = model.WinnerCitizens
		room.VoteRequests = nil
		return nil
	}

	// an innocent was eliminated
	room.DeadPlayerIDs = append(room.DeadPlayerIDs, mostVotedID)
	room.WrongGuesses++

	if room.WrongGuesses >= room.MaxGuesses {
		room.Status = model.StatusFinished
		room.Winner = model.WinnerImpostors
		room.VoteRequests = nil
		return nil
	}

	room.Status = model.StatusPlaying
	room.Votes = nil
	room.VoteRequests = nil
	room.LastEliminationMessage = eliminationMessage(mostVoted.Name, room.MaxGuesses-room.WrongGuesses)
	return nil
}
