package game

import "fmt"

// Validation errors are surfaced to the caller as user-facing messages
// and never retried server-side.
var (
	ErrRoomNotFound     = fmt.Errorf("room not found")
	ErrPlayerNotFound   = fmt.Errorf("player not found in this room")
	ErrNotEnoughPlayers = fmt.Errorf("a minimum of 3 players is required")
	ErrImpostorCount    = fmt.Errorf("impostor count out of range")
	ErrThemeRequired    = fmt.Errorf("a theme is required")
	ErrRateLimited      = fmt.Errorf("wait before starting a new round")
	ErrLeaveDuringGame  = fmt.Errorf("you cannot leave while a round is in progress")
	ErrNotHost          = fmt.Errorf("only the host can do that")
	ErrVoterEliminated  = fmt.Errorf("eliminated players cannot vote")
	ErrTargetEliminated = fmt.Errorf("you cannot vote for an eliminated player")
	ErrAlreadyRequested = fmt.Errorf("you already requested a vote")
	ErrNotPlaying       = fmt.Errorf("no round in progress")
	ErrNotVoting        = fmt.Errorf("no vote in progress")
	ErrNoBallots        = fmt.Errorf("cannot end a vote before anyone has voted")

	// ErrOracle wraps a failed secret-word acquisition. The round start
	// aborts with no partial state committed.
	ErrOracle = fmt.Errorf("secret word generation failed")

	// ErrInvariant marks a broken internal invariant. It signals an
	// implementation bug, is logged as critical and never swallowed.
	ErrInvariant = fmt.Errorf("internal state invariant violated")
)
