package model

import "time"

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusVoting   Status = "voting"
	StatusFinished Status = "finished"
	StatusAborted  Status = "aborted"
)

type Winner string

const (
	WinnerCitizens  Winner = "citizens"
	WinnerImpostors Winner = "impostors"
)

// Room is the authoritative state of one game session. It is the only
// shared resource: every mutation reads it, computes a successor and
// commits it inside a single store transaction.
//
// The json field names match the document schema the web clients render
// from, so a serialized room is the full client snapshot.
type Room struct {
	ID      string   `json:"id"`
	Players []Player `json:"players"`
	HostID  string   `json:"hostId,omitempty"`
	Status  Status   `json:"status"`

	// Kept for backward compatibility, always status != waiting while a
	// round is live. Normalize keeps it consistent.
	GameStarted bool `json:"gameStarted"`

	Theme      string `json:"theme,omitempty"`
	SecretWord string `json:"secretWord,omitempty"`
	Category   string `json:"category,omitempty"`

	NumImpostors int `json:"numImpostors,omitempty"`
	MaxGuesses   int `json:"maxGuesses,omitempty"`
	WrongGuesses int `json:"wrongGuesses,omitempty"`

	DeadPlayerIDs []string          `json:"deadPlayerIds,omitempty"`
	VoteRequests  []string          `json:"voteRequests,omitempty"`
	Votes         map[string]string `json:"votes,omitempty"`
	Winner        Winner            `json:"winner,omitempty"`
	TurnOrder     []string          `json:"turnOrder,omitempty"`

	// Cross-round memory, survives round resets.
	LastImpostorIDs []string `json:"lastImpostorIds,omitempty"`
	LastStarterID   string   `json:"lastStarterId,omitempty"`
	UsedWords       []string `json:"usedWords"`

	LastGameStartedAt      time.Time `json:"lastGameStartedAt,omitempty"`
	StartedAt              time.Time `json:"startedAt,omitempty"`
	CreatedAt              time.Time `json:"createdAt,omitempty"`
	LastEliminationMessage string    `json:"lastEliminationMessage,omitempty"`
}

func (r *Room) FindPlayer(id string) (Player, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

func (r *Room) IsDead(id string) bool {
	for _, dead := range r.DeadPlayerIDs {
		if dead == id {
			return true
		}
	}
	return false
}

// AlivePlayers returns the players not flagged dead, in list order.
func (r *Room) AlivePlayers() []Player {
	alive := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !r.IsDead(p.ID) {
			alive = append(alive, p)
		}
	}
	return alive
}

func (r *Room) AliveCount() int {
	return len(r.AlivePlayers())
}

// AliveImpostors counts impostors that have not been eliminated.
func (r *Room) AliveImpostors() int {
	var n int
	for _, p := range r.Players {
		if p.IsImpostor() && !r.IsDead(p.ID) {
			n++
		}
	}
	return n
}

func (r *Room) HasVoteRequest(id string) bool {
	for _, req := range r.VoteRequests {
		if req == id {
			return true
		}
	}
	return false
}

// RoundActive reports whether a round is in progress.
func (r *Room) RoundActive() bool {
	return r.Status == StatusPlaying || r.Status == StatusVoting
}

// Normalize restores the denormalized fields: gameStarted tracks the
// status and exactly the hostId player carries the isHost flag.
func (r *Room) Normalize() {
	r.GameStarted = r.Status == StatusPlaying || r.Status == StatusVoting || r.Status == StatusFinished

	if len(r.Players) == 0 {
		r.HostID = ""
		return
	}

	if _, ok := r.FindPlayer(r.HostID); !ok {
		r.HostID = r.Players[0].ID
	}
	for i := range r.Players {
		r.Players[i].IsHost = r.Players[i].ID == r.HostID
	}
}

// ClearRound drops every round-scoped field and strips roles, keeping
// the players and the cross-round memory.
func (r *Room) ClearRound() {
	r.Theme = ""
	r.SecretWord = ""
	r.Category = ""
	r.NumImpostors = 0
	r.MaxGuesses = 0
	r.WrongGuesses = 0
	r.DeadPlayerIDs = nil
	r.VoteRequests = nil
	r.Votes = nil
	r.Winner = ""
	r.TurnOrder = nil
	r.StartedAt = time.Time{}
	r.LastEliminationMessage = ""
	for i := range r.Players {
		r.Players[i].Role = ""
	}
}
