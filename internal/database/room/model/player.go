package model

import "time"

type Role string

const (
	RoleImpostor Role = "impostor"
	RoleCitizen  Role = "citizen"
)

// Player is one member of a room. The id is supplied by the client and
// trusted to be unique within the room.
type Player struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	IsHost        bool      `json:"isHost"`
	Role          Role      `json:"role,omitempty"`
	LastHeartbeat time.Time `json:"lastHeartbeat,omitempty"`
}

func (p Player) IsImpostor() bool {
	return p.Role == RoleImpostor
}
