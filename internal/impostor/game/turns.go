package game

import (
	"github.com/impostor-games/impostor/internal/database/room/model"
	"github.com/impostor-games/impostor/internal/impostor/shuffle"
)

// turnOrder derives the speaking order for a round. When the naive
// shuffle would hand the first turn to the previous round's starter, the
// first entry rotates to the end instead of reshuffling.
func turnOrder(players []model.Player, lastStarterID string) (order []string, starterID string) {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}

	order = shuffle.Order(ids)
	if len(order) == 0 {
		return order, ""
	}

	if len(order) >= 2 && order[0] == lastStarterID {
		order = append(order[1:], order[0])
	}

	return order, order[0]
}
