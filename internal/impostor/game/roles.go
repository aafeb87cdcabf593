package game

import (
	"fmt"

	"github.com/impostor-games/impostor/internal/database/room/model"
	"github.com/impostor-games/impostor/internal/impostor/shuffle"
)

// assignRoles deals numImpostors impostor roles over the players,
// avoiding the exact impostor set of the previous round when
// alternatives exist. The randomness lives in the shuffled role array;
// roles map onto players by index.
func assignRoles(players []model.Player, numImpostors int, lastImpostorIDs []string) ([]model.Player, []string, error) {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}

	marks := shuffle.DealAvoiding(ids, numImpostors, lastImpostorIDs)
	if err := shuffle.Verify(marks, numImpostors); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvariant, err)
	}

	assigned := make([]model.Player, len(players))
	impostorIDs := make([]string, 0, numImpostors)
	for i, p := range players {
		p.Role = model.RoleCitizen
		if marks[i] {
			p.Role = model.RoleImpostor
			impostorIDs = append(impostorIDs, p.ID)
		}
		assigned[i] = p
	}

	return assigned, impostorIDs, nil
}
