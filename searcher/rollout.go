package searcher

import "fmt"

// rollout plays state out to the end with the capture heuristic and returns
// the terminal state.
func (m *MCTS[S, A]) rollout(state S) (S, error) {
	moves := 0
	for !m.board.IsEnded(state) {
		action, err := m.pickRolloutAction(state)
		if err != nil {
			return state, err
		}
		state = m.board.NextState(state, action)
		moves++
	}
	m.metrics.AddPlayout(moves)
	return state, nil
}

// pickRolloutAction takes a winning action or a sub-board capture as soon as one
// is found, skips actions that lose or hand a sub-board to the opponent, and
// otherwise picks uniformly among the remaining actions.
func (m *MCTS[S, A]) pickRolloutAction(state S) (A, error) {
	mover := m.board.CurrentPlayer(state)
	before := m.board.OwnedRegions(state)

	actions := m.board.LegalActions(state)
	neutral := make([]A, 0, len(actions))
	for _, action := range actions {
		next := m.board.NextState(state, action)

		if points, ok := m.board.PointsValues(next); ok {
			switch points[mover] {
			case Win:
				return action, nil
			case Loss:
				continue
			}
		}

		region := m.board.RegionOf(action)
		if owner := m.board.OwnedRegions(next)[region]; owner != before[region] {
			switch owner {
			case mover:
				return action, nil
			case mover.Opponent():
				continue
			}
		}

		neutral = append(neutral, action)
	}

	if len(neutral) == 0 {
		var none A
		return none, fmt.Errorf("%w: %d legal actions for player %d", ErrRolloutExhausted, len(actions), mover)
	}
	return neutral[m.rng.Intn(len(neutral))], nil
}
