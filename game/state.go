package game

import "strings"

// State is an Ultimate Tic-Tac-Toe position. It only holds arrays, so copies
// never share memory and every transition yields an independent value.
type State struct {
	cells  [3][3][3][3]Player // Indexed by R, C, Row, Col
	boxes  [3][3]Player       // Sub-board ownership
	target Region             // Sub-board selected by the previous move
	free   bool               // Mover may play in any undecided sub-board
	player Player
	winner Player // Unclaimed while running, Drawn after a draw
	ended  bool
}

// NewState returns the empty starting position with player 1 to move.
func NewState() State {
	return State{free: true, player: 1}
}

// Owner returns the owner of a sub-board.
func (s State) Owner(region Region) Player {
	return s.boxes[region.R][region.C]
}

// Cell returns the mark on a cell, Unclaimed if empty.
func (s State) Cell(a Action) Player {
	return s.cells[a.R][a.C][a.Row][a.Col]
}

// Winner returns the winning player, Drawn for a draw, or Unclaimed while the
// game is running.
func (s State) Winner() Player {
	return s.winner
}

func (s State) legalActions() []Action {
	if s.ended {
		return nil
	}

	actions := make([]Action, 0, 9)
	if !s.free {
		R, C := s.target.R, s.target.C
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				if s.cells[R][C][r][c] == Unclaimed {
					actions = append(actions, Action{R: R, C: C, Row: r, Col: c})
				}
			}
		}
		return actions
	}

	for R := 0; R < 3; R++ {
		for C := 0; C < 3; C++ {
			if s.boxes[R][C] != Unclaimed {
				continue
			}
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					if s.cells[R][C][r][c] == Unclaimed {
						actions = append(actions, Action{R: R, C: C, Row: r, Col: c})
					}
				}
			}
		}
	}
	return actions
}

func (s State) isLegal(a Action) bool {
	if s.ended || !a.valid() {
		return false
	}
	if s.boxes[a.R][a.C] != Unclaimed || s.cells[a.R][a.C][a.Row][a.Col] != Unclaimed {
		return false
	}
	return s.free || (s.target == Region{R: a.R, C: a.C})
}

// play assumes a is legal.
func (s State) play(a Action) State {
	mover := s.player
	s.cells[a.R][a.C][a.Row][a.Col] = mover

	box := s.cells[a.R][a.C]
	if hasLine(box, mover) {
		s.boxes[a.R][a.C] = mover
	} else if isFull(box) {
		s.boxes[a.R][a.C] = Drawn
	}

	switch {
	case hasLine(s.boxes, mover):
		s.ended = true
		s.winner = mover
	case !hasUnclaimed(s.boxes):
		s.ended = true
		s.winner = Drawn
	}

	s.target = Region{R: a.Row, C: a.Col}
	s.free = s.boxes[a.Row][a.Col] != Unclaimed
	s.player = mover.Opponent()
	return s
}

func hasLine(grid [3][3]Player, p Player) bool {
	for i := 0; i < 3; i++ {
		if grid[i][0] == p && grid[i][1] == p && grid[i][2] == p {
			return true
		}
		if grid[0][i] == p && grid[1][i] == p && grid[2][i] == p {
			return true
		}
	}
	if grid[0][0] == p && grid[1][1] == p && grid[2][2] == p {
		return true
	}
	return grid[0][2] == p && grid[1][1] == p && grid[2][0] == p
}

func isFull(grid [3][3]Player) bool {
	return !hasUnclaimed(grid)
}

func hasUnclaimed(grid [3][3]Player) bool {
	for _, row := range grid {
		for _, v := range row {
			if v == Unclaimed {
				return true
			}
		}
	}
	return false
}

func playerMark(p Player) string {
	switch p {
	case 1:
		return "x"
	case 2:
		return "o"
	case Drawn:
		return "#"
	default:
		return "."
	}
}

// String renders the 9x9 grid with sub-boards separated by bars.
func (s State) String() string {
	var b strings.Builder
	for i := 0; i < 9; i++ {
		if i > 0 && i%3 == 0 {
			b.WriteString("------+-------+------\n")
		}
		for j := 0; j < 9; j++ {
			if j > 0 && j%3 == 0 {
				b.WriteString("| ")
			}
			b.WriteString(playerMark(s.cells[i/3][j/3][i%3][j%3]))
			if j < 8 {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
