package game

// Player identifies a side. Players are numbered 1 and 2; 0 marks an unclaimed
// region and 3 a region that was filled without a winner.
type Player int

const (
	Unclaimed Player = 0
	Drawn     Player = 3
)

// Opponent returns the other player of a two-player game.
func (p Player) Opponent() Player {
	return 3 - p
}

// Region identifies a sub-board of a nested board.
type Region struct {
	R, C int
}

// Board is the rules contract the searcher plays through. States are treated as
// immutable values: NextState always returns a new state and never mutates its
// argument.
type Board[S any, A comparable] interface {
	CurrentPlayer(state S) Player
	// LegalActions is non-empty unless the state is terminal.
	LegalActions(state S) []A
	NextState(state S, action A) S
	IsEnded(state S) bool
	// PointsValues returns each player's outcome in {-1, 0, 1}; ok is false
	// while the game is still running.
	PointsValues(state S) (points map[Player]float64, ok bool)
	// OwnedRegions reports who controls each sub-board.
	OwnedRegions(state S) map[Region]Player
	// RegionOf returns the sub-board an action is played into.
	RegionOf(action A) Region
}
