package searcher

import "math"

// Outcomes read from a terminal state, from one player's perspective
const Win = 1.0
const Draw = 0.0
const Loss = -Win

type ucb struct {
	exploration float64
	logN        float64
}

func newUCB(exploration float64, N int) ucb {
	if N == 0 {
		panic("N cannot be 0")
	}
	return ucb{exploration: exploration, logN: math.Log(float64(N))}
}

// evaluate scores a child with q accumulated wins over n visits. On the bot's
// own turn the raw win rate is maximized; on the opponent's turn the child that
// is worst for the bot scores highest.
func (u ucb) evaluate(q float64, n int, ownTurn bool) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	rate := q / float64(n)
	if !ownTurn {
		rate = 1 - rate
	}
	// UCB = w/n + c*sqrt(ln(N)/n)
	return rate + u.exploration*math.Sqrt(u.logN/float64(n))
}
