// meta/meta.go
package meta

// DEFAULT_ITERATIONS defines the number of simulations per search.
const DEFAULT_ITERATIONS = 100

// DEFAULT_EXPLORATION defines the UCB exploration constant.
const DEFAULT_EXPLORATION = 2.0

// MAX_TURNS bounds a match: an Ultimate Tic-Tac-Toe game has at most 81 moves.
const MAX_TURNS = 81

// DEFAULT_GAMES defines the number of games per experiment matchup.
const DEFAULT_GAMES = 10
