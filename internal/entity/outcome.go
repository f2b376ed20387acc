package entity

// OutcomeKind tells a won game from a drawn one.
type OutcomeKind uint8

const (
	Win OutcomeKind = iota + 1
	Draw
)

// Outcome is the result of a finished game. Winner is set only for Win.
type Outcome struct {
	Kind   OutcomeKind
	Winner Player
}

// WinCombos are the 8 lines of the board: rows, columns, then diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Outcome - returns the result of the game, or false while it is still going on.
func (that State) Outcome() (Outcome, bool) {
	for _, combo := range WinCombos {
		a, b, c := that.cells[combo[0]], that.cells[combo[1]], that.cells[combo[2]]
		if a != Empty && a == b && b == c {
			winner, _ := a.Owner()
			return Outcome{Kind: Win, Winner: winner}, true
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range that.cells {
		if cell == Empty {
			return Outcome{}, false
		}
	}

	return Outcome{Kind: Draw}, true
}

func (that Outcome) String() string {
	switch that.Kind {
	case Win:
		return "win " + string(that.Winner)
	case Draw:
		return "draw"
	default:
		return "none"
	}
}
