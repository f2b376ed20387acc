package entity

// Player is the mark a side places on the board.
type Player string

const (
	PlayerX Player = "X"
	PlayerO Player = "O"
)

// Opponent - returns the other side. It panics on an unknown mark.
func (that Player) Opponent() Player {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		panic("entity: opponent of invalid player " + string(that))
	}
}

func (that Player) Valid() bool {
	return that == PlayerX || that == PlayerO
}

func (that Player) String() string {
	return string(that)
}
