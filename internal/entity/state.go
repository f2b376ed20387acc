package entity

import (
	"errors"
	"fmt"
	"strings"
)

// BoardSize is the number of cells on the board.
const BoardSize = 9

// Cell holds the mark occupying a square, or Empty.
type Cell uint8

const (
	Empty Cell = iota
	CellX
	CellO
)

var (
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidKey   = errors.New("invalid state key")
)

// CellOf - returns the cell value owned by player.
func CellOf(player Player) Cell {
	switch player {
	case PlayerX:
		return CellX
	case PlayerO:
		return CellO
	default:
		panic("entity: cell of invalid player " + string(player))
	}
}

// Owner - returns the player who owns the cell, false when the cell is empty.
func (that Cell) Owner() (Player, bool) {
	switch that {
	case CellX:
		return PlayerX, true
	case CellO:
		return PlayerO, true
	default:
		return "", false
	}
}

// State is an immutable board position. It is comparable, so two positions reached in a
// different move order are equal and share one map entry.
type State struct {
	cells [BoardSize]Cell
}

// NewState - returns the empty board.
func NewState() State {
	return State{}
}

// StateOf - builds a state from raw cells. It does not check reachability.
func StateOf(cells [BoardSize]Cell) State {
	return State{cells: cells}
}

func (that State) Cells() [BoardSize]Cell {
	return that.cells
}

func (that State) At(cell int) Cell {
	return that.cells[cell]
}

// Play - returns a new state with player's mark on cell.
func (that State) Play(cell int, player Player) (State, error) {
	if cell < 0 || cell >= BoardSize {
		return that, fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.cells[cell] != Empty {
		return that, fmt.Errorf("%w: cell %d", ErrCellOccupied, cell)
	}

	next := that
	next.cells[cell] = CellOf(player)

	return next, nil
}

// MustPlay - like Play, but a bad move is a broken invariant and panics.
func (that State) MustPlay(cell int, player Player) State {
	next, err := that.Play(cell, player)
	if err != nil {
		panic(fmt.Errorf("entity: illegal move on\n%s: %w", that, err))
	}

	return next
}

// LegalMoves - returns the empty cells in ascending order.
func (that State) LegalMoves() []int {
	moves := make([]int, 0, BoardSize)
	for i, cell := range that.cells {
		if cell == Empty {
			moves = append(moves, i)
		}
	}

	return moves
}

// ToMove - derives the side to move from mark counts, X always moving first.
func (that State) ToMove() (Player, bool) {
	var x, o int
	for _, cell := range that.cells {
		switch cell {
		case CellX:
			x++
		case CellO:
			o++
		}
	}

	switch x - o {
	case 0:
		return PlayerX, true
	case 1:
		return PlayerO, true
	default:
		return "", false
	}
}

// Key - renders the state as 9 characters: X, O or '.' for empty.
func (that State) Key() string {
	var b strings.Builder
	b.Grow(BoardSize)

	for _, cell := range that.cells {
		b.WriteByte(cellRune(cell))
	}

	return b.String()
}

// ParseState - the inverse of Key.
func ParseState(key string) (State, error) {
	if len(key) != BoardSize {
		return State{}, fmt.Errorf("%w: %q has length %d", ErrInvalidKey, key, len(key))
	}

	var state State
	for i := range BoardSize {
		switch key[i] {
		case '.':
			state.cells[i] = Empty
		case 'X':
			state.cells[i] = CellX
		case 'O':
			state.cells[i] = CellO
		default:
			return State{}, fmt.Errorf("%w: %q at %d", ErrInvalidKey, key[i], i)
		}
	}

	return state, nil
}

func (that State) String() string {
	key := that.Key()

	return key[0:3] + "\n" + key[3:6] + "\n" + key[6:9]
}

func cellRune(cell Cell) byte {
	switch cell {
	case CellX:
		return 'X'
	case CellO:
		return 'O'
	default:
		return '.'
	}
}
