package service

import (
	"errors"
	"fmt"

	"lukechampine.com/frand"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/solver"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

var (
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrUnreachableState = errors.New("state is not reachable in play")
)

// Uniform returns a number in [0, 1).
type Uniform func() float64

// BotService plays the entropy-optimal strategy: a primary-optimal move drawn from the
// tie-break distribution.
type BotService interface {
	ChooseCell(state entity.State) (int, error)
	MakeTurn(match *tictactoe.Match) error
}

type botService struct {
	solver  *solver.Solver
	uniform Uniform
}

// NewBotService - uniform may be nil, in which case a CSPRNG is used.
func NewBotService(s *solver.Solver, uniform Uniform) BotService {
	if uniform == nil {
		uniform = frandUniform
	}

	return &botService{
		solver:  s,
		uniform: uniform,
	}
}

func (that *botService) ChooseCell(state entity.State) (int, error) {
	if _, ok := state.Outcome(); ok {
		return 0, ErrNoAvailableMoves
	}

	mover, ok := state.ToMove()
	if !ok {
		return 0, fmt.Errorf("%w:\n%s", ErrUnreachableState, state)
	}

	decision := that.solver.Analyze(state, mover).Decision

	return Sample(decision, that.uniform()), nil
}

func (that *botService) MakeTurn(match *tictactoe.Match) error {
	cell, err := that.ChooseCell(match.State)
	if err != nil {
		return fmt.Errorf("bot failed to choose cell: %w", err)
	}

	if err = match.MakeTurn(match.Turn, cell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}

// Sample - inverts the cumulative distribution at u, walking cells in ascending order.
// Rounding leftovers fall on the last cell.
func Sample(decision solver.Decision, u float64) int {
	cells := decision.Cells()

	acc := 0.0
	for _, cell := range cells {
		acc += decision.Probability(cell)
		if u < acc {
			return cell
		}
	}

	return cells[len(cells)-1]
}

func frandUniform() float64 {
	return float64(frand.Uint64n(1<<53)) / (1 << 53)
}
