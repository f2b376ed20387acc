package solver

import (
	"fmt"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// Stats counts the work done by a solver.
type Stats struct {
	Expanded  uint64 `json:"expanded"`
	MemoHits  uint64 `json:"memo_hits"`
	Terminals uint64 `json:"terminals"`
}

// Solver evaluates positions by exhaustive negamax search. Both values are from the
// perspective of the side to move.
type Solver struct {
	table Table

	expanded  atomic.Uint64
	memoHits  atomic.Uint64
	terminals atomic.Uint64
}

// New - returns a solver memoizing into table. The table must be safe for concurrent use if
// the solver is.
func New(table Table) *Solver {
	return &Solver{table: table}
}

// Analysis is a single node unrolled: the value of every legal move and the tie-break.
type Analysis struct {
	State    entity.State
	Mover    entity.Player
	Moves    []MoveValue
	Decision Decision
}

func (that Analysis) Evaluation() Evaluation {
	return Evaluation{Primary: that.Decision.Primary, Secondary: that.Decision.Secondary()}
}

// Solve - returns (primary, secondary) for mover on state.
func (that *Solver) Solve(state entity.State, mover entity.Player) Evaluation {
	if !mover.Valid() {
		panic(fmt.Sprintf("solver: invalid mover %q", mover))
	}

	if outcome, ok := state.Outcome(); ok {
		that.terminals.Add(1)
		return terminalValue(outcome, mover)
	}

	if eval, ok := that.table.Lookup(state); ok {
		that.memoHits.Add(1)
		return eval
	}

	eval := that.expand(state, mover).Evaluation()
	that.table.Store(state, eval)

	return eval
}

// Analyze - evaluates every legal move of an ongoing state and builds its tie-break.
func (that *Solver) Analyze(state entity.State, mover entity.Player) Analysis {
	if !mover.Valid() {
		panic(fmt.Sprintf("solver: invalid mover %q", mover))
	}

	if outcome, ok := state.Outcome(); ok {
		panic(fmt.Sprintf("solver: analyze on finished game (%s)\n%s", outcome, state))
	}

	return that.expand(state, mover)
}

func (that *Solver) expand(state entity.State, mover entity.Player) Analysis {
	that.expanded.Add(1)

	legal := state.LegalMoves()
	if len(legal) == 0 {
		// a full board is always a draw, so this is a broken outcome check
		panic(fmt.Sprintf("solver: ongoing state without moves\n%s", state))
	}

	moves := make([]MoveValue, 0, len(legal))
	for _, cell := range legal {
		child := that.Solve(state.MustPlay(cell, mover), mover.Opponent())
		moves = append(moves, fromChild(cell, child))
	}

	return Analysis{
		State:    state,
		Mover:    mover,
		Moves:    moves,
		Decision: TieBreak(moves),
	}
}

func (that *Solver) Stats() Stats {
	return Stats{
		Expanded:  that.expanded.Load(),
		MemoHits:  that.memoHits.Load(),
		Terminals: that.terminals.Load(),
	}
}

// fromChild - the child's evaluation seen from the parent. Subtracting from zero keeps a
// drawn child at +0 instead of -0.
func fromChild(cell int, child Evaluation) MoveValue {
	return MoveValue{
		Cell:    cell,
		Primary: 0 - child.Primary,
		Future:  0 - child.Secondary,
	}
}

func terminalValue(outcome entity.Outcome, mover entity.Player) Evaluation {
	if outcome.Kind == entity.Win {
		if outcome.Winner == mover {
			return Evaluation{Primary: 1}
		}
		return Evaluation{Primary: -1}
	}

	return Evaluation{}
}
