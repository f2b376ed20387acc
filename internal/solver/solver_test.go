package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

func mustParse(t *testing.T, key string) entity.State {
	t.Helper()

	state, err := entity.ParseState(key)
	require.NoError(t, err)

	return state
}

func TestSolver_Terminal(t *testing.T) {
	t.Run("Win is +1 for the winner and -1 for the loser", func(t *testing.T) {
		// Given: X has completed the top row
		state := mustParse(t, "XXXOO....")
		solver := New(NewMemoryTable())

		// Then: values negate across perspectives and carry no secondary value
		assert.Equal(t, Evaluation{Primary: 1}, solver.Solve(state, entity.PlayerX))
		assert.Equal(t, Evaluation{Primary: -1}, solver.Solve(state, entity.PlayerO))
	})

	t.Run("Draw is zero for both sides", func(t *testing.T) {
		state := mustParse(t, "OXOOXXXOX")
		solver := New(NewMemoryTable())

		assert.Equal(t, Evaluation{}, solver.Solve(state, entity.PlayerX))
		assert.Equal(t, Evaluation{}, solver.Solve(state, entity.PlayerO))
	})

	t.Run("Terminal states are not memoized", func(t *testing.T) {
		table := NewMemoryTable()
		New(table).Solve(mustParse(t, "XXXOO...."), entity.PlayerO)

		assert.Zero(t, table.Len())
	})
}

func TestSolver_ForcedWin(t *testing.T) {
	// Given: X to move can win on 6, hold a draw on 7, or lose on 8
	state := mustParse(t, "XOXXOO...")
	solver := New(NewMemoryTable())

	// When: analyzing the node
	analysis := solver.Analyze(state, entity.PlayerX)

	// Then: each move has the expected primary value
	require.Len(t, analysis.Moves, 3)
	assert.InDelta(t, 1.0, analysis.Moves[0].Primary, 0)
	assert.InDelta(t, 0.0, analysis.Moves[1].Primary, 0)
	assert.InDelta(t, -1.0, analysis.Moves[2].Primary, 0)

	// Then: the win is a deterministic choice with no entropy
	assert.Equal(t, map[int]float64{6: 1}, analysis.Decision.Distribution)
	assert.Zero(t, analysis.Decision.Entropy)

	eval := solver.Solve(state, entity.PlayerX)
	assert.InDelta(t, 1.0, eval.Primary, 0)
	assert.InDelta(t, 0.0, eval.Secondary, 1e-15)

	// Then: a drawn or finished child does not turn into a signed zero
	assert.False(t, math.Signbit(analysis.Moves[1].Primary))
	assert.False(t, math.Signbit(analysis.Moves[0].Future))
	assert.False(t, math.Signbit(eval.Secondary))
}

func TestFromChild(t *testing.T) {
	mv := fromChild(3, Evaluation{Primary: 0, Secondary: 0})
	assert.False(t, math.Signbit(mv.Primary))
	assert.False(t, math.Signbit(mv.Future))

	mv = fromChild(3, Evaluation{Primary: 1, Secondary: -0.5})
	assert.Equal(t, MoveValue{Cell: 3, Primary: -1, Future: 0.5}, mv)
}

func TestSolver_Idempotent(t *testing.T) {
	// Given: a solver that already evaluated a position
	state := mustParse(t, "X...O....")
	solver := New(NewMemoryTable())
	first := solver.Solve(state, entity.PlayerX)
	hits := solver.Stats().MemoHits

	// When: solving it again with the same memo
	second := solver.Solve(state, entity.PlayerX)

	// Then: the memo answers with a bit-identical result
	assert.Equal(t, math.Float64bits(first.Primary), math.Float64bits(second.Primary))
	assert.Equal(t, math.Float64bits(first.Secondary), math.Float64bits(second.Secondary))
	assert.Equal(t, hits+1, solver.Stats().MemoHits)
}

func TestSolver_AnalyzeMatchesSolve(t *testing.T) {
	state := mustParse(t, "X........")

	analysis := New(NewMemoryTable()).Analyze(state, entity.PlayerO)
	eval := New(NewMemoryTable()).Solve(state, entity.PlayerO)

	assert.Equal(t, eval, analysis.Evaluation())
}

// The side to move is part of the game, so swapping movers on an unfinished board is not a
// negation; the law is checked on finished boards (TestSolver_Terminal) and across each
// parent/child edge here.
func TestSolver_NegationLaw(t *testing.T) {
	// Given: a position with O to move
	state := mustParse(t, "X...O...X")
	solver := New(NewMemoryTable())

	analysis := solver.Analyze(state, entity.PlayerO)

	// Then: every move's value is the child's value seen by X, negated
	for _, mv := range analysis.Moves {
		child := New(NewMemoryTable()).Solve(state.MustPlay(mv.Cell, entity.PlayerO), entity.PlayerX)
		assert.Equal(t, 0-child.Primary, mv.Primary, "cell %d", mv.Cell)
		assert.Equal(t, 0-child.Secondary, mv.Future, "cell %d", mv.Cell)
	}
}

func TestSolver_Panics(t *testing.T) {
	solver := New(NewMemoryTable())

	assert.Panics(t, func() { solver.Solve(entity.NewState(), entity.Player("Z")) })
	assert.Panics(t, func() { solver.Analyze(mustParse(t, "XXXOO...."), entity.PlayerO) })
}

func TestSolver_AllReachableStates(t *testing.T) {
	solver := New(NewMemoryTable())
	seen := make(map[entity.State]bool)

	var walk func(state entity.State, mover entity.Player)
	walk = func(state entity.State, mover entity.Player) {
		if seen[state] {
			return
		}
		seen[state] = true

		eval := solver.Solve(state, mover)

		// Then: the primary value is a game result
		require.Contains(t, []float64{-1, 0, 1}, eval.Primary, state.String())

		if _, ok := state.Outcome(); ok {
			return
		}

		analysis := solver.Analyze(state, mover)
		decision := analysis.Decision
		k := len(decision.Distribution)

		// Then: the distribution is valid over the tied moves only
		require.Positive(t, k)
		sum := 0.0
		for _, mv := range analysis.Moves {
			p := decision.Probability(mv.Cell)
			require.GreaterOrEqual(t, p, 0.0)
			if math.Abs(mv.Primary-decision.Primary) >= PrimaryTolerance {
				require.Zero(t, p)
			}
			sum += p
		}
		require.InDelta(t, 1.0, sum, 1e-6)

		// Then: the entropy stays within [0, ln k]
		require.GreaterOrEqual(t, decision.Entropy, 0.0)
		require.LessOrEqual(t, decision.Entropy, math.Log(float64(k))+1e-12)
		if k == 1 {
			require.Zero(t, decision.Entropy)
		}

		require.Equal(t, eval, analysis.Evaluation())

		for _, m := range state.LegalMoves() {
			walk(state.MustPlay(m, mover), mover.Opponent())
		}
	}

	walk(entity.NewState(), entity.PlayerX)

	assert.Len(t, seen, 5478)
}
