package solver

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// PrimaryTolerance is the absolute distance under which two primary values are tied.
	PrimaryTolerance = 1e-9
	// SoftmaxFloor guards the softmax normalizer and drops negligible terms from the entropy.
	SoftmaxFloor = 1e-9
)

// MoveValue is one move seen from the side to move: the primary value of playing it and the
// secondary value of the position it leads to.
type MoveValue struct {
	Cell    int
	Primary float64
	Future  float64
}

// Decision is the tie-break over the primary-optimal moves of a node.
type Decision struct {
	Primary        float64
	Distribution   map[int]float64
	Entropy        float64
	ExpectedFuture float64
}

// Secondary - the node's secondary value: choice entropy plus expected future.
func (that Decision) Secondary() float64 {
	return that.Entropy + that.ExpectedFuture
}

// Probability - returns 0 for moves outside the optimal set.
func (that Decision) Probability(cell int) float64 {
	return that.Distribution[cell]
}

// Cells - the optimal set in ascending order.
func (that Decision) Cells() []int {
	cells := make([]int, 0, len(that.Distribution))
	for cell := range that.Distribution {
		cells = append(cells, cell)
	}
	sort.Ints(cells)

	return cells
}

// TieBreak - selects the primary-optimal moves and spreads probability over them with a
// softmax of their future secondary values. It panics on an empty input.
func TieBreak(moves []MoveValue) Decision {
	if len(moves) == 0 {
		panic("solver: tie-break over no moves")
	}

	primaries := make([]float64, len(moves))
	for i, mv := range moves {
		primaries[i] = mv.Primary
	}
	maxP := floats.Max(primaries)

	optimal := make([]MoveValue, 0, len(moves))
	for _, mv := range moves {
		if math.Abs(mv.Primary-maxP) < PrimaryTolerance {
			optimal = append(optimal, mv)
		}
	}

	if len(optimal) == 1 {
		return Decision{
			Primary:        maxP,
			Distribution:   map[int]float64{optimal[0].Cell: 1},
			ExpectedFuture: optimal[0].Future,
		}
	}

	probs := softmax(optimal)

	decision := Decision{
		Primary:      maxP,
		Distribution: make(map[int]float64, len(optimal)),
		Entropy:      entropy(probs),
	}
	for i, mv := range optimal {
		decision.Distribution[mv.Cell] = probs[i]
		decision.ExpectedFuture += probs[i] * mv.Future
	}

	return decision
}

func softmax(moves []MoveValue) []float64 {
	futures := make([]float64, len(moves))
	for i, mv := range moves {
		futures[i] = mv.Future
	}
	maxT := floats.Max(futures)

	exps := make([]float64, len(futures))
	for i, t := range futures {
		exps[i] = math.Exp(t - maxT)
	}

	sum := floats.Sum(exps)
	if sum <= SoftmaxFloor {
		uniform := make([]float64, len(exps))
		floats.AddConst(1/float64(len(exps)), uniform)
		return uniform
	}

	floats.Scale(1/sum, exps)

	return exps
}

// entropy in nats; terms at or below SoftmaxFloor contribute their limit, 0.
func entropy(probs []float64) float64 {
	kept := make([]float64, 0, len(probs))
	for _, p := range probs {
		if p > SoftmaxFloor {
			kept = append(kept, p)
		}
	}

	return stat.Entropy(kept)
}
