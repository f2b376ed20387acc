package solver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// Report is the root of the game tree: every opening of the first player and the
// distribution over the optimal ones.
type Report struct {
	Mover     entity.Player
	Moves     []MoveValue
	Decision  Decision
	Stats     Stats
	TableSize int
	Elapsed   time.Duration
}

func (that Report) BestPrimary() float64 {
	return that.Decision.Primary
}

// Overall - the first player's secondary value from the empty board.
func (that Report) Overall() float64 {
	return that.Decision.Secondary()
}

func (that Report) Probability(cell int) float64 {
	return that.Decision.Probability(cell)
}

// Driver solves the game from the empty board.
type Driver struct {
	logger  *slog.Logger
	table   Table
	workers int
}

// NewDriver - with workers > 1 the openings are searched concurrently and table must be
// safe for concurrent use.
func NewDriver(logger *slog.Logger, table Table, workers int) *Driver {
	if workers < 1 {
		workers = 1
	}

	return &Driver{
		logger:  logger.With("component", "driver"),
		table:   table,
		workers: workers,
	}
}

// Run - evaluates each opening of X against O to move and ties them up exactly like an
// inner node.
func (that *Driver) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	root := entity.NewState()
	first := entity.PlayerX
	openings := root.LegalMoves()

	solver := New(that.table)
	moves := make([]MoveValue, len(openings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(that.workers)

	for i, cell := range openings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("opening %d: %w", cell, err)
			}

			child := solver.Solve(root.MustPlay(cell, first), first.Opponent())
			moves[i] = fromChild(cell, child)

			that.logger.Debug("opening solved",
				"cell", cell, "primary", moves[i].Primary, "future", moves[i].Future)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("failed to solve openings: %w", err)
	}

	report := Report{
		Mover:     first,
		Moves:     moves,
		Decision:  TieBreak(moves),
		Stats:     solver.Stats(),
		TableSize: that.table.Len(),
		Elapsed:   time.Since(start),
	}

	that.logger.Info("root solved",
		"best_primary", report.BestPrimary(),
		"overall_secondary", report.Overall(),
		"optimal_moves", len(report.Decision.Distribution),
		"table_size", report.TableSize,
		"expanded", report.Stats.Expanded,
		"memo_hits", report.Stats.MemoHits,
		"elapsed", report.Elapsed,
	)

	return report, nil
}
