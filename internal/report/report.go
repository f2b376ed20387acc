// Package report renders solver results for a terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/solver"
	"github.com/rocketscienceinc/tictactoe-solver/internal/usecase"
)

const (
	optimalColor = "2"
	mutedColor   = "8"
)

type Printer struct {
	out *termenv.Output
}

// NewPrinter - with color off the output is plain ASCII whatever w is.
func NewPrinter(w io.Writer, color bool) *Printer {
	if !color {
		return &Printer{out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
	}

	return &Printer{out: termenv.NewOutput(w)}
}

// Root - the opening table: each cell's future secondary value and its probability.
func (that *Printer) Root(report solver.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Max E[P] achievable by %s = %.3f\n", report.Mover, report.BestPrimary())

	optimal := report.Decision.Cells()
	if len(optimal) == 1 {
		fmt.Fprintf(&b, "Unique optimal first move: %d\n", optimal[0])
	} else {
		fmt.Fprintf(&b, "%d moves achieve max E[P]\n", len(optimal))
	}

	b.WriteString("\nMove | E[T_future] | Probability (p*)\n")
	b.WriteString("-----|-------------|-----------------\n")

	for _, mv := range report.Moves {
		row := fmt.Sprintf("%-4d | %11.3f | %15.5f", mv.Cell, mv.Future, report.Probability(mv.Cell))

		style := that.out.String(row).Foreground(that.out.Color(mutedColor))
		if report.Probability(mv.Cell) > 0 {
			style = that.out.String(row).Foreground(that.out.Color(optimalColor)).Bold()
		}

		b.WriteString(style.String())
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nOverall E[T] for %s from start: %.5f\n", report.Mover, report.Overall())
	fmt.Fprintf(&b, "  = H(D*) + E[T_future] = %.5f + %.5f\n",
		report.Decision.Entropy, report.Decision.ExpectedFuture)
	fmt.Fprintf(&b, "  %d positions memoized, %d expanded, %d memo hits in %s\n",
		report.TableSize, report.Stats.Expanded, report.Stats.MemoHits, report.Elapsed.Round(time.Microsecond))

	if _, err := io.WriteString(that.out, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// Tally - a one-paragraph summary of self-play.
func (that *Printer) Tally(tally usecase.Tally) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\nSelf-play: %d games, X %d, O %d, draws %d\n",
		tally.Games, tally.XWins, tally.OWins, tally.Draws)

	b.WriteString("Openings:")
	for cell := range entity.BoardSize {
		fmt.Fprintf(&b, " %d:%d", cell, tally.Openings[cell])
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(that.out, b.String()); err != nil {
		return fmt.Errorf("failed to write tally: %w", err)
	}

	return nil
}
