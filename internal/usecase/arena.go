package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

type bot interface {
	MakeTurn(match *tictactoe.Match) error
}

// Tally counts the results of a series of matches.
type Tally struct {
	Games    int
	XWins    int
	OWins    int
	Draws    int
	Openings [entity.BoardSize]int
}

// Arena plays a bot against itself.
type Arena struct {
	logger *slog.Logger
	bot    bot
}

func NewArena(logger *slog.Logger, bot bot) *Arena {
	return &Arena{
		logger: logger.With("component", "arena"),
		bot:    bot,
	}
}

// Play - runs games matches back to back, stopping early when ctx is done.
func (that *Arena) Play(ctx context.Context, games int) (Tally, error) {
	var tally Tally

	for i := range games {
		if err := ctx.Err(); err != nil {
			return tally, fmt.Errorf("arena stopped after %d games: %w", i, err)
		}

		match, err := that.playMatch()
		if err != nil {
			return tally, fmt.Errorf("failed to play game %d: %w", i+1, err)
		}

		tally.record(match)

		that.logger.Debug("game finished",
			"game", i+1, "outcome", match.Outcome.String(), "moves", match.History)
	}

	that.logger.Info("arena finished",
		"games", tally.Games, "x_wins", tally.XWins, "o_wins", tally.OWins, "draws", tally.Draws)

	return tally, nil
}

func (that *Arena) playMatch() (*tictactoe.Match, error) {
	match := tictactoe.NewMatch()

	for !match.IsFinished() {
		if err := that.bot.MakeTurn(match); err != nil {
			return nil, fmt.Errorf("failed make turn: %w", err)
		}
	}

	return match, nil
}

func (that *Tally) record(match *tictactoe.Match) {
	that.Games++

	switch {
	case match.Outcome.Kind == entity.Draw:
		that.Draws++
	case match.Outcome.Winner == entity.PlayerX:
		that.XWins++
	default:
		that.OWins++
	}

	if len(match.History) > 0 {
		that.Openings[match.History[0]]++
	}
}
