package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

// Match is a game in progress between two players, X moving first.
type Match struct {
	State   entity.State
	Turn    entity.Player
	Status  string
	Outcome entity.Outcome
	History []int
}

func NewMatch() *Match {
	return &Match{
		State:  entity.NewState(),
		Turn:   entity.PlayerX,
		Status: StatusOngoing,
	}
}

func (that *Match) IsFinished() bool {
	return that.Status == StatusFinished
}

// MakeTurn - places player's mark on cell and moves the game on.
func (that *Match) MakeTurn(player entity.Player, cell int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn != player {
		return apperror.ErrNotYourTurn
	}

	next, err := that.State.Play(cell, player)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.State = next
	that.History = append(that.History, cell)
	that.updateStatus()

	return nil
}

// updateStatus - checks the game status after a move.
func (that *Match) updateStatus() {
	if outcome, ok := that.State.Outcome(); ok {
		that.Outcome = outcome
		that.Status = StatusFinished
		that.Turn = ""
		return
	}

	that.Turn = that.Turn.Opponent()
}
