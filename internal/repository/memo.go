package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/solver"
)

const (
	memoKeyPrefix = "memo:"
	scanBatch     = 256
)

// MemoTable keeps solver evaluations in redis under a namespace private to one solve, so
// workers in several goroutines or processes can share it. Each key is written at most
// once (SETNX) and expires after ttl; Close drops the whole namespace.
//
// Redis failures never fail the search: a failed lookup is a miss and the position is
// computed again, a failed store is logged and reported by Err.
type MemoTable struct {
	ctx    context.Context
	logger *slog.Logger
	client *redis.Client
	ttl    time.Duration

	solveID string
	written atomic.Int64

	mu  sync.Mutex
	err error
}

func NewMemoTable(ctx context.Context, logger *slog.Logger, client *redis.Client, ttl time.Duration) *MemoTable {
	solveID := uuid.NewString()

	return &MemoTable{
		ctx:     ctx,
		logger:  logger.With("component", "memo", "solve_id", solveID),
		client:  client,
		ttl:     ttl,
		solveID: solveID,
	}
}

func (that *MemoTable) SolveID() string {
	return that.solveID
}

func (that *MemoTable) key(state entity.State) string {
	return memoKeyPrefix + that.solveID + ":" + state.Key()
}

func (that *MemoTable) Lookup(state entity.State) (solver.Evaluation, bool) {
	if that.ctx.Err() != nil {
		return solver.Evaluation{}, false
	}

	response, err := that.client.Get(that.ctx, that.key(state)).Bytes()
	if errors.Is(err, redis.Nil) {
		return solver.Evaluation{}, false
	}

	if err != nil {
		that.logger.Debug("lookup failed, recomputing", "state", state.Key(), "error", err)
		return solver.Evaluation{}, false
	}

	var eval solver.Evaluation
	if err = json.Unmarshal(response, &eval); err != nil {
		that.fail(fmt.Errorf("failed to unmarshal evaluation of %s: %w", state.Key(), err))
		return solver.Evaluation{}, false
	}

	return eval, true
}

// Store - a no-op once the solve's context is done.
func (that *MemoTable) Store(state entity.State, eval solver.Evaluation) {
	if that.ctx.Err() != nil {
		return
	}

	evalJSON, err := json.Marshal(eval)
	if err != nil {
		that.fail(fmt.Errorf("could not marshal evaluation: %w", err))
		return
	}

	created, err := that.client.SetNX(that.ctx, that.key(state), evalJSON, that.ttl).Result()
	if err != nil {
		that.fail(fmt.Errorf("failed to set evaluation of %s: %w", state.Key(), err))
		return
	}

	if created {
		that.written.Add(1)
	}
}

// Len - the number of entries this table wrote.
func (that *MemoTable) Len() int {
	return int(that.written.Load())
}

// Err - the first store failure, if any.
func (that *MemoTable) Err() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.err
}

// Close - deletes every key of the solve.
func (that *MemoTable) Close(ctx context.Context) error {
	iter := that.client.Scan(ctx, 0, memoKeyPrefix+that.solveID+":*", scanBatch).Iterator()

	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := that.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to delete memo keys: %w", err)
			}
			batch = batch[:0]
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan memo keys: %w", err)
	}

	if len(batch) > 0 {
		if err := that.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete memo keys: %w", err)
		}
	}

	that.logger.Debug("memo namespace dropped", "entries", that.Len())

	return nil
}

// fail - records the first failure; later ones only go to the debug log.
func (that *MemoTable) fail(err error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.err != nil {
		that.logger.Debug("memo store failed", "error", err)
		return
	}

	that.err = err
	that.logger.Error("memo store failed, further failures logged at debug", "error", err)
}
