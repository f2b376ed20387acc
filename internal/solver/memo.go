package solver

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// Evaluation is a node's value pair for the side to move on it.
type Evaluation struct {
	Primary   float64 `json:"p"`
	Secondary float64 `json:"t"`
}

// Table memoizes evaluations by state for the duration of one solve. Entries are written
// once and never updated.
type Table interface {
	Lookup(state entity.State) (Evaluation, bool)
	Store(state entity.State, eval Evaluation)
	Len() int
}

// MemoryTable is a plain map, for use by a single goroutine.
type MemoryTable struct {
	entries map[entity.State]Evaluation
}

func NewMemoryTable() *MemoryTable {
	return &MemoryTable{entries: make(map[entity.State]Evaluation)}
}

func (that *MemoryTable) Lookup(state entity.State) (Evaluation, bool) {
	eval, ok := that.entries[state]
	return eval, ok
}

func (that *MemoryTable) Store(state entity.State, eval Evaluation) {
	if _, ok := that.entries[state]; ok {
		return
	}
	that.entries[state] = eval
}

func (that *MemoryTable) Len() int {
	return len(that.entries)
}

// SyncTable can be shared by parallel workers. The first store of a state wins; results are
// deterministic, so a duplicate computed concurrently is dropped.
type SyncTable struct {
	mu      sync.RWMutex
	entries map[entity.State]Evaluation
}

func NewSyncTable() *SyncTable {
	return &SyncTable{entries: make(map[entity.State]Evaluation)}
}

func (that *SyncTable) Lookup(state entity.State) (Evaluation, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	eval, ok := that.entries[state]
	return eval, ok
}

func (that *SyncTable) Store(state entity.State, eval Evaluation) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.entries[state]; ok {
		return
	}
	that.entries[state] = eval
}

func (that *SyncTable) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.entries)
}
