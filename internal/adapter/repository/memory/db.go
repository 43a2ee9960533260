// Package memory implements the domain store interfaces on an
// in-process transactional database. All mutating calls run inside an
// undo journal: a failed operation rolls back every mutation it made,
// including mutations performed by nested component calls, so a
// cross-component operation commits all-or-nothing.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

// DB holds the per-property mappings of every component plus the
// payment gateway accounts, guarded by one mutex. State-changing calls
// are processed to completion before the next begins.
type DB struct {
	mu      sync.Mutex
	journal []func()

	properties   map[string]domain.Property
	pools        map[string]domain.SharePool
	balances     map[string]map[domain.Address]int64
	stakeholders map[string]domain.StakeholderSet
	escrows      map[uuid.UUID]domain.Escrow
	accounts     map[domain.Address]int64
	frozen       map[domain.Address]bool
}

// NewDB creates an empty store.
func NewDB() *DB {
	return &DB{
		properties:   make(map[string]domain.Property),
		pools:        make(map[string]domain.SharePool),
		balances:     make(map[string]map[domain.Address]int64),
		stakeholders: make(map[string]domain.StakeholderSet),
		escrows:      make(map[uuid.UUID]domain.Escrow),
		accounts:     make(map[domain.Address]int64),
		frozen:       make(map[domain.Address]bool),
	}
}

type txKey struct{}

// Transact implements domain.Transactor. fn runs under the store lock
// with an undo journal; an error from fn rolls back every recorded
// mutation in reverse order. A Transact call made inside a running
// transaction joins it, so the enclosing call decides commit or
// rollback for the whole sequence.
func (db *DB) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTransaction(ctx) {
		return fn(ctx)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.journal = db.journal[:0]

	err := fn(context.WithValue(ctx, txKey{}, db))

	if err != nil {
		for i := len(db.journal) - 1; i >= 0; i-- {
			db.journal[i]()
		}
	}

	db.journal = nil
	return err
}

func inTransaction(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

// view runs fn under the store lock unless the context already runs
// inside a transaction (which holds the lock).
func (db *DB) view(ctx context.Context, fn func() error) error {
	if inTransaction(ctx) {
		return fn()
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn()
}

// record appends an undo step to the running journal.
func (db *DB) record(undo func()) {
	db.journal = append(db.journal, undo)
}

func (db *DB) putProperty(p domain.Property) {
	prev, existed := db.properties[p.ID]
	db.record(func() {
		if existed {
			db.properties[p.ID] = prev
		} else {
			delete(db.properties, p.ID)
		}
	})
	db.properties[p.ID] = p
}

func (db *DB) putPool(p domain.SharePool) {
	prev, existed := db.pools[p.PropertyID]
	db.record(func() {
		if existed {
			db.pools[p.PropertyID] = prev
		} else {
			delete(db.pools, p.PropertyID)
		}
	})
	db.pools[p.PropertyID] = p
}

func (db *DB) putBalance(propertyID string, holder domain.Address, shares int64) {
	holders, ok := db.balances[propertyID]
	if !ok {
		holders = make(map[domain.Address]int64)
		db.balances[propertyID] = holders
		db.record(func() { delete(db.balances, propertyID) })
	}
	prev, existed := holders[holder]
	db.record(func() {
		if existed {
			holders[holder] = prev
		} else {
			delete(holders, holder)
		}
	})
	holders[holder] = shares
}

func (db *DB) putStakeholders(s domain.StakeholderSet) {
	prev, existed := db.stakeholders[s.PropertyID]
	db.record(func() {
		if existed {
			db.stakeholders[s.PropertyID] = prev
		} else {
			delete(db.stakeholders, s.PropertyID)
		}
	})
	db.stakeholders[s.PropertyID] = s
}

func (db *DB) putEscrow(e domain.Escrow) {
	prev, existed := db.escrows[e.ID]
	db.record(func() {
		if existed {
			db.escrows[e.ID] = prev
		} else {
			delete(db.escrows, e.ID)
		}
	})
	db.escrows[e.ID] = e
}

func (db *DB) putAccount(addr domain.Address, balance int64) {
	prev, existed := db.accounts[addr]
	db.record(func() {
		if existed {
			db.accounts[addr] = prev
		} else {
			delete(db.accounts, addr)
		}
	})
	db.accounts[addr] = balance
}
