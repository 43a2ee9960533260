package memory

import (
	"context"
	"fmt"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

// Gateway implements domain.PaymentGateway on the store's account
// balances. Transfers made inside a transaction roll back with it,
// which gives payment distribution its all-or-nothing guarantee.
type Gateway struct {
	db *DB
}

// NewGateway creates a payment gateway backed by the store
func NewGateway(db *DB) *Gateway {
	return &Gateway{db: db}
}

// Transfer credits the recipient account. Returns ErrTransferRejected
// if the recipient is frozen.
func (g *Gateway) Transfer(ctx context.Context, to domain.Address, amount int64) error {
	if amount < 0 {
		return domain.ErrArithmeticOverflow
	}
	return g.db.Transact(ctx, func(ctx context.Context) error {
		if g.db.frozen[to] {
			return fmt.Errorf("recipient %s: %w", to, domain.ErrTransferRejected)
		}
		balance, err := domain.AddChecked(g.db.accounts[to], amount)
		if err != nil {
			return err
		}
		g.db.putAccount(to, balance)
		return nil
	})
}

// AccountBalance returns the funds credited to an address so far.
func (g *Gateway) AccountBalance(ctx context.Context, addr domain.Address) (int64, error) {
	var balance int64
	err := g.db.view(ctx, func() error {
		balance = g.db.accounts[addr]
		return nil
	})
	return balance, err
}

// Freeze marks an address as unable to accept funds. Subsequent
// transfers to it fail with ErrTransferRejected.
func (g *Gateway) Freeze(addr domain.Address) {
	g.db.mu.Lock()
	defer g.db.mu.Unlock()
	g.db.frozen[addr] = true
}
