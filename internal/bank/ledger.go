// Package bank provides the value-transfer collaborator used to fund and pay
// out table escrow. The table only depends on the Transfer/BalanceOf
// contract; this in-memory ledger is the reference implementation.
package bank

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInsufficientFunds is returned when the source account cannot
	// cover a transfer.
	ErrInsufficientFunds = errors.New("bank: insufficient funds")

	// ErrTransferRefused is returned when the destination account's guard
	// rejects an inbound transfer.
	ErrTransferRefused = errors.New("bank: transfer refused by recipient")
)

// Guard decides whether an inbound transfer to a guarded account is allowed.
type Guard func(from string, amount uint64) error

// Ledger is an in-memory account ledger, safe for concurrent use.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]uint64
	guards   map[string]Guard
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[string]uint64),
		guards:   make(map[string]Guard),
	}
}

// Mint credits an account out of thin air. Used to fund players in dev and
// test setups.
func (l *Ledger) Mint(account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
}

// SetGuard installs an inbound-transfer guard on an account. The table uses
// this to reject deposits that do not arrive through a bet; tests use it to
// simulate uncooperative payout recipients. A nil guard removes the hook.
func (l *Ledger) SetGuard(account string, guard Guard) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if guard == nil {
		delete(l.guards, account)
		return
	}
	l.guards[account] = guard
}

// Transfer moves value between accounts. The whole operation either commits
// or leaves both balances untouched.
func (l *Ledger) Transfer(from, to string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, from, l.balances[from], amount)
	}
	if guard, ok := l.guards[to]; ok {
		if err := guard(from, amount); err != nil {
			return fmt.Errorf("%w: %v", ErrTransferRefused, err)
		}
	}

	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

// BalanceOf returns the current balance of an account.
func (l *Ledger) BalanceOf(account string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account]
}
