package table

import "github.com/lox/pokertable/internal/events"

// Fold takes the caller out of the current hand. Folding is allowed out of
// turn; chips already bet stay in the pot. When only one live player
// remains the hand resolves immediately as a walkover.
func (t *Table) Fold(caller string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTableClosed
	}
	p := t.playerByID(caller)
	if p == nil {
		return ErrNotPlayer
	}
	if t.round == AwaitingShuffle {
		return ErrAwaitingShuffle
	}
	if !t.inHand() {
		return ErrNoGame
	}
	if p.folded {
		return ErrAlreadyFolded
	}

	wasTurn := t.players[t.turn] == p
	p.folded = true
	t.log.Info("folded", "player", caller)

	if t.unfoldedCount() == 1 {
		t.walkover()
		return nil
	}
	if wasTurn {
		t.turn = t.nextUnfolded(t.turn)
	}
	if t.allLiveActed() {
		t.advanceRound()
	} else if wasTurn {
		t.publish(events.PlayerTurn{Player: t.players[t.turn].id})
	}
	return nil
}

// Remove permanently unseats the caller. Legal in any round; mid-hand it
// folds the caller first. If exactly one registrant remains afterwards the
// table pays them out and tears down for good.
func (t *Table) Remove(caller string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTableClosed
	}
	idx := t.seat(caller)
	if idx < 0 {
		return ErrNotPlayer
	}

	// Escrow belongs to the leaving player and must not be stranded in the
	// table account once their seat record is gone. A transfer the ledger
	// still refuses is forfeited, with the failure on record.
	if p := t.players[idx]; p.escrow > 0 {
		if err := t.bank.Transfer(t.account, p.id, p.escrow); err != nil {
			t.log.Warn("escrow payout refused on removal, forfeiting", "player", p.id, "amount", p.escrow, "err", err)
			t.publish(events.TransferFailed{Recipient: p.id, Amount: p.escrow})
		}
		p.escrow = 0
	}

	wasTurn := t.inHand() && t.turn == idx
	t.players = append(t.players[:idx], t.players[idx+1:]...)
	n := len(t.players)
	t.button = adjustSeat(t.button, idx, n)
	t.prevButton = adjustSeat(t.prevButton, idx, n)
	t.small = adjustSeat(t.small, idx, n)
	t.big = adjustSeat(t.big, idx, n)
	t.turn = adjustSeat(t.turn, idx, n)
	t.log.Info("player removed", "player", caller, "seats", n)

	if n == 1 {
		t.teardown(t.players[0])
		return nil
	}
	if !t.inHand() {
		return nil
	}
	if t.unfoldedCount() == 1 {
		t.walkover()
		return nil
	}
	if t.players[t.turn].folded {
		t.turn = t.nextUnfolded(t.turn)
	}
	if t.allLiveActed() {
		t.advanceRound()
	} else if wasTurn {
		t.publish(events.PlayerTurn{Player: t.players[t.turn].id})
	}
	return nil
}

// walkover resolves a hand everyone but one player has abandoned. The
// survivor takes the whole pot without any hand evaluation.
func (t *Table) walkover() {
	var survivor *player
	for _, p := range t.players {
		if !p.folded {
			survivor = p
			break
		}
	}

	t.publish(events.ShowDown{Entries: []events.ShowDownEntry{{Player: survivor.id}}})
	if t.pot > 0 {
		t.payout(survivor, t.pot)
		t.publish(events.WinnersAwarded{Winners: []string{survivor.id}, Share: t.pot})
	} else {
		t.publish(events.NoWinnersToAward{})
	}
	t.log.Info("walkover", "winner", survivor.id, "pot", t.pot)
	t.endHand()
}

// teardown is the terminal transition: pay the last registrant their escrow
// plus any live pot, announce it, and tombstone the table.
func (t *Table) teardown(receiver *player) {
	t.stopWatchdog()

	amount := receiver.escrow + t.pot
	if amount > 0 {
		if err := t.bank.Transfer(t.account, receiver.id, amount); err != nil {
			t.log.Error("teardown payout refused", "player", receiver.id, "amount", amount, "err", err)
			t.publish(events.TransferFailed{Recipient: receiver.id, Amount: amount})
		}
	}

	t.publish(events.OnlyOnePlayerLeft{Receiver: receiver.id})
	t.log.Info("table torn down", "receiver", receiver.id, "amount", amount)

	t.closed = true
	t.round = Idle
	t.players = nil
	t.pot = 0
	t.pending = 0
}

// adjustSeat rebases a seat index after removing the seat at removed from a
// registry that now has n members.
func adjustSeat(idx, removed, n int) int {
	switch {
	case idx < 0 || n == 0:
		return -1
	case idx < removed:
		return idx
	case idx > removed:
		return idx - 1
	default:
		return idx % n
	}
}
