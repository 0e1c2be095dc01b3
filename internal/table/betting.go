package table

import (
	"fmt"

	"github.com/lox/pokertable/internal/events"
	"github.com/lox/pokertable/poker"
)

// BetToPot places a bet for the caller. The amount must match or exceed the
// current bet; a larger amount raises. Chips move from the caller's ledger
// account into the table account before any game state changes, so a refused
// transfer leaves the hand untouched.
func (t *Table) BetToPot(caller string, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.actionable(caller)
	if err != nil {
		return err
	}
	if amount < t.lastBet {
		return fmt.Errorf("%w: bet %d, current bet %d", ErrBetTooSmall, amount, t.lastBet)
	}
	if floor := t.blindMinimum(p); amount < floor {
		return fmt.Errorf("%w: blind post %d, minimum %d", ErrBetTooSmall, amount, floor)
	}

	if amount > 0 {
		if err := t.deposit(caller, amount); err != nil {
			return err
		}
	}

	t.pot += amount
	p.bet += amount
	p.acted = true
	if amount > t.lastBet {
		t.lastBet = amount
	}

	t.log.Info("bet placed", "player", caller, "amount", amount, "pot", t.pot)
	t.publish(events.Bet{Player: caller, Amount: amount})

	t.maybeRevealHoles()
	t.advanceAfterAction()
	return nil
}

// CheckTurn passes the action without betting. Only legal after the flop is
// down and while nobody has bet this round.
func (t *Table) CheckTurn(caller string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.actionable(caller)
	if err != nil {
		return err
	}
	if t.round == PreFlop || t.lastBet != 0 {
		return ErrCheckNotAllowed
	}

	p.acted = true
	t.log.Info("checked", "player", caller)
	t.publish(events.Bet{Player: caller, Amount: 0})

	t.advanceAfterAction()
	return nil
}

// actionable validates the common preconditions for a turn action and
// returns the acting player.
func (t *Table) actionable(caller string) (*player, error) {
	if t.closed {
		return nil, ErrTableClosed
	}
	p := t.playerByID(caller)
	if p == nil {
		return nil, ErrNotPlayer
	}
	if t.round == AwaitingShuffle {
		return nil, ErrAwaitingShuffle
	}
	if !t.inHand() {
		return nil, ErrNoGame
	}
	if p.folded {
		return nil, ErrAlreadyFolded
	}
	if t.players[t.turn] != p {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// blindMinimum returns the floor for a blind seat's opening bet of the hand.
func (t *Table) blindMinimum(p *player) uint64 {
	if t.round != PreFlop || p.acted {
		return 0
	}
	switch t.seat(p.id) {
	case t.small:
		return t.smallBlindAmt
	case t.big:
		return t.bigBlindAmt
	}
	return 0
}

// deposit moves chips into the table account, temporarily lifting the
// no-direct-deposit guard.
func (t *Table) deposit(from string, amount uint64) error {
	t.depositing.Store(true)
	defer t.depositing.Store(false)

	if err := t.bank.Transfer(from, t.account, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	}
	return nil
}

// maybeRevealHoles publishes each live player's hole cards once both blinds
// have resolved their opening action.
func (t *Table) maybeRevealHoles() {
	if t.holeShown || t.round != PreFlop {
		return
	}
	if !t.players[t.small].resolved() || !t.players[t.big].resolved() {
		return
	}
	t.holeShown = true
	for _, p := range t.players {
		if !p.folded && p.hole != 0 {
			t.publish(events.CardsUnfolded{Player: p.id, Cards: p.hole})
		}
	}
}

// advanceAfterAction moves the turn along, or the round when every live
// player has acted since the last raise circuit opened.
func (t *Table) advanceAfterAction() {
	if t.allLiveActed() {
		t.advanceRound()
		return
	}
	t.turn = t.nextUnfolded(t.turn)
	t.publish(events.PlayerTurn{Player: t.players[t.turn].id})
}

func (t *Table) allLiveActed() bool {
	for _, p := range t.players {
		if !p.folded && !p.acted {
			return false
		}
	}
	return true
}

// advanceRound closes the betting circuit: deals the next street, resets
// the acted set and bet level, and hands the turn to the first live seat
// after the button. Closing the river circuit resolves the showdown.
func (t *Table) advanceRound() {
	if t.round == River {
		t.showdown()
		return
	}

	for _, p := range t.players {
		p.acted = false
	}
	t.lastBet = 0

	var street poker.Hand
	switch t.round {
	case PreFlop:
		t.round = Flop
		street = t.deal.Flop
	case Flop:
		t.round = Turn
		street = poker.NewHand(t.deal.Turn)
	case Turn:
		t.round = River
		street = poker.NewHand(t.deal.River)
	}
	for _, p := range t.players {
		if !p.folded {
			t.publish(events.CardsUnfolded{Player: p.id, Cards: street})
		}
	}

	t.turn = t.nextUnfolded(t.button)
	t.log.Info("round advanced", "round", t.round, "turn", t.players[t.turn].id)
	t.publish(events.PlayerTurn{Player: t.players[t.turn].id})
}
