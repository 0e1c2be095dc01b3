package table

import (
	ph "github.com/paulhankin/poker"

	"github.com/lox/pokertable/internal/events"
	"github.com/lox/pokertable/internal/oracle"
	"github.com/lox/pokertable/poker"
)

// showdown scores every live player over their hole cards and the full
// community, splits the pot among the top scorers and resets for the next
// hand. An even split is impossible with an odd remainder, which goes to the
// earliest winner in seat order.
func (t *Table) showdown() {
	t.round = Showdown
	community := t.deal.Community()

	var winners []*player
	var best poker.Score
	entries := make([]events.ShowDownEntry, 0, len(t.players))
	for _, p := range t.players {
		if p.folded {
			continue
		}
		full := p.hole | community
		score, err := t.cache.Score(full)
		if err != nil {
			t.log.Error("scoring hand", "player", p.id, "err", err)
			continue
		}
		entries = append(entries, events.ShowDownEntry{
			Player:      p.id,
			Score:       score,
			Description: describeHand(full),
		})
		switch {
		case score > best:
			best = score
			winners = winners[:0]
			winners = append(winners, p)
		case score == best:
			winners = append(winners, p)
		}
	}

	t.publish(events.ShowDown{Entries: entries})

	if t.pot == 0 || len(winners) == 0 {
		t.publish(events.NoWinnersToAward{})
		t.endHand()
		return
	}

	share := t.pot / uint64(len(winners))
	remainder := t.pot % uint64(len(winners))
	ids := make([]string, len(winners))
	for i, w := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}
		t.payout(w, amount)
		ids[i] = w.id
	}

	t.log.Info("pot awarded", "winners", ids, "share", share, "score", best)
	t.publish(events.WinnersAwarded{Winners: ids, Share: share})
	t.endHand()
}

// payout pays a winner from the table account. A refused transfer keeps the
// chips in the winner's escrow for a later Withdraw rather than failing the
// settlement.
func (t *Table) payout(w *player, amount uint64) {
	if err := t.bank.Transfer(t.account, w.id, amount); err != nil {
		t.log.Warn("payout refused, retaining escrow", "player", w.id, "amount", amount, "err", err)
		w.escrow += amount
		t.publish(events.TransferFailed{Recipient: w.id, Amount: amount})
	}
}

// endHand clears all per-hand state and returns the table to Idle.
func (t *Table) endHand() {
	for _, p := range t.players {
		p.resetForHand()
	}
	t.pot = 0
	t.lastBet = 0
	t.holeShown = false
	t.deal = oracle.Deal{}
	t.round = Idle
	t.handsPlayed++
}

// describeHand renders a human readable name for the best five cards of a
// mask, eg "Full House, Queens over Tens".
func describeHand(h poker.Hand) string {
	cards := h.Cards()
	phc := make([]ph.Card, 0, len(cards))
	for _, c := range cards {
		var s ph.Suit
		switch c.Suit() {
		case poker.Spades:
			s = ph.Spade
		case poker.Hearts:
			s = ph.Heart
		case poker.Diamonds:
			s = ph.Diamond
		case poker.Clubs:
			s = ph.Club
		}
		r := ph.Rank(c.Rank())
		if c.Rank() == poker.Ace {
			r = ph.Rank(1)
		}
		pc, err := ph.MakeCard(s, r)
		if err != nil {
			return ""
		}
		phc = append(phc, pc)
	}
	desc, err := ph.Describe(phc)
	if err != nil {
		return ""
	}
	return desc
}
