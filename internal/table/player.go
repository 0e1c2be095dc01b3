package table

import "github.com/lox/pokertable/poker"

// player is a seated registrant. hole, bets and the acted flag reset every
// hand; escrow survives across hands until withdrawn.
type player struct {
	id     string
	folded bool
	acted  bool
	hole   poker.Hand
	bet    uint64 // contributed to the pot this hand
	escrow uint64
}

func (p *player) resetForHand() {
	p.folded = false
	p.acted = false
	p.hole = 0
	p.bet = 0
}

// resolved reports whether p no longer blocks the hole card reveal.
func (p *player) resolved() bool {
	return p.acted || p.folded
}

// PlayerInfo is a point in time snapshot of a seat, safe to hand out
// without holding the table lock.
type PlayerInfo struct {
	ID        string
	Folded    bool
	HandBet   uint64
	Escrow    uint64
	HoleDealt bool
}
