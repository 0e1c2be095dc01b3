// Package oracle bridges the table to its external randomness source. The
// table only sees the request half of the contract; fulfilment arrives as an
// authorization-gated callback carrying raw random words, which this package
// maps onto a bias-free, non-repeating card assignment.
package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/pokertable/poker"
)

// RequestID identifies an outstanding shuffle request.
type RequestID uint64

// Oracle is the outbound half of the randomness contract.
type Oracle interface {
	// RequestShuffle asks the oracle for enough random words to deal a
	// game with the given player count. The words arrive later through
	// the session's fulfilment callback.
	RequestShuffle(ctx context.Context, playerCount int) (RequestID, error)
}

// Fulfiller receives delivered randomness. Implemented by the table.
type Fulfiller interface {
	FulfillShuffle(oracleID string, requestID RequestID, words []uint64) error
}

// WordsNeeded returns how many random words a deal requires: two hole cards
// per player plus the five community cards.
func WordsNeeded(playerCount int) int {
	return 2*playerCount + 5
}

// ErrWordCount is returned when a fulfilment carries the wrong number of
// random words for the requested player count.
var ErrWordCount = errors.New("oracle: wrong number of random words")

// Deal is an ordered assignment of 2n+5 distinct cards.
type Deal struct {
	Holes []poker.Hand // one two-card mask per player, in seating order
	Flop  poker.Hand   // three cards revealed together
	Turn  poker.Card
	River poker.Card
}

// Community returns the full five-card community mask.
func (d Deal) Community() poker.Hand {
	return d.Flop | poker.Hand(d.Turn) | poker.Hand(d.River)
}

// DealFromWords maps random words onto a deal by sequential
// without-replacement selection: each word indexes the shrinking pool of
// remaining card identities (word mod pool size), and the chosen card leaves
// the pool. The result is a uniformly random permutation truncated to the
// needed length, with no repeats.
func DealFromWords(words []uint64, playerCount int) (Deal, error) {
	need := WordsNeeded(playerCount)
	if len(words) != need {
		return Deal{}, fmt.Errorf("%w: got %d, need %d", ErrWordCount, len(words), need)
	}

	pool := poker.FullDeck()
	draw := func(word uint64) poker.Card {
		i := int(word % uint64(len(pool)))
		card := pool[i]
		pool = append(pool[:i], pool[i+1:]...)
		return card
	}

	deal := Deal{Holes: make([]poker.Hand, playerCount)}
	w := 0
	for p := 0; p < playerCount; p++ {
		deal.Holes[p] = poker.NewHand(draw(words[w]), draw(words[w+1]))
		w += 2
	}
	deal.Flop = poker.NewHand(draw(words[w]), draw(words[w+1]), draw(words[w+2]))
	deal.Turn = draw(words[w+3])
	deal.River = draw(words[w+4])
	return deal, nil
}
