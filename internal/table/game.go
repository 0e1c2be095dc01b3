package table

import (
	"context"
	"fmt"

	"github.com/lox/pokertable/internal/events"
	"github.com/lox/pokertable/internal/oracle"
)

// StartGame begins a new hand: assigns the button and blinds, requests a
// shuffle from the oracle and parks the table in AwaitingShuffle until the
// randomness arrives. If the oracle request fails no state changes.
func (t *Table) StartGame(ctx context.Context, caller string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTableClosed
	}
	if t.seat(caller) < 0 {
		return ErrNotPlayer
	}
	if t.round == AwaitingShuffle {
		return ErrAwaitingShuffle
	}
	if t.round != Idle {
		return ErrGameInProgress
	}
	if len(t.players) < 2 {
		return ErrNotEnoughPlayers
	}
	if t.oracle == nil {
		return ErrNoOracle
	}

	n := len(t.players)
	button := (t.button + 1) % n
	var small, big int
	if n == 2 {
		// Heads up the button posts the big blind.
		small = (button + 1) % n
		big = button
	} else {
		small = (button + 1) % n
		big = (button + 2) % n
	}

	reqID, err := t.oracle.RequestShuffle(ctx, n)
	if err != nil {
		return fmt.Errorf("requesting shuffle: %w", err)
	}

	for _, p := range t.players {
		p.resetForHand()
	}
	t.prevButton = t.button
	t.button = button
	t.small = small
	t.big = big
	t.turn = small
	t.pot = 0
	t.lastBet = 0
	t.deal = oracle.Deal{}
	t.holeShown = false
	t.pending = reqID
	t.requested = n
	t.round = AwaitingShuffle

	if t.shuffleTimeout > 0 {
		t.shuffleTimer = t.clock.AfterFunc(t.shuffleTimeout, func() {
			t.shuffleExpired(reqID)
		})
	}

	t.log.Info("game started",
		"button", t.players[button].id,
		"small", t.players[small].id,
		"big", t.players[big].id,
		"request", reqID)
	t.publish(events.GameStarted{
		Button:     t.players[button].id,
		SmallBlind: t.players[small].id,
		BigBlind:   t.players[big].id,
	})
	return nil
}

// FulfillShuffle delivers the oracle's random words for a pending request.
// Only the configured oracle identity may call it. On success the deal is
// fixed, the table enters PreFlop and the small blind holds the turn.
func (t *Table) FulfillShuffle(oracleID string, requestID oracle.RequestID, words []uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTableClosed
	}
	if oracleID != t.oracleID {
		return ErrNotOracle
	}
	if t.round != AwaitingShuffle || requestID != t.pending {
		return ErrUnknownRequest
	}

	deal, err := oracle.DealFromWords(words, t.requested)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWordCount, err)
	}

	t.stopWatchdog()
	t.deal = deal
	for i, p := range t.players {
		if i < len(deal.Holes) {
			p.hole = deal.Holes[i]
		}
	}
	t.round = PreFlop
	t.pending = 0

	t.log.Info("deck shuffled", "request", requestID)
	t.publish(events.DeckShuffled{RequestID: uint64(requestID)})
	t.publish(events.PlayerTurn{Player: t.players[t.turn].id})
	return nil
}

// shuffleExpired is the watchdog path: the oracle never answered, so the
// pending hand is abandoned and the table returns to Idle with the button
// restored, as if StartGame had never been called.
func (t *Table) shuffleExpired(requestID oracle.RequestID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.round != AwaitingShuffle || requestID != t.pending {
		return
	}

	t.button = t.prevButton
	t.round = Idle
	t.pending = 0
	t.shuffleTimer = nil

	t.log.Warn("shuffle request timed out", "request", requestID)
	t.publish(events.ShuffleTimeout{RequestID: uint64(requestID)})
}

func (t *Table) stopWatchdog() {
	if t.shuffleTimer != nil {
		t.shuffleTimer.Stop()
		t.shuffleTimer = nil
	}
}
