// Package events carries the table's observable notifications. Every state
// transition of interest to integrators and tests is published as a typed
// event on a bus. Delivery is synchronous fan-out in subscription order, and
// the table publishes while holding its own lock, so subscribers must return
// quickly and must not call back into the table.
package events

import "github.com/lox/pokertable/poker"

// Type identifies a table event with type safety.
type Type string

const (
	TypeGameStarted       Type = "game_started"
	TypeDeckShuffled      Type = "deck_shuffled"
	TypeCardsUnfolded     Type = "cards_unfolded"
	TypeBet               Type = "bet"
	TypePlayerTurn        Type = "player_turn"
	TypeShowDown          Type = "show_down"
	TypeWinnersAwarded    Type = "winners_awarded"
	TypeNoWinnersToAward  Type = "no_winners_to_award"
	TypeTransferFailed    Type = "transfer_failed"
	TypeOnlyOnePlayerLeft Type = "only_one_player_left"
	TypeShuffleTimeout    Type = "shuffle_timeout"
)

// String returns the string representation of the event type.
func (t Type) String() string { return string(t) }

// Event is any notification emitted by a table.
type Event interface {
	EventType() Type
}

// GameStarted announces a new hand and its role assignment.
type GameStarted struct {
	Button     string
	SmallBlind string
	BigBlind   string
}

func (GameStarted) EventType() Type { return TypeGameStarted }

// DeckShuffled announces that the randomness oracle delivered a deal.
type DeckShuffled struct {
	RequestID uint64
}

func (DeckShuffled) EventType() Type { return TypeDeckShuffled }

// CardsUnfolded reveals a card mask to a player: their hole pair during
// pre-flop, or the shared community cards as rounds advance.
type CardsUnfolded struct {
	Player string
	Cards  poker.Hand
}

func (CardsUnfolded) EventType() Type { return TypeCardsUnfolded }

// Bet records a pot contribution.
type Bet struct {
	Player string
	Amount uint64
}

func (Bet) EventType() Type { return TypeBet }

// PlayerTurn announces whose action is awaited.
type PlayerTurn struct {
	Player string
}

func (PlayerTurn) EventType() Type { return TypePlayerTurn }

// ShowDownEntry is one contesting player's result.
type ShowDownEntry struct {
	Player      string
	Score       poker.Score
	Description string
}

// ShowDown reports every contesting player and their score. A walkover
// (everyone else folded or quit) carries the sole survivor with no score.
type ShowDown struct {
	Entries []ShowDownEntry
}

func (ShowDown) EventType() Type { return TypeShowDown }

// WinnersAwarded reports the pot distribution.
type WinnersAwarded struct {
	Winners []string
	Share   uint64
}

func (WinnersAwarded) EventType() Type { return TypeWinnersAwarded }

// NoWinnersToAward is emitted when a hand collapses with an empty pot.
type NoWinnersToAward struct{}

func (NoWinnersToAward) EventType() Type { return TypeNoWinnersToAward }

// TransferFailed records a payout the recipient refused. The funds stay in
// that player's escrow balance for later withdrawal.
type TransferFailed struct {
	Recipient string
	Amount    uint64
}

func (TransferFailed) EventType() Type { return TypeTransferFailed }

// OnlyOnePlayerLeft announces the terminal payout before the table is
// permanently torn down.
type OnlyOnePlayerLeft struct {
	Receiver string
}

func (OnlyOnePlayerLeft) EventType() Type { return TypeOnlyOnePlayerLeft }

// ShuffleTimeout is emitted when the optional watchdog abandons a shuffle
// request the oracle never fulfilled.
type ShuffleTimeout struct {
	RequestID uint64
}

func (ShuffleTimeout) EventType() Type { return TypeShuffleTimeout }

// Subscriber receives published events.
type Subscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(event Event)

// OnEvent implements Subscriber.
func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// Bus manages event publishing and subscription.
type Bus struct {
	subscribers []Subscriber
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe adds a subscriber to receive events.
func (b *Bus) Subscribe(s Subscriber) {
	b.subscribers = append(b.subscribers, s)
}

// Publish sends an event to all subscribers in subscription order.
func (b *Bus) Publish(event Event) {
	for _, s := range b.subscribers {
		s.OnEvent(event)
	}
}
