package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Card represents a single card as one bit in a uint64.
// A card with rank r (2-14) and suit s occupies bit 63-((14-r)*4+s), so
// high ranks sit at the top of the word and the four suits of a rank form
// one nibble. Only 52 of the 64 positions are meaningful.
type Card uint64

// Hand is also a uint64 but can contain multiple cards.
// Multiple cards are represented by multiple bits set.
type Hand uint64

// Suit constants, in nibble order from the high bit down.
const (
	Spades uint8 = iota
	Hearts
	Diamonds
	Clubs
)

// Rank constants (2-14, ace high).
const (
	Two uint8 = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// bitIndex returns the bit position for a rank/suit pair.
func bitIndex(rank, suit uint8) uint8 {
	return 63 - ((14-rank)*4 + suit)
}

// NewCard creates a card from rank (2-14) and suit (0-3).
func NewCard(rank, suit uint8) Card {
	if rank < Two || rank > Ace || suit > Clubs {
		return 0
	}
	return Card(1) << bitIndex(rank, suit)
}

// Rank returns the rank of the card (2-14), or 0 for an invalid card.
func (c Card) Rank() uint8 {
	if bits.OnesCount64(uint64(c)) != 1 {
		return 0
	}
	pos := uint8(bits.Len64(uint64(c)) - 1)
	if pos < 12 {
		return 0
	}
	return 14 - (63-pos)/4
}

// Suit returns the suit of the card (0-3), or 255 for an invalid card.
func (c Card) Suit() uint8 {
	if bits.OnesCount64(uint64(c)) != 1 {
		return 255
	}
	pos := uint8(bits.Len64(uint64(c)) - 1)
	if pos < 12 {
		return 255
	}
	return (63 - pos) % 4
}

var (
	rankChars = "23456789TJQKA"
	suitChars = "shdc"
)

// String returns the two character representation (e.g. "As", "Th").
func (c Card) String() string {
	r, s := c.Rank(), c.Suit()
	if r == 0 || s > Clubs {
		return "??"
	}
	return string(rankChars[r-2]) + string(suitChars[s])
}

// ParseCard parses a string like "As" or "Td" into a Card.
func ParseCard(str string) (Card, error) {
	if len(str) != 2 {
		return 0, fmt.Errorf("invalid card string: %q", str)
	}
	rank := strings.IndexByte(rankChars, toUpperByte(str[0]))
	if rank < 0 {
		return 0, fmt.Errorf("invalid rank: %c", str[0])
	}
	suit := strings.IndexByte(suitChars, toLowerByte(str[1]))
	if suit < 0 {
		return 0, fmt.Errorf("invalid suit: %c", str[1])
	}
	return NewCard(uint8(rank)+2, uint8(suit)), nil
}

// MustParseHand builds a hand from card strings, panicking on bad input.
// Intended for tests and fixtures.
func MustParseHand(strs ...string) Hand {
	var h Hand
	for _, s := range strs {
		c, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		h |= Hand(c)
	}
	return h
}

func toUpperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func toLowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// NewHand creates a hand from multiple cards.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// AddCard adds a card to the hand.
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// HasCard checks if the hand contains a specific card.
func (h Hand) HasCard(c Card) bool {
	return (h & Hand(c)) != 0
}

// CountCards returns the number of cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// SuitRanks compresses one suit's cards to a rank vector with bit r set for
// each rank r (2-14) present. The loop runs over the fixed 13-rank width of
// the mask, so cost does not depend on how many cards are set.
func (h Hand) SuitRanks(suit uint8) uint16 {
	var v uint16
	for r := Two; r <= Ace; r++ {
		if h&(Hand(1)<<bitIndex(r, suit)) != 0 {
			v |= 1 << r
		}
	}
	return v
}

// Ranks returns the union of all four suit rank vectors.
func (h Hand) Ranks() uint16 {
	return h.SuitRanks(Spades) | h.SuitRanks(Hearts) | h.SuitRanks(Diamonds) | h.SuitRanks(Clubs)
}

// RankCounts returns how many cards of each rank the hand holds, indexed by
// rank value (2-14). Each rank's four suit bits form one nibble in the mask,
// so this is a fixed-width popcount per column.
func (h Hand) RankCounts() [15]uint8 {
	var counts [15]uint8
	for r := Two; r <= Ace; r++ {
		nibble := uint8(h>>(60-(14-r)*4)) & 0xF
		counts[r] = uint8(bits.OnesCount8(nibble))
	}
	return counts
}

// Cards decodes the hand into its component cards, highest rank first.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	m := uint64(h)
	for m != 0 {
		top := uint64(1) << (bits.Len64(m) - 1)
		cards = append(cards, Card(top))
		m &^= top
	}
	return cards
}

// String returns the hand as space separated cards, highest first.
func (h Hand) String() string {
	cards := h.Cards()
	strs := make([]string, len(cards))
	for i, c := range cards {
		strs[i] = c.String()
	}
	return strings.Join(strs, " ")
}

// FullDeck returns all 52 cards in rank-major order, aces first.
func FullDeck() []Card {
	deck := make([]Card, 0, 52)
	for r := Ace; r >= Two; r-- {
		for s := Spades; s <= Clubs; s++ {
			deck = append(deck, NewCard(r, s))
		}
	}
	return deck
}
