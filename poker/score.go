package poker

import (
	"errors"
	"math/bits"
)

// Score is the comparable strength of a hand: a category bonus plus the sum
// of the rank values of the best five cards for that category. Higher wins.
type Score uint16

// Category enumerates hand classifications from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// Category bonuses. An ace-high straight flush gets its own tier.
const (
	bonusRoyalFlush    Score = 900
	bonusStraightFlush Score = 800
	bonusFourOfAKind   Score = 700
	bonusFullHouse     Score = 600
	bonusFlush         Score = 500
	bonusStraight      Score = 400
	bonusThreeOfAKind  Score = 300
	bonusTwoPair       Score = 200
	bonusPair          Score = 100
)

// ErrTooManyCards is returned for masks with more than seven bits set.
var ErrTooManyCards = errors.New("poker: hand has more than seven cards")

// Category returns the classification tier a score falls in. The per-category
// rank sums never reach 100, so tiers do not overlap.
func (s Score) Category() Category {
	switch {
	case s >= bonusRoyalFlush:
		return RoyalFlush
	case s >= bonusStraightFlush:
		return StraightFlush
	case s >= bonusFourOfAKind:
		return FourOfAKind
	case s >= bonusFullHouse:
		return FullHouse
	case s >= bonusFlush:
		return Flush
	case s >= bonusStraight:
		return Straight
	case s >= bonusThreeOfAKind:
		return ThreeOfAKind
	case s >= bonusTwoPair:
		return TwoPair
	case s >= bonusPair:
		return Pair
	default:
		return HighCard
	}
}

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// ScoreHand classifies and scores a hand of up to seven cards. The result is
// a pure function of the card set: identical masks always score identically.
func ScoreHand(h Hand) (Score, error) {
	if h.CountCards() > 7 {
		return 0, ErrTooManyCards
	}

	var suitRanks [4]uint16
	var ranks uint16
	for s := Spades; s <= Clubs; s++ {
		suitRanks[s] = h.SuitRanks(s)
		ranks |= suitRanks[s]
	}
	counts := h.RankCounts()

	// Straight flush beats everything, so check flush suits first.
	flushSuit := -1
	for s := Spades; s <= Clubs; s++ {
		if bits.OnesCount16(suitRanks[s]) >= 5 {
			flushSuit = int(s)
			break
		}
	}
	if flushSuit >= 0 {
		if high := straightHigh(suitRanks[flushSuit]); high > 0 {
			if high == Ace {
				return bonusRoyalFlush + straightSum(high), nil
			}
			return bonusStraightFlush + straightSum(high), nil
		}
	}

	if quad := highestWithCount(counts, 4); quad > 0 {
		sum := Score(quad) * 4
		if kicker := highestRankExcept(ranks, quad, 0); kicker > 0 {
			sum += Score(kicker)
		}
		return bonusFourOfAKind + sum, nil
	}

	if trip := highestWithCount(counts, 3); trip > 0 {
		if pair := highestPairedExcept(counts, trip); pair > 0 {
			return bonusFullHouse + Score(trip)*3 + Score(pair)*2, nil
		}
	}

	if flushSuit >= 0 {
		return bonusFlush + topRankSum(suitRanks[flushSuit], 5), nil
	}

	if high := straightHigh(ranks); high > 0 {
		return bonusStraight + straightSum(high), nil
	}

	if trip := highestWithCount(counts, 3); trip > 0 {
		sum := Score(trip) * 3
		k1 := highestRankExcept(ranks, trip, 0)
		k2 := highestRankExcept(ranks, trip, k1)
		return bonusThreeOfAKind + sum + Score(k1) + Score(k2), nil
	}

	if p1 := highestWithCount(counts, 2); p1 > 0 {
		if p2 := highestPairedExcept(counts, p1); p2 > 0 {
			kicker := ranks &^ (1<<p1 | 1<<p2)
			sum := Score(p1)*2 + Score(p2)*2
			if kicker != 0 {
				sum += Score(bits.Len16(kicker) - 1)
			}
			return bonusTwoPair + sum, nil
		}
		sum := Score(p1) * 2
		rest := ranks &^ (1 << p1)
		sum += topRankSum(rest, 3)
		return bonusPair + sum, nil
	}

	return topRankSum(ranks, 5), nil
}

// straightHigh returns the high rank of the best run of five consecutive
// ranks in a rank vector, 5 for the ace-low wheel, or 0 when none exists.
func straightHigh(ranks uint16) uint8 {
	const run = uint16(0x1F) // five consecutive rank bits
	for high := Ace; high >= Six; high-- {
		if ranks&(run<<(high-4)) == run<<(high-4) {
			return high
		}
	}
	const wheel = 1<<Ace | 1<<Five | 1<<Four | 1<<Three | 1<<Two
	if ranks&wheel == wheel {
		return Five
	}
	return 0
}

// straightSum sums the five rank values of a straight. The wheel counts its
// ace as 1.
func straightSum(high uint8) Score {
	if high == Five {
		return 5 + 4 + 3 + 2 + 1
	}
	return Score(high)*5 - 10
}

// highestWithCount returns the highest rank appearing exactly n times.
func highestWithCount(counts [15]uint8, n uint8) uint8 {
	for r := Ace; r >= Two; r-- {
		if counts[r] == n {
			return r
		}
	}
	return 0
}

// highestPairedExcept returns the highest rank other than except holding two
// or more cards, which is the pair half of a full house or two pair.
func highestPairedExcept(counts [15]uint8, except uint8) uint8 {
	for r := Ace; r >= Two; r-- {
		if r != except && counts[r] >= 2 {
			return r
		}
	}
	return 0
}

// highestRankExcept returns the highest rank in the vector excluding up to
// two ranks, or 0 when nothing remains.
func highestRankExcept(ranks uint16, a, b uint8) uint8 {
	ranks &^= 1 << a
	ranks &^= 1 << b
	if ranks == 0 {
		return 0
	}
	return uint8(bits.Len16(ranks) - 1)
}

// topRankSum sums the n highest ranks in the vector, or fewer when the
// vector runs out. Duplicated ranks are not counted twice here; callers add
// paired ranks explicitly.
func topRankSum(ranks uint16, n int) Score {
	var sum Score
	for i := 0; i < n && ranks != 0; i++ {
		top := uint8(bits.Len16(ranks) - 1)
		sum += Score(top)
		ranks &^= 1 << top
	}
	return sum
}
