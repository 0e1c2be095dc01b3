package oracle

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/poker"
)

func TestDealFromWordsNoRepeats(t *testing.T) {
	t.Parallel()

	words := make([]uint64, WordsNeeded(9))
	for i := range words {
		words[i] = uint64(i) * 7919 // arbitrary, includes values far above 52
	}

	deal, err := DealFromWords(words, 9)
	require.NoError(t, err)
	require.Len(t, deal.Holes, 9)

	var union poker.Hand
	total := 0
	for _, hole := range deal.Holes {
		assert.Equal(t, 2, hole.CountCards())
		union |= hole
		total += 2
	}
	union |= deal.Flop | poker.Hand(deal.Turn) | poker.Hand(deal.River)
	total += 5

	assert.Equal(t, 3, deal.Flop.CountCards())
	assert.Equal(t, 23, total)
	// Dealt without replacement: the union holds exactly 2n+5 distinct cards.
	assert.Equal(t, total, union.CountCards())
	assert.Equal(t, deal.Community().CountCards(), 5)
}

func TestDealFromWordsWordCount(t *testing.T) {
	t.Parallel()

	_, err := DealFromWords(make([]uint64, 8), 2)
	assert.ErrorIs(t, err, ErrWordCount)

	_, err = DealFromWords(make([]uint64, 9), 2)
	assert.NoError(t, err)
}

func TestDealFromWordsIsDeterministic(t *testing.T) {
	t.Parallel()

	words := make([]uint64, WordsNeeded(4))
	for i := range words {
		words[i] = uint64(i*i + 3)
	}

	a, err := DealFromWords(words, 4)
	require.NoError(t, err)
	b, err := DealFromWords(words, 4)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDealFromWordsCoversWholeDeck(t *testing.T) {
	t.Parallel()

	// Words congruent to 0 mod pool size always pick the pool head, so the
	// deal walks the canonical deck order. Any card must be reachable.
	words := make([]uint64, WordsNeeded(2))
	deal, err := DealFromWords(words, 2)
	require.NoError(t, err)

	deck := poker.FullDeck()
	assert.Equal(t, poker.NewHand(deck[0], deck[1]), deal.Holes[0])
	assert.Equal(t, poker.NewHand(deck[2], deck[3]), deal.Holes[1])
	assert.Equal(t, poker.NewHand(deck[4], deck[5], deck[6]), deal.Flop)
	assert.Equal(t, deck[7], deal.Turn)
	assert.Equal(t, deck[8], deal.River)
}

type captureFulfiller struct {
	mu    sync.Mutex
	done  chan struct{}
	id    string
	reqID RequestID
	words []uint64
}

func (c *captureFulfiller) FulfillShuffle(oracleID string, requestID RequestID, words []uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = oracleID
	c.reqID = requestID
	c.words = words
	close(c.done)
	return nil
}

func TestHashOracleDeliversAsync(t *testing.T) {
	t.Parallel()

	sink := &captureFulfiller{done: make(chan struct{})}
	o := NewHashOracle("vrf", []byte("seed"), sink)

	id, err := o.RequestShuffle(context.Background(), 3)
	require.NoError(t, err)
	<-sink.done

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, "vrf", sink.id)
	assert.Equal(t, id, sink.reqID)
	assert.Len(t, sink.words, WordsNeeded(3))

	// Same seed and request id always yields the same words.
	again := NewHashOracle("vrf", []byte("seed"), sink)
	assert.Equal(t, sink.words, again.words(id, WordsNeeded(3)))
}

func TestScriptedOracleRecordsRequests(t *testing.T) {
	t.Parallel()

	o := &ScriptedOracle{}
	id1, err := o.RequestShuffle(context.Background(), 2)
	require.NoError(t, err)
	id2, err := o.RequestShuffle(context.Background(), 5)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, id2, o.LastRequest())
	assert.Equal(t, []int{2, 5}, o.Requests)
}

func TestHashOracleRequiresBoundTarget(t *testing.T) {
	t.Parallel()

	o := NewHashOracle("vrf", []byte("seed"), nil)
	_, err := o.RequestShuffle(context.Background(), 2)
	require.Error(t, err)

	sink := &captureFulfiller{done: make(chan struct{})}
	o.Bind(sink)
	_, err = o.RequestShuffle(context.Background(), 2)
	require.NoError(t, err)
	<-sink.done
}
