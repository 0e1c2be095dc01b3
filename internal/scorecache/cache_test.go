package scorecache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/poker"
)

func TestScoreMemoizes(t *testing.T) {
	t.Parallel()

	c := New()
	h := poker.MustParseHand("As", "Ah", "Ad", "Ks", "Qs", "Js", "Ts")

	score, err := c.Score(h)
	require.NoError(t, err)
	assert.Equal(t, poker.Score(960), score)
	assert.Equal(t, 1, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(1), misses)

	// Second and third calls are map reads: same value, no new entries,
	// steady-state hit counting.
	for i := 0; i < 2; i++ {
		again, err := c.Score(h)
		require.NoError(t, err)
		assert.Equal(t, score, again)
	}
	assert.Equal(t, 1, c.Len())

	hits, misses = c.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestScorePropagatesEvaluatorError(t *testing.T) {
	t.Parallel()

	c := New()
	h := poker.MustParseHand("As", "Ks", "Qs", "Js", "Ts", "9s", "8s", "7s")

	_, err := c.Score(h)
	assert.ErrorIs(t, err, poker.ErrTooManyCards)
	assert.Equal(t, 0, c.Len())
}

func TestConcurrentScoring(t *testing.T) {
	t.Parallel()

	c := New()
	hands := []poker.Hand{
		poker.MustParseHand("As", "Ah", "Ad", "Ks", "Qs", "Js", "Ts"),
		poker.MustParseHand("2s", "7d", "6d", "7c", "4d", "7h", "7s"),
		poker.MustParseHand("4h", "6d", "Jc", "3d", "7h", "Qs", "Ac"),
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, h := range hands {
				score, err := c.Score(h)
				assert.NoError(t, err)
				assert.NotZero(t, score)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, len(hands), c.Len())
}

func TestSharedIsStable(t *testing.T) {
	t.Parallel()
	assert.Same(t, Shared(), Shared())
}
