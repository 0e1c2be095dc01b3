package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"sync"
)

// HashOracle is a self-contained oracle for development and simulation. It
// derives random words from a seed with a SHA-256 counter stream, so a given
// seed always produces the same sequence of deals, and delivers fulfilment
// asynchronously the way a real oracle would.
type HashOracle struct {
	id     string
	seed   []byte
	target Fulfiller

	mu     sync.Mutex
	nextID RequestID
}

// NewHashOracle creates an oracle with the given identity and seed that
// delivers fulfilments to target.
func NewHashOracle(id string, seed []byte, target Fulfiller) *HashOracle {
	return &HashOracle{id: id, seed: seed, target: target}
}

// ID returns the oracle identity the table should authorize.
func (o *HashOracle) ID() string { return o.id }

// Bind sets the fulfilment target. The table and oracle reference each
// other, so the oracle is constructed first and bound once the table exists.
func (o *HashOracle) Bind(target Fulfiller) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.target = target
}

// RequestShuffle implements Oracle. The words are computed synchronously but
// delivered on a separate goroutine, preserving the request/fulfill split.
func (o *HashOracle) RequestShuffle(ctx context.Context, playerCount int) (RequestID, error) {
	o.mu.Lock()
	target := o.target
	o.nextID++
	id := o.nextID
	o.mu.Unlock()

	if target == nil {
		return 0, errors.New("oracle: no fulfilment target bound")
	}

	words := o.words(id, WordsNeeded(playerCount))
	go func() {
		// Fulfilment failures have no recourse here; the table reports
		// them on its own surface.
		_ = target.FulfillShuffle(o.id, id, words)
	}()
	return id, nil
}

// words derives n random words from the seed and request id.
func (o *HashOracle) words(id RequestID, n int) []uint64 {
	words := make([]uint64, 0, n)
	var counter uint64
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(id))
	for len(words) < n {
		binary.BigEndian.PutUint64(buf[8:], counter)
		sum := sha256.Sum256(append(o.seed, buf[:]...))
		for i := 0; i+8 <= len(sum) && len(words) < n; i += 8 {
			words = append(words, binary.BigEndian.Uint64(sum[i:i+8]))
		}
		counter++
	}
	return words
}

// ScriptedOracle records requests and leaves fulfilment to the caller. Used
// by tests that need precise control over the delivered words.
type ScriptedOracle struct {
	mu       sync.Mutex
	nextID   RequestID
	Requests []int // player counts, in request order
}

// RequestShuffle implements Oracle.
func (o *ScriptedOracle) RequestShuffle(ctx context.Context, playerCount int) (RequestID, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	o.Requests = append(o.Requests, playerCount)
	return o.nextID, nil
}

// LastRequest returns the most recent request id, or zero when none exists.
func (o *ScriptedOracle) LastRequest() RequestID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.nextID
}
