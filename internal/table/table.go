// Package table implements a multi-seat Texas Hold'em session: a turn-based
// state machine over shared community cards, an internal chip ledger and an
// asynchronous shuffle oracle. A table is created by one account, accepts up
// to MaxPlayers registrants, and plays repeated hands until the registry
// collapses to a single player, at which point it tears down permanently.
//
// All operations are safe for concurrent use. Event subscribers are invoked
// synchronously with the table lock held and must not call back into the
// table.
package table

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokertable/internal/bank"
	"github.com/lox/pokertable/internal/events"
	"github.com/lox/pokertable/internal/oracle"
	"github.com/lox/pokertable/internal/scorecache"
	"github.com/lox/pokertable/poker"
)

// MaxPlayers is the seat cap per table.
const MaxPlayers = 9

// Bet sizes are fixed per table.
const (
	DefaultSmallBlind = 1
	DefaultBigBlind   = 2
)

// Round identifies the current stage of a hand.
type Round int

const (
	Idle Round = iota
	AwaitingShuffle
	PreFlop
	Flop
	Turn
	River
	Showdown
)

func (r Round) String() string {
	switch r {
	case Idle:
		return "idle"
	case AwaitingShuffle:
		return "awaiting-shuffle"
	case PreFlop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	}
	return "unknown"
}

// Bank is the chip ledger the table settles against.
type Bank interface {
	Transfer(from, to string, amount uint64) error
	BalanceOf(account string) uint64
}

// Table is a single poker session.
type Table struct {
	mu sync.Mutex

	log    *log.Logger
	bus    *events.Bus
	bank   Bank
	oracle oracle.Oracle
	cache  *scorecache.Cache
	clock  quartz.Clock

	account        string
	oracleID       string
	smallBlindAmt  uint64
	bigBlindAmt    uint64
	shuffleTimeout time.Duration

	players    []*player
	round      Round
	button     int
	prevButton int
	small      int
	big        int
	turn       int
	pot        uint64
	lastBet    uint64

	deal      oracle.Deal
	holeShown bool

	pending      oracle.RequestID
	requested    int // seat count captured at shuffle request time
	shuffleTimer *quartz.Timer

	handsPlayed int
	closed      bool

	// set only while the table itself moves chips into its own account,
	// so a ledger guard can reject direct deposits. Atomic because the
	// guard runs under the ledger lock, not the table lock.
	depositing atomic.Bool
}

// Option configures a Table.
type Option func(*Table)

// WithBank sets the chip ledger. Without it the table creates a private
// in-memory ledger and seeds nothing.
func WithBank(b Bank) Option { return func(t *Table) { t.bank = b } }

// WithOracle sets the randomness source used to shuffle.
func WithOracle(o oracle.Oracle) Option { return func(t *Table) { t.oracle = o } }

// WithOracleIdentity sets the identity FulfillShuffle callers must present.
func WithOracleIdentity(id string) Option { return func(t *Table) { t.oracleID = id } }

// WithAccount sets the ledger account the table holds the pot and escrow in.
func WithAccount(account string) Option { return func(t *Table) { t.account = account } }

// WithBus sets the event bus game events are published to.
func WithBus(bus *events.Bus) Option { return func(t *Table) { t.bus = bus } }

// WithCache sets the hand score cache. Defaults to the process-wide cache.
func WithCache(c *scorecache.Cache) Option { return func(t *Table) { t.cache = c } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(t *Table) { t.log = l } }

// WithClock sets the clock used for the shuffle watchdog. Tests inject a
// mock here.
func WithClock(c quartz.Clock) Option { return func(t *Table) { t.clock = c } }

// WithBlinds overrides the fixed blind sizes.
func WithBlinds(small, big uint64) Option {
	return func(t *Table) {
		t.smallBlindAmt = small
		t.bigBlindAmt = big
	}
}

// WithShuffleTimeout enables the shuffle watchdog: if the oracle has not
// fulfilled within d, the pending hand is abandoned and the table returns
// to Idle. Zero disables it.
func WithShuffleTimeout(d time.Duration) Option {
	return func(t *Table) { t.shuffleTimeout = d }
}

// New creates a table with the creator already seated.
func New(creator string, opts ...Option) *Table {
	t := &Table{
		log:           log.New(os.Stderr).WithPrefix("table"),
		bus:           events.NewBus(),
		cache:         scorecache.Shared(),
		clock:         quartz.NewReal(),
		account:       "table:" + creator,
		smallBlindAmt: DefaultSmallBlind,
		bigBlindAmt:   DefaultBigBlind,
		round:         Idle,
		button:        -1,
		prevButton:    -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.bank == nil {
		ledger := bank.NewLedger()
		ledger.SetGuard(t.account, t.DepositGuard())
		t.bank = ledger
	}
	t.players = []*player{{id: creator}}
	return t
}

// Account returns the ledger account the table holds funds in.
func (t *Table) Account() string { return t.account }

// DepositGuard returns a ledger guard that rejects transfers into the table
// account unless the table itself is moving the chips. Install it on the
// table account to enforce that buy-ins only happen through betting.
func (t *Table) DepositGuard() bank.Guard {
	return func(from string, amount uint64) error {
		if t.depositing.Load() {
			return nil
		}
		return bank.ErrTransferRefused
	}
}

// Events returns the bus the table publishes to.
func (t *Table) Events() *events.Bus { return t.bus }

// Register seats a new player. Fails once a hand is running or the table
// is full.
func (t *Table) Register(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTableClosed
	}
	if t.round != Idle {
		return ErrGameInProgress
	}
	if len(t.players) >= MaxPlayers {
		return ErrTableFull
	}
	if t.seat(id) >= 0 {
		return ErrAlreadyRegistered
	}
	t.players = append(t.players, &player{id: id})
	t.log.Info("player registered", "player", id, "seats", len(t.players))
	return nil
}

// ScoreHand evaluates a hand through the table's score cache.
func (t *Table) ScoreHand(h poker.Hand) (poker.Score, error) {
	return t.cache.Score(h)
}

// Withdraw pays out the caller's retained escrow. Escrow accumulates when a
// settlement transfer is refused by the ledger.
func (t *Table) Withdraw(caller string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.playerByID(caller)
	if p == nil {
		return ErrNotPlayer
	}
	if p.escrow == 0 {
		return ErrNothingToWithdraw
	}
	amount := p.escrow
	if err := t.bank.Transfer(t.account, caller, amount); err != nil {
		return err
	}
	p.escrow = 0
	t.log.Info("escrow withdrawn", "player", caller, "amount", amount)
	return nil
}

// HandsPlayed returns how many hands have fully resolved.
func (t *Table) HandsPlayed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handsPlayed
}

// Closed reports whether the table has been permanently torn down.
func (t *Table) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Round returns the current stage of the hand.
func (t *Table) Round() Round {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.round
}

// Players returns a snapshot of the seated players in registration order.
func (t *Table) Players() []PlayerInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	infos := make([]PlayerInfo, len(t.players))
	for i, p := range t.players {
		infos[i] = PlayerInfo{
			ID:        p.id,
			Folded:    p.folded,
			HandBet:   p.bet,
			Escrow:    p.escrow,
			HoleDealt: p.hole != 0,
		}
	}
	return infos
}

// CurrentPlayer returns the player whose turn it is.
func (t *Table) CurrentPlayer() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inHand() {
		return "", ErrNoGame
	}
	return t.players[t.turn].id, nil
}

// CurrentButton returns the player holding the dealer button.
func (t *Table) CurrentButton() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.round == Idle || t.closed {
		return "", ErrNoGame
	}
	return t.players[t.button].id, nil
}

// Pot returns the chips wagered in the current hand.
func (t *Table) Pot() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pot
}

// LastBet returns the bet that must be matched to stay in the hand.
func (t *Table) LastBet() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastBet
}

// Community returns the face-up community cards dealt so far.
func (t *Table) Community() poker.Hand {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inHand() || !t.holeShown {
		return 0
	}
	switch t.round {
	case Flop:
		return t.deal.Flop
	case Turn:
		return t.deal.Flop | poker.Hand(t.deal.Turn)
	case River:
		return t.deal.Flop | poker.Hand(t.deal.Turn) | poker.Hand(t.deal.River)
	}
	return 0
}

// HoleCards returns a player's hole cards, or zero before the reveal.
func (t *Table) HoleCards(id string) poker.Hand {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.holeShown {
		return 0
	}
	if p := t.playerByID(id); p != nil {
		return p.hole
	}
	return 0
}

// Balance returns the chips held in the table account.
func (t *Table) Balance() uint64 { return t.bank.BalanceOf(t.account) }

// PlayerBalance returns a player's ledger balance.
func (t *Table) PlayerBalance(id string) uint64 { return t.bank.BalanceOf(id) }

// seat returns the index of id, or -1.
func (t *Table) seat(id string) int {
	for i, p := range t.players {
		if p.id == id {
			return i
		}
	}
	return -1
}

func (t *Table) playerByID(id string) *player {
	if i := t.seat(id); i >= 0 {
		return t.players[i]
	}
	return nil
}

// inHand reports whether cards are in play and betting rounds are running.
func (t *Table) inHand() bool {
	switch t.round {
	case PreFlop, Flop, Turn, River:
		return true
	}
	return false
}

// nextUnfolded returns the first unfolded seat strictly after from, or -1.
func (t *Table) nextUnfolded(from int) int {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if !t.players[idx].folded {
			return idx
		}
	}
	return -1
}

func (t *Table) unfoldedCount() int {
	count := 0
	for _, p := range t.players {
		if !p.folded {
			count++
		}
	}
	return count
}

func (t *Table) publish(e events.Event) {
	t.bus.Publish(e)
}
