package server

import (
	"github.com/lox/pokertable/internal/events"
	"github.com/lox/pokertable/internal/table"
)

// Command actions accepted over the websocket.
const (
	ActionRegister  = "register"
	ActionStartGame = "start_game"
	ActionBet       = "bet"
	ActionCheck     = "check"
	ActionFold      = "fold"
	ActionLeave     = "leave"
	ActionWithdraw  = "withdraw"
	ActionState     = "state"
)

// Command is a JSON message from a client.
type Command struct {
	Action string `json:"action"`
	Player string `json:"player"`
	Amount uint64 `json:"amount,omitempty"`
}

// Response answers one command.
type Response struct {
	OK    bool        `json:"ok"`
	Error string      `json:"error,omitempty"`
	State *TableState `json:"state,omitempty"`
}

// EventMessage pushes a table event to connected clients.
type EventMessage struct {
	Event string       `json:"event"`
	Data  events.Event `json:"data"`
}

// PlayerState is one seat in a state snapshot.
type PlayerState struct {
	ID      string `json:"id"`
	Folded  bool   `json:"folded"`
	HandBet uint64 `json:"hand_bet"`
	Escrow  uint64 `json:"escrow,omitempty"`
}

// TableState is the query surface snapshot of a table.
type TableState struct {
	Round         string        `json:"round"`
	Pot           uint64        `json:"pot"`
	LastBet       uint64        `json:"last_bet"`
	Community     string        `json:"community,omitempty"`
	CurrentPlayer string        `json:"current_player,omitempty"`
	Button        string        `json:"button,omitempty"`
	Players       []PlayerState `json:"players"`
	Closed        bool          `json:"closed"`
}

// snapshot captures the queryable state of a table.
func snapshot(t *table.Table) *TableState {
	state := &TableState{
		Round:   t.Round().String(),
		Pot:     t.Pot(),
		LastBet: t.LastBet(),
		Closed:  t.Closed(),
	}
	if community := t.Community(); community != 0 {
		state.Community = community.String()
	}
	if current, err := t.CurrentPlayer(); err == nil {
		state.CurrentPlayer = current
	}
	if button, err := t.CurrentButton(); err == nil {
		state.Button = button
	}
	for _, p := range t.Players() {
		state.Players = append(state.Players, PlayerState{
			ID:      p.ID,
			Folded:  p.Folded,
			HandBet: p.HandBet,
			Escrow:  p.Escrow,
		})
	}
	return state
}
