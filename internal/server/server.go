// Package server exposes a hosted table over a websocket command channel and
// a small HTTP query API.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertable/internal/bank"
	"github.com/lox/pokertable/internal/events"
	"github.com/lox/pokertable/internal/table"
)

// Server hosts one table.
type Server struct {
	cfg      *Config
	log      *log.Logger
	table    *table.Table
	ledger   *bank.Ledger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*connection]struct{}
}

// New wires a server around an existing table and ledger. It subscribes to
// the table's event bus, so construct it before play begins.
func New(cfg *Config, tbl *table.Table, ledger *bank.Ledger, logger *log.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		log:    logger.WithPrefix("server"),
		table:  tbl,
		ledger: ledger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[*connection]struct{}),
	}
	tbl.Events().Subscribe(events.SubscriberFunc(s.broadcast))
	return s
}

// Router builds the HTTP surface: the websocket command channel plus the
// read-only query API.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, snapshot(s.table))
		})
		r.Get("/players", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, snapshot(s.table).Players)
		})
		r.Get("/balance", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]uint64{"balance": s.table.Balance()})
		})
		r.Get("/player-balance", func(w http.ResponseWriter, req *http.Request) {
			player := req.URL.Query().Get("player")
			if player == "" {
				writeError(w, http.StatusBadRequest, "player query parameter required")
				return
			}
			writeJSON(w, http.StatusOK, map[string]uint64{"balance": s.table.PlayerBalance(player)})
		})
	})
	return r
}

// Start runs the HTTP listener until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.closeConnections()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// handleCommand executes one client command against the table.
func (s *Server) handleCommand(ctx context.Context, cmd Command) Response {
	if cmd.Player == "" && cmd.Action != ActionState {
		return Response{Error: "player required"}
	}

	var err error
	switch cmd.Action {
	case ActionRegister:
		if err = s.table.Register(cmd.Player); err == nil && s.cfg.Table.BuyIn > 0 {
			s.ledger.Mint(cmd.Player, s.cfg.Table.BuyIn)
		}
	case ActionStartGame:
		err = s.table.StartGame(ctx, cmd.Player)
	case ActionBet:
		err = s.table.BetToPot(cmd.Player, cmd.Amount)
	case ActionCheck:
		err = s.table.CheckTurn(cmd.Player)
	case ActionFold:
		err = s.table.Fold(cmd.Player)
	case ActionLeave:
		err = s.table.Remove(cmd.Player)
	case ActionWithdraw:
		err = s.table.Withdraw(cmd.Player)
	case ActionState:
		return Response{OK: true, State: snapshot(s.table)}
	default:
		return Response{Error: "unknown action: " + cmd.Action}
	}

	if err != nil {
		return Response{Error: err.Error()}
	}
	return Response{OK: true}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "err", err)
		return
	}

	conn := newConnection(ws, s)
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	total := len(s.conns)
	s.mu.Unlock()
	s.log.Info("client connected", "total", total)

	conn.readLoop(r.Context())

	s.mu.Lock()
	delete(s.conns, conn)
	total = len(s.conns)
	s.mu.Unlock()
	conn.close()
	s.log.Info("client disconnected", "total", total)
}

// broadcast pushes a table event to every connected client. Invoked under
// the table lock, so it must not call back into the table.
func (s *Server) broadcast(e events.Event) {
	msg := EventMessage{Event: e.EventType().String(), Data: e}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.writeJSON(msg); err != nil {
			s.log.Warn("dropping event for slow client", "err", err)
		}
	}
}

func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.close()
	}
}
