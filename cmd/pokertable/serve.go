package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/lox/pokertable/internal/bank"
	"github.com/lox/pokertable/internal/history"
	"github.com/lox/pokertable/internal/oracle"
	"github.com/lox/pokertable/internal/server"
	"github.com/lox/pokertable/internal/table"
)

// ServeCmd hosts a single table.
type ServeCmd struct {
	Config  string `kong:"default='pokertable.hcl',help='Path to HCL config file'"`
	EnvFile string `kong:"default='.env',help='Env file providing DATABASE_URL and secrets'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	// Missing env files are fine; the environment may already be set.
	_ = godotenv.Load(c.EnvFile)

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr)
	if c.Debug {
		logger.SetLevel(log.DebugLevel)
	} else if level, err := log.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ledger := bank.NewLedger()
	shuffler := oracle.NewHashOracle("oracle", []byte(cfg.Table.OracleSeed), nil)

	tbl := table.New(cfg.Table.Creator,
		table.WithBank(ledger),
		table.WithOracle(shuffler),
		table.WithOracleIdentity(shuffler.ID()),
		table.WithBlinds(cfg.Table.SmallBlind, cfg.Table.BigBlind),
		table.WithShuffleTimeout(cfg.ShuffleTimeoutDuration()),
		table.WithLogger(logger),
	)
	shuffler.Bind(tbl)
	ledger.SetGuard(tbl.Account(), tbl.DepositGuard())
	ledger.Mint(cfg.Table.Creator, cfg.Table.BuyIn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := history.Open(ctx, dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := history.Migrate(ctx, db); err != nil {
			return err
		}
		recorder := history.NewRecorder(tbl.Account(), db, logger)
		defer recorder.Close()
		tbl.Events().Subscribe(recorder)
		logger.Info("hand history persistence enabled")
	}

	srv := server.New(cfg, tbl, ledger, logger)
	return srv.Start(ctx)
}
