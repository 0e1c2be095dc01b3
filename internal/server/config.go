package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Table  TableSettings  `hcl:"table,block"`
}

// ServerSettings contains listener-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings configures the hosted table.
type TableSettings struct {
	Creator        string `hcl:"creator"`
	SmallBlind     uint64 `hcl:"small_blind,optional"`
	BigBlind       uint64 `hcl:"big_blind,optional"`
	BuyIn          uint64 `hcl:"buy_in,optional"`
	OracleSeed     string `hcl:"oracle_seed,optional"`
	ShuffleTimeout string `hcl:"shuffle_timeout,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Table: TableSettings{
			Creator:    "house",
			SmallBlind: 1,
			BigBlind:   2,
			BuyIn:      1000,
			OracleSeed: "dev-seed",
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing config: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decoding config: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Table.SmallBlind == 0 {
		config.Table.SmallBlind = defaults.Table.SmallBlind
	}
	if config.Table.BigBlind == 0 {
		config.Table.BigBlind = defaults.Table.BigBlind
	}
	if config.Table.BuyIn == 0 {
		config.Table.BuyIn = defaults.Table.BuyIn
	}
	if config.Table.OracleSeed == "" {
		config.Table.OracleSeed = defaults.Table.OracleSeed
	}
	if config.Table.ShuffleTimeout != "" {
		if _, err := time.ParseDuration(config.Table.ShuffleTimeout); err != nil {
			return nil, fmt.Errorf("invalid shuffle_timeout: %w", err)
		}
	}
	return &config, nil
}

// ListenAddr returns the host:port the server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// ShuffleTimeoutDuration returns the parsed watchdog timeout, zero when
// disabled.
func (c *Config) ShuffleTimeoutDuration() time.Duration {
	if c.Table.ShuffleTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Table.ShuffleTimeout)
	if err != nil {
		return 0
	}
	return d
}
