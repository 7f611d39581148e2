package serve

import (
	"context"
	"flag"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/valexandro/binance-p2p-currency-converter/cmd/env"
	"github.com/valexandro/binance-p2p-currency-converter/server/config"
)

const defaultRefreshInterval = time.Hour * 12

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config

	configPath      string
	currencies      string
	refreshInterval time.Duration
	clientTimeout   time.Duration
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	cmd := &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve <subcommand> [flags]",
		LongHelp:   "Serves the currency converter backend",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}

	cmd.Subcommands = []*ffcli.Command{
		newServeSQLCmd(cfg),
		newServeMemoryCmd(cfg),
	}

	return cmd
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.StringVar(
		&c.currencies,
		"currencies",
		defaultCurrencyCodes,
		"comma-separated codes of the supported fiat currencies",
	)

	fs.DurationVar(
		&c.refreshInterval,
		"refresh-interval",
		defaultRefreshInterval,
		"the payment-method refresh interval per currency",
	)

	fs.DurationVar(
		&c.clientTimeout,
		"client-timeout",
		time.Second*30,
		"the marketplace HTTP client timeout",
	)
}
