package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/valexandro/binance-p2p-currency-converter/cmd/env"
	"github.com/valexandro/binance-p2p-currency-converter/convert"
	"github.com/valexandro/binance-p2p-currency-converter/market"
	"github.com/valexandro/binance-p2p-currency-converter/refresh"
	"github.com/valexandro/binance-p2p-currency-converter/server"
	"github.com/valexandro/binance-p2p-currency-converter/server/config"
	sqlStorage "github.com/valexandro/binance-p2p-currency-converter/storage/sql"
)

type serveSQLCfg struct {
	rootCfg *serveCfg
}

// newServeSQLCmd creates the serve sql command
func newServeSQLCmd(rootCfg *serveCfg) *ffcli.Command {
	cfg := &serveSQLCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("sql", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "sql",
		ShortUsage: "serve sql [flags]",
		LongHelp:   "Serves the currency converter backend, using an SQL datastore",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

// exec executes the server serve command
func (c *serveSQLCfg) exec(ctx context.Context, _ []string) error {
	// Read the server configuration, if any
	if c.rootCfg.configPath != "" {
		serverCfg, err := config.Read(c.rootCfg.configPath)
		if err != nil {
			return fmt.Errorf("unable to read server config, %w", err)
		}

		c.rootCfg.config = serverCfg
	}

	// Create a new logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// DB
	dsn := os.Getenv(env.Prefix + env.DBURLSuffix)
	if dsn == "" {
		return fmt.Errorf("missing %s", env.Prefix+env.DBURLSuffix)
	}

	// Open DB connection
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("unable to open DB connection: %w", err)
	}

	defer pool.Close()

	// Check DB reachability
	pingCtx, cancelPing := context.WithTimeout(ctx, time.Second*5)
	defer cancelPing()

	if err = pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("unable to reach DB (ping): %w", err)
	}

	logger.Info("DB ping success")

	// Create an SQL store
	store := sqlStorage.NewStorage(pool)

	// Seed the supported currency set
	codes := parseCurrencyCodes(c.rootCfg.currencies)
	if err = seedCurrencies(ctx, store, codes); err != nil {
		return fmt.Errorf("unable to seed currencies: %w", err)
	}

	// Create the marketplace client and the core services
	client := market.NewBinanceClient(c.rootCfg.clientTimeout)

	planner := convert.NewPlanner(client, convert.WithPlannerLogger(logger))
	service := convert.NewService(client, store, convert.WithServiceLogger(logger))

	// Create the payment-method refresh service
	orchestrator := refresh.New(refresh.WithLogger(logger))
	for _, code := range codes {
		source := refresh.NewCurrencySource(service, code, c.rootCfg.refreshInterval)

		if err = orchestrator.Register(source); err != nil {
			return fmt.Errorf("unable to register refresh source: %w", err)
		}
	}

	// Create the server instance
	s, err := server.New(
		store,
		planner,
		service,
		server.WithLogger(logger),
		server.WithConfig(c.rootCfg.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the refresh service
	group.Go(func() error {
		return orchestrator.Start(gCtx)
	})

	return group.Wait()
}
