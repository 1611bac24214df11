package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"verusTicker/internal/aggregate"
	"verusTicker/internal/cache"
	"verusTicker/internal/chain"
	"verusTicker/internal/config"
	"verusTicker/internal/engine"
	"verusTicker/internal/format"
	"verusTicker/internal/health"
	"verusTicker/internal/server"
	"verusTicker/internal/source"
	"verusTicker/internal/storage"
	"verusTicker/internal/supply"
)

func main() {
	// Daemon credentials live in .env on the reference deployment.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "tickerd",
		Short:        "Verus DEX ticker API",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ticker API server",
		RunE:  runServe,
	}

	serveCmd.Flags().String("rpc", "", "daemon RPC URL")
	serveCmd.Flags().String("rpc-user", "", "daemon RPC user")
	serveCmd.Flags().String("rpc-password", "", "daemon RPC password")
	serveCmd.Flags().String("system-id", "VRSC", "system currency the converters hold reserves of")
	serveCmd.Flags().String("listen", ":8000", "HTTP listen address")
	serveCmd.Flags().Duration("cache-ttl", 60*time.Second, "cache staleness TTL and timer refresh interval")
	serveCmd.Flags().Duration("supply-ttl", 10*time.Minute, "supply report cache TTL")
	serveCmd.Flags().Duration("block-poll", 15*time.Second, "chain height poll interval")
	serveCmd.Flags().Duration("fetch-timeout", 30*time.Second, "timeout for one refresh cycle")
	serveCmd.Flags().Uint64("blocks-per-day", 1440, "blocks covered by the 24h volume window")
	serveCmd.Flags().Float64("min-native-reserve", 100, "minimum native reserve for a converter to be tracked")
	serveCmd.Flags().String("symbol-map", "./currency_mappings.json", "symbol mapping file path")
	serveCmd.Flags().Int("max-retries", 3, "maximum RPC retry attempts")
	serveCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial RPC retry backoff")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover active converters and print them as JSON",
		RunE:  runDiscover,
	}

	discoverCmd.Flags().String("rpc", "", "daemon RPC URL")
	discoverCmd.Flags().String("rpc-user", "", "daemon RPC user")
	discoverCmd.Flags().String("rpc-password", "", "daemon RPC password")
	discoverCmd.Flags().String("system-id", "VRSC", "system currency the converters hold reserves of")
	discoverCmd.Flags().Float64("min-native-reserve", 100, "minimum native reserve for a converter to be tracked")
	discoverCmd.Flags().String("symbol-map", "./currency_mappings.json", "symbol mapping file path")
	discoverCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(discoverCmd)

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Fetch one snapshot and append its raw pool records to a JSONL file",
		RunE:  runDump,
	}

	dumpCmd.Flags().String("rpc", "", "daemon RPC URL")
	dumpCmd.Flags().String("rpc-user", "", "daemon RPC user")
	dumpCmd.Flags().String("rpc-password", "", "daemon RPC password")
	dumpCmd.Flags().String("system-id", "VRSC", "system currency the converters hold reserves of")
	dumpCmd.Flags().Uint64("blocks-per-day", 1440, "blocks covered by the 24h volume window")
	dumpCmd.Flags().Float64("min-native-reserve", 100, "minimum native reserve for a converter to be tracked")
	dumpCmd.Flags().String("symbol-map", "./currency_mappings.json", "symbol mapping file path")
	dumpCmd.Flags().String("out", "./pool_records.jsonl", "output JSONL file path")
	dumpCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(dumpCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chain.NewClient(ctx, cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()

	table, err := format.LoadSymbolTable(cfg.SymbolMapPath)
	if err != nil {
		return err
	}

	src := source.NewConverterSource(source.Config{
		SystemID:         cfg.SystemID,
		BlocksPerDay:     cfg.BlocksPerDay,
		MinNativeReserve: decimal.NewFromFloat(cfg.MinNativeReserve),
		MaxRetries:       cfg.MaxRetries,
		RetryBackoff:     cfg.RetryBackoff,
	}, client, table, logger)

	store := cache.NewStore(cfg.CacheTTL, logger)
	eng := engine.New(store, src, aggregate.NewAggregator(logger), table, logger)
	scheduler := cache.NewScheduler(cache.SchedulerConfig{
		Interval:     cfg.CacheTTL,
		PollInterval: cfg.BlockPoll,
		FetchTimeout: cfg.FetchTimeout,
	}, store, eng.BuildSnapshot, client.BlockHeight, logger)
	reporter := health.NewReporter(store, src)
	supplies := supply.NewReporter(cfg.SystemID, cfg.SupplyTTL, client, src, logger)
	srv := server.New(cfg.ListenAddr, eng, reporter, supplies, logger)

	logger.Info("tickerd start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("system_id", cfg.SystemID),
		zap.String("listen", cfg.ListenAddr),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Duration("block_poll", cfg.BlockPoll),
		zap.Uint64("blocks_per_day", cfg.BlocksPerDay),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return scheduler.Run(groupCtx) })
	group.Go(func() error { return srv.Run(groupCtx) })

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chain.NewClient(ctx, cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()

	table, err := format.LoadSymbolTable(cfg.SymbolMapPath)
	if err != nil {
		return err
	}

	src := source.NewConverterSource(source.Config{
		SystemID:         cfg.SystemID,
		MinNativeReserve: decimal.NewFromFloat(cfg.MinNativeReserve),
		MaxRetries:       cfg.MaxRetries,
		RetryBackoff:     cfg.RetryBackoff,
	}, client, table, logger)

	converters, err := src.DiscoverConverters(ctx)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(converters, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal converters: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runDump(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	outPath, _ := cmd.Flags().GetString("out")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chain.NewClient(ctx, cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()

	table, err := format.LoadSymbolTable(cfg.SymbolMapPath)
	if err != nil {
		return err
	}

	src := source.NewConverterSource(source.Config{
		SystemID:         cfg.SystemID,
		BlocksPerDay:     cfg.BlocksPerDay,
		MinNativeReserve: decimal.NewFromFloat(cfg.MinNativeReserve),
		MaxRetries:       cfg.MaxRetries,
		RetryBackoff:     cfg.RetryBackoff,
	}, client, table, logger)

	snap, err := src.Fetch(ctx)
	if err != nil {
		return err
	}

	if err := storage.NewJsonlStorage(outPath).PutRecordBatch(snap.Records); err != nil {
		return err
	}

	logger.Info("snapshot dumped",
		zap.Uint64("height", snap.Height),
		zap.Int("records", len(snap.Records)),
		zap.String("out", outPath),
	)
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
