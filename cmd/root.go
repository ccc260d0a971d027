package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	abciserver "github.com/cometbft/cometbft/abci/server"
	cmtdb "github.com/cometbft/cometbft-db"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/latticebft/lattice/abci"
	"github.com/latticebft/lattice/coins"
	"github.com/latticebft/lattice/identity"
	"github.com/latticebft/lattice/plugins"
	"github.com/latticebft/lattice/store"
)

var (
	// Used for flags.
	homeDir    string
	socketAddr string
	idFile     string
	chainID    string
	keyKind    string

	// e.g. lattice --home /tmp/.lattice-home
	rootCmd = &cobra.Command{
		Use:   "lattice [subcommand]",
		Short: "lattice is an ABCI application host for CometBFT blockchain networks",

		Long: `lattice hosts a chain of composable transaction-processing plugins behind
a single ABCI application, speaking the socket protocol to a CometBFT consensus
engine. It focuses on providing:

  - a layered, authenticated key/value store with write-through buffering ; and
  - a fixed plugin chain (SDK compat, signer recovery, nonce, fees) in front
    of whatever application logic is composed in ; and
  - Prometheus metrics and structured logging for operating the node.`,

		Example: `  lattice
  lattice version
  lattice --home /tmp/.lattice --socket unix://lattice.sock --id /tmp/.lattice/id`,

		RunE: runRoot,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "",
		"Path to the lattice home directory (if empty, uses $HOME/.lattice)")
	rootCmd.PersistentFlags().StringVar(&socketAddr, "socket", "unix://lattice.sock",
		"Unix domain socket address CometBFT connects to")
	rootCmd.PersistentFlags().StringVar(&idFile, "id", "",
		"Path to the identity file (if empty, uses $HOME/.lattice/id)")
	rootCmd.PersistentFlags().StringVar(&chainID, "chain-id", "lattice",
		"Chain id compiled into the ChainCommitment plugin layer")
	rootCmd.PersistentFlags().StringVar(&keyKind, "key-kind", "ed25519",
		"Signing key kind for the node identity, \"ed25519\" or \"secp256k1\"")

	viper.BindPFlag("socket", rootCmd.PersistentFlags().Lookup("socket"))
	viper.BindPFlag("chain-id", rootCmd.PersistentFlags().Lookup("chain-id"))
	viper.BindPFlag("key-kind", rootCmd.PersistentFlags().Lookup("key-kind"))
}

// initConfig layers lattice.toml (if present in the home directory) under
// whatever flags the user passed on the command line, following viper's
// usual config-then-flags precedence.
func initConfig() {
	if homeDir == "" {
		home, _ := os.UserHomeDir()
		homeDir = filepath.Join(home, ".lattice")
	}
	if idFile == "" {
		idFile = filepath.Join(homeDir, "id")
	}

	viper.SetConfigName("lattice")
	viper.SetConfigType("toml")
	viper.AddConfigPath(homeDir)
	if err := viper.ReadInConfig(); err == nil {
		log.Printf("using config file: %s", viper.ConfigFileUsed())
	}

	if viper.IsSet("socket") {
		socketAddr = viper.GetString("socket")
	}
	if viper.IsSet("chain-id") {
		chainID = viper.GetString("chain-id")
	}
	if viper.IsSet("key-kind") {
		keyKind = viper.GetString("key-kind")
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	kind, err := parseKeyKind(keyKind)
	if err != nil {
		return err
	}

	fmt.Print("Enter your password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Print("\n")
	if err != nil {
		return fmt.Errorf("could not read password: %w", err)
	}

	if _, statErr := os.Stat(idFile); os.IsNotExist(statErr) {
		if _, _, genErr := identity.Generate(idFile, kind, pw); genErr != nil {
			return fmt.Errorf("could not generate identity: %w", genErr)
		}
	}
	if _, err := identity.Open(idFile, kind, pw); err != nil {
		return fmt.Errorf("could not open identity: %w", err)
	}

	stopHeight, err := abci.StopHeightFromEnv()
	if err != nil {
		return err
	}

	db, dbPath, teardownDb, err := openDatabase("lattice", homeDir)
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	defer teardownDb()

	logger := cmtlog.NewTMLogger(cmtlog.NewSyncWriter(os.Stdout))
	logger.Info("using database", "path", dbPath)

	st, err := store.NewIAVLStore(db, 10000)
	if err != nil {
		return fmt.Errorf("could not open merkle store: %w", err)
	}

	app := coins.NewAccounts(coins.Symbol("lattice"))
	chain := plugins.Compose(chainID, app)
	cfg := abci.Config{ChainID: chainID, StopHeight: stopHeight}
	dispatcher := abci.NewDispatcher(cfg, st, chain, logger)

	server := abciserver.NewSocketServer(socketAddr, dispatcher)
	server.SetLogger(logger)

	group, gctx := errgroup.WithContext(context.Background())
	group.Go(func() error {
		if err := server.Start(); err != nil {
			return fmt.Errorf("error starting socket server: %w", err)
		}
		<-gctx.Done()
		return server.Stop()
	})

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	select {
	case <-c:
		logger.Info("received shutdown signal")
	case <-gctx.Done():
	}

	if err := server.Stop(); err != nil {
		logger.Error("error stopping socket server", "err", err)
	}
	if err := group.Wait(); err != nil && err != context.Canceled {
		return err
	}
	if fatal := dispatcher.Fatal(); fatal != nil {
		return fatal
	}
	return nil
}

func parseKeyKind(s string) (identity.KeyKind, error) {
	switch s {
	case "ed25519", "":
		return identity.KeyEd25519, nil
	case "secp256k1":
		return identity.KeySecp256k1, nil
	default:
		return 0, fmt.Errorf("unknown key kind %q", s)
	}
}

func Execute() {
	defer func() {
		if err := recover(); err != nil {
			log.Fatalf("error starting lattice node: %v", err)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("error starting lattice node: %v", err)
	}
}

// openDatabase opens a goleveldb database in the node's home directory. The
// returned teardown func safely closes the db; callers defer it.
func openDatabase(name, homeDir string) (cmtdb.DB, string, func(), error) {
	dbPath := filepath.Join(homeDir, "leveldb")
	dbType := cmtdb.BackendType("goleveldb")

	db, err := cmtdb.NewDB(name, dbType, dbPath)
	if err != nil {
		return nil, dbPath, func() {}, err
	}

	return db, dbPath, func() {
		if err := db.Close(); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}, nil
}
