package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/CreativeUnicorns/prefseditor"
	"github.com/CreativeUnicorns/prefseditor/cache"
	"github.com/CreativeUnicorns/prefseditor/encryption"
	"github.com/CreativeUnicorns/prefseditor/storage"
)

const (
	envStorage       = "PREFSEDITOR_STORAGE"
	envDSN           = "PREFSEDITOR_DSN"
	envRedisAddr     = "PREFSEDITOR_REDIS_ADDR"
	envRedisPassword = "PREFSEDITOR_REDIS_PASSWORD"
	envRedisDB       = "PREFSEDITOR_REDIS_DB"
	envProfile       = "PREFSEDITOR_PROFILE"
)

var (
	// Global flags
	verbose     bool
	jsonOut     bool
	envFile     string
	storageKind string
	dsn         string
	redisAddr   string
	profile     string
)

var rootCmd = &cobra.Command{
	Use:   "prefsctl",
	Short: "Inspect and edit analyzer preferences",
	Long: `prefsctl lists, searches and edits the preferences of the analyzer.
Changed values are saved to the configured storage backend; values equal to
their defaults are removed from it.

Settings may also come from the environment or a .env file:
  PREFSEDITOR_STORAGE, PREFSEDITOR_DSN, PREFSEDITOR_REDIS_ADDR,
  PREFSEDITOR_REDIS_PASSWORD, PREFSEDITOR_REDIS_DB, PREFSEDITOR_PROFILE,
  PREFSEDITOR_ENCRYPTION_KEY`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load")
	rootCmd.PersistentFlags().
		StringVar(&storageKind, "storage", "sqlite", "Storage backend: memory, sqlite or postgres")
	rootCmd.PersistentFlags().
		StringVar(&dsn, "dsn", "prefseditor.db", "SQLite path or PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "Redis address for caching (optional)")
	rootCmd.PersistentFlags().
		StringVar(&profile, "profile", prefseditor.DefaultProfile, "Configuration profile")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnv reads the env file, then fills every flag the user did not set from the environment.
func loadEnv(cmd *cobra.Command, _ []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	flags := cmd.Root().PersistentFlags()
	for name, env := range map[string]string{
		"storage":    envStorage,
		"dsn":        envDSN,
		"redis-addr": envRedisAddr,
		"profile":    envProfile,
	} {
		if flags.Changed(name) {
			continue
		}
		if v, ok := os.LookupEnv(env); ok && v != "" {
			if err := flags.Set(name, v); err != nil {
				return fmt.Errorf("invalid %s: %w", env, err)
			}
		}
	}
	return nil
}

// app bundles the registry and the backends opened for one command.
type app struct {
	reg    *prefseditor.Registry
	editor *prefseditor.Editor
	store  prefseditor.Storage
	cache  prefseditor.Cache
	logger prefseditor.Logger
}

func newLogger() prefseditor.Logger {
	level := prefseditor.LogLevelWarn
	if verbose {
		level = prefseditor.LogLevelDebug
	}
	return prefseditor.NewTextLogger(os.Stderr, level)
}

func openStorage() (prefseditor.Storage, error) {
	switch storageKind {
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "sqlite":
		return storage.NewSQLiteStorage(dsn)
	case "postgres":
		return storage.NewPostgresStorage(dsn)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", storageKind)
	}
}

func openCache() (prefseditor.Cache, error) {
	if redisAddr == "" {
		return cache.NewMemoryCache(), nil
	}
	db := 0
	if v := os.Getenv(envRedisDB); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envRedisDB, err)
		}
		db = n
	}
	return cache.NewRedisCache(redisAddr, os.Getenv(envRedisPassword), db)
}

// openApp builds the sample registry over the configured backends and loads the saved profile.
func openApp(ctx context.Context) (*app, error) {
	logger := newLogger()

	store, err := openStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	c, err := openCache()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	opts := []prefseditor.Option{
		prefseditor.WithStorage(store),
		prefseditor.WithCache(c),
		prefseditor.WithLogger(logger),
		prefseditor.WithProfile(profile),
	}
	if os.Getenv(encryption.EnvKeyName) != "" {
		enc, err := prefseditor.NewEnvEncryptor()
		if err != nil {
			_ = c.Close()
			_ = store.Close()
			return nil, err
		}
		opts = append(opts, prefseditor.WithEncryptor(enc))
	}

	reg := prefseditor.New(opts...)
	if err := registerDefaults(reg); err != nil {
		_ = c.Close()
		_ = store.Close()
		return nil, err
	}

	n, err := reg.Load(ctx)
	if err != nil {
		_ = c.Close()
		_ = store.Close()
		return nil, fmt.Errorf("failed to load profile %q: %w", profile, err)
	}
	logger.Debug("Opened preferences", "storage", storageKind, "profile", reg.Profile(), "loaded", n)

	return &app{
		reg:    reg,
		editor: prefseditor.NewEditor(reg),
		store:  store,
		cache:  c,
		logger: logger,
	}, nil
}

func (a *app) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("Failed to close cache", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("Failed to close storage", "error", err)
	}
}

// row finds the editor row for a full preference name.
func (a *app) row(name string) (*prefseditor.Row, error) {
	row, ok := a.editor.Row(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", prefseditor.ErrNotFound, name)
	}
	return row, nil
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printVerbose prints a message in verbose mode only
func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
