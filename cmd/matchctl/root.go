package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/imadgeboyega/roommate-backend/internal/common/logger"
	"github.com/imadgeboyega/roommate-backend/internal/matching"
)

const app = "matchctl"

// Config is what matchctl reads from flags, MATCHCTL_* variables and the config file
type Config struct {
	Fixtures      string `mapstructure:"fixtures"`
	User          string `mapstructure:"user"`
	Session       string `mapstructure:"session"`
	HideBlockedBy bool   `mapstructure:"hide-blocked-by"`
	JSON          bool   `mapstructure:"json"`
	Debug         bool   `mapstructure:"debug"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "matchctl ranks candidates and records swipes against a fixtures file",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is matchctl.yaml in current directory)")
	rootCmd.PersistentFlags().StringP("fixtures", "f", "", "fixtures JSON with profiles, filters and swipes")
	rootCmd.PersistentFlags().StringP("user", "u", "", "id of the acting user")
	rootCmd.PersistentFlags().String("session", "", "session id (defaults to the user id)")
	rootCmd.PersistentFlags().Bool("hide-blocked-by", false, "also hide candidates who blocked the acting user")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "print JSON instead of a table")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")

	for _, name := range []string{"fixtures", "user", "session", "hide-blocked-by", "json", "debug"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix(strings.ToUpper(app))
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(feedCmd, compatCmd, swipeCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit --config must exist; the default one is optional
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "reading config: %v\n", err)
			os.Exit(1)
		}
	}
}

func getConfig() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Fixtures == "" {
		return nil, fmt.Errorf("a fixtures file is required (--fixtures or MATCHCTL_FIXTURES)")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("an acting user is required (--user or MATCHCTL_USER)")
	}
	if cfg.Session == "" {
		cfg.Session = cfg.User
	}
	return &cfg, nil
}

// env is the loaded store and an engine acting for the configured user
type env struct {
	cfg    *Config
	store  *matching.MemoryStore
	engine *matching.Engine
}

func setup() (*env, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}

	format, level := "console", "warn"
	if cfg.Debug {
		level = "debug"
	}
	if cfg.JSON {
		format = "json"
	}
	log, err := logger.NewStderr(format, level)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(cfg.Fixtures)
	if err != nil {
		return nil, fmt.Errorf("opening fixtures: %w", err)
	}
	defer f.Close()

	store, err := matching.LoadFixtures(f)
	if err != nil {
		return nil, err
	}

	session := matching.NewSession(cfg.User, cfg.Session, nil)
	engine := matching.NewEngine(store, session, matching.Options{
		Pool:   matching.PoolOptions{HideBlockedBy: cfg.HideBlockedBy},
		Logger: log,
	})

	log.Debug("fixtures loaded",
		zap.String("path", cfg.Fixtures),
		zap.String("user", cfg.User),
		zap.Int("swipes", len(store.Swipes())),
	)
	return &env{cfg: cfg, store: store, engine: engine}, nil
}
