package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizcat/internal/config"
	"github.com/abhisek/quizcat/internal/logger"
	"github.com/abhisek/quizcat/internal/report"
	"github.com/abhisek/quizcat/internal/store"
)

// Populated by the root command before any subcommand runs.
var (
	appCfg *config.Config
	log    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "quizcat",
	Short: "Adaptive testing engine",
	Long:  "quizcat runs computerized adaptive test sessions against question banks.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		envFile, _ := cmd.Flags().GetString("env-file")
		cfg, err := config.Load(path, envFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		l, err := logger.New(cfg)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		appCfg, log = cfg, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./quizcat.yaml or ~/.config/quizcat/quizcat.yaml)")
	rootCmd.PersistentFlags().String("env-file", "", "Path to dotenv file (default ./.env)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZCAT_DB env var)")
	rootCmd.PersistentFlags().Bool("plain", false, "Disable terminal styling")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the db_path config key, then QUIZCAT_DB env var, then the default
// XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if appCfg != nil && appCfg.DBPath != "" {
		return appCfg.DBPath, store.EnsureDir(appCfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath, store.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func renderer(cmd *cobra.Command) *report.Renderer {
	r := report.New(72)
	r.Plain, _ = cmd.Flags().GetBool("plain")
	return r
}
