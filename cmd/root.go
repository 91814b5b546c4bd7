package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/lgtm/internal/github"
	"github.com/joescharf/lgtm/internal/llm"
	"github.com/joescharf/lgtm/internal/output"
	"github.com/joescharf/lgtm/internal/review"
	"github.com/joescharf/lgtm/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lgtm",
	Short: "AI code review - judge pull requests against ticket acceptance criteria",
	Long: `lgtm reviews pull requests against the acceptance criteria of the
ticket they implement. It fetches the ticket, pulls the diff, runs
deterministic quality checks, asks an AI backend whether each criterion
is fulfilled, and produces a pass/conditional/fail verdict.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return rootRun(cmd)
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/lgtm/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "lgtm")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LGTM")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "lgtm")

	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "lgtm.db"))
	viper.SetDefault("ai.provider", llm.ProviderAnthropic)
	viper.SetDefault("ai.model", "")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.base_url", "")
	viper.SetDefault("ai.max_tokens", 2000)
	viper.SetDefault("jira.url", "")
	viper.SetDefault("jira.username", "")
	viper.SetDefault("jira.token", "")
	viper.SetDefault("github.token", "")
	viper.SetDefault("review.fail_keywords", review.DefaultFailKeywords)
	viper.SetDefault("review.test_patterns", github.DefaultTestPatterns)
	viper.SetDefault("review.guidelines_file", "")
	viper.SetDefault("output.format", "console")

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose

	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// rootRun handles `lgtm` with no subcommand: show recent reviews, or help.
func rootRun(cmd *cobra.Command) error {
	s, err := getStore()
	if err != nil {
		return cmd.Help()
	}

	recs, err := s.ListReviews(cmd.Context(), store.ReviewListFilter{Limit: 10})
	if err != nil || len(recs) == 0 {
		return cmd.Help()
	}

	fmt.Fprintln(ui.Out, output.Bold("Recent reviews"))
	fmt.Fprintln(ui.Out)
	printReviewTable(recs)
	return nil
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(rootCmd.Context()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

// closeStore closes the shared store if a command opened it.
func closeStore() {
	if dataStore != nil {
		_ = dataStore.Close()
		dataStore = nil
	}
}
