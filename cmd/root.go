package main

import (
	"context"
	"fmt"
	"path/filepath"

	"namestat/internal/config"
	"namestat/internal/controller"
	"namestat/internal/output"
	"namestat/internal/service/grammar"
	"namestat/internal/service/identifier"
	"namestat/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	appConfigPath    string
	sourceConfigPath string
	gitURL           string
	outputFormat     string
	wordsFlag        string
	namesFlag        string
	orderFlag        string
	providerFlag     string
	outDir           string
	logLevel         string
	topSize          int
	workers          int
	maxFiles         int
	timeoutMs        int
)

var rootCmd = &cobra.Command{
	Use:   "namestat [paths...]",
	Short: "Count the verbs or nouns used in identifier names",
	Long: `namestat parses the source files under the given directories, splits function or
attribute names on underscores and reports the most frequent verbs or nouns.

With --git the repository is cloned into the single PATH argument first:
  namestat -g https://github.com/user/project.git ./project`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScan,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&appConfigPath, "config", "app.yaml", "Path to app configuration file")
	pf.StringVar(&sourceConfigPath, "source", "source.yaml", "Path to source configuration file")
	pf.StringVar(&providerFlag, "provider", "", "Tagger provider (lexicon, remote, gemini)")
	pf.IntVar(&timeoutMs, "timeout", 0, "Per-word classification timeout in milliseconds")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	f := rootCmd.Flags()
	f.StringVarP(&gitURL, "git", "g", "", "Clone this .git url into PATH before scanning")
	f.StringVarP(&outputFormat, "output", "o", "", "Output format (console, csv, json)")
	f.StringVarP(&wordsFlag, "words", "w", "", "Word category to count (verb, noun)")
	f.StringVarP(&namesFlag, "names", "n", "", "Names to analyze (func, vars)")
	f.IntVar(&topSize, "top", 0, "Number of most frequent words to report")
	f.StringVar(&orderFlag, "order", "", "Listing order of the reported words (ascending, descending)")
	f.IntVar(&workers, "workers", 0, "Files processed in parallel (default: number of CPUs)")
	f.IntVar(&maxFiles, "max-files", 0, "Files taken from each source (negative: no limit)")
	f.StringVar(&outDir, "out-dir", "", "Directory for csv and json reports")
}

// loadConfig reads the config files, applies command line overrides and validates
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(appConfigPath, sourceConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.App.Output = outputFormat
	}
	if flags.Changed("words") {
		cfg.App.Words = wordsFlag
	}
	if flags.Changed("names") {
		cfg.App.Names = namesFlag
	}
	if flags.Changed("order") {
		cfg.App.Order = orderFlag
	}
	if flags.Changed("top") {
		cfg.App.TopSize = topSize
	}
	if flags.Changed("workers") {
		cfg.App.NumFileThreads = workers
	}
	if flags.Changed("max-files") {
		cfg.App.MaxFiles = maxFiles
	}
	if flags.Changed("out-dir") {
		cfg.App.OutputDir = outDir
	}
	if flags.Changed("provider") {
		cfg.Tagger.Provider = providerFlag
	}
	if flags.Changed("timeout") {
		cfg.Tagger.TimeoutMs = timeoutMs
	}
	if flags.Changed("log-level") {
		cfg.App.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfgZap := zap.NewProductionConfig()
	cfgZap.Level.SetLevel(lvl)
	// stdout carries the report
	cfgZap.OutputPaths = []string{"stderr"}
	return cfgZap.Build()
}

// newPipeline wires the registry, tagger and memoized classifier
func newPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*controller.RepoProcessor, grammar.Tagger, error) {
	registry, err := identifier.NewDefaultRegistry(cfg.App.Languages...)
	if err != nil {
		return nil, nil, err
	}
	tagger, err := grammar.NewTagger(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	classifier, err := grammar.NewClassifier(grammar.NewTagProvider(tagger), cfg.Tagger.CacheSize, cfg.Tagger.Timeout(), logger)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Pipeline ready",
		zap.Strings("languages", registry.SupportedLanguages()),
		zap.String("tagger", tagger.Name()))
	return controller.NewRepoProcessor(registry, classifier, cfg.App.SkipDirs, logger), tagger, nil
}

// sources picks what to scan: a clone target, the path arguments, the configured
// repositories, or the current directory
func sources(cfg *config.Config, args []string) ([]config.Repository, error) {
	if gitURL != "" {
		if len(args) != 1 {
			return nil, fmt.Errorf("--git needs exactly one PATH argument, got %d", len(args))
		}
		if err := util.ValidateCloneTarget(gitURL, args[0]); err != nil {
			return nil, err
		}
		return []config.Repository{{URL: gitURL, Path: args[0]}}, nil
	}

	if len(args) > 0 {
		repos := make([]config.Repository, 0, len(args))
		for _, p := range args {
			repos = append(repos, config.Repository{Path: p})
		}
		return repos, nil
	}

	if len(cfg.Source.Repositories) > 0 {
		repos := make([]config.Repository, len(cfg.Source.Repositories))
		copy(repos, cfg.Source.Repositories)
		for i := range repos {
			if repos[i].URL != "" && repos[i].Path != "" && !filepath.IsAbs(repos[i].Path) {
				repos[i].Path = filepath.Join(cfg.App.WorkDir, repos[i].Path)
			}
		}
		return repos, nil
	}
	return []config.Repository{{Path: "."}}, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	repos, err := sources(cfg, args)
	if err != nil {
		return err
	}
	opts, err := controller.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	reporter, err := output.NewReporter(cfg.App.Output, cfg.App.OutputDir, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}

	processor, _, err := newPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	report, err := processor.ProcessRepositories(ctx, repos, opts)
	if err != nil {
		logger.Error("Naming scan failed", zap.Error(err))
		return err
	}

	_, err = reporter.Write(report)
	return err
}
