package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"namestat/internal/config"
	"namestat/internal/model/naming"
	"namestat/internal/service/frequency"
	"namestat/internal/service/grammar"
	"namestat/internal/service/identifier"
	"namestat/internal/service/tokenizer"
	"namestat/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ScanOptions selects what a run counts and how it is ranked
type ScanOptions struct {
	Category naming.Category
	Kind     naming.IdentifierKind
	TopSize  int
	Order    frequency.Order
	// MaxFiles caps the files taken from each repository; negative means no cap
	MaxFiles int
	Workers  int
}

// OptionsFromConfig builds scan options from the app configuration
func OptionsFromConfig(cfg *config.Config) (ScanOptions, error) {
	category, err := cfg.App.Category()
	if err != nil {
		return ScanOptions{}, err
	}
	kind, err := cfg.App.Kind()
	if err != nil {
		return ScanOptions{}, err
	}
	order, err := frequency.ParseOrder(cfg.App.Order)
	if err != nil {
		return ScanOptions{}, err
	}
	if cfg.App.TopSize <= 0 {
		return ScanOptions{}, fmt.Errorf("%w: top size must be positive", naming.ErrConfiguration)
	}
	return ScanOptions{
		Category: category,
		Kind:     kind,
		TopSize:  cfg.App.TopSize,
		Order:    order,
		MaxFiles: cfg.App.MaxFiles,
		Workers:  cfg.App.NumFileThreads,
	}, nil
}

// Override returns a copy with any non-empty request values applied
func (o ScanOptions) Override(words, names, order string, top int) (ScanOptions, error) {
	if words != "" {
		category, err := naming.ParseCategory(words)
		if err != nil {
			return o, err
		}
		o.Category = category
	}
	if names != "" {
		kind, err := naming.ParseIdentifierKind(names)
		if err != nil {
			return o, err
		}
		o.Kind = kind
	}
	if order != "" {
		parsed, err := frequency.ParseOrder(order)
		if err != nil {
			return o, err
		}
		o.Order = parsed
	}
	if top < 0 {
		return o, fmt.Errorf("%w: top size must be positive, got %d", naming.ErrConfiguration, top)
	}
	if top > 0 {
		o.TopSize = top
	}
	return o, nil
}

// RepoProcessor runs the naming pipeline over repositories:
// walk -> drop magic names -> tokenize -> classify -> aggregate -> rank
type RepoProcessor struct {
	registry   *identifier.Registry
	classifier grammar.Provider
	skipDirs   []string
	logger     *zap.Logger
}

func NewRepoProcessor(registry *identifier.Registry, classifier grammar.Provider, skipDirs []string, logger *zap.Logger) *RepoProcessor {
	return &RepoProcessor{
		registry:   registry,
		classifier: classifier,
		skipDirs:   skipDirs,
		logger:     logger,
	}
}

// statsSource is implemented by *grammar.Classifier
type statsSource interface {
	Stats() grammar.ClassifierStats
}

type fileTask struct {
	source int
	path   string
}

type fileOutcome struct {
	counter     *frequency.Counter
	identifiers int
	words       int
	failures    int
	err         error
}

// ProcessPaths scans local directories
func (rp *RepoProcessor) ProcessPaths(ctx context.Context, paths []string, opts ScanOptions) (*naming.Report, error) {
	repos := make([]config.Repository, 0, len(paths))
	for _, p := range paths {
		repos = append(repos, config.Repository{Path: p})
	}
	return rp.ProcessRepositories(ctx, repos, opts)
}

// ProcessRepositories scans every enabled repository and returns one combined report.
// Unreadable or unparsable files and failed word lookups are skipped; a missing
// repository or a failed clone aborts the run before any file is scanned.
func (rp *RepoProcessor) ProcessRepositories(ctx context.Context, repos []config.Repository, opts ScanOptions) (*naming.Report, error) {
	if opts.TopSize <= 0 {
		return nil, fmt.Errorf("%w: top size must be positive, got %d", naming.ErrConfiguration, opts.TopSize)
	}
	start := time.Now()

	sources, err := rp.prepareSources(ctx, repos)
	if err != nil {
		return nil, err
	}

	report := &naming.Report{
		RunID:    uuid.NewString(),
		Category: opts.Category.String(),
		Kind:     opts.Kind.String(),
		TopSize:  opts.TopSize,
		Sources:  make([]naming.SourceSummary, len(sources)),
	}

	var tasks []fileTask
	for i, repo := range sources {
		files, err := rp.listFiles(repo.Path, opts.MaxFiles)
		if err != nil {
			return nil, fmt.Errorf("failed to list files in %s: %w", repo.Path, err)
		}
		summary := naming.SourceSummary{
			Name:       repo.DisplayName(),
			Path:       repo.Path,
			FilesFound: len(files),
		}
		if info, err := util.GetGitInfo(ctx, repo.Path); err == nil && info.IsGitRepo {
			summary.Commit = info.HeadCommitSHA
			summary.CommitMessage = info.HeadCommitMsg
		}
		report.Sources[i] = summary

		rp.logger.Info("Collected source files",
			zap.String("repo", summary.Name),
			zap.Int("files", len(files)))
		for _, f := range files {
			tasks = append(tasks, fileTask{source: i, path: f})
		}
	}

	rp.logger.Info("Total files", zap.Int("count", len(tasks)))

	outcomes, err := rp.processFiles(ctx, tasks, opts)
	if err != nil {
		return nil, err
	}

	identifiers := 0
	total := frequency.NewCounter()
	for i, outcome := range outcomes {
		task := tasks[i]
		if outcome.err != nil {
			report.FilesSkipped++
			report.Skipped = append(report.Skipped, skippedFile(sources[task.source].Path, task.path, outcome.err))
			continue
		}
		report.FilesScanned++
		report.Sources[task.source].FilesScanned++
		report.TotalWords += outcome.words
		report.ClassificationFailures += outcome.failures
		identifiers += outcome.identifiers
		total.Merge(outcome.counter)
	}
	rp.logger.Info("Trees generated", zap.Int("count", report.FilesScanned))
	rp.logger.Info("Identifiers extracted", zap.Int("count", identifiers), zap.String("kind", report.Kind))

	entries, err := total.TopK(opts.TopSize, opts.Order)
	if err != nil {
		return nil, err
	}
	report.Entries = entries
	report.TotalMatches = total.Total()
	report.DistinctWords = total.Len()
	report.GeneratedAt = time.Now().UTC()

	rp.logger.Info("Completed naming scan",
		zap.String("run_id", report.RunID),
		zap.Int("files_scanned", report.FilesScanned),
		zap.Int("files_skipped", report.FilesSkipped),
		zap.Int("words", report.TotalWords),
		zap.Int("matches", report.TotalMatches),
		zap.Int("distinct", report.DistinctWords),
		zap.Int("classification_failures", report.ClassificationFailures),
		zap.Duration("elapsed", time.Since(start)))
	if s, ok := rp.classifier.(statsSource); ok {
		stats := s.Stats()
		rp.logger.Info("Classifier stats",
			zap.Int64("lookups", stats.Lookups),
			zap.Int64("cache_hits", stats.CacheHits),
			zap.Int64("provider_calls", stats.ProviderCalls),
			zap.Int64("failures", stats.Failures))
	}

	return report, nil
}

// prepareSources clones what needs cloning and checks every path exists
func (rp *RepoProcessor) prepareSources(ctx context.Context, repos []config.Repository) ([]config.Repository, error) {
	sources := make([]config.Repository, 0, len(repos))
	for _, repo := range repos {
		if repo.Disabled {
			rp.logger.Info("Skipping disabled repository", zap.String("name", repo.DisplayName()))
			continue
		}
		if err := repo.Validate(); err != nil {
			return nil, err
		}
		if repo.URL != "" {
			if repo.Path == "" {
				return nil, fmt.Errorf("%w: repository %s needs a clone path", naming.ErrConfiguration, repo.URL)
			}
			if _, err := os.Stat(repo.Path); errors.Is(err, os.ErrNotExist) {
				rp.logger.Info("Cloning repository", zap.String("url", repo.URL), zap.String("path", repo.Path))
				if err := util.CloneRepository(ctx, repo.URL, repo.Path); err != nil {
					return nil, err
				}
			}
		}
		info, err := os.Stat(repo.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot scan %s: %v", naming.ErrConfiguration, repo.Path, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", naming.ErrConfiguration, repo.Path)
		}
		sources = append(sources, repo)
	}
	return sources, nil
}

func (rp *RepoProcessor) listFiles(root string, limit int) ([]string, error) {
	return util.ListFiles(root, rp.registry.Supports, util.SkipNames(rp.skipDirs), limit,
		func(path string, err error) {
			rp.logger.Warn("Error accessing path", zap.String("path", path), zap.Error(err))
		})
}

// processFiles runs the per-file stage on a bounded pool. Outcomes are index-aligned
// with tasks so merging them in order gives the same ranking on every run.
func (rp *RepoProcessor) processFiles(ctx context.Context, tasks []fileTask, opts ScanOptions) ([]fileOutcome, error) {
	outcomes := make([]fileOutcome, len(tasks))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, task := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = rp.processFile(ctx, task.path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (rp *RepoProcessor) processFile(ctx context.Context, path string, opts ScanOptions) fileOutcome {
	result := rp.registry.ParseFile(ctx, path)
	if !result.OK() {
		rp.logger.Warn("Skipping file", zap.String("path", path), zap.Error(result.Err))
		return fileOutcome{err: result.Err}
	}

	names := identifier.ExtractIdentifiers(result.Tree, opts.Kind)
	result.Tree.Close()

	words := tokenizer.Words(names)
	outcome := fileOutcome{counter: frequency.NewCounter(), identifiers: len(names), words: len(words)}
	for _, word := range words {
		match, err := rp.classifier.Classify(ctx, word, opts.Category)
		if err != nil {
			outcome.failures++
			continue
		}
		if match {
			outcome.counter.Add(word)
		}
	}

	rp.logger.Debug("Processed file",
		zap.String("path", path),
		zap.Int("identifiers", len(names)),
		zap.Int("words", len(words)),
		zap.Int("matches", outcome.counter.Total()))
	return outcome
}

func skippedFile(root, path string, err error) naming.SkippedFile {
	skipped := naming.SkippedFile{Path: util.ToRelativePath(root, path), Reason: "unknown", Detail: err.Error()}
	var fileErr *naming.FileError
	if errors.As(err, &fileErr) {
		skipped.Reason = fileErr.Reason()
		skipped.Detail = fileErr.Err.Error()
	}
	return skipped
}
