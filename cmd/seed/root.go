package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/neuralsearch/internal/bootstrap"
	"github.com/kailas-cloud/neuralsearch/internal/config"
	logpkg "github.com/kailas-cloud/neuralsearch/internal/logger"
	"github.com/kailas-cloud/neuralsearch/internal/metrics"
	"github.com/kailas-cloud/neuralsearch/internal/usecase/seed"
	"github.com/kailas-cloud/neuralsearch/internal/version"
)

type options struct {
	env       string
	input     string
	textField string
	batchSize int
	recreate  bool
	quiet     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load JSON-lines records into the search collection",
		Long: `Embed one text field of every JSON-lines record and upsert the records
into the collection configured for the search service. Each record becomes
one point; the whole record is stored as its payload.

Examples:
  seed --input 'data/**/*.jsonl'
  seed --input startups.jsonl --text-field description --recreate`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.env, "config-env", config.GetEnv(), "config environment (config/<env>.yaml)")
	f.StringVarP(&opts.input, "input", "i", "", "glob of JSON-lines files, e.g. 'data/**/*.jsonl'")
	f.StringVar(&opts.textField, "text-field", seed.DefaultTextField, "record field to embed")
	f.IntVar(&opts.batchSize, "batch-size", seed.DefaultBatchSize, "records per embedding/upsert batch")
	f.BoolVar(&opts.recreate, "recreate", false, "drop and recreate the collection first")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "disable the progress bar")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func run(parent context.Context, opts *options) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := expandInput(opts.input)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(opts.env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting seed",
		zap.String("collection", cfg.Search.Collection),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Int("files", len(files)),
	)

	metrics.RegisterEmbeddingMetrics()

	store, err := bootstrap.OpenStore(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	// Seeding embeds every record once; a cache would only fill up.
	embCfg := cfg.Embedding
	embCfg.Cache.Backend = config.CacheNone
	embedder, err := bootstrap.BuildEmbedder(embCfg, nil, logger)
	if err != nil {
		return err
	}
	defer func() { _ = embedder.Close() }()

	svc, err := seed.New(store, embedder.WithInstruction(cfg.Embedding.DocumentInstruction), seed.Config{
		Collection: cfg.Search.Collection,
		Dimensions: cfg.Embedding.Dimensions,
		TextField:  opts.textField,
		BatchSize:  opts.batchSize,
		Recreate:   opts.recreate,
	}, logger)
	if err != nil {
		return fmt.Errorf("create seeder: %w", err)
	}

	if err := svc.Prepare(ctx); err != nil {
		return err
	}

	total, err := countRecords(files)
	if err != nil {
		return err
	}

	bar := newProgressBar(total, opts.quiet)
	progress := func(n int) { _ = bar.Add(n) }

	var stats seed.Stats
	for _, path := range files {
		s, err := loadFile(ctx, svc, path, progress)
		stats.Add(s)
		if err != nil {
			fmt.Fprintln(os.Stderr)
			return err
		}
	}
	_ = bar.Finish()

	fmt.Fprintf(os.Stderr, "\nSeeding complete:\n")
	fmt.Fprintf(os.Stderr, "  Files:   %d\n", len(files))
	fmt.Fprintf(os.Stderr, "  Loaded:  %d\n", stats.Loaded)
	fmt.Fprintf(os.Stderr, "  Skipped: %d\n", stats.Skipped)
	return nil
}

func expandInput(pattern string) ([]string, error) {
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, fmt.Errorf("invalid input pattern %q", pattern)
	}
	files, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}
	sort.Strings(files)
	return files, nil
}

func loadFile(ctx context.Context, svc *seed.Service, path string, progress seed.ProgressFunc) (seed.Stats, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return seed.Stats{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	source, err := sourceName(path)
	if err != nil {
		return seed.Stats{}, err
	}
	return svc.Load(ctx, source, f, progress) //nolint:wrapcheck // seed wraps with the source name
}

// sourceName is the absolute, slash-separated path that point IDs are
// derived from, so the same file seeds the same IDs from any working dir.
func sourceName(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return filepath.ToSlash(abs), nil
}

// countRecords counts non-blank lines so the progress bar has a total.
func countRecords(files []string) (int, error) {
	total := 0
	for _, path := range files {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", path, err)
		}
		for _, line := range bytes.Split(data, []byte{'\n'}) {
			if len(bytes.TrimSpace(line)) > 0 {
				total++
			}
		}
	}
	return total, nil
}

func newProgressBar(total int, quiet bool) *progressbar.ProgressBar {
	var w io.Writer = os.Stderr
	if quiet {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("records"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetDescription("[cyan]Seeding[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

