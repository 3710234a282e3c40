package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/CTAG07/lexichain/pkg/corpus"
	"github.com/CTAG07/lexichain/pkg/diagnostics"
	"github.com/CTAG07/lexichain/pkg/markov"
	"github.com/natefinch/atomic"
	"github.com/ogier/pflag"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

const usageText = `Usage: %s [--config FILE]

Trains a word-pair model on the configured corpus and prints text that
resembles it. A default config file is written if none exists. A single
whitespace-free chunk of the corpus may not exceed max_chunk_size bytes
(1 MiB by default).

  -c, --config FILE   path of the JSON config (default ./config.json)
  -h, --help          print this message
  -V, --version       print version information
`

func main() {
	cmdName := filepath.Base(os.Args[0])
	pflag.CommandLine = pflag.NewFlagSet(cmdName, pflag.ExitOnError)
	pflag.Usage = func() { fmt.Fprintf(os.Stderr, usageText, cmdName); os.Exit(1) }
	var (
		configPath = pflag.StringP("config", "c", "./config.json", "")
		help       = pflag.BoolP("help", "h", false, "")
		version    = pflag.BoolP("version", "V", false, "")
	)
	pflag.Parse()

	if *help {
		fmt.Fprintf(os.Stdout, usageText, cmdName)
		os.Exit(0)
	}
	if *version {
		fmt.Printf("%s %s (commit %s, built %s)\n", cmdName, Version, Commit, BuildDate)
		os.Exit(0)
	}

	config, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.logLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, config, os.Stdout, logger); err != nil {
		logger.Error("Run failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run trains a generator on the configured corpus and writes one generated
// text to stdout, or to the configured output file.
func run(ctx context.Context, config *Config, stdout io.Writer, logger *slog.Logger) error {
	started := time.Now()

	src, err := corpus.Open(config.CorpusPath, corpus.WithNormalization(config.NormalizeUnicode))
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	g := markov.NewGenerator(config.tokenizer(),
		markov.WithSentinel(config.Sentinel),
		markov.WithRand(rng))
	g.SetLogger(logger)

	logger.Info("Training", "corpus", config.CorpusPath, "seed", seed)
	if err = g.Train(ctx, src); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("training failed, a chunk is longer than max_chunk_size (%d bytes): %w", config.MaxChunkSize, err)
		}
		return fmt.Errorf("training failed: %w", err)
	}

	stats := g.GetStats()
	if stats.UniqueLexemes == 0 {
		logger.Info("Got no parsable data", "unique_lexemes", 0)
		return nil
	}

	if config.DumpModel {
		var dump bytes.Buffer
		if err = g.Model().Dump(&dump); err != nil {
			return fmt.Errorf("failed to dump model: %w", err)
		}
		logger.Debug("Sequential pairs model dump", "model", dump.String())
	}

	opts := []markov.GenerateOption{
		markov.WithSoftLimit(config.SoftLimit),
		markov.WithHardLimit(config.HardLimit),
		markov.WithDeadEndFallback(config.DeadEndFallback),
	}

	var out bytes.Buffer
	res, err := g.GenerateTo(ctx, &out, opts...)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	out.WriteByte('\n')

	if config.OutputPath != "" {
		if err = atomic.WriteFile(config.OutputPath, &out); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else if _, err = out.WriteTo(stdout); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if res.HitHardLimit {
		logger.Warn("Generation stopped at the hard limit", "hard_limit", config.HardLimit)
	}
	logger.Info("Success",
		slog.Int("lexemes", res.Lexemes),
		slog.Int("unique_lexemes", stats.UniqueLexemes),
		slog.Int("dead_end_fallbacks", res.DeadEnds))

	if config.HistogramPath != "" {
		if err = diagnostics.PlotSuccessorHistogram(g.Model(), "Successors per lexeme: "+config.CorpusPath, config.HistogramPath); err != nil {
			return err
		}
		logger.Info("Wrote successor histogram", "path", config.HistogramPath)
	}

	if config.DiagnosticsDatabasePath != "" {
		summary := diagnostics.Run{
			StartedAt: started,
			Duration:  time.Since(started),
			Corpus:    config.CorpusPath,
			Sentinel:  g.Sentinel(),
			SoftLimit: config.SoftLimit,
			HardLimit: config.HardLimit,
			Seed:      seed,
			Stats:     stats,
			Result:    res,
		}
		if err = recordDiagnostics(ctx, config.DiagnosticsDatabasePath, summary, g.Model(), logger); err != nil {
			return err
		}
	}
	return nil
}

// recordDiagnostics stores the run summary and a snapshot of the model.
func recordDiagnostics(ctx context.Context, path string, run diagnostics.Run, m *markov.Model, logger *slog.Logger) (err error) {
	db, err := initDB(path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close database", "error", closeErr)
		}
	}()

	if err = diagnostics.SetupSchema(db); err != nil {
		return fmt.Errorf("failed to setup diagnostics schema: %w", err)
	}
	store, err := diagnostics.NewStore(db)
	if err != nil {
		return err
	}
	store.SetLogger(logger)
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	runID, err := store.RecordRun(ctx, run)
	if err != nil {
		return err
	}
	if err = store.RecordModel(ctx, runID, m); err != nil {
		return err
	}
	logger.Info("Recorded diagnostics", "run_id", runID, "database", strings.SplitN(path, "?", 2)[0])
	return nil
}
