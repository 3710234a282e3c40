package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CTAG07/lexichain/pkg/corpus"
)

// testConfig returns a deterministic config reading corpus from a temp file.
func testConfig(t *testing.T, text string) *Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "text.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("failed to write corpus: %v", err)
	}
	cfg := DefaultConfig()
	cfg.CorpusPath = path
	cfg.Seed = 7
	cfg.SoftLimit = 0
	return cfg
}

func testLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level}))
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes to stdout", func(t *testing.T) {
		cfg := testConfig(t, "x y .")
		var out, logs bytes.Buffer
		if err := run(ctx, cfg, &out, testLogger(&logs, slog.LevelInfo)); err != nil {
			t.Fatalf("run() failed: %v", err)
		}
		if out.String() != "x y.\n" {
			t.Errorf("expected %q, got %q", "x y.\n", out.String())
		}
		if !strings.Contains(logs.String(), "msg=Success") || !strings.Contains(logs.String(), "unique_lexemes=3") {
			t.Errorf("missing success log line, got:\n%s", logs.String())
		}
	})

	t.Run("Writes to output file", func(t *testing.T) {
		cfg := testConfig(t, "x y .")
		cfg.SoftLimit = 2
		cfg.OutputPath = filepath.Join(t.TempDir(), "out.txt")
		var out, logs bytes.Buffer
		if err := run(ctx, cfg, &out, testLogger(&logs, slog.LevelInfo)); err != nil {
			t.Fatalf("run() failed: %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("expected nothing on stdout, got %q", out.String())
		}
		data, err := os.ReadFile(cfg.OutputPath)
		if err != nil {
			t.Fatalf("failed to read output file: %v", err)
		}
		if string(data) != "x y. x y.\n" {
			t.Errorf("expected %q, got %q", "x y. x y.\n", data)
		}
	})

	t.Run("Missing corpus", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CorpusPath = filepath.Join(t.TempDir(), "missing.txt")
		var out, logs bytes.Buffer
		err := run(ctx, cfg, &out, testLogger(&logs, slog.LevelInfo))
		if !errors.Is(err, corpus.ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("expected no output, got %q", out.String())
		}
	})

	t.Run("Empty corpus", func(t *testing.T) {
		cfg := testConfig(t, "  \n\t ")
		var out, logs bytes.Buffer
		if err := run(ctx, cfg, &out, testLogger(&logs, slog.LevelInfo)); err != nil {
			t.Fatalf("run() failed on an empty corpus: %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("expected no output, got %q", out.String())
		}
		if !strings.Contains(logs.String(), `msg="Got no parsable data" unique_lexemes=0`) {
			t.Errorf("expected the no-data log line, got:\n%s", logs.String())
		}
	})

	t.Run("Dead end is fatal by default", func(t *testing.T) {
		cfg := testConfig(t, "a b")
		var out, logs bytes.Buffer
		if err := run(ctx, cfg, &out, testLogger(&logs, slog.LevelInfo)); err == nil {
			t.Fatal("expected a dead end error")
		}
		cfg.DeadEndFallback = true
		out.Reset()
		if err := run(ctx, cfg, &out, testLogger(&logs, slog.LevelInfo)); err != nil {
			t.Fatalf("run() with fallback failed: %v", err)
		}
		if out.String() != "a b.\n" {
			t.Errorf("expected %q, got %q", "a b.\n", out.String())
		}
	})

	t.Run("Model dump at debug level", func(t *testing.T) {
		cfg := testConfig(t, "x y .")
		cfg.DumpModel = true
		var out, logs bytes.Buffer
		if err := run(ctx, cfg, &out, testLogger(&logs, slog.LevelDebug)); err != nil {
			t.Fatalf("run() failed: %v", err)
		}
		if !strings.Contains(logs.String(), "x:( y )") {
			t.Errorf("expected the model dump in the debug log, got:\n%s", logs.String())
		}
	})

	t.Run("Diagnostics and histogram", func(t *testing.T) {
		cfg := testConfig(t, "one fish two fish. red fish blue fish.")
		dir := t.TempDir()
		cfg.SoftLimit = 10
		cfg.DiagnosticsDatabasePath = filepath.Join(dir, "diagnostics.db")
		cfg.HistogramPath = filepath.Join(dir, "hist.png")
		var out, logs bytes.Buffer
		for range 2 {
			if err := run(ctx, cfg, &out, testLogger(&logs, slog.LevelInfo)); err != nil {
				t.Fatalf("run() failed: %v", err)
			}
		}

		if _, err := os.Stat(cfg.HistogramPath); err != nil {
			t.Errorf("histogram not written: %v", err)
		}

		db, err := initDB(cfg.DiagnosticsDatabasePath)
		if err != nil {
			t.Fatalf("initDB() failed: %v", err)
		}
		defer func() { _ = db.Close() }()
		var runs int
		if err = db.QueryRow("SELECT COUNT(*) FROM lexgen_runs").Scan(&runs); err != nil {
			t.Fatalf("failed to count runs: %v", err)
		}
		if runs != 2 {
			t.Errorf("expected 2 recorded runs, got %d", runs)
		}
	})

	t.Run("Chunk size limit is configurable", func(t *testing.T) {
		cfg := testConfig(t, "x y "+strings.Repeat("y", 40)+" .")
		cfg.MaxChunkSize = 16
		var out, logs bytes.Buffer
		err := run(ctx, cfg, &out, testLogger(&logs, slog.LevelInfo))
		if !errors.Is(err, bufio.ErrTooLong) {
			t.Fatalf("expected bufio.ErrTooLong, got %v", err)
		}
		if !strings.Contains(err.Error(), "max_chunk_size") {
			t.Errorf("expected the error to point at max_chunk_size, got %v", err)
		}

		cfg.MaxChunkSize = 64
		out.Reset()
		if err = run(ctx, cfg, &out, testLogger(&logs, slog.LevelInfo)); err != nil {
			t.Fatalf("run() with a larger chunk size failed: %v", err)
		}
		if want := "x y " + strings.Repeat("y", 40) + ".\n"; out.String() != want {
			t.Errorf("expected %q, got %q", want, out.String())
		}
	})

	t.Run("Unicode words", func(t *testing.T) {
		cfg := testConfig(t, "naïve café .")
		var out, logs bytes.Buffer
		if err := run(ctx, cfg, &out, testLogger(&logs, slog.LevelInfo)); err != nil {
			t.Fatalf("run() failed: %v", err)
		}
		if out.String() != "na ve caf.\n" {
			t.Errorf("expected the ASCII word split, got %q", out.String())
		}

		cfg.UnicodeWords = true
		out.Reset()
		if err := run(ctx, cfg, &out, testLogger(&logs, slog.LevelInfo)); err != nil {
			t.Fatalf("run() failed: %v", err)
		}
		if out.String() != "naïve café.\n" {
			t.Errorf("expected whole Unicode words, got %q", out.String())
		}
	})
}
