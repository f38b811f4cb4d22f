// Package analysis implements the clinical document analysis pipeline:
// given extracted text from an uploaded lab or medical report it detects
// structured lab-test readings classified against reference ranges, and
// produces a bounded-length plain-language summary with complex clinical
// terms annotated in lay language.
//
// The pipeline never fails: every degenerate input (unreadable file, empty
// text, scoring fault) degrades to a fixed user-presentable message, and the
// temp artifact it was handed is deleted on every exit path.
//
// Usage:
//
//	pipe := analysis.New(analysis.Config{Extractor: pdftext.New()})
//	res := pipe.Process(ctx, "/tmp/upload-123.pdf")
//	fmt.Println(res.Summary, len(res.TestResults))
package analysis

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Fixed messages for the two degenerate-input branches.
const (
	emptyContentMessage = "No readable content was found in this document. It may be a scanned image or an empty file."
	parseFailureMessage = "This document could not be read. It may be corrupted, encrypted, or in an unsupported format."
)

// defaultMaxPages bounds how much of a document the extractor reads.
const defaultMaxPages = 15

// TextExtractor converts a document file into plain text, reading at most
// maxPages pages. It is the only place the pipeline depends on an external
// capability for understanding the document's binary format.
type TextExtractor interface {
	ExtractText(path string, maxPages int) (string, error)
}

// Config configures a Pipeline.
type Config struct {
	// Extractor converts document bytes to text. Required.
	Extractor TextExtractor

	// MaxPages bounds extraction (default: 15).
	MaxPages int

	// Lexicon is the lab-test catalog (default: DefaultLexicon()).
	Lexicon *Lexicon

	// Logger for cleanup and extraction diagnostics.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxPages <= 0 {
		c.MaxPages = defaultMaxPages
	}
	if c.Lexicon == nil {
		c.Lexicon = DefaultLexicon()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Pipeline sequences normalization, lab-test extraction, summarization and
// term simplification for one document at a time. A Pipeline holds no
// mutable state and is safe for concurrent use.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{cfg: cfg, logger: cfg.Logger}
}

// Process analyzes the document at path and returns a well-formed Result on
// every branch; it never returns an error. The temp file at path is removed
// exactly once regardless of outcome, tolerating a file already absent.
func (p *Pipeline) Process(ctx context.Context, path string) Result {
	defer p.cleanup(path)

	raw, err := p.extract(path)
	if err != nil {
		p.logger.Warn("document extraction failed", "path", path, "error", err)
		return fallback(OutcomeParseFailure, parseFailureMessage)
	}
	if strings.TrimSpace(raw) == "" {
		return fallback(OutcomeEmptyContent, emptyContentMessage)
	}

	text := Normalize(raw)

	// Extraction and summarization are independent of each other; run them
	// side by side so a long report does not serialize the two passes.
	var (
		readings []TestReading
		summary  string
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		readings = ExtractReadings(text, p.cfg.Lexicon)
		return nil
	})
	g.Go(func() error {
		summary = Summarize(text)
		return nil
	})
	_ = g.Wait() // both tasks always return nil

	outcome := OutcomeOK
	if summary == summaryErrorMsg {
		outcome = OutcomeSummaryFallback
	}
	if readings == nil {
		readings = []TestReading{}
	}
	return Result{Summary: summary, TestResults: readings, Outcome: outcome}
}

func (p *Pipeline) extract(path string) (string, error) {
	if p.cfg.Extractor == nil {
		return "", errors.New("no text extractor configured")
	}
	return p.cfg.Extractor.ExtractText(path, p.cfg.MaxPages)
}

// cleanup deletes the temp artifact. Best-effort: a missing file is fine and
// any other failure is logged, never propagated.
func (p *Pipeline) cleanup(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.logger.Warn("temp file cleanup failed", "path", path, "error", err)
	}
}

func fallback(outcome Outcome, msg string) Result {
	return Result{Summary: msg, TestResults: []TestReading{}, Outcome: outcome}
}
