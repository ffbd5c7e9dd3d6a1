// Package batch decodes a directory of plot style files into JSON or YAML documents.
//
// Each file is decoded on its own, so a file that fails to decode is logged
// and skipped without stopping the rest of the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bengarrett/plotstyle"
	"github.com/bengarrett/plotstyle/internal/config"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Failure kinds.
const (
	KindFormat     = "format"
	KindDecompress = "decompress"
	KindIO         = "io"
)

// Failure is a file that was skipped.
type Failure struct {
	File string // File is the path relative to the input directory
	Kind string // Kind is one of KindFormat, KindDecompress or KindIO
	Err  error
}

// Summary is the result of a batch run.
type Summary struct {
	Parsed   []string  // Parsed are the output paths of the decoded files, sorted
	Failures []Failure // Failures are the skipped files, sorted by File
}

// Skipped returns the number of files that failed to decode.
func (s Summary) Skipped() int {
	return len(s.Failures)
}

// Classify returns the failure kind of a decode error.
func Classify(err error) string {
	var fe *plotstyle.FormatError
	var de *plotstyle.DecompressionError
	switch {
	case errors.As(err, &fe):
		return KindFormat
	case errors.As(err, &de):
		return KindDecompress
	default:
		return KindIO
	}
}

// Discover returns the sorted paths of the files in dir using one of the extensions.
// The extensions are matched case-insensitively.
func Discover(dir string, exts []string, recursive bool) ([]string, error) {
	exts = config.Extensions(exts)
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}

// Run decodes every plot style file found in the input directory and writes
// a document for each into the output directory, using cfg.Workers at once.
//
// Files that fail are logged and returned in the Summary. Only a discovery,
// output directory or context error stops the run.
func Run(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, fmt.Errorf("run: %w", err)
	}
	files, err := Discover(cfg.InputDir, cfg.Extensions, cfg.Recursive)
	if err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("run output: %w", err)
	}
	logger.Debug().Int("files", len(files)).Str("dir", cfg.InputDir).Msg("discovered plot style files")

	var (
		mu  sync.Mutex
		sum Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rel := relative(cfg.InputDir, path)
			out, err := convert(cfg, path, rel)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				kind := Classify(err)
				sum.Failures = append(sum.Failures, Failure{File: rel, Kind: kind, Err: err})
				logger.Warn().Err(err).Str("file", rel).Str("kind", kind).Msg("skipping file")
				return nil
			}
			sum.Parsed = append(sum.Parsed, out)
			logger.Info().Str("file", rel).Str("out", out).Msg("parsed")
			return nil
		})
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	slices.Sort(sum.Parsed)
	slices.SortFunc(sum.Failures, func(a, b Failure) int {
		return strings.Compare(a.File, b.File)
	})
	if err != nil {
		return sum, fmt.Errorf("run: %w", err)
	}
	return sum, nil
}

// convert decodes the file at path and writes its document, returning the output path.
// The output name keeps the source extension so pens.ctb and pens.stb do not collide.
func convert(cfg config.Config, path, rel string) (string, error) {
	p, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	cat, err := plotstyle.Decode(rel, p)
	if err != nil {
		return "", err
	}
	b, err := NewDocument(filepath.ToSlash(rel), cat).Encode(cfg.Format)
	if err != nil {
		return "", err
	}
	name := rel + "." + cfg.Format
	out := filepath.Join(cfg.OutputDir, name)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	return out, nil
}

func relative(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return filepath.Base(path)
	}
	return rel
}
