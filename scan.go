// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package pkginfo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/woozymasta/pathrules"
)

// packageSelector reports whether a path relative to the scan root is loaded.
type packageSelector func(rel string) bool

// compileSelector builds a packageSelector from rules. Patterns are cleaned like
// scanned paths, blank patterns are dropped, and a rule set left empty is rejected.
func compileSelector(rules []pathrules.Rule, opts pathrules.MatcherOptions) (packageSelector, error) {
	usable := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Pattern = normalizePathForMatching(rule.Pattern); rule.Pattern != "" {
			usable = append(usable, rule)
		}
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("%w: no usable rules", ErrInvalidScanRules)
	}

	m, err := pathrules.NewMatcher(usable, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidScanRules, err)
	}

	return func(rel string) bool {
		rel = NormalizePath(rel)
		return rel != "" && m.Included(rel, false)
	}, nil
}

// scanTask is one selected package with its result slot.
type scanTask struct {
	path  string
	index int
}

// LoadDir loads metadata of every package file under dir selected by opts.Rules.
// Results are ordered by path. Each archive is read start to end by one worker;
// MaxWorkers bounds how many archives are open at once. Without SkipErrors the
// first failure stops dispatch and the failure with the lowest path is returned.
func LoadDir(ctx context.Context, dir string, opts ScanOptions) ([]*Metadata, error) {
	opts.applyDefaults()

	selected, err := compileSelector(opts.Rules, opts.MatcherOptions)
	if err != nil {
		return nil, err
	}

	paths, err := collectPackagePaths(ctx, dir, selected)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return nil, nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = max(1, min(workers, len(paths)))

	results := make([]*Metadata, len(paths))
	errs := make([]error, len(paths))
	taskCh := make(chan scanTask, len(paths))
	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Go(func() {
			for task := range taskCh {
				if ctx.Err() != nil {
					return
				}

				meta, err := LoadWithOptions(task.path, opts.Load)
				if opts.OnPackageDone != nil {
					opts.OnPackageDone(task.path, meta, err)
				}

				if err != nil && !opts.SkipErrors {
					errs[task.index] = err
					cancel()
					return
				}
				if err == nil {
					results[task.index] = meta
				}
			}
		})
	}

	for i, p := range paths {
		taskCh <- scanTask{path: p, index: i}
	}

	close(taskCh)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}

	out := make([]*Metadata, 0, len(results))
	for _, meta := range results {
		if meta != nil {
			out = append(out, meta)
		}
	}

	return out, nil
}

// collectPackagePaths walks dir in lexical order and returns selected file paths.
func collectPackagePaths(ctx context.Context, dir string, selected packageSelector) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		if selected(filepath.ToSlash(rel)) {
			paths = append(paths, p)
		}

		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: scan %s: %w", ErrNotFound, dir, err)
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	return paths, nil
}
