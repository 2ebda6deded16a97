package kernel

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

var desiredExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
}

func hasDesiredExtension(path string) bool {
	return desiredExtensions[filepath.Ext(path)]
}

// ProcessFile verifies a single document.
func ProcessFile(engine VerifyEngine, path string) (Result, error) {
	return engine.Run(path)
}

// ProcessSource verifies a document held in memory.
func ProcessSource(engine VerifyEngine, source []byte) (Result, error) {
	return engine.RunSource(source)
}

// ProcessFiles verifies every path in order. Directories are walked for
// .yaml and .yml documents.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine VerifyEngine,
	paths []string,
	progress io.Writer,
) ([]Result, error) {
	var all []Result
	for _, path := range paths {
		results, err := ProcessPath(ctx, logger, engine, path, progress)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		all = append(all, results...)
	}
	return all, nil
}

// ProcessPath verifies a document or every document below a directory.
// Directory entries are verified concurrently, as one batch when engine is a
// BatchEngine; results are sorted by path.
// Progress is drawn on progress when it is not nil.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine VerifyEngine,
	path string,
	progress io.Writer,
) ([]Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		res, err := ProcessFile(engine, path)
		if err != nil {
			return nil, err
		}
		return []Result{res}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && hasDesiredExtension(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}

	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription(path),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	if batch, ok := engine.(BatchEngine); ok {
		results, err := batch.RunBatch(ctx, files)
		if err != nil {
			if logger != nil {
				logger.Error("Error verifying batch", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		if bar != nil {
			_ = bar.Add(len(results))
		}
		sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
		return results, nil
	}

	type outcome struct {
		res Result
		err error
	}
	outcomes := make(chan outcome, len(files))
	sem := make(chan struct{}, runtime.NumCPU())

	launched := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}
		launched++
		go func(fp string) {
			defer func() { <-sem }()
			res, err := ProcessFile(engine, fp)
			if err != nil && logger != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			outcomes <- outcome{res: res, err: err}
		}(file)
	}

	var results []Result
	var firstErr error
	for i := 0; i < launched; i++ {
		o := <-outcomes
		if bar != nil {
			_ = bar.Add(1)
		}
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
			}
			continue
		}
		results = append(results, o.res)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}
