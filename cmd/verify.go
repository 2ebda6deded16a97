package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tuplog/formatter"
	"github.com/gnolang/tuplog/internal/cache"
	"github.com/gnolang/tuplog/kernel"
	"github.com/gnolang/tuplog/verifier"
)

var (
	verifyJsonOutput bool
	outPath          string
	cacheDir         string
	showProgress     bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [paths...]",
	Short: "Verify proof documents",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := kernel.New(cfgFile, logger)
		if err != nil {
			logger.Fatal("Failed to initialize verification engine", zap.Error(err))
		}
		if cacheDir != "" {
			c, err := cache.New(cacheDir)
			if err != nil {
				logger.Fatal("Failed to open cache", zap.String("dir", cacheDir), zap.Error(err))
			}
			engine.UseCache(c)
		}

		var progress io.Writer
		if showProgress {
			progress = os.Stderr
		}

		ok, err := runVerifyProcess(ctx, logger, engine, args, os.Stdout, progress, verifyJsonOutput, outPath)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
			os.Exit(1)
		}
		if !ok {
			os.Exit(1)
		}
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyJsonOutput, "json", false, "Output results in JSON format")
	verifyCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	verifyCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory for the verification cache (disabled when empty)")
	verifyCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar for directories")
}

// runVerifyProcess verifies paths and prints the results to out.
// It reports false when any document is invalid or ungrounded.
func runVerifyProcess(
	ctx context.Context,
	logger *zap.Logger,
	engine kernel.VerifyEngine,
	paths []string,
	out io.Writer,
	progress io.Writer,
	isJson bool,
	jsonOutput string,
) (bool, error) {
	results, err := kernel.ProcessFiles(ctx, logger, engine, paths, progress)
	if err != nil {
		return false, err
	}

	if isJson {
		if err := printJSON(results, out, jsonOutput); err != nil {
			return false, err
		}
	} else {
		fmt.Fprint(out, formatter.FormatResults(results))
	}

	for _, res := range results {
		if !res.Valid() || !res.Grounded {
			return false, nil
		}
	}
	return true, nil
}

type jsonResult struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Valid    bool   `json:"valid"`
	Grounded bool   `json:"grounded"`
	Cached   bool   `json:"cached,omitempty"`
	Location string `json:"location,omitempty"`
	Error    string `json:"error,omitempty"`
}

func toJSON(res kernel.Result) jsonResult {
	jr := jsonResult{
		Path:     res.Path,
		Name:     res.Name,
		Valid:    res.Valid(),
		Grounded: res.Grounded,
		Cached:   res.Cached,
	}
	if res.Err != nil {
		jr.Error = res.Err.Error()
		var le *verifier.LocatedError
		if errors.As(res.Err, &le) {
			jr.Location = le.Location()
		}
	}
	return jr
}

func printJSON(results []kernel.Result, out io.Writer, jsonOutput string) error {
	items := make([]jsonResult, len(results))
	for i, res := range results {
		items[i] = toJSON(res)
	}
	d, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("error marshalling results to JSON: %w", err)
	}

	if jsonOutput == "" {
		_, err = fmt.Fprintln(out, string(d))
		return err
	}

	f, err := os.Create(jsonOutput)
	if err != nil {
		return fmt.Errorf("error creating JSON output file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(d); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
