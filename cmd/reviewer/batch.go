package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/text-reviewer/internal/analysis"
	"github.com/jonathan/text-reviewer/internal/config"
	"github.com/jonathan/text-reviewer/internal/llm"
	"github.com/jonathan/text-reviewer/internal/sanitize"
	"github.com/jonathan/text-reviewer/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Review multiple text files concurrently",
	Long:  "Review multiple text files concurrently and write one <file>.review.json assessment next to each input. Files that fail to sanitize are skipped with a warning; a model failure aborts the batch.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

var (
	batchAPIKey      string
	batchModel       string
	batchConcurrency int
	batchConfigFile  string
)

func init() {
	batchCmd.Flags().StringVar(&batchAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	batchCmd.Flags().StringVar(&batchModel, "model", "", "Model name (overrides GEMINI_MODEL env var)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "Maximum number of files reviewed in parallel")
	batchCmd.Flags().StringVar(&batchConfigFile, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(batchCmd)
}

// errSkipFile marks an input that cannot be reviewed; the batch continues
// without it.
var errSkipFile = errors.New("file skipped")

func runBatch(_ *cobra.Command, args []string) error {
	cfg, err := loadConfigFile(batchConfigFile)
	if err != nil {
		return err
	}
	merged := cfg.MergeWithDefaults(config.Config{
		APIKey:      resolveAPIKey(batchAPIKey),
		Model:       resolveModel(batchModel),
		Concurrency: batchConcurrency,
	})

	if merged.APIKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}
	if merged.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, llm.DefaultConfig().WithModel(merged.Model), merged.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	analyzer := analysis.New(client)

	var mu sync.Mutex
	var reviewed, skipped int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(merged.Concurrency)

	for _, path := range args {
		g.Go(func() error {
			assessment, err := reviewFile(gctx, analyzer, path)
			if err != nil {
				if errors.Is(err, errSkipFile) {
					fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
					mu.Lock()
					skipped++
					mu.Unlock()
					return nil
				}
				return err
			}

			if err := writeAssessment(path, assessment); err != nil {
				return err
			}

			mu.Lock()
			reviewed++
			mu.Unlock()
			fmt.Fprintf(os.Stderr, "Reviewed %s: %d error(s)\n", path, len(assessment.Errors))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Done: %d reviewed, %d skipped\n", reviewed, skipped)
	return nil
}

// reviewFile reads, sanitizes and reviews one file. Unusable inputs return
// errSkipFile so the batch can continue without them.
func reviewFile(ctx context.Context, analyzer *analysis.Analyzer, path string) (*types.Assessment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text, err := sanitize.Clean(string(content), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errSkipFile, path, err)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: %s is empty or contains only whitespace", errSkipFile, path)
	}

	assessment, err := analyzer.Review(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to review %s: %w", path, err)
	}
	return assessment, nil
}

// writeAssessment writes the assessment JSON next to the input file.
func writeAssessment(path string, assessment *types.Assessment) error {
	jsonBytes, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal assessment for %s: %w", path, err)
	}

	ext := filepath.Ext(path)
	outPath := strings.TrimSuffix(path, ext) + ".review.json"
	if err := os.WriteFile(outPath, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}
