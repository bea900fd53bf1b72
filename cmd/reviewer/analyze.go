package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/text-reviewer/internal/analysis"
	"github.com/jonathan/text-reviewer/internal/llm"
	"github.com/jonathan/text-reviewer/internal/observability"
	"github.com/jonathan/text-reviewer/internal/sanitize"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Review a single text and print the assessment as JSON",
	Long:  "Review a text file (or stdin when no file is given) for spelling, grammar and style errors and print the assessment as JSON. Nothing is persisted.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeAPIKey  string
	analyzeModel   string
	analyzeVerbose bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Model name (overrides GEMINI_MODEL env var)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a human-readable summary to stderr")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	text, err = sanitize.Clean(text, 0)
	if err != nil {
		return fmt.Errorf("failed to sanitize input: %w", err)
	}
	if text == "" {
		return fmt.Errorf("input is empty or contains only whitespace")
	}

	apiKey := resolveAPIKey(analyzeAPIKey)
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, llm.DefaultConfig().WithModel(resolveModel(analyzeModel)), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	assessment, err := analysis.New(client).Review(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to analyze text: %w", err)
	}

	if analyzeVerbose {
		observability.NewPrinter(os.Stderr).PrintAssessment(assessment)
	}

	jsonBytes, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

// readInput reads the text to review from the file argument, or from stdin
// when no argument is given.
func readInput(args []string) (string, error) {
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(content), nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(content), nil
}

func resolveAPIKey(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("GEMINI_API_KEY")
}

func resolveModel(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("GEMINI_MODEL")
}
