// Package main provides the entry point for the Text Reviewer HTTP API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reviewer",
	Short: "AI text review service",
	Long:  "Text Reviewer analyzes free-form text for spelling, grammar and style errors using a Gemini model, with verified character positions for every reported error.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
