// Package main provides the entry point for the Smart ATS resume analyzer.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "smart_ats",
	Short: "Smart ATS resume analyzer",
	Long:  "Smart ATS compares a PDF resume against a job description using a language model and reports match percentage, missing keywords, a profile summary and suggested changes.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
