package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/smart-ats/internal/analysis"
	"github.com/jonathan/smart-ats/internal/observability"
	"github.com/spf13/cobra"
)

var (
	validateJSON    string
	validateVerbose bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a saved model response",
	Long:  `Check a saved model response against the analysis result schema, applying the same cleanup the analyzer applies before parsing.`,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to the saved response (required)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Print the parsed result")

	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(validateJSON)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", validateJSON)
		}
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	result, err := analysis.Parse(string(raw))
	if err != nil {
		var malformed *analysis.MalformedResponseError
		if errors.As(err, &malformed) {
			return fmt.Errorf("validation failed: %s", malformed.Message)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Validation passed")
	fmt.Fprintf(out, "JD Match: %s\n", result.MatchPercentage)
	fmt.Fprintf(out, "Missing keywords: %d\n", len(result.MissingKeywords))
	if validateVerbose {
		observability.NewPrinter(out).PrintAnalysisResult(result)
	}
	return nil
}
