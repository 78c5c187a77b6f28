package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/smart-ats/internal/analysis"
	"github.com/jonathan/smart-ats/internal/config"
	"github.com/jonathan/smart-ats/internal/jobposting"
	"github.com/jonathan/smart-ats/internal/llm"
	"github.com/jonathan/smart-ats/internal/logging"
	"github.com/jonathan/smart-ats/internal/observability"
	"github.com/jonathan/smart-ats/internal/rendering"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	analyzePDF     string
	analyzeJD      string
	analyzeJDURL   string
	analyzeConfig  string
	analyzeExport  string
	analyzeVerbose bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against a job description",
	Long: `Run one analysis from the command line. The job description is read from a
file (or stdin with --jd -) or fetched from a job posting URL. The result is
printed as JSON, or as a readable summary with --verbose.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzePDF, "pdf", "", "Path to the PDF resume (required)")
	analyzeCmd.Flags().StringVar(&analyzeJD, "jd", "", "Path to a job description text file, or - for stdin")
	analyzeCmd.Flags().StringVar(&analyzeJDURL, "jd-url", "", "URL of a job posting to fetch the description from")
	analyzeCmd.Flags().StringVar(&analyzeConfig, "config", "", "Path to a JSON or YAML config file")
	analyzeCmd.Flags().StringVar(&analyzeExport, "export", "", "Write the suggested changes as a PDF to this path")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a readable summary instead of JSON")

	if err := analyzeCmd.MarkFlagRequired("pdf"); err != nil {
		panic(fmt.Sprintf("failed to mark pdf flag as required: %v", err))
	}
	analyzeCmd.MarkFlagsMutuallyExclusive("jd", "jd-url")
	analyzeCmd.MarkFlagsOneRequired("jd", "jd-url")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(analyzeConfig, os.Getenv)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.CredentialError(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Out: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	if !analyzeVerbose {
		logger.SetLevel(logrus.WarnLevel)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := llm.NewClient(ctx, llm.ConfigFor(cfg.Provider, cfg.Model), cfg.APIKey(), llm.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	return analyzeResume(ctx, cmd, analysis.NewAnalyzer(client, logger))
}

// analyzeResume runs the analysis with the command's flags and prints the result.
func analyzeResume(ctx context.Context, cmd *cobra.Command, analyzer *analysis.Analyzer) error {
	resume, err := os.ReadFile(analyzePDF)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("PDF file not found: %s", analyzePDF)
		}
		return fmt.Errorf("failed to read PDF file: %w", err)
	}

	jobDescription, err := loadJobDescription(ctx, cmd.InOrStdin())
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(ctx, analysis.Request{
		JobDescription: jobDescription,
		Resume:         bytes.NewReader(resume),
		ResumeSize:     int64(len(resume)),
		ResumeName:     filepath.Base(analyzePDF),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeVerbose {
		observability.NewPrinter(out).PrintAnalysisResult(result)
	} else {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(out, string(data))
	}

	if analyzeExport != "" {
		pdf, err := rendering.ExportChangesPDF(result.ChangesNeeded)
		if err != nil {
			return err
		}
		if err := os.WriteFile(analyzeExport, pdf, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", analyzeExport, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Suggested changes written to %s\n", analyzeExport)
	}
	return nil
}

// loadJobDescription reads the description from --jd or fetches it from --jd-url.
func loadJobDescription(ctx context.Context, stdin io.Reader) (string, error) {
	if analyzeJDURL != "" {
		posting, err := jobposting.Fetch(ctx, analyzeJDURL, nil)
		if err != nil {
			return "", err
		}
		return posting.Text, nil
	}

	var (
		data []byte
		err  error
	)
	if analyzeJD == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(analyzeJD)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("job description file not found: %s", analyzeJD)
		}
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	return string(data), nil
}
