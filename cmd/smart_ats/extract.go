package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/smart-ats/internal/ingestion"
	"github.com/jonathan/smart-ats/internal/observability"
	"github.com/spf13/cobra"
)

var (
	extractPDF          string
	extractFailOnPage   bool
	extractMetadataOnly bool
	extractVerbose      bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract text from a PDF resume",
	Long:  `Extract the plain text of a PDF resume exactly as the analyzer sees it, followed by its metadata as JSON.`,
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractPDF, "pdf", "", "Path to the PDF resume (required)")
	extractCmd.Flags().BoolVar(&extractFailOnPage, "fail-on-unreadable", false, "Fail instead of skipping pages whose text cannot be read")
	extractCmd.Flags().BoolVar(&extractMetadataOnly, "metadata-only", false, "Print only the metadata JSON")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print a readable extraction summary instead of JSON metadata")

	if err := extractCmd.MarkFlagRequired("pdf"); err != nil {
		panic(fmt.Sprintf("failed to mark pdf flag as required: %v", err))
	}

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(extractPDF)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("PDF file not found: %s", extractPDF)
		}
		return fmt.Errorf("failed to read PDF file: %w", err)
	}

	extractor := ingestion.Extractor{Policy: ingestion.SkipUnreadablePages}
	if extractFailOnPage {
		extractor.Policy = ingestion.FailOnUnreadablePage
	}
	extractor.OnSkip = func(page int, err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped page %d: %v\n", page, err)
	}

	doc, err := extractor.ExtractUpload(filepath.Base(extractPDF), data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !extractMetadataOnly {
		fmt.Fprintln(out, doc.Text)
		fmt.Fprintln(out)
	}

	if extractVerbose {
		observability.NewPrinter(out).PrintDocumentMetadata(doc.Metadata)
		return nil
	}

	metaJSON, err := doc.Metadata.ToJSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(metaJSON))
	return nil
}
