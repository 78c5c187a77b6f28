package analysis

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/jonathan/smart-ats/internal/ingestion"
	"github.com/jonathan/smart-ats/internal/llm"
	"github.com/jonathan/smart-ats/internal/prompts"
	"github.com/sirupsen/logrus"
)

// Request is the input to one Analyze action.
type Request struct {
	JobDescription string
	Resume         io.ReaderAt
	ResumeSize     int64
	ResumeName     string
}

// Analyzer runs extraction, prompt building, generation and parsing.
// It holds no per-user state; callers store the returned Result.
type Analyzer struct {
	client    llm.Client
	extractor ingestion.Extractor
	logger    logrus.FieldLogger
}

// NewAnalyzer creates an Analyzer. A nil client means the provider credential
// is missing; Analyze then fails with ErrMissingCredential.
func NewAnalyzer(client llm.Client, logger logrus.FieldLogger) *Analyzer {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	a := &Analyzer{client: client, logger: logger}
	a.extractor = ingestion.Extractor{
		Policy: ingestion.SkipUnreadablePages,
		OnSkip: func(page int, err error) {
			a.logger.WithError(err).WithField("page", page).Warn("Skipping unreadable page")
		},
	}
	return a
}

// Ready reports whether a model client is configured.
func (a *Analyzer) Ready() bool {
	return a.client != nil
}

// Model returns the model name, or "" when no client is configured.
func (a *Analyzer) Model() string {
	if a.client == nil {
		return ""
	}
	return a.client.Model()
}

// Analyze performs one complete analysis. On any failure no Result is
// returned, so callers keep whatever state they had before.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	if a.client == nil {
		return nil, ErrMissingCredential
	}
	if req.Resume == nil {
		return nil, ErrNoDocument
	}

	logger := a.logger.WithFields(logrus.Fields{
		"resume": req.ResumeName,
		"model":  a.client.Model(),
	})

	text, err := a.extractor.ExtractPDF(req.Resume, req.ResumeSize)
	if err != nil {
		return nil, err
	}

	prompt, err := prompts.BuildAnalysisPrompt(text, req.JobDescription)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := a.client.Generate(ctx, prompt)
	if err != nil {
		logger.WithError(err).Error("Model call failed")
		if errors.Is(err, llm.ErrMissingCredential) {
			return nil, ErrMissingCredential
		}
		return nil, &UpstreamError{Message: "failed to fetch response from the language model", Cause: err}
	}

	result, err := Parse(raw)
	if err != nil {
		logger.WithError(err).Warn("Model response could not be parsed")
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"duration_ms":      time.Since(start).Milliseconds(),
		"resume_chars":     len([]rune(text)),
		"match":            result.MatchPercentage,
		"missing_keywords": len(result.MissingKeywords),
	}).Info("Analysis complete")
	return result, nil
}
