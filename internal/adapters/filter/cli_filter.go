package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
	"github.com/mikey/phish-guard/internal/ports"
)

var _ ports.EmailFilter = (*CliFilter)(nil)

// CliFilter implements a command-line interface for phishing analysis
type CliFilter struct {
	service    *core.PhishingService
	logger     *zap.Logger
	out        io.Writer
	verbose    bool
	jsonOutput bool
}

// NewCliFilter creates a new CLI filter writing to stdout
func NewCliFilter(service *core.PhishingService, logger *zap.Logger, verbose, jsonOutput bool) (*CliFilter, error) {
	return NewCliFilterWithWriter(service, logger, os.Stdout, verbose, jsonOutput)
}

// NewCliFilterWithWriter creates a new CLI filter writing to out
func NewCliFilterWithWriter(service *core.PhishingService, logger *zap.Logger, out io.Writer, verbose, jsonOutput bool) (*CliFilter, error) {
	if service == nil {
		return nil, fmt.Errorf("phishing service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CliFilter{
		service:    service,
		logger:     logger,
		out:        out,
		verbose:    verbose,
		jsonOutput: jsonOutput,
	}, nil
}

// ProcessEmail analyzes the candidate and prints the report
func (f *CliFilter) ProcessEmail(ctx context.Context, candidate core.EmailCandidate, opts core.AnalyzeOptions) (*core.AnalysisReport, error) {
	if err := ValidateCandidate(candidate); err != nil {
		return nil, err
	}

	f.logger.Debug("Processing email", zap.String("sender", candidate.Sender))

	report, err := f.service.Analyze(ctx, candidate, opts)
	if err != nil {
		f.logger.Error("Failed to analyze email", zap.Error(err))
		return nil, err
	}

	if f.jsonOutput {
		enc := json.NewEncoder(f.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return report, nil
	}

	f.printReport(candidate, report)
	return report, nil
}

func (f *CliFilter) printReport(candidate core.EmailCandidate, report *core.AnalysisReport) {
	w := f.out
	v := report.Verdict

	fmt.Fprintf(w, "\n=== Email Summary ===\n")
	fmt.Fprintf(w, "From: %s\n", candidate.Sender)
	fmt.Fprintf(w, "Subject: %s\n", candidate.Subject)
	fmt.Fprintf(w, "Body length: %d bytes\n", len(candidate.Body))

	if f.verbose {
		fmt.Fprintf(w, "\nBody preview:\n%s\n", bodyPreview(candidate.Body, previewSize))
	}

	if v.TypoAlert != nil {
		fmt.Fprintf(w, "\nWARNING: %s\n", v.TypoAlert.Message())
	}

	fmt.Fprintf(w, "\n=== Results ===\n")
	fmt.Fprintf(w, "Is phishing: %t\n", v.IsPhishing)
	fmt.Fprintf(w, "Phishing probability: %.2f%%\n", v.AdjustedProbability*100)
	if v.TrustedSender {
		fmt.Fprintf(w, "Trusted sender: %s (raw probability %.2f%%)\n", v.SenderDomain, v.RawProbability*100)
	}
	fmt.Fprintf(w, "Risk level: %s\n", report.RiskLevel)

	if e := report.Explanation; e != nil {
		fmt.Fprintf(w, "\n=== Explanation ===\n")
		if e.Structured {
			fmt.Fprintf(w, "Analyst score: %d/100\n", e.Score)
		}
		fmt.Fprintf(w, "%s\n", e.Explanation)
		if len(e.RiskFactors) > 0 {
			fmt.Fprintf(w, "Risk factors: %s\n", strings.Join(e.RiskFactors, ", "))
		}
		fmt.Fprintf(w, "Model used: %s\n", e.ModelUsed)
	}
	if report.ExplanationError != "" {
		fmt.Fprintf(w, "\nNote: %s\n", report.ExplanationError)
	}

	fmt.Fprintf(w, "Processing time: %v\n", report.Duration)
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}

const previewSize = 500

// bodyPreview cuts body to at most max bytes on a rune boundary
func bodyPreview(body string, max int) string {
	if len(body) <= max {
		return body
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
