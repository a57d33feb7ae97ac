package ports

import (
	"context"

	"github.com/mikey/phish-guard/internal/core"
)

// EmailFilter is an entry surface that feeds candidates to the phishing service
type EmailFilter interface {
	// ProcessEmail analyzes a candidate and returns the report
	ProcessEmail(ctx context.Context, candidate core.EmailCandidate, opts core.AnalyzeOptions) (*core.AnalysisReport, error)

	// Start starts the email filter service
	Start() error

	// Stop stops the email filter service
	Stop() error
}
