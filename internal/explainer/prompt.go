package explainer

import (
	"fmt"
	"strings"

	"github.com/mikey/phish-guard/internal/core"
	"github.com/mikey/phish-guard/internal/utils"
)

// Mode selects the response contract requested from the backend
type Mode string

const (
	// ModeStructured asks for a JSON verdict with score, flag, explanation and risk factors
	ModeStructured Mode = "structured"
	// ModeText asks for a short free-text explanation
	ModeText Mode = "text"
)

// ParseMode converts a configuration value to a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStructured, "":
		return ModeStructured, nil
	case ModeText:
		return ModeText, nil
	default:
		return "", fmt.Errorf("unknown explainer mode: %s", s)
	}
}

const structuredPrompt = `You are a world-class cybersecurity expert specialized in phishing detection.
Analyze the following email metadata and content to determine if it is a phishing attempt.

Sender: %s
Subject: %s
Body: %s

System Alert: %s
Classifier Probability: %.2f (adjusted %.2f, trusted sender: %t)

Your task is to provide a comprehensive analysis in JSON format with the following fields:
- "score": An integer from 0 to 100 representing the probability of phishing (0 = Safe, 100 = Definitely Phishing).
- "is_phishing": A boolean (true if score > 50).
- "explanation": A concise explanation of your findings.
- "risk_factors": A list of strings highlighting specific red flags (e.g., "Urgency", "Mismatched Domain", "Typosquatting").

Return ONLY valid JSON. Do not include markdown formatting like ` + "```json ... ```" + `.`

const textPrompt = `You are a cybersecurity analyst. An automated filter flagged the email below.
Explain in two or three sentences, for a non-technical reader, why it may be a phishing attempt.

Sender: %s
Subject: %s
Body: %s

System Alert: %s
Classifier Probability: %.2f (adjusted %.2f, trusted sender: %t)`

// PromptBuilder renders explain requests into backend prompts
type PromptBuilder struct {
	mode        Mode
	maxBodySize int
	processor   *utils.TextProcessor
}

// NewPromptBuilder creates a new prompt builder. Bodies longer than
// maxBodySize bytes are truncated; zero disables truncation.
func NewPromptBuilder(mode Mode, maxBodySize int, processor *utils.TextProcessor) *PromptBuilder {
	if processor == nil {
		processor = utils.NewTextProcessor(nil)
	}
	return &PromptBuilder{
		mode:        mode,
		maxBodySize: maxBodySize,
		processor:   processor,
	}
}

// Mode returns the response contract the prompts ask for
func (b *PromptBuilder) Mode() Mode {
	return b.mode
}

// Build renders the prompt for req
func (b *PromptBuilder) Build(req *core.ExplainRequest) string {
	body := b.processor.ProcessText(req.Body, b.maxBodySize)

	alert := "None"
	if req.TypoAlert != nil {
		alert = req.TypoAlert.Message()
	}

	format := structuredPrompt
	if b.mode == ModeText {
		format = textPrompt
	}

	return fmt.Sprintf(format,
		req.Sender,
		req.Subject,
		body,
		alert,
		req.RawProbability,
		req.AdjustedProbability,
		req.TrustedSender)
}
