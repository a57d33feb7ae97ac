package explainer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mikey/phish-guard/internal/core"
)

// ErrMalformedResponse is returned when a backend answered but the answer does
// not fit the expected schema
var ErrMalformedResponse = errors.New("malformed explainer response")

type structuredResponse struct {
	Score       *int     `json:"score"`
	IsPhishing  *bool    `json:"is_phishing"`
	Explanation *string  `json:"explanation"`
	RiskFactors []string `json:"risk_factors"`
}

// ParseResponse decodes a backend answer according to mode
func ParseResponse(mode Mode, text string) (*core.Explanation, error) {
	if mode == ModeText {
		return parseText(text)
	}
	return parseStructured(text)
}

func parseText(text string) (*core.Explanation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrMalformedResponse)
	}
	return &core.Explanation{Explanation: text}, nil
}

func parseStructured(text string) (*core.Explanation, error) {
	payload := extractJSON(text)
	if payload == "" {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}

	var resp structuredResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch {
	case resp.Score == nil:
		return nil, fmt.Errorf("%w: missing score", ErrMalformedResponse)
	case *resp.Score < 0 || *resp.Score > 100:
		return nil, fmt.Errorf("%w: score %d out of range", ErrMalformedResponse, *resp.Score)
	case resp.IsPhishing == nil:
		return nil, fmt.Errorf("%w: missing is_phishing", ErrMalformedResponse)
	case resp.Explanation == nil:
		return nil, fmt.Errorf("%w: missing explanation", ErrMalformedResponse)
	}

	factors := resp.RiskFactors
	if factors == nil {
		factors = []string{}
	}

	return &core.Explanation{
		Score:       *resp.Score,
		IsPhishing:  *resp.IsPhishing,
		Explanation: *resp.Explanation,
		RiskFactors: factors,
		Structured:  true,
	}, nil
}

// extractJSON strips markdown fences and surrounding prose, returning the
// outermost JSON object or "" when there is none
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
