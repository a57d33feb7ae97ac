package core

import (
	"errors"
	"math"
)

const (
	// TrustDiscount is subtracted from the raw probability for trusted senders
	TrustDiscount = 0.40
	// PhishingThreshold is the adjusted probability above which an email is phishing
	PhishingThreshold = 0.5
)

// ErrClassifierUnavailable is returned when no trained classifier can be loaded or trained
var ErrClassifierUnavailable = errors.New("classifier unavailable")

// Fuse combines the classifier probability with the trust and typosquat signals.
// Trust only ever lowers the probability, and never below zero, so a raw score
// above 0.90 still survives the discount.
func Fuse(raw float64, trusted bool, alert *TypoAlert) RiskVerdict {
	raw = clamp01(raw)

	adjusted := raw
	if trusted {
		adjusted = math.Max(0, raw-TrustDiscount)
	}

	return RiskVerdict{
		RawProbability:      raw,
		AdjustedProbability: adjusted,
		IsPhishing:          adjusted > PhishingThreshold,
		TrustedSender:       trusted,
		TypoAlert:           alert,
	}
}

func clamp01(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
