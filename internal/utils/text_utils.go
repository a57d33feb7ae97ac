package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NoDomain is returned by ExtractDomain when the sender has no usable domain
const NoDomain = ""

// ExtractDomain returns the lowercased part of the address after its last '@',
// without a trailing root dot
func ExtractDomain(sender string) string {
	idx := strings.LastIndex(sender, "@")
	if idx < 0 {
		return NoDomain
	}
	domain := strings.ToLower(strings.TrimSpace(sender[idx+1:]))
	return strings.TrimSuffix(domain, ".")
}

// ComposeText joins subject and body the way the classifier was trained
func ComposeText(subject, body string) string {
	return subject + " " + body
}

// CleanText lowercases the text, collapses whitespace runs to a single space
// and trims the ends. Training and inference must both go through here.
func CleanText(text string) string {
	lowered := cases.Lower(language.Und).String(text)
	return strings.Join(strings.Fields(lowered), " ")
}

// TextProcessor provides utilities for processing prompt text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText safely truncates text to the specified maximum size
// and ensures the result is valid UTF-8
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]

	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + "\n[... Content truncated due to size limits ...]"
}

// SanitizeUTF8 drops invalid UTF-8 bytes from the string
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		b.WriteRune(r)
		i += size
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", b.Len()))

	return b.String()
}

// ProcessText truncates and sanitizes text in one operation
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.SanitizeUTF8(tp.TruncateText(text, maxSize))
}
