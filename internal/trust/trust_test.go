package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMatcher_IsTrusted(t *testing.T) {
	matcher := NewMatcher([]string{"google.com", " Microsoft.COM ", "bank.co.uk"}, zap.NewNop())

	tests := []struct {
		name     string
		domain   string
		expected bool
	}{
		{"Exact match", "google.com", true},
		{"Exact match normalized at construction", "microsoft.com", true},
		{"Subdomain inherits trust", "mail.google.com", true},
		{"Deep subdomain inherits trust", "a.b.mail.google.com", true},
		{"Subdomain of multi-label suffix", "statements.bank.co.uk", true},
		{"Suffix without dot boundary", "notgoogle.com", false},
		{"Trusted name as prefix", "google.com.evil.io", false},
		{"Typo of trusted domain", "gooogle.com", false},
		{"Unrelated domain", "example.org", false},
		{"Empty domain", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matcher.IsTrusted(tt.domain))
		})
	}
}

func TestMatcher_IsTrustedSender(t *testing.T) {
	matcher := NewMatcher([]string{"google.com"}, zap.NewNop())

	assert.True(t, matcher.IsTrustedSender("billing@mail.google.com"))
	assert.True(t, matcher.IsTrustedSender("Someone@GOOGLE.com"))
	assert.False(t, matcher.IsTrustedSender("no-at-sign"))
	assert.False(t, matcher.IsTrustedSender(""))
}

func TestNewMatcher_RejectsUnsafeEntries(t *testing.T) {
	matcher := NewMatcher([]string{
		"gmail.com",
		"Outlook.com",
		"com",
		"co.uk",
		"",
		"acme-corp.com",
		"acme-corp.com",
	}, zap.NewNop())

	assert.Equal(t, []string{"acme-corp.com"}, matcher.Domains())
	assert.False(t, matcher.IsTrusted("gmail.com"))
	assert.False(t, matcher.IsTrusted("anything.com"))
	assert.True(t, matcher.IsTrusted("hr.acme-corp.com"))
}

func TestNewMatcher_Empty(t *testing.T) {
	matcher := NewMatcher(nil, nil)

	assert.Empty(t, matcher.Domains())
	assert.False(t, matcher.IsTrusted("google.com"))
}

func TestDefaultDomainsAreAccepted(t *testing.T) {
	matcher := NewMatcher(DefaultDomains, zap.NewNop())
	assert.Equal(t, DefaultDomains, matcher.Domains())
}
