package typosquat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/trust"
)

func TestDetector_CheckSender(t *testing.T) {
	detector := NewDetector(nil, trust.NewMatcher(trust.DefaultDomains, zap.NewNop()), zap.NewNop())

	tests := []struct {
		name           string
		sender         string
		expectBrand    string
		expectDistance int
	}{
		{
			name:           "Capital I for lowercase l",
			sender:         "security@paypaI.com",
			expectBrand:    "PayPal",
			expectDistance: 1,
		},
		{
			name:           "Digit for letter",
			sender:         "support@paypa1.com",
			expectBrand:    "PayPal",
			expectDistance: 1,
		},
		{
			name:           "Two zeros",
			sender:         "alerts@g00gle.com",
			expectBrand:    "Google",
			expectDistance: 2,
		},
		{
			name:           "Missing letter",
			sender:         "no-reply@netflx.com",
			expectBrand:    "Netflix",
			expectDistance: 1,
		},
		{
			name:        "Trusted subdomain",
			sender:      "billing@mail.google.com",
			expectBrand: "",
		},
		{
			name:        "Trailing root dot",
			sender:      "billing@google.com.",
			expectBrand: "",
		},
		{
			name:        "Official domain",
			sender:      "service@paypal.com",
			expectBrand: "",
		},
		{
			name:        "Unrelated domain",
			sender:      "friend@example.org",
			expectBrand: "",
		},
		{
			name:        "No at sign",
			sender:      "paypa1.com",
			expectBrand: "",
		},
		{
			name:        "Empty sender",
			sender:      "",
			expectBrand: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := detector.CheckSender(tt.sender)

			if tt.expectBrand == "" {
				assert.Nil(t, alert, "Expected no typosquatting alert")
				return
			}

			require.NotNil(t, alert, "Expected typosquatting alert")
			assert.Equal(t, tt.expectBrand, alert.MatchedBrand)
			assert.Equal(t, tt.expectDistance, alert.EditDistance)
			assert.Contains(t, alert.Message(), tt.expectBrand)
		})
	}
}

func TestDetector_DistanceBoundary(t *testing.T) {
	detector := NewDetector([]BrandTarget{{Domain: "paypal.com", Name: "PayPal", Priority: 1}}, nil, zap.NewNop())

	two := detector.Check("pavpa1.com")
	require.NotNil(t, two, "Distance 2 must alert")
	assert.Equal(t, 2, two.EditDistance)

	three := detector.Check("qavpa1.com")
	assert.Nil(t, three, "Distance 3 must not alert")
}

func TestDetector_OfficialDomainsNeverAlert(t *testing.T) {
	// No trust matcher: the exact-match rule alone must keep brands safe
	detector := NewDetector(nil, nil, zap.NewNop())

	for _, target := range DefaultTargets {
		assert.Nil(t, detector.Check(target.Domain), target.Domain)
	}
}

func TestDetector_TrustSuppressesAlert(t *testing.T) {
	untrusted := NewDetector(nil, nil, zap.NewNop())
	alert := untrusted.Check("paypal.co")
	require.NotNil(t, alert)
	assert.Equal(t, "PayPal", alert.MatchedBrand)

	trusted := NewDetector(nil, trust.NewMatcher([]string{"paypal.co"}, zap.NewNop()), zap.NewNop())
	assert.Nil(t, trusted.Check("paypal.co"))
}

func TestDetector_PriorityOrderWins(t *testing.T) {
	// Declared in the opposite order of priority
	detector := NewDetector([]BrandTarget{
		{Domain: "abcd.com", Name: "Declared First", Priority: 2},
		{Domain: "abce.com", Name: "Higher Priority", Priority: 1},
	}, nil, zap.NewNop())

	alert := detector.Check("abcf.com")
	require.NotNil(t, alert)
	assert.Equal(t, "Higher Priority", alert.MatchedBrand)

	targets := detector.Targets()
	require.Len(t, targets, 2)
	assert.Equal(t, "abce.com", targets[0].Domain)
}

func TestDetector_FirstHitNotBestHit(t *testing.T) {
	// "abcxy.com" is 2 edits from the first target and 1 from the second;
	// the first qualifying target still wins.
	detector := NewDetector([]BrandTarget{
		{Domain: "abcde.com", Name: "First", Priority: 1},
		{Domain: "abcxe.com", Name: "Second", Priority: 2},
	}, nil, zap.NewNop())

	alert := detector.Check("abcxy.com")
	require.NotNil(t, alert)
	assert.Equal(t, "First", alert.MatchedBrand)
	assert.Equal(t, 2, alert.EditDistance)
}

func TestNewDetector_NormalizesTargets(t *testing.T) {
	detector := NewDetector([]BrandTarget{
		{Domain: "  Example.COM ", Priority: 1},
		{Domain: "", Name: "ignored"},
	}, nil, nil)

	targets := detector.Targets()
	require.Len(t, targets, 1)
	assert.Equal(t, "example.com", targets[0].Domain)
	assert.Equal(t, "example.com", targets[0].Name)
}
