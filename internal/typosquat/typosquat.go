package typosquat

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
	"github.com/mikey/phish-guard/internal/utils"
)

const (
	// MinDistance is the smallest edit distance flagged; 0 is the brand itself
	MinDistance = 1
	// MaxDistance is the largest edit distance flagged
	MaxDistance = 2
)

// BrandTarget is a high-value brand domain that attackers imitate.
// Lower Priority values are checked first.
type BrandTarget struct {
	Domain   string `mapstructure:"domain" yaml:"domain"`
	Name     string `mapstructure:"name" yaml:"name"`
	Priority int    `mapstructure:"priority" yaml:"priority"`
}

// DefaultTargets is the built-in brand table in priority order
var DefaultTargets = []BrandTarget{
	{Domain: "google.com", Name: "Google", Priority: 1},
	{Domain: "paypal.com", Name: "PayPal", Priority: 2},
	{Domain: "amazon.com", Name: "Amazon", Priority: 3},
	{Domain: "microsoft.com", Name: "Microsoft", Priority: 4},
	{Domain: "apple.com", Name: "Apple", Priority: 5},
	{Domain: "netflix.com", Name: "Netflix", Priority: 6},
}

// Detector flags sender domains that are one or two edits away from a brand domain
type Detector struct {
	targets []BrandTarget
	trust   core.TrustChecker
	logger  *zap.Logger
}

// NewDetector creates a new typosquatting detector. The targets are sorted by
// priority once here, so the first-hit tie-break never depends on input order.
// trust may be nil.
func NewDetector(targets []BrandTarget, trust core.TrustChecker, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(targets) == 0 {
		targets = DefaultTargets
	}

	sorted := make([]BrandTarget, 0, len(targets))
	for _, t := range targets {
		domain := strings.ToLower(strings.TrimSpace(t.Domain))
		if domain == "" {
			continue
		}
		name := t.Name
		if name == "" {
			name = domain
		}
		sorted = append(sorted, BrandTarget{Domain: domain, Name: name, Priority: t.Priority})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	return &Detector{
		targets: sorted,
		trust:   trust,
		logger:  logger,
	}
}

// Targets returns the brand table in the order it is checked
func (d *Detector) Targets() []BrandTarget {
	out := make([]BrandTarget, len(d.targets))
	copy(out, d.targets)
	return out
}

// Check compares a normalized domain against the brand table and returns the
// first target within [MinDistance, MaxDistance], or nil. Trusted domains are
// never flagged: brands legitimately send from their own look-alike subdomains.
func (d *Detector) Check(domain string) *core.TypoAlert {
	if domain == utils.NoDomain {
		return nil
	}
	if d.trust != nil && d.trust.IsTrusted(domain) {
		return nil
	}

	for _, target := range d.targets {
		distance := levenshtein.ComputeDistance(domain, target.Domain)

		// Distance 0 is the official domain itself
		if distance == 0 {
			continue
		}

		if distance >= MinDistance && distance <= MaxDistance {
			d.logger.Info("Possible typosquatting",
				zap.String("domain", domain),
				zap.String("brand", target.Name),
				zap.String("official_domain", target.Domain),
				zap.Int("distance", distance))

			return &core.TypoAlert{
				SuspectDomain:  domain,
				MatchedBrand:   target.Name,
				OfficialDomain: target.Domain,
				EditDistance:   distance,
			}
		}
	}

	return nil
}

// CheckSender extracts the sender's domain and checks it
func (d *Detector) CheckSender(sender string) *core.TypoAlert {
	return d.Check(utils.ExtractDomain(sender))
}
