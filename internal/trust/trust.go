package trust

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/mikey/phish-guard/internal/utils"
)

// DefaultDomains are the corporate domains trusted when none are configured
var DefaultDomains = []string{
	"google.com",
	"microsoft.com",
	"apple.com",
	"amazon.com",
	"paypal.com",
	"netflix.com",
	"linkedin.com",
	"github.com",
}

// publicProviders are free mailbox providers. Anyone can register an address
// there, so they are never allowed on the trusted list.
var publicProviders = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"outlook.com":    {},
	"hotmail.com":    {},
	"live.com":       {},
	"msn.com":        {},
	"yahoo.com":      {},
	"ymail.com":      {},
	"aol.com":        {},
	"icloud.com":     {},
	"me.com":         {},
	"mail.com":       {},
	"gmx.com":        {},
	"gmx.net":        {},
	"proton.me":      {},
	"protonmail.com": {},
	"zoho.com":       {},
	"yandex.com":     {},
	"yandex.ru":      {},
	"qq.com":         {},
}

// Matcher checks whether sender domains are on the trusted allowlist.
// It is read-only after construction.
type Matcher struct {
	domains map[string]struct{}
	ordered []string
	logger  *zap.Logger
}

// NewMatcher creates a new trust matcher. Public mail providers and bare public
// suffixes are dropped with a warning.
func NewMatcher(domains []string, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Matcher{
		domains: make(map[string]struct{}, len(domains)),
		logger:  logger,
	}

	for _, domain := range domains {
		normalized := strings.Trim(strings.ToLower(strings.TrimSpace(domain)), ".")
		if normalized == "" {
			continue
		}
		if IsPublicProvider(normalized) {
			logger.Warn("Refusing to trust public mail provider", zap.String("domain", normalized))
			continue
		}
		if isPublicSuffix(normalized) {
			logger.Warn("Refusing to trust a public suffix", zap.String("domain", normalized))
			continue
		}
		if _, dup := m.domains[normalized]; dup {
			continue
		}
		m.domains[normalized] = struct{}{}
		m.ordered = append(m.ordered, normalized)
	}

	if len(m.ordered) > 0 {
		logger.Info("Initialized trust matcher", zap.Strings("domains", m.ordered))
	}

	return m
}

// Domains returns the effective trusted domains
func (m *Matcher) Domains() []string {
	out := make([]string, len(m.ordered))
	copy(out, m.ordered)
	return out
}

// IsTrusted reports whether the normalized domain is trusted, either exactly
// or as a subdomain. The dot-prefixed suffix keeps "notgoogle.com" from
// matching "google.com".
func (m *Matcher) IsTrusted(domain string) bool {
	if domain == utils.NoDomain {
		return false
	}

	if _, ok := m.domains[domain]; ok {
		return true
	}

	for _, trusted := range m.ordered {
		if strings.HasSuffix(domain, "."+trusted) {
			m.logger.Debug("Domain trusted via parent",
				zap.String("domain", domain),
				zap.String("parent", trusted))
			return true
		}
	}

	return false
}

// IsTrustedSender extracts the sender's domain and checks it
func (m *Matcher) IsTrustedSender(sender string) bool {
	return m.IsTrusted(utils.ExtractDomain(sender))
}

// IsPublicProvider reports whether the domain is a free mailbox provider
func IsPublicProvider(domain string) bool {
	_, ok := publicProviders[domain]
	return ok
}

func isPublicSuffix(domain string) bool {
	suffix, _ := publicsuffix.PublicSuffix(domain)
	return suffix == domain
}
