package filter

import (
	"errors"
	"strings"

	"github.com/mikey/phish-guard/internal/core"
)

// ErrInvalidCandidate is returned when the submitted email lacks required fields
var ErrInvalidCandidate = errors.New("please enter at least the sender address and email body")

// ValidateCandidate requires a sender and a body
func ValidateCandidate(candidate core.EmailCandidate) error {
	if strings.TrimSpace(candidate.Sender) == "" || strings.TrimSpace(candidate.Body) == "" {
		return ErrInvalidCandidate
	}
	return nil
}
