package sharing

import (
	"errors"
	"net/url"
	"strings"

	"github.com/agentic-social/agentic-social/pkg/types"
)

var (
	ErrMissingTitle   = errors.New("title is required")
	ErrMissingURL     = errors.New("url is required")
	ErrInvalidURL     = errors.New("url must be an absolute http(s) url")
	ErrMissingSummary = errors.New("at least one summary is required")
)

// Validate checks the payload is complete enough to be shared.
func Validate(data *types.SharingData) error {
	if data == nil {
		return ErrPostNotFound
	}

	var errs []error
	if strings.TrimSpace(data.Title) == "" {
		errs = append(errs, ErrMissingTitle)
	}
	if strings.TrimSpace(data.URL) == "" {
		errs = append(errs, ErrMissingURL)
	} else if u, err := url.Parse(data.URL); err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ErrInvalidURL)
	}
	s := data.Summaries
	if s.Default == "" && s.LinkedIn == "" && s.Twitter == "" {
		errs = append(errs, ErrMissingSummary)
	}
	return errors.Join(errs...)
}
