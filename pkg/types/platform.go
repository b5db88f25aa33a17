package types

import "strings"

// Platform identifies a social network a post can be shared to.
type Platform string

const (
	PlatformDefault  Platform = "default"
	PlatformLinkedIn Platform = "linkedin"
	PlatformTwitter  Platform = "twitter"
)

func (p Platform) String() string {
	return string(p)
}

// ParsePlatform normalizes user input, empty input means the default platform.
func ParsePlatform(s string) Platform {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PlatformDefault
	}
	return Platform(s)
}

// DefaultSummaryLength returns the length budget used when the caller does not provide one.
func (p Platform) DefaultSummaryLength() int {
	switch p {
	case PlatformLinkedIn:
		return SUMMARY_LENGTH_LINKEDIN
	case PlatformTwitter:
		return SUMMARY_LENGTH_TWITTER
	default:
		return SUMMARY_LENGTH_DEFAULT
	}
}
