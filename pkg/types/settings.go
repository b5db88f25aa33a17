package types

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// setting names stored in TABLE_SETTINGS
const (
	SETTING_LINKEDIN_ENABLED    = "linkedin_enabled"
	SETTING_AUTO_SHARE          = "auto_share"
	SETTING_SHARE_DELAY         = "share_delay"
	SETTING_DEFAULT_POST_TYPES  = "default_post_types"
	SETTING_ADD_LINK_AS_COMMENT = "add_link_as_comment"
	SETTING_ENABLE_AI_AGENT     = "enable_ai_agent"
)

const (
	SHARE_DELAY_MIN     = 0
	SHARE_DELAY_MAX     = 60
	SHARE_DELAY_DEFAULT = 5
)

// Setting is a single persisted option row.
type Setting struct {
	Name      string          `json:"name" db:"name"`
	Value     json.RawMessage `json:"value" db:"value"`
	UpdatedAt int64           `json:"updated_at" db:"updated_at"`
}

// Settings is the typed view of all options.
type Settings struct {
	LinkedInEnabled  bool     `json:"linkedin_enabled"`
	AutoShare        bool     `json:"auto_share"`
	ShareDelay       int      `json:"share_delay"` // minutes
	DefaultPostTypes []string `json:"default_post_types"`
	AddLinkAsComment bool     `json:"add_link_as_comment"`
	EnableAIAgent    bool     `json:"enable_ai_agent"`
}

func DefaultSettings() Settings {
	return Settings{
		LinkedInEnabled:  true,
		AutoShare:        false,
		ShareDelay:       SHARE_DELAY_DEFAULT,
		DefaultPostTypes: []string{"post"},
		AddLinkAsComment: true,
		EnableAIAgent:    true,
	}
}

var postTypeKey = regexp.MustCompile(`[^a-z0-9_\-]`)

// Sanitize clamps and cleans values coming from user input.
func (s Settings) Sanitize() Settings {
	s.ShareDelay = min(max(s.ShareDelay, SHARE_DELAY_MIN), SHARE_DELAY_MAX)

	types := lo.Map(s.DefaultPostTypes, func(item string, _ int) string {
		return postTypeKey.ReplaceAllString(strings.ToLower(strings.TrimSpace(item)), "")
	})
	types = lo.Uniq(lo.Compact(types))
	if len(types) == 0 {
		types = DefaultSettings().DefaultPostTypes
	}
	s.DefaultPostTypes = types
	return s
}

// PostTypeEnabled reports whether posts of the given type get the share workflow.
func (s Settings) PostTypeEnabled(postType string) bool {
	if postType == "" {
		postType = "post"
	}
	return lo.Contains(s.DefaultPostTypes, postType)
}

// PlatformEnabled reports whether sharing to p is switched on.
func (s Settings) PlatformEnabled(p Platform) bool {
	switch p {
	case PlatformLinkedIn:
		return s.LinkedInEnabled
	default:
		return true
	}
}

// Rows flattens the settings into persisted rows.
func (s Settings) Rows() []Setting {
	raw := func(v any) json.RawMessage {
		b, _ := json.Marshal(v)
		return b
	}
	return []Setting{
		{Name: SETTING_LINKEDIN_ENABLED, Value: raw(s.LinkedInEnabled)},
		{Name: SETTING_AUTO_SHARE, Value: raw(s.AutoShare)},
		{Name: SETTING_SHARE_DELAY, Value: raw(s.ShareDelay)},
		{Name: SETTING_DEFAULT_POST_TYPES, Value: raw(s.DefaultPostTypes)},
		{Name: SETTING_ADD_LINK_AS_COMMENT, Value: raw(s.AddLinkAsComment)},
		{Name: SETTING_ENABLE_AI_AGENT, Value: raw(s.EnableAIAgent)},
	}
}

// ApplyRows overlays persisted rows on s, unknown or malformed rows are skipped.
func (s Settings) ApplyRows(rows []Setting) Settings {
	for _, row := range rows {
		var target any
		switch row.Name {
		case SETTING_LINKEDIN_ENABLED:
			target = &s.LinkedInEnabled
		case SETTING_AUTO_SHARE:
			target = &s.AutoShare
		case SETTING_SHARE_DELAY:
			target = &s.ShareDelay
		case SETTING_DEFAULT_POST_TYPES:
			target = &s.DefaultPostTypes
		case SETTING_ADD_LINK_AS_COMMENT:
			target = &s.AddLinkAsComment
		case SETTING_ENABLE_AI_AGENT:
			target = &s.EnableAIAgent
		default:
			continue
		}
		if err := json.Unmarshal(row.Value, target); err != nil {
			slog.Warn("skip malformed setting row", slog.String("setting", row.Name), slog.Any("error", err))
		}
	}
	return s
}
