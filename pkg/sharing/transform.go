package sharing

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/agentic-social/agentic-social/pkg/summary"
	"github.com/agentic-social/agentic-social/pkg/types"
)

// Transform post-processes assembled sharing data. Implementations must be
// pure: no I/O, no mutation of the input's slices.
type Transform func(types.SharingData) types.SharingData

// Pipeline runs transforms in registration order.
type Pipeline []Transform

func (p Pipeline) Apply(data types.SharingData) types.SharingData {
	for _, t := range p {
		data = t(data.Clone())
	}
	return data
}

const (
	TRANSFORM_UTM      = "utm"
	TRANSFORM_HASHTAGS = "hashtags"
)

type TransformConfig struct {
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	MaxHashtags int
	// LinkedInLength 与 Assembler 生成 LinkedIn 摘要时使用的长度一致, 0 表示默认值
	LinkedInLength int
}

// BuildPipeline resolves transform names in order, unknown names are an error.
func BuildPipeline(names []string, cfg TransformConfig) (Pipeline, error) {
	var p Pipeline
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case TRANSFORM_UTM:
			p = append(p, UTMTransform(cfg.UTMSource, cfg.UTMMedium, cfg.UTMCampaign))
		case TRANSFORM_HASHTAGS:
			p = append(p, HashtagTransform(cfg.MaxHashtags, lo.Ternary(cfg.LinkedInLength > 0, cfg.LinkedInLength, types.SUMMARY_LENGTH_LINKEDIN)))
		default:
			return nil, fmt.Errorf("unknown sharing transform %q", name)
		}
	}
	return p, nil
}

// UTMTransform tags the shared url with campaign parameters, existing ones are kept.
func UTMTransform(source, medium, campaign string) Transform {
	return func(data types.SharingData) types.SharingData {
		u, err := url.Parse(data.URL)
		if err != nil || data.URL == "" {
			return data
		}
		q := u.Query()
		for k, v := range map[string]string{
			"utm_source":   source,
			"utm_medium":   medium,
			"utm_campaign": campaign,
		} {
			if v != "" && q.Get(k) == "" {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
		data.URL = u.String()
		return data
	}
}

// HashtagTransform appends up to n post tags as hashtags to the LinkedIn
// summary, only when the result stays within maxLength.
func HashtagTransform(n, maxLength int) Transform {
	return func(data types.SharingData) types.SharingData {
		if n <= 0 || data.Summaries.LinkedIn == "" {
			return data
		}
		tags := lo.Uniq(lo.Compact(lo.Map(data.Tags, func(tag string, _ int) string {
			return Hashtag(tag)
		})))
		if len(tags) == 0 {
			return data
		}
		if len(tags) > n {
			tags = tags[:n]
		}

		out := data.Summaries.LinkedIn + "\n\n" + strings.Join(tags, " ")
		if summary.Len(out) <= maxLength {
			data.Summaries.LinkedIn = out
		}
		return data
	}
}

// Hashtag converts a tag like "open source" into "#OpenSource".
func Hashtag(tag string) string {
	var b strings.Builder
	upper := true
	for _, r := range tag {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return ""
	}
	return "#" + b.String()
}
