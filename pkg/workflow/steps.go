package workflow

import (
	"fmt"

	"github.com/agentic-social/agentic-social/pkg/types"
)

type ActionKind string

const (
	ActionOpenURL      ActionKind = "open_url"
	ActionClickElement ActionKind = "click_element"
	ActionPasteContent ActionKind = "paste_content"
	ActionAddComment   ActionKind = "add_comment"
	ActionGeneric      ActionKind = "generic"
)

// Step is one manual action of a guided share. Title and Description are
// i18n message ids, rendered by the caller in the user's language.
type Step struct {
	Index              int        `json:"index"`
	Key                string     `json:"key"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Action             ActionKind `json:"action"`
	TargetSelector     string     `json:"target_selector,omitempty"`
	AutomationSelector string     `json:"automation_selector,omitempty"`
	Payload            string     `json:"payload,omitempty"`
}

type stepOptions struct {
	feedURL        string
	withoutComment bool
}

type StepOption func(o *stepOptions)

// WithFeedURL overrides the url opened by the first LinkedIn step.
func WithFeedURL(u string) StepOption {
	return func(o *stepOptions) {
		if u != "" {
			o.feedURL = u
		}
	}
}

// WithoutComment drops the trailing "add link as comment" step.
func WithoutComment() StepOption {
	return func(o *stepOptions) {
		o.withoutComment = true
	}
}

// AutomationSelector is the stable attribute selector external tooling uses for a step key.
func AutomationSelector(key string) string {
	return fmt.Sprintf(`[data-agentic-action="%s"]`, key)
}

func linkedInSteps(o stepOptions) []Step {
	steps := []Step{
		{
			Key:            "open-linkedin",
			Action:         ActionOpenURL,
			TargetSelector: o.feedURL,
			Payload:        o.feedURL,
		},
		{
			Key:            "create-post",
			Action:         ActionClickElement,
			TargetSelector: `.share-box-feed-entry__trigger, [data-control-name="share_box"]`,
		},
		{
			Key:            "paste-content",
			Action:         ActionPasteContent,
			TargetSelector: `.ql-editor, [data-placeholder="What do you want to talk about?"]`,
		},
		{
			Key:            "publish-post",
			Action:         ActionClickElement,
			TargetSelector: `[data-control-name="share.post"]`,
		},
		{
			Key:            "add-comment",
			Action:         ActionAddComment,
			TargetSelector: ".comments-comment-box__form-container textarea",
		},
	}
	if o.withoutComment {
		steps = steps[:len(steps)-1]
	}
	return steps
}

// BuildSteps returns the ordered guide for platform. Platforms without a
// guided workflow get an empty list, which is not an error.
func BuildSteps(platform types.Platform, opts ...StepOption) []Step {
	o := stepOptions{feedURL: types.LINKEDIN_FEED_URL}
	for _, opt := range opts {
		opt(&o)
	}

	var steps []Step
	switch platform {
	case types.PlatformLinkedIn:
		steps = linkedInSteps(o)
	default:
		return []Step{}
	}

	for i := range steps {
		steps[i].Index = i + 1
		steps[i].Title = fmt.Sprintf("workflow.%s.%s.title", platform, steps[i].Key)
		steps[i].Description = fmt.Sprintf("workflow.%s.%s.description", platform, steps[i].Key)
		steps[i].AutomationSelector = AutomationSelector(steps[i].Key)
	}
	return steps
}
