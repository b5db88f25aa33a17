package summary

import (
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/samber/lo"

	"github.com/agentic-social/agentic-social/pkg/types"
)

// HookHeadroom is reserved in the extraction budget for the engaging hook.
const HookHeadroom = 50

const (
	hookHowTo   = "📚 Step-by-step guide:"
	hookWhy     = "🤔 Ever wondered:"
	hookProTips = "💡 Pro tip:"
)

var (
	hookPool = []string{
		"💡 New insight:",
		"🚀 Just published:",
		"📝 Latest article:",
		"🔍 Deep dive:",
		"💭 Thoughts on:",
		"🎯 Key takeaway:",
	}

	linkedInCallsToAction = []string{
		"\n\nWhat's your take on this?",
		"\n\nThoughts? Let me know in the comments!",
		"\n\nHave you experienced something similar?",
		"\n\nWhat would you add to this?",
	}
)

// Rand is the randomness used to pick hooks and calls to action.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// NewSeededRand returns a goroutine safe, reproducible Rand.
func NewSeededRand(seed uint64) Rand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generator produces bounded, platform formatted summaries of posts.
type Generator struct {
	rnd Rand
}

// NewGenerator creates a Generator, a nil Rand falls back to the global source.
func NewGenerator(rnd Rand) *Generator {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Generator{rnd: rnd}
}

type Input struct {
	Post          *types.Post
	CustomMessage string
	Platform      types.Platform
	MaxLength     int
}

// EffectiveMaxLength applies platform ceilings to the caller supplied budget.
func EffectiveMaxLength(platform types.Platform, maxLength int) int {
	if platform == types.PlatformTwitter {
		return min(maxLength, types.TWITTER_MAX_LENGTH)
	}
	return maxLength
}

// Generate returns a summary of at most in.MaxLength characters. A custom
// message wins over everything and is only truncated, then a short enough
// excerpt, then text extracted from the post content. An unresolved post yields "".
func (g *Generator) Generate(in Input) string {
	if in.Post == nil || in.MaxLength <= 0 {
		return ""
	}
	limit := EffectiveMaxLength(in.Platform, in.MaxLength)

	if custom := strings.TrimSpace(in.CustomMessage); custom != "" {
		return Truncate(custom, limit)
	}

	if excerpt := Collapse(in.Post.Excerpt); excerpt != "" && Len(excerpt) <= limit {
		return g.Format(excerpt, in.Platform, limit)
	}

	return g.Format(g.extract(in.Post, limit), in.Platform, limit)
}

// extract takes the first paragraph within limit-HookHeadroom runes, leaving room
// for the hook. Below 2*HookHeadroom the budget floors at limit/2 so short limits
// still carry content instead of an empty string.
func (g *Generator) extract(post *types.Post, limit int) string {
	paragraphs := Paragraphs(post.ContentHTML)
	if len(paragraphs) == 0 {
		paragraphs = Paragraphs(post.Title)
	}
	if len(paragraphs) == 0 {
		return ""
	}

	budget := max(limit-HookHeadroom, limit/2)
	text := paragraphs[0]
	if Len(text) > budget {
		text = Truncate(text, budget)
	}

	if hook := g.hook(post.Title); Len(hook)+1+Len(text) <= limit {
		text = hook + " " + text
	}
	return text
}

func (g *Generator) hook(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	switch {
	case containsPhrase(words, "how", "to") || hasWordPrefix(words, "guide"):
		return hookHowTo
	case hasWordPrefix(words, "why", "reason"):
		return hookWhy
	case hasWordPrefix(words, "tip", "hack"):
		return hookProTips
	}
	return hookPool[g.rnd.IntN(len(hookPool))]
}

func hasWordPrefix(words []string, stems ...string) bool {
	return lo.SomeBy(words, func(w string) bool {
		return lo.SomeBy(stems, func(stem string) bool {
			return strings.HasPrefix(w, stem)
		})
	})
}

func containsPhrase(words []string, phrase ...string) bool {
	for i := 0; i+len(phrase) <= len(words); i++ {
		if slices.Equal(words[i:i+len(phrase)], phrase) {
			return true
		}
	}
	return false
}

// Format applies the platform's stylistic rules to a raw summary and never
// returns more than the platform's effective maximum length.
func (g *Generator) Format(raw string, platform types.Platform, maxLength int) string {
	limit := EffectiveMaxLength(platform, maxLength)
	s := strings.TrimSpace(raw)
	if Len(s) > limit {
		s = Truncate(s, limit)
	}

	if platform == types.PlatformLinkedIn && s != "" {
		s = g.withCallToAction(s, limit)
	}

	if Len(s) > limit {
		s = Truncate(s, limit)
	}
	return s
}

func (g *Generator) withCallToAction(s string, limit int) string {
	if strings.HasSuffix(s, "?") {
		return s
	}
	if lo.SomeBy(linkedInCallsToAction, func(cta string) bool { return strings.HasSuffix(s, cta) }) {
		return s
	}

	fits := lo.Filter(linkedInCallsToAction, func(cta string, _ int) bool {
		return Len(s)+Len(cta) <= limit
	})
	if len(fits) == 0 {
		return s
	}
	return s + fits[g.rnd.IntN(len(fits))]
}
