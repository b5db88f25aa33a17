package summary

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis marks a summary cut inside a sentence.
const Ellipsis = "..."

var (
	// media shortcodes carry no prose, drop them with their body
	mediaShortcode = regexp.MustCompile(`(?s)\[(embed|video|audio|playlist|gallery)\b[^\]]*\].*?\[/(?:embed|video|audio|playlist|gallery)\]`)
	shortcodeTag   = regexp.MustCompile(`\[/?[A-Za-z][\w-]*(?:\s[^\]]*)?/?\]`)
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
)

const (
	noiseSelector = "script, style, noscript, iframe, svg, figcaption, pre, h1, h2, h3, h4, h5, h6"
	blockSelector = "p, div, li, blockquote, section, article, figure, table, tr, ul, ol, dd, dt"
)

// Len counts characters the way the platforms do, by rune.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Collapse squeezes every run of whitespace into a single space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripShortcodes removes [shortcode] tags, keeping the text they enclose.
func StripShortcodes(s string) string {
	s = mediaShortcode.ReplaceAllString(s, " ")
	return shortcodeTag.ReplaceAllString(s, " ")
}

// Paragraphs turns post markup into plain prose paragraphs. Headings, code
// blocks and embedded media are dropped, whitespace inside a paragraph is collapsed.
func Paragraphs(html string) []string {
	html = StripShortcodes(html)
	if strings.TrimSpace(html) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return plainParagraphs(html)
	}

	doc.Find(noiseSelector).Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n\n")
		s.AppendHtml("\n\n")
	})

	return plainParagraphs(doc.Text())
}

// PlainText is Paragraphs joined into a single line.
func PlainText(html string) string {
	return strings.Join(Paragraphs(html), " ")
}

func plainParagraphs(text string) []string {
	var out []string
	for _, block := range paragraphBreak.Split(norm.NFC.String(text), -1) {
		if block = Collapse(block); block != "" {
			out = append(out, block)
		}
	}
	return out
}

// Truncate shortens text to at most maxLength characters. Whole sentences are
// kept when at least one fits, otherwise whole words followed by Ellipsis.
func Truncate(text string, maxLength int) string {
	text = strings.TrimSpace(text)
	if maxLength <= 0 {
		return ""
	}
	if Len(text) <= maxLength {
		return text
	}
	if s := sentencePrefix(text, maxLength); s != "" {
		return s
	}
	return wordPrefix(text, maxLength)
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// sentencePrefix returns the longest prefix of text ending at a sentence
// boundary (terminal punctuation followed by whitespace) within maxLength.
func sentencePrefix(text string, maxLength int) string {
	var (
		best  string
		count int
		prev  rune
	)
	for i, r := range text {
		if count > maxLength {
			break
		}
		if unicode.IsSpace(r) && isSentenceEnd(prev) {
			best = text[:i]
		}
		count++
		prev = r
	}
	return best
}

func wordPrefix(text string, maxLength int) string {
	budget := maxLength - Len(Ellipsis)
	if budget <= 0 {
		return ""
	}

	var (
		cut       = -1
		count     int
		prevSpace = true
	)
	for i, r := range text {
		space := unicode.IsSpace(r)
		if space && !prevSpace {
			if count > budget {
				break
			}
			cut = i
		}
		count++
		prevSpace = space
	}

	if cut < 0 {
		// a single word longer than the budget, cut it hard
		return string([]rune(text)[:budget]) + Ellipsis
	}
	return strings.TrimRight(text[:cut], ",;:-") + Ellipsis
}
