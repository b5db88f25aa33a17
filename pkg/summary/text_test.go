package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParagraphs(t *testing.T) {
	html := `<h1>Title</h1><p>Hello&nbsp;<b>world</b>.</p>[caption id="x"]<img src="a.png"> A caption text[/caption]` +
		`<script>var x = 1;</script><p>Line one<br>line two</p>[embed]https://youtu.be/x[/embed]`

	assert.Equal(t, []string{"Hello world.", "A caption text", "Line one line two"}, Paragraphs(html))
	assert.Equal(t, []string{"First para.", "Second para."}, Paragraphs("First para.\n\n  Second\tpara."))
	assert.Nil(t, Paragraphs("   "))
}

func TestTruncate(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		assert.Equal(t, "Short text.", Truncate("  Short text. ", 50))
	})

	t.Run("sentence boundary", func(t *testing.T) {
		text := "First sentence here. Second one is here. Third sentence is a bit longer than others."
		assert.Equal(t, "First sentence here. Second one is here.", Truncate(text, 45))
	})

	t.Run("word fallback", func(t *testing.T) {
		text := strings.TrimSpace(strings.Repeat("word ", 40))
		got := Truncate(text, 30)
		assert.Equal(t, "word word word word word...", got)
		for _, w := range strings.Fields(strings.TrimSuffix(got, Ellipsis)) {
			assert.Equal(t, "word", w)
		}
	})

	t.Run("single long word", func(t *testing.T) {
		assert.Equal(t, "aaaaaaa...", Truncate(strings.Repeat("a", 100), 10))
	})

	t.Run("counts runes", func(t *testing.T) {
		assert.Equal(t, "Über café.", Truncate("Über café. Next one.", 10))
	})

	t.Run("non positive budget", func(t *testing.T) {
		assert.Equal(t, "", Truncate("anything", 0))
	})
}
