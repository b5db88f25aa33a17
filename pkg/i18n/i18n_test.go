package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLang(t *testing.T) {
	l := NewLocalizer("zh-CN", "en")

	assert.Equal(t, "Post not found", l.Get("en", ERROR_POST_NOT_FOUND))
	assert.Equal(t, "文章不存在", l.Get("zh-CN", ERROR_POST_NOT_FOUND))
	assert.Equal(t, "Open LinkedIn", l.Get("en", "workflow.linkedin.open-linkedin.title"))
	assert.Equal(t, "unknown.key", l.Get("en", "unknown.key"))
	assert.Equal(t, "error.internal", l.Get("fr", "error.internal"))
}

func TestMatch(t *testing.T) {
	l := NewLocalizer("zh-CN", "en")

	assert.Equal(t, "zh-CN", l.Match("zh-CN,zh;q=0.9,en-US;q=0.8,en;q=0.7"))
	assert.Equal(t, "zh-CN", l.Match("zh"))
	assert.Equal(t, "en", l.Match("en-GB"))
	assert.Equal(t, "en", l.Match("fr-FR"))
	assert.Equal(t, "en", l.Match(""))
}
