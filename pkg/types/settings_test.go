package types

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsSanitize(t *testing.T) {
	s := Settings{
		ShareDelay:       90,
		DefaultPostTypes: []string{" Post ", "page", "post", "bad type!", ""},
	}.Sanitize()

	assert.Equal(t, SHARE_DELAY_MAX, s.ShareDelay)
	assert.Equal(t, []string{"post", "page", "badtype"}, s.DefaultPostTypes)

	s = Settings{ShareDelay: -3}.Sanitize()
	assert.Equal(t, 0, s.ShareDelay)
	assert.Equal(t, []string{"post"}, s.DefaultPostTypes)
}

func TestSettingsRowsRoundTrip(t *testing.T) {
	in := DefaultSettings()
	in.LinkedInEnabled = false
	in.ShareDelay = 12
	in.DefaultPostTypes = []string{"post", "news"}

	out := DefaultSettings().ApplyRows(in.Rows())
	assert.Equal(t, in, out)
}

func TestSettingsApplyRowsSkipsBrokenValues(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	out := DefaultSettings().ApplyRows([]Setting{
		{Name: SETTING_SHARE_DELAY, Value: []byte(`"soon"`)},
		{Name: "unknown", Value: []byte(`1`)},
	})
	assert.Equal(t, DefaultSettings(), out)
	assert.Contains(t, buf.String(), "setting="+SETTING_SHARE_DELAY)
	assert.NotContains(t, buf.String(), "setting=unknown")
}

func TestSummariesFor(t *testing.T) {
	s := Summaries{Default: "d", LinkedIn: "l"}
	assert.Equal(t, "l", s.For(PlatformLinkedIn))
	assert.Equal(t, "d", s.For(PlatformTwitter))
	assert.Equal(t, "d", s.For(PlatformDefault))
}
