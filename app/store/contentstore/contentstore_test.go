package contentstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-social/agentic-social/pkg/testutils"
)

const wpFixture = `{
	"id": 42,
	"type": "post",
	"link": "https://blog.example.com/hello",
	"date_gmt": "2024-05-06T07:08:09",
	"title": {"rendered": "Tips &amp; Tricks"},
	"content": {"rendered": "<p>First paragraph.</p><p>Second.</p>"},
	"excerpt": {"rendered": "<p>First paragraph. [&hellip;]</p>", "raw": ""},
	"_embedded": {
		"author": [{"name": "Sam"}],
		"wp:featuredmedia": [{"source_url": "https://blog.example.com/cover.png"}],
		"wp:term": [
			[{"taxonomy": "category", "name": "News"}],
			[{"taxonomy": "post_tag", "name": "go"}, {"taxonomy": "post_tag", "name": "web"}]
		]
	}
}`

func newWordPressServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "editor" || pass != "app pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/wp-json/wp/v2/posts/42":
			assert.Equal(t, "edit", r.URL.Query().Get("context"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(wpFixture))
		case "/wp-json/wp/v2/posts/500":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"code":"boom"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":"rest_post_invalid_id"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWordPressStoreGetPost(t *testing.T) {
	srv := newWordPressServer(t)
	s, err := NewWordPressStore(WordPressConfig{BaseURL: srv.URL + "/", Username: "editor", AppPassword: "app pass"})
	require.NoError(t, err)

	ctx := context.Background()
	post, err := s.GetPost(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, post)

	assert.Equal(t, int64(42), post.ID)
	assert.Equal(t, "Tips & Tricks", post.Title)
	assert.Equal(t, "", post.Excerpt)
	assert.Equal(t, "Sam", post.Author)
	assert.Equal(t, "https://blog.example.com/cover.png", post.FeaturedImage)
	assert.Equal(t, []string{"News"}, post.Categories)
	assert.Equal(t, []string{"go", "web"}, post.Tags)
	assert.Equal(t, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), post.PublishedAt)

	link, err := s.GetPermalink(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/hello", link)

	missing, err := s.GetPost(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = s.GetPost(ctx, 500)
	assert.ErrorContains(t, err, "500")
}

func TestWordPressStoreRenderedExcerptWithoutAuth(t *testing.T) {
	p := wpPost{Excerpt: rendered{Rendered: "<p>Auto excerpt</p>"}}
	assert.Equal(t, "Auto excerpt", p.excerpt())
}

func TestNewWordPressStoreRejectsBadURL(t *testing.T) {
	_, err := NewWordPressStore(WordPressConfig{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join("testdata", "posts.yaml"))
	require.NoError(t, err)

	ctx := context.Background()
	post, err := s.GetPost(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "post", post.Type)
	assert.Equal(t, "Dana", post.Author)
	assert.Equal(t, []string{"go", "services"}, post.Tags)
	assert.Contains(t, post.ContentHTML, "Go services are small.")

	post.Tags[0] = "mutated"
	again, _ := s.GetPost(ctx, 1)
	assert.Equal(t, "go", again.Tags[0])

	page, err := s.GetPost(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "page", page.Type)

	link, err := s.GetPermalink(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/about", link)

	missing, err := s.GetPost(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFileStoreRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("posts:\n  - title: no id\n"), 0o600))
	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestWordPressStoreLive(t *testing.T) {
	testutils.LoadEnv()
	baseURL := os.Getenv(testutils.ENV_TEST_WORDPRESS_URL)
	if baseURL == "" {
		t.Skip(testutils.ENV_TEST_WORDPRESS_URL + " not set")
	}

	s, err := NewWordPressStore(WordPressConfig{BaseURL: baseURL, Timeout: 10 * time.Second})
	require.NoError(t, err)

	post, err := s.GetPost(context.Background(), 1)
	require.NoError(t, err)
	if post != nil {
		assert.NotEmpty(t, post.Permalink)
	}
}
