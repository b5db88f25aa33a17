package contentstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/agentic-social/agentic-social/pkg/summary"
	"github.com/agentic-social/agentic-social/pkg/types"
)

const wordpressDateLayout = "2006-01-02T15:04:05"

type WordPressConfig struct {
	BaseURL     string
	Username    string
	AppPassword string
	Timeout     time.Duration
}

// WordPressStore 通过 REST API 读取文章, 只读
type WordPressStore struct {
	baseURL     string
	username    string
	appPassword string
	client      *http.Client
}

func NewWordPressStore(cfg WordPressConfig) (*WordPressStore, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid wordpress base url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &WordPressStore{
		baseURL:     u.String(),
		username:    cfg.Username,
		appPassword: cfg.AppPassword,
		client:      &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type rendered struct {
	Rendered string  `json:"rendered"`
	Raw      *string `json:"raw"` // 仅 context=edit 时返回
}

type wpTerm struct {
	Taxonomy string `json:"taxonomy"`
	Name     string `json:"name"`
}

type wpPost struct {
	ID       int64    `json:"id"`
	Type     string   `json:"type"`
	Link     string   `json:"link"`
	DateGMT  string   `json:"date_gmt"`
	Title    rendered `json:"title"`
	Content  rendered `json:"content"`
	Excerpt  rendered `json:"excerpt"`
	Embedded struct {
		Author []struct {
			Name string `json:"name"`
		} `json:"author"`
		FeaturedMedia []struct {
			SourceURL string `json:"source_url"`
		} `json:"wp:featuredmedia"`
		Terms [][]wpTerm `json:"wp:term"`
	} `json:"_embedded"`
}

func (p wpPost) terms(taxonomy string) []string {
	var names []string
	for _, group := range p.Embedded.Terms {
		for _, t := range group {
			if t.Taxonomy == taxonomy {
				names = append(names, summary.PlainText(t.Name))
			}
		}
	}
	return lo.Compact(names)
}

// 未设置手写摘要时 rendered 是从正文自动截取的, 只有 raw 能区分
func (p wpPost) excerpt() string {
	if p.Excerpt.Raw != nil {
		return summary.PlainText(*p.Excerpt.Raw)
	}
	return summary.PlainText(p.Excerpt.Rendered)
}

func (p wpPost) toPost() *types.Post {
	post := &types.Post{
		ID:          p.ID,
		Type:        p.Type,
		Title:       summary.PlainText(p.Title.Rendered),
		ContentHTML: p.Content.Rendered,
		Excerpt:     p.excerpt(),
		Permalink:   p.Link,
		Categories:  p.terms("category"),
		Tags:        p.terms("post_tag"),
	}
	if len(p.Embedded.Author) > 0 {
		post.Author = p.Embedded.Author[0].Name
	}
	if len(p.Embedded.FeaturedMedia) > 0 {
		post.FeaturedImage = p.Embedded.FeaturedMedia[0].SourceURL
	}
	if t, err := time.ParseInLocation(wordpressDateLayout, p.DateGMT, time.UTC); err == nil {
		post.PublishedAt = t
	}
	return post
}

func (s *WordPressStore) fetch(ctx context.Context, id int64, query url.Values) (*wpPost, error) {
	if s.username != "" {
		query.Set("context", "edit")
	}
	endpoint := s.baseURL + "/wp-json/wp/v2/posts/" + strconv.FormatInt(id, 10)
	endpoint += "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.username != "" {
		req.SetBasicAuth(s.username, s.appPassword)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("wordpress returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var p wpPost
	if err = json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode wordpress post %d: %w", id, err)
	}
	return &p, nil
}

// GetPost 文章不存在时返回 nil, nil
func (s *WordPressStore) GetPost(ctx context.Context, id int64) (*types.Post, error) {
	p, err := s.fetch(ctx, id, url.Values{"_embed": {"1"}})
	if err != nil || p == nil {
		return nil, err
	}
	return p.toPost(), nil
}

func (s *WordPressStore) GetPermalink(ctx context.Context, id int64) (string, error) {
	p, err := s.fetch(ctx, id, url.Values{"_fields": {"id,link"}})
	if err != nil || p == nil {
		return "", err
	}
	return p.Link, nil
}
