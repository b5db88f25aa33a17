package types

import "time"

// Post is the host's representation of a published article, read-only for this service.
type Post struct {
	ID            int64     `json:"id" yaml:"id"`
	Type          string    `json:"type" yaml:"type"`
	Title         string    `json:"title" yaml:"title"`
	ContentHTML   string    `json:"content" yaml:"content"`
	Excerpt       string    `json:"excerpt" yaml:"excerpt"`
	Author        string    `json:"author" yaml:"author"`
	Permalink     string    `json:"permalink" yaml:"permalink"`
	PublishedAt   time.Time `json:"published_at" yaml:"published_at"`
	FeaturedImage string    `json:"featured_image" yaml:"featured_image"`
	Categories    []string  `json:"categories" yaml:"categories"`
	Tags          []string  `json:"tags" yaml:"tags"`
}

// PostShareMeta 文章级别的分享设置
type PostShareMeta struct {
	PostID        int64  `json:"post_id" db:"post_id"`
	CustomMessage string `json:"custom_message" db:"custom_message"` // 自定义分享文案，非空时覆盖自动摘要
	ShareEnabled  bool   `json:"share_enabled" db:"share_enabled"`
	UpdatedAt     int64  `json:"updated_at" db:"updated_at"`
}
