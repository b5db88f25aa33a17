package types

// Summaries holds one independently generated summary per platform.
type Summaries struct {
	Default  string `json:"default"`
	LinkedIn string `json:"linkedin"`
	Twitter  string `json:"twitter"`
}

// For returns the summary generated for p, falling back to the default summary.
func (s Summaries) For(p Platform) string {
	switch p {
	case PlatformLinkedIn:
		if s.LinkedIn != "" {
			return s.LinkedIn
		}
	case PlatformTwitter:
		if s.Twitter != "" {
			return s.Twitter
		}
	}
	return s.Default
}

// SharingData is derived from a Post on demand and never persisted on its own,
// except as a snapshot inside a ShareAttempt.
type SharingData struct {
	PostID        int64     `json:"post_id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Author        string    `json:"author"`
	PublishedAt   int64     `json:"published_at"`
	FeaturedImage string    `json:"featured_image,omitempty"`
	Categories    []string  `json:"categories"`
	Tags          []string  `json:"tags"`
	Language      string    `json:"language,omitempty"`
	Summaries     Summaries `json:"summaries"`
}

// Clone returns a copy that shares no slices with d.
func (d SharingData) Clone() SharingData {
	d.Categories = append([]string(nil), d.Categories...)
	d.Tags = append([]string(nil), d.Tags...)
	return d
}
