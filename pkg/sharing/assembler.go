package sharing

import (
	"context"
	"errors"

	"github.com/agentic-social/agentic-social/pkg/summary"
	"github.com/agentic-social/agentic-social/pkg/types"
	"github.com/agentic-social/agentic-social/pkg/utils"
)

// ErrPostNotFound is returned when the content store has no post for the id.
var ErrPostNotFound = errors.New("post not found")

// PostReader is the part of the host content store the assembler needs.
type PostReader interface {
	GetPost(ctx context.Context, id int64) (*types.Post, error)
}

// CustomMessageReader resolves the per-post summary override, "" when unset.
type CustomMessageReader interface {
	GetCustomMessage(ctx context.Context, postID int64) (string, error)
}

// Lengths are the per-platform summary budgets.
type Lengths struct {
	Default  int
	LinkedIn int
	Twitter  int
}

func DefaultLengths() Lengths {
	return Lengths{
		Default:  types.SUMMARY_LENGTH_DEFAULT,
		LinkedIn: types.SUMMARY_LENGTH_LINKEDIN,
		Twitter:  types.SUMMARY_LENGTH_TWITTER,
	}
}

type Assembler struct {
	posts      PostReader
	messages   CustomMessageReader
	generator  *summary.Generator
	lengths    Lengths
	transforms Pipeline
}

type Option func(a *Assembler)

func WithLengths(l Lengths) Option {
	return func(a *Assembler) {
		a.lengths = l
	}
}

func WithTransforms(t ...Transform) Option {
	return func(a *Assembler) {
		a.transforms = append(a.transforms, t...)
	}
}

// WithCustomMessages enables per-post summary overrides.
func WithCustomMessages(r CustomMessageReader) Option {
	return func(a *Assembler) {
		a.messages = r
	}
}

func NewAssembler(posts PostReader, generator *summary.Generator, opts ...Option) *Assembler {
	a := &Assembler{
		posts:     posts,
		generator: generator,
		lengths:   DefaultLengths(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Summary generates a single summary for the post, "" when the post does not resolve.
func (a *Assembler) Summary(ctx context.Context, postID int64, platform types.Platform, maxLength int) (string, error) {
	post, custom, err := a.load(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return "", nil
		}
		return "", err
	}
	return a.generator.Generate(summary.Input{
		Post:          post,
		CustomMessage: custom,
		Platform:      platform,
		MaxLength:     maxLength,
	}), nil
}

// Assemble builds the sharing payload for a post and runs it through the transform pipeline.
func (a *Assembler) Assemble(ctx context.Context, postID int64) (*types.SharingData, error) {
	post, custom, err := a.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	gen := func(platform types.Platform, maxLength int) string {
		return a.generator.Generate(summary.Input{
			Post:          post,
			CustomMessage: custom,
			Platform:      platform,
			MaxLength:     maxLength,
		})
	}

	data := types.SharingData{
		PostID:        post.ID,
		Title:         post.Title,
		URL:           post.Permalink,
		Author:        post.Author,
		FeaturedImage: post.FeaturedImage,
		Categories:    append([]string{}, post.Categories...),
		Tags:          append([]string{}, post.Tags...),
		Summaries: types.Summaries{
			Default:  gen(types.PlatformDefault, a.lengths.Default),
			LinkedIn: gen(types.PlatformLinkedIn, a.lengths.LinkedIn),
			Twitter:  gen(types.PlatformTwitter, a.lengths.Twitter),
		},
	}
	if !post.PublishedAt.IsZero() {
		data.PublishedAt = post.PublishedAt.Unix()
	}
	data.Language = utils.WhatLang(post.Title + " " + summary.PlainText(post.ContentHTML))

	data = a.transforms.Apply(data)
	return &data, nil
}

func (a *Assembler) load(ctx context.Context, postID int64) (*types.Post, string, error) {
	post, err := a.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, "", err
	}
	if post == nil {
		return nil, "", ErrPostNotFound
	}

	var custom string
	if a.messages != nil {
		if custom, err = a.messages.GetCustomMessage(ctx, postID); err != nil {
			return nil, "", err
		}
	}
	return post, custom, nil
}
