package sharing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-social/agentic-social/pkg/summary"
	"github.com/agentic-social/agentic-social/pkg/types"
)

type fixedRand int

func (f fixedRand) IntN(n int) int {
	return int(f) % n
}

type postsMap map[int64]*types.Post

func (m postsMap) GetPost(_ context.Context, id int64) (*types.Post, error) {
	return m[id], nil
}

type messagesMap map[int64]string

func (m messagesMap) GetCustomMessage(_ context.Context, postID int64) (string, error) {
	return m[postID], nil
}

type brokenPosts struct{}

func (brokenPosts) GetPost(context.Context, int64) (*types.Post, error) {
	return nil, errors.New("connection refused")
}

func newPost() *types.Post {
	return &types.Post{
		ID:            7,
		Title:         "How to share posts",
		ContentHTML:   "<p>" + strings.Repeat("Sharing is caring for every writer out there. ", 40) + "</p>",
		Author:        "Jane Doe",
		Permalink:     "https://blog.example.com/share-posts",
		PublishedAt:   time.Unix(1700000000, 0),
		FeaturedImage: "https://blog.example.com/cover.png",
		Categories:    []string{"Guides"},
		Tags:          []string{"social media", "writing"},
	}
}

func TestAssemble(t *testing.T) {
	a := NewAssembler(postsMap{7: newPost()}, summary.NewGenerator(fixedRand(0)))

	data, err := a.Assemble(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), data.PostID)
	assert.Equal(t, "How to share posts", data.Title)
	assert.Equal(t, "https://blog.example.com/share-posts", data.URL)
	assert.Equal(t, "Jane Doe", data.Author)
	assert.Equal(t, int64(1700000000), data.PublishedAt)
	assert.Equal(t, []string{"Guides"}, data.Categories)
	assert.Equal(t, []string{"social media", "writing"}, data.Tags)
	assert.Equal(t, "en", data.Language)

	assert.LessOrEqual(t, summary.Len(data.Summaries.Default), types.SUMMARY_LENGTH_DEFAULT)
	assert.LessOrEqual(t, summary.Len(data.Summaries.LinkedIn), types.SUMMARY_LENGTH_LINKEDIN)
	assert.LessOrEqual(t, summary.Len(data.Summaries.Twitter), types.SUMMARY_LENGTH_TWITTER)
	assert.NotEqual(t, data.Summaries.Default, data.Summaries.LinkedIn)
	assert.NoError(t, Validate(data))
}

func TestAssembleNotFound(t *testing.T) {
	a := NewAssembler(postsMap{}, summary.NewGenerator(nil))

	_, err := a.Assemble(context.Background(), 1)
	assert.ErrorIs(t, err, ErrPostNotFound)

	s, err := a.Summary(context.Background(), 1, types.PlatformLinkedIn, 1300)
	assert.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestAssembleHostErrorPropagates(t *testing.T) {
	a := NewAssembler(brokenPosts{}, summary.NewGenerator(nil))
	_, err := a.Assemble(context.Background(), 1)
	assert.EqualError(t, err, "connection refused")
}

func TestAssembleCustomMessage(t *testing.T) {
	a := NewAssembler(postsMap{7: newPost()}, summary.NewGenerator(fixedRand(0)),
		WithCustomMessages(messagesMap{7: "Read my new post!"}))

	data, err := a.Assemble(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, types.Summaries{
		Default:  "Read my new post!",
		LinkedIn: "Read my new post!",
		Twitter:  "Read my new post!",
	}, data.Summaries)
}

func TestAssembleTransformsRunInOrder(t *testing.T) {
	var order []string
	mark := func(name string) Transform {
		return func(d types.SharingData) types.SharingData {
			order = append(order, name)
			d.Title += "|" + name
			return d
		}
	}

	post := newPost()
	a := NewAssembler(postsMap{7: post}, summary.NewGenerator(fixedRand(0)), WithTransforms(mark("a"), mark("b")))
	data, err := a.Assemble(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, "How to share posts|a|b", data.Title)
	assert.Equal(t, "How to share posts", post.Title)
}

func TestAssembleHashtagsRespectLinkedInLength(t *testing.T) {
	const linkedIn = 400
	pipeline, err := BuildPipeline([]string{TRANSFORM_HASHTAGS}, TransformConfig{MaxHashtags: 3, LinkedInLength: linkedIn})
	require.NoError(t, err)

	post := newPost()
	post.Tags = []string{"open source", "golang", "linkedin"}
	a := NewAssembler(postsMap{7: post}, summary.NewGenerator(fixedRand(0)),
		WithLengths(Lengths{Default: types.SUMMARY_LENGTH_DEFAULT, LinkedIn: linkedIn, Twitter: types.SUMMARY_LENGTH_TWITTER}),
		WithTransforms(pipeline...),
	)

	data, err := a.Assemble(context.Background(), 7)
	require.NoError(t, err)
	assert.LessOrEqual(t, summary.Len(data.Summaries.LinkedIn), linkedIn)
}
