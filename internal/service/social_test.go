package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/apperr"
	"vidtube/internal/model"
)

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

func TestSubscriptionService_Toggle(t *testing.T) {
	// ARRANGE
	users := newFakeUsers()
	alice := users.add(&model.User{Username: "alice"})
	bob := users.add(&model.User{Username: "bob"})
	subs := fakeSubs{newFakeEdges[model.SubscriptionKey]()}
	stats := newFakeStats()
	svc := NewSubscriptionService(subs, users, stats)

	// ACT
	first, err := svc.Toggle(context.Background(), alice, bob.ID)
	require.NoError(t, err)
	second, err := svc.Toggle(context.Background(), alice, bob.ID)
	require.NoError(t, err)

	// ASSERT
	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, []int64{bob.ID, bob.ID}, stats.invalidated)
}

func TestSubscriptionService_Toggle_Rejects(t *testing.T) {
	users := newFakeUsers()
	alice := users.add(&model.User{Username: "alice"})

	tests := []struct {
		name      string
		channelID int64
		wantErr   error
	}{
		{"self", alice.ID, model.ErrCannotSubscribeSelf},
		{"unknown channel", 404, model.ErrChannelNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := fakeSubs{newFakeEdges[model.SubscriptionKey]()}
			svc := NewSubscriptionService(subs, users, nil)

			subscribed, err := svc.Toggle(context.Background(), alice, tt.channelID)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, subscribed)
			assert.Zero(t, subs.calls)
		})
	}
}

func TestSubscriptionService_Lists_EmptyForUnknownChannel(t *testing.T) {
	svc := NewSubscriptionService(fakeSubs{newFakeEdges[model.SubscriptionKey]()}, newFakeUsers(), nil)

	page, err := svc.Subscribers(context.Background(), 404, model.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = svc.SubscribedChannels(context.Background(), 1, model.ListParams{Limit: "500"})
	assert.Equal(t, apperr.InvalidRequest, apperr.KindOf(err))
}

// =============================================================================
// LIKES
// =============================================================================

type likeFixture struct {
	svc      *LikeService
	likes    fakeLikes
	videos   *fakeVideos
	comments *fakeComments
	tweets   *fakeTweets
	stats    *fakeStats
	viewer   *model.User
}

func newLikeFixture() *likeFixture {
	f := &likeFixture{
		likes:    fakeLikes{newFakeEdges[model.LikeKey]()},
		videos:   newFakeVideos(),
		comments: newFakeComments(),
		tweets:   newFakeTweets(),
		stats:    newFakeStats(),
		viewer:   &model.User{ID: 7, Username: "viewer"},
	}
	f.svc = NewLikeService(f.likes, f.videos, f.comments, f.tweets, f.stats)
	return f
}

func TestLikeService_Toggle_Targets(t *testing.T) {
	f := newLikeFixture()
	v := f.videos.add(&model.Video{OwnerID: 3, IsPublished: true})
	c, _ := f.comments.Create(context.Background(), v.ID, 3, "nice")
	tw, _ := f.tweets.Create(context.Background(), 3, "hello")

	tests := []struct {
		target model.LikeTarget
		id     int64
	}{
		{model.LikeVideo, v.ID},
		{model.LikeComment, c.ID},
		{model.LikeTweet, tw.ID},
	}
	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			liked, err := f.svc.Toggle(context.Background(), f.viewer, tt.target, tt.id)
			require.NoError(t, err)
			assert.True(t, liked)

			liked, err = f.svc.Toggle(context.Background(), f.viewer, tt.target, tt.id)
			require.NoError(t, err)
			assert.False(t, liked)
		})
	}

	// Only video likes feed the owner's dashboard.
	assert.Equal(t, []int64{3, 3}, f.stats.invalidated)
}

func TestLikeService_Toggle_MissingTarget(t *testing.T) {
	tests := []struct {
		target  model.LikeTarget
		wantErr error
	}{
		{model.LikeVideo, model.ErrVideoNotFound},
		{model.LikeComment, model.ErrCommentNotFound},
		{model.LikeTweet, model.ErrTweetNotFound},
		{model.LikeTarget("post"), model.ErrInvalidLikeTarget},
	}
	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			f := newLikeFixture()

			_, err := f.svc.Toggle(context.Background(), f.viewer, tt.target, 99)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.likes.calls)
		})
	}
}

func TestLikeService_Toggle_UnpublishedVideoHidden(t *testing.T) {
	f := newLikeFixture()
	v := f.videos.add(&model.Video{OwnerID: 3, IsPublished: false})

	_, err := f.svc.Toggle(context.Background(), f.viewer, model.LikeVideo, v.ID)

	assert.ErrorIs(t, err, model.ErrVideoNotFound)
}

func TestLikeService_Toggle_CommentOnUnpublishedVideo(t *testing.T) {
	tests := []struct {
		name    string
		viewer  *model.User
		wantErr error
	}{
		{name: "other user", viewer: &model.User{ID: 7}, wantErr: model.ErrCommentNotFound},
		{name: "video owner", viewer: &model.User{ID: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			f := newLikeFixture()
			v := f.videos.add(&model.Video{OwnerID: 3, IsPublished: false})
			c, _ := f.comments.Create(context.Background(), v.ID, 3, "draft note")

			// ACT
			liked, err := f.svc.Toggle(context.Background(), tt.viewer, model.LikeComment, c.ID)

			// ASSERT
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, f.likes.calls)
				return
			}
			require.NoError(t, err)
			assert.True(t, liked)
		})
	}
}

// =============================================================================
// COMMENTS
// =============================================================================

func TestCommentService_Add(t *testing.T) {
	videos := newFakeVideos()
	published := videos.add(&model.Video{OwnerID: 1, IsPublished: true})
	hidden := videos.add(&model.Video{OwnerID: 1})
	viewer := &model.User{ID: 2}

	tests := []struct {
		name    string
		videoID int64
		content string
		wantErr error
	}{
		{"ok", published.ID, "  great video  ", nil},
		{"blank", published.ID, "   ", model.ErrContentRequired},
		{"too long", published.ID, strings.Repeat("é", model.MaxCommentLength+1), model.ErrContentTooLong},
		{"missing video", 99, "hi", model.ErrVideoNotFound},
		{"unpublished video", hidden.ID, "hi", model.ErrVideoNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCommentService(newFakeComments(), videos)

			c, err := svc.Add(context.Background(), viewer, tt.videoID, &model.CommentRequest{Content: tt.content})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "great video", c.Content)
			assert.Equal(t, viewer.ID, c.OwnerID)
		})
	}
}

func TestCommentService_OwnerOnlyMutations(t *testing.T) {
	comments := newFakeComments()
	svc := NewCommentService(comments, newFakeVideos())
	c, _ := comments.Create(context.Background(), 1, 5, "mine")
	owner, stranger := &model.User{ID: 5}, &model.User{ID: 6}

	_, err := svc.Update(context.Background(), stranger, c.ID, &model.CommentRequest{Content: "edited"})
	assert.ErrorIs(t, err, model.ErrNotCommentOwner)
	assert.ErrorIs(t, svc.Delete(context.Background(), stranger, c.ID), model.ErrNotCommentOwner)
	assert.ErrorIs(t, svc.Delete(context.Background(), nil, c.ID), model.ErrTokenMissing)

	updated, err := svc.Update(context.Background(), owner, c.ID, &model.CommentRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, svc.Delete(context.Background(), owner, c.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), owner, c.ID), model.ErrCommentNotFound)
}

func TestCommentService_List_ValidatesBeforeLookup(t *testing.T) {
	comments := newFakeComments()
	svc := NewCommentService(comments, newFakeVideos())

	_, err := svc.List(context.Background(), 99, nil, model.ListParams{SortBy: "views"})
	assert.Equal(t, apperr.InvalidRequest, apperr.KindOf(err))

	_, err = svc.List(context.Background(), 99, nil, model.ListParams{})
	assert.ErrorIs(t, err, model.ErrVideoNotFound)
	assert.Zero(t, comments.listed)
}

// =============================================================================
// TWEETS
// =============================================================================

func TestTweetService(t *testing.T) {
	users := newFakeUsers()
	author := users.add(&model.User{Username: "author"})
	other := users.add(&model.User{Username: "other"})
	tweets := newFakeTweets()
	svc := NewTweetService(tweets, users)

	tw, err := svc.Create(context.Background(), author, &model.TweetRequest{Content: " hello "})
	require.NoError(t, err)
	assert.Equal(t, "hello", tw.Content)

	_, err = svc.Create(context.Background(), author, &model.TweetRequest{Content: strings.Repeat("x", model.MaxTweetLength+1)})
	assert.ErrorIs(t, err, model.ErrContentTooLong)

	_, err = svc.Update(context.Background(), other, tw.ID, &model.TweetRequest{Content: "hijack"})
	assert.ErrorIs(t, err, model.ErrNotTweetOwner)

	_, err = svc.ListByUser(context.Background(), 404, nil, model.ListParams{})
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	page, err := svc.ListByUser(context.Background(), author.ID, other, model.ListParams{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)

	require.NoError(t, svc.Delete(context.Background(), author, tw.ID))
	assert.Empty(t, tweets.tweets)
}
