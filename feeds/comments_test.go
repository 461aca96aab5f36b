package feeds

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
)

func TestLoadNextPageActivityComments_StickyParams(t *testing.T) {
	api := &stubAPI{}
	var seen []app.GetCommentsRequest
	api.getCommentsFn = func(_ context.Context, req app.GetCommentsRequest) (app.CommentsPage, error) {
		seen = append(seen, req)
		if req.Next == "" {
			return app.CommentsPage{Comments: []domain.Comment{{ID: "c1"}, {ID: "c2"}}, Next: "n1"}, nil
		}
		return app.CommentsPage{Comments: []domain.Comment{{ID: "c3"}}}, nil
	}
	c := newTestClient(api)
	f := loadedFeed(c, api, activity("a1"))

	params := domain.CommentsParams{Sort: domain.SortTop, Limit: 2}
	require.NoError(t, f.LoadNextPageActivityComments(context.Background(), "a1", &params))
	require.NoError(t, f.LoadNextPageActivityComments(context.Background(), "a1", nil))

	require.Len(t, seen, 2)
	assert.Equal(t, params, seen[1].Params, "params of the previous page are reused")
	assert.Equal(t, "n1", seen[1].Next)
	assert.Equal(t, domain.ObjectTypeActivity, seen[1].ObjectType)

	list, ok := f.State().Comments("a1")
	require.True(t, ok)
	assert.Equal(t, []string{"c1", "c2", "c3"}, commentIDs(list.Comments))
	assert.False(t, list.HasNextPage())

	require.NoError(t, f.LoadNextPageActivityComments(context.Background(), "a1", nil))
	assert.Equal(t, 2, api.Calls("GetComments"), "exhausted list is not fetched again")
}

func TestLoadNextPageActivityComments_LoadingFlagPublishedFirst(t *testing.T) {
	api := &stubAPI{}
	c := newTestClient(api)
	f := loadedFeed(c, api, activity("a1"))

	api.getCommentsFn = func(context.Context, app.GetCommentsRequest) (app.CommentsPage, error) {
		list, ok := f.State().Comments("a1")
		assert.True(t, ok)
		assert.True(t, list.Pagination.LoadingNextPage)
		return app.CommentsPage{}, nil
	}
	require.NoError(t, f.LoadNextPageActivityComments(context.Background(), "a1", nil))

	list, _ := f.State().Comments("a1")
	assert.False(t, list.Pagination.LoadingNextPage)
	assert.NotNil(t, list.Comments)
}

func TestLoadNextPageActivityComments_ErrorClearsFlag(t *testing.T) {
	boom := errors.New("boom")
	api := &stubAPI{}
	api.getCommentsFn = func(context.Context, app.GetCommentsRequest) (app.CommentsPage, error) {
		return app.CommentsPage{}, boom
	}
	c := newTestClient(api)
	f := loadedFeed(c, api, activity("a1"))

	err := f.LoadNextPageActivityComments(context.Background(), "a1", nil)
	require.ErrorIs(t, err, boom)

	list, _ := f.State().Comments("a1")
	assert.False(t, list.Pagination.LoadingNextPage)
	assert.Empty(t, list.Comments)
}

func TestLoadComments_NotInitialized(t *testing.T) {
	api := &stubAPI{}
	f := newTestClient(api).Feed(userFeed)

	err := f.LoadNextPageActivityComments(context.Background(), "a1", nil)
	require.ErrorIs(t, err, domain.ErrNotInitialized)

	err = f.LoadNextPageCommentReplies(context.Background(), domain.Comment{ID: "c1", ObjectID: "a1"}, nil)
	require.ErrorIs(t, err, domain.ErrNotInitialized)
	assert.Zero(t, api.Calls("GetComments")+api.Calls("GetCommentReplies"))
}

func TestLoadFirstPageComments_ChangedParamsRestart(t *testing.T) {
	api := &stubAPI{}
	api.getCommentsFn = func(_ context.Context, req app.GetCommentsRequest) (app.CommentsPage, error) {
		if req.Params.Sort == domain.SortLast {
			assert.Empty(t, req.Next)
			return app.CommentsPage{Comments: []domain.Comment{{ID: "new"}}}, nil
		}
		return app.CommentsPage{Comments: []domain.Comment{{ID: "old"}}, Next: "n1"}, nil
	}
	c := newTestClient(api)
	f := loadedFeed(c, api, activity("a1"))

	require.NoError(t, f.LoadFirstPageComments(context.Background(), "a1", domain.CommentsParams{Sort: domain.SortFirst}))
	require.NoError(t, f.LoadNextPageActivityComments(context.Background(), "a1", &domain.CommentsParams{Sort: domain.SortLast}))

	list, _ := f.State().Comments("a1")
	assert.Equal(t, []string{"new"}, commentIDs(list.Comments))
	assert.Equal(t, domain.SortLast, list.Pagination.Params.Sort)
}

func TestLoadNextPageCommentReplies(t *testing.T) {
	api := &stubAPI{}
	api.getRepliesFn = func(_ context.Context, req app.GetCommentsRequest) (app.CommentsPage, error) {
		assert.Equal(t, "c1", req.ParentID)
		return app.CommentsPage{Comments: []domain.Comment{{ID: "r1", ObjectID: "a1", ParentID: "c1"}}}, nil
	}
	c := newTestClient(api)
	f := loadedFeed(c, api, activity("a1"))

	parent := domain.Comment{ID: "c1", ObjectID: "a1", ObjectType: domain.ObjectTypeActivity}
	require.NoError(t, f.LoadNextPageCommentReplies(context.Background(), parent, nil))

	list, ok := f.State().Comments("c1")
	require.True(t, ok)
	assert.Equal(t, "a1", list.EntityParentID)
	assert.Equal(t, []string{"r1"}, commentIDs(list.Comments))
}

func TestLoadComments_FailedOlderLoadKeepsNewerFlag(t *testing.T) {
	api := &stubAPI{}
	c := newTestClient(api)
	f := loadedFeed(c, api, activity("a1"))

	started := make(chan string, 2)
	release := map[string]chan error{
		domain.SortFirst: make(chan error),
		domain.SortLast:  make(chan error),
	}
	api.getCommentsFn = func(_ context.Context, req app.GetCommentsRequest) (app.CommentsPage, error) {
		started <- req.Params.Sort
		if err := <-release[req.Params.Sort]; err != nil {
			return app.CommentsPage{}, err
		}
		return app.CommentsPage{Comments: []domain.Comment{{ID: "c-" + req.Params.Sort}}}, nil
	}

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- f.LoadNextPageActivityComments(context.Background(), "a1", &domain.CommentsParams{Sort: domain.SortFirst})
	}()
	require.Equal(t, domain.SortFirst, <-started)

	lastDone := make(chan error, 1)
	go func() {
		lastDone <- f.LoadFirstPageComments(context.Background(), "a1", domain.CommentsParams{Sort: domain.SortLast})
	}()
	require.Equal(t, domain.SortLast, <-started)

	boom := errors.New("boom")
	release[domain.SortFirst] <- boom
	require.ErrorIs(t, <-firstDone, boom)

	list, _ := f.State().Comments("a1")
	assert.True(t, list.Pagination.LoadingNextPage, "newer load is still in flight")
	assert.Equal(t, domain.SortLast, list.Pagination.Params.Sort)

	release[domain.SortLast] <- nil
	require.NoError(t, <-lastDone)
	list, _ = f.State().Comments("a1")
	assert.False(t, list.Pagination.LoadingNextPage)
	assert.Equal(t, []string{"c-last"}, commentIDs(list.Comments))
}
