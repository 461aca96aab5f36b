package feeds

import (
	"context"
	"sync"
	"time"

	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type stubAPI struct {
	getOrCreateFn    func(ctx context.Context, fid domain.FeedID, req app.GetOrCreateFeedRequest) (app.GetOrCreateFeedResponse, error)
	getActivityFn    func(ctx context.Context, id string) (domain.Activity, error)
	getCommentsFn    func(ctx context.Context, req app.GetCommentsRequest) (app.CommentsPage, error)
	getRepliesFn     func(ctx context.Context, req app.GetCommentsRequest) (app.CommentsPage, error)
	queryFn          func(ctx context.Context, req app.QueryActivitiesRequest) (app.ActivitiesPage, error)
	addReactionFn    func(ctx context.Context, activityID, reactionType string) (app.ReactionResponse, error)
	deleteReactionFn func(ctx context.Context, activityID, reactionType string) (app.ReactionResponse, error)
	addBookmarkFn    func(ctx context.Context, activityID string) (app.BookmarkResponse, error)
	deleteBookmarkFn func(ctx context.Context, activityID string) (app.BookmarkResponse, error)
	addCommentFn     func(ctx context.Context, req app.AddCommentRequest) (app.AddCommentResponse, error)

	mu    sync.Mutex
	calls map[string]int
}

func (s *stubAPI) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[op]++
}

func (s *stubAPI) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *stubAPI) GetOrCreateFeed(ctx context.Context, fid domain.FeedID, req app.GetOrCreateFeedRequest) (app.GetOrCreateFeedResponse, error) {
	s.record("GetOrCreateFeed")
	if s.getOrCreateFn == nil {
		return app.GetOrCreateFeedResponse{}, nil
	}
	return s.getOrCreateFn(ctx, fid, req)
}

func (s *stubAPI) GetActivity(ctx context.Context, id string) (domain.Activity, error) {
	s.record("GetActivity")
	if s.getActivityFn == nil {
		return domain.Activity{}, nil
	}
	return s.getActivityFn(ctx, id)
}

func (s *stubAPI) GetComments(ctx context.Context, req app.GetCommentsRequest) (app.CommentsPage, error) {
	s.record("GetComments")
	if s.getCommentsFn == nil {
		return app.CommentsPage{}, nil
	}
	return s.getCommentsFn(ctx, req)
}

func (s *stubAPI) GetCommentReplies(ctx context.Context, req app.GetCommentsRequest) (app.CommentsPage, error) {
	s.record("GetCommentReplies")
	if s.getRepliesFn == nil {
		return app.CommentsPage{}, nil
	}
	return s.getRepliesFn(ctx, req)
}

func (s *stubAPI) QueryActivities(ctx context.Context, req app.QueryActivitiesRequest) (app.ActivitiesPage, error) {
	s.record("QueryActivities")
	if s.queryFn == nil {
		return app.ActivitiesPage{}, nil
	}
	return s.queryFn(ctx, req)
}

func (s *stubAPI) AddActivityReaction(ctx context.Context, activityID, reactionType string) (app.ReactionResponse, error) {
	s.record("AddActivityReaction")
	if s.addReactionFn == nil {
		return app.ReactionResponse{}, nil
	}
	return s.addReactionFn(ctx, activityID, reactionType)
}

func (s *stubAPI) DeleteActivityReaction(ctx context.Context, activityID, reactionType string) (app.ReactionResponse, error) {
	s.record("DeleteActivityReaction")
	if s.deleteReactionFn == nil {
		return app.ReactionResponse{}, nil
	}
	return s.deleteReactionFn(ctx, activityID, reactionType)
}

func (s *stubAPI) AddBookmark(ctx context.Context, activityID string) (app.BookmarkResponse, error) {
	s.record("AddBookmark")
	if s.addBookmarkFn == nil {
		return app.BookmarkResponse{}, nil
	}
	return s.addBookmarkFn(ctx, activityID)
}

func (s *stubAPI) DeleteBookmark(ctx context.Context, activityID string) (app.BookmarkResponse, error) {
	s.record("DeleteBookmark")
	if s.deleteBookmarkFn == nil {
		return app.BookmarkResponse{}, nil
	}
	return s.deleteBookmarkFn(ctx, activityID)
}

func (s *stubAPI) AddComment(ctx context.Context, req app.AddCommentRequest) (app.AddCommentResponse, error) {
	s.record("AddComment")
	if s.addCommentFn == nil {
		return app.AddCommentResponse{}, nil
	}
	return s.addCommentFn(ctx, req)
}

var (
	userFeed = domain.FeedID{Group: "user", ID: "alice"}
	fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func newTestClient(api *stubAPI) *Client {
	return NewClient(api, Options{
		CurrentUserID: "alice",
		Now:           func() time.Time { return fixedNow },
	})
}

func activity(id string) domain.Activity {
	return domain.Activity{ID: id, Text: "text " + id, Feeds: []string{userFeed.String()}}
}

func activityIDs(list []domain.Activity) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

func commentIDs(list []domain.Comment) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

// loadedFeed returns a feed whose first page holds the given activities.
func loadedFeed(c *Client, api *stubAPI, activities ...domain.Activity) *Feed {
	api.getOrCreateFn = func(context.Context, domain.FeedID, app.GetOrCreateFeedRequest) (app.GetOrCreateFeedResponse, error) {
		return app.GetOrCreateFeedResponse{Activities: activities}, nil
	}
	f := c.Feed(userFeed)
	if _, err := f.GetOrCreate(context.Background(), app.GetOrCreateFeedRequest{Limit: 10}); err != nil {
		panic(err)
	}
	return f
}
