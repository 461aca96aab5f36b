package feeds

import (
	"context"
	"fmt"

	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/equal"
	"github.com/CrestNiraj12/feedmirror/reconcile"
)

type commentFetch func(ctx context.Context, params domain.CommentsParams, next string) (app.CommentsPage, error)

// LoadFirstPageComments (re)loads the first page of an activity's comments
// with params, dropping any cursor the list had.
func (f *Feed) LoadFirstPageComments(ctx context.Context, activityID string, params domain.CommentsParams) error {
	if !f.holds(activityID) {
		return domain.ErrNotInitialized
	}
	return f.loadComments(ctx, "activity_comments", activityID, "", &params, true, f.activityComments(activityID))
}

// LoadNextPageActivityComments loads the next page of an activity's
// comments. With nil params the params of the previous page are reused.
func (f *Feed) LoadNextPageActivityComments(ctx context.Context, activityID string, params *domain.CommentsParams) error {
	if !f.holds(activityID) {
		return domain.ErrNotInitialized
	}
	return f.loadComments(ctx, "activity_comments", activityID, "", params, false, f.activityComments(activityID))
}

// LoadNextPageCommentReplies loads the next page of replies to parent.
func (f *Feed) LoadNextPageCommentReplies(ctx context.Context, parent domain.Comment, params *domain.CommentsParams) error {
	if !f.holds(parent.ObjectID) {
		if _, ok := f.State().comment(parent.ID); !ok {
			return domain.ErrNotInitialized
		}
	}
	fetch := func(ctx context.Context, params domain.CommentsParams, next string) (app.CommentsPage, error) {
		return f.client.api.GetCommentReplies(ctx, app.GetCommentsRequest{
			ObjectID:   parent.ObjectID,
			ObjectType: parent.ObjectType,
			ParentID:   parent.ID,
			Params:     params,
			Next:       next,
		})
	}
	return f.loadComments(ctx, "comment_replies", parent.ID, parent.ObjectID, params, false, fetch)
}

func (f *Feed) activityComments(activityID string) commentFetch {
	return func(ctx context.Context, params domain.CommentsParams, next string) (app.CommentsPage, error) {
		return f.client.api.GetComments(ctx, app.GetCommentsRequest{
			ObjectID:   activityID,
			ObjectType: domain.ObjectTypeActivity,
			Params:     params,
			Next:       next,
		})
	}
}

// loadComments runs one page load of the comment list of entityID. The
// loading flag is published before the fetch and cleared whatever happens.
func (f *Feed) loadComments(ctx context.Context, op, entityID, entityParentID string, params *domain.CommentsParams, restart bool, fetch commentFetch) error {
	var (
		resolved domain.CommentsParams
		cursor   string
	)
	started := f.state.Update(func(s FeedState) (FeedState, bool) {
		m := s.CommentsByEntityID
		resolved = reconcile.ResolveCommentsParams(m, entityID, params)
		if restart {
			m = reconcile.RestartCommentPage(m, entityID, resolved)
		}
		next, c, ok := reconcile.BeginCommentPage(m, entityID, entityParentID, resolved)
		if !ok {
			return s, false
		}
		cursor = c
		s.CommentsByEntityID = next
		return s, true
	})
	if !started {
		f.client.logger.Debug("comment page skipped", "entity", entityID, "op", op)
		return nil
	}

	page, err := fetch(ctx, resolved, cursor)
	f.client.metrics.Fetch(op, err)
	if err != nil {
		f.state.Update(func(s FeedState) (FeedState, bool) {
			next := reconcile.EndCommentPage(s.CommentsByEntityID, entityID, resolved)
			if equal.Equal(next, s.CommentsByEntityID) {
				return s, false
			}
			s.CommentsByEntityID = next
			return s, true
		})
		return fmt.Errorf("loading comments of %s: %w", entityID, err)
	}

	f.state.Update(func(s FeedState) (FeedState, bool) {
		s.CommentsByEntityID = reconcile.ApplyCommentPage(s.CommentsByEntityID, entityID, resolved, page.Comments, page.Next)
		return s, true
	})
	return nil
}
