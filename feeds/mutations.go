package feeds

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/reconcile"
)

// localCommentPrefix marks comments that only exist locally until the server
// confirms them.
const localCommentPrefix = "local-"

// IsLocalComment reports whether c is an unconfirmed optimistic comment.
func IsLocalComment(c domain.Comment) bool {
	return strings.HasPrefix(c.ID, localCommentPrefix)
}

func (f *Feed) mapActivity(id string, fn func(domain.Activity) domain.Activity) bool {
	return f.state.Update(func(s FeedState) (FeedState, bool) {
		return s.mapActivity(id, fn)
	})
}

func (f *Feed) viewer() domain.User {
	return domain.User{ID: f.client.userID}
}

// AddReaction reacts to an activity. The viewer's reaction shows up at once
// and is reverted if the server rejects it.
func (f *Feed) AddReaction(ctx context.Context, activityID, reactionType string) error {
	return f.react(ctx, activityID, reactionType, true)
}

// DeleteReaction removes the viewer's reaction of the given type.
func (f *Feed) DeleteReaction(ctx context.Context, activityID, reactionType string) error {
	return f.react(ctx, activityID, reactionType, false)
}

func (f *Feed) react(ctx context.Context, activityID, reactionType string, add bool) error {
	r := domain.Reaction{
		Type:       reactionType,
		ActivityID: activityID,
		User:       f.viewer(),
		CreatedAt:  f.client.now(),
	}
	toggled := false
	f.mapActivity(activityID, func(a domain.Activity) domain.Activity {
		toggled = a.HasOwnReaction(reactionType) != add
		return reconcile.OptimisticReaction(a, r, add)
	})

	call, op := f.client.api.AddActivityReaction, "add_reaction"
	if !add {
		call, op = f.client.api.DeleteActivityReaction, "delete_reaction"
	}
	resp, err := call(ctx, activityID, reactionType)
	f.client.metrics.Fetch(op, err)
	if err != nil {
		if toggled {
			f.mapActivity(activityID, func(a domain.Activity) domain.Activity {
				return reconcile.OptimisticReaction(a, r, !add)
			})
			f.client.metrics.Rollback(op)
			f.client.logger.Warn("reaction rolled back", "activity", activityID, "type", reactionType, "error", err)
		}
		return err
	}

	fold := reconcile.ReactionAdded
	if !add {
		fold = reconcile.ReactionDeleted
	}
	reaction := resp.Reaction
	if reaction.Type == "" {
		reaction = r
	}
	f.mapActivity(activityID, func(current domain.Activity) domain.Activity {
		payload := resp.Activity
		if payload.ID == "" {
			payload = current
		}
		return fold(current, payload, reaction, true)
	})
	return nil
}

// AddBookmark bookmarks an activity, optimistically.
func (f *Feed) AddBookmark(ctx context.Context, activityID string) error {
	return f.bookmark(ctx, activityID, true)
}

// DeleteBookmark removes the viewer's bookmark, optimistically.
func (f *Feed) DeleteBookmark(ctx context.Context, activityID string) error {
	return f.bookmark(ctx, activityID, false)
}

func (f *Feed) bookmark(ctx context.Context, activityID string, add bool) error {
	b := domain.Bookmark{
		ActivityID: activityID,
		User:       f.viewer(),
		CreatedAt:  f.client.now(),
	}
	var before domain.Activity
	applied := f.mapActivity(activityID, func(a domain.Activity) domain.Activity {
		before = a
		return reconcile.OptimisticBookmark(a, b, add)
	})

	call, op := f.client.api.AddBookmark, "add_bookmark"
	if !add {
		call, op = f.client.api.DeleteBookmark, "delete_bookmark"
	}
	resp, err := call(ctx, activityID)
	f.client.metrics.Fetch(op, err)
	if err != nil {
		if applied {
			f.mapActivity(activityID, func(a domain.Activity) domain.Activity {
				a.BookmarkCount = before.BookmarkCount
				a.OwnBookmarks = before.OwnBookmarks
				return a
			})
			f.client.metrics.Rollback(op)
			f.client.logger.Warn("bookmark rolled back", "activity", activityID, "error", err)
		}
		return err
	}

	fold := reconcile.BookmarkAdded
	if !add {
		fold = reconcile.BookmarkDeleted
	}
	confirmed := resp.Bookmark
	confirmed.Activity = nil
	f.mapActivity(activityID, func(current domain.Activity) domain.Activity {
		payload := current
		if resp.Bookmark.Activity != nil {
			payload = *resp.Bookmark.Activity
		}
		return fold(current, payload, confirmed, true)
	})
	return nil
}

// AddComment posts a comment or reply. A local copy is shown right away in
// the loaded comment list of its parent, swapped for the server's comment on
// success and removed on failure.
func (f *Feed) AddComment(ctx context.Context, req app.AddCommentRequest) (domain.Comment, error) {
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return domain.Comment{}, domain.ErrEmptyComment
	}
	if req.ObjectType == "" {
		req.ObjectType = domain.ObjectTypeActivity
	}
	now := f.client.now()
	local := domain.Comment{
		ID:         localCommentPrefix + ulid.Make().String(),
		ObjectID:   req.ObjectID,
		ObjectType: req.ObjectType,
		ParentID:   req.ParentID,
		Text:       req.Text,
		User:       f.viewer(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.state.Update(func(s FeedState) (FeedState, bool) {
		next, ok := reconcile.AddComment(s.CommentsByEntityID, local)
		s.CommentsByEntityID = next
		return s, ok
	})

	resp, err := f.client.api.AddComment(ctx, req)
	f.client.metrics.Fetch("add_comment", err)
	if err != nil {
		if f.state.Update(func(s FeedState) (FeedState, bool) {
			next, ok := reconcile.RemoveComment(s.CommentsByEntityID, local)
			s.CommentsByEntityID = next
			return s, ok
		}) {
			f.client.metrics.Rollback("add_comment")
			f.client.logger.Warn("comment rolled back", "object", req.ObjectID, "error", err)
		}
		return domain.Comment{}, err
	}

	f.state.Update(func(s FeedState) (FeedState, bool) {
		next, changed := reconcile.ReplaceComment(s.CommentsByEntityID, local.EntityID(), local.ID, resp.Comment)
		s.CommentsByEntityID = next
		if resp.Activity != nil {
			if updated, ok := s.mapActivity(resp.Activity.ID, func(current domain.Activity) domain.Activity {
				return reconcile.UpdateActivity(current, *resp.Activity)
			}); ok {
				s = updated
				changed = true
			}
		}
		return s, changed
	})
	return resp.Comment, nil
}
