package feeds

import (
	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/reconcile"
)

// eventContext carries what a handler needs besides the state and event.
type eventContext struct {
	currentUserID string
	// acceptAdded filters activity.added; nil accepts everything.
	acceptAdded func(domain.Activity) bool
}

func (ec eventContext) own(u domain.User) bool {
	return ec.currentUserID != "" && u.ID == ec.currentUserID
}

// applyEvent folds one push event into state. It never mutates state.
func applyEvent(state FeedState, ev domain.Event, ec eventContext) UpdateStateResult {
	switch e := ev.(type) {
	case domain.ActivityAddedEvent:
		return activityAdded(state, e, ec)
	case domain.ActivityUpdatedEvent:
		return activityUpdated(state, e)
	case domain.ActivityDeletedEvent:
		return activityDeleted(state, e)
	case domain.ActivityReactionEvent:
		return activityReaction(state, e, ec)
	case domain.BookmarkEvent:
		return bookmark(state, e, ec)
	case domain.CommentAddedEvent:
		return commentAdded(state, e)
	case domain.CommentUpdatedEvent:
		return commentUpdated(state, e)
	case domain.CommentDeletedEvent:
		return commentDeleted(state, e)
	case domain.CommentReactionEvent:
		return commentReaction(state, e, ec)
	case domain.FeedUpdatedEvent:
		return feedUpdated(state, e)
	case domain.FollowEvent:
		return follow(state, e)
	case domain.NotificationFeedUpdatedEvent:
		return notificationFeedUpdated(state, e)
	case domain.StoriesFeedUpdatedEvent:
		return storiesFeedUpdated(state, e)
	default:
		return unchanged(state)
	}
}

func activityAdded(state FeedState, e domain.ActivityAddedEvent, ec eventContext) UpdateStateResult {
	if !state.Loaded && len(state.Activities) == 0 {
		return unchanged(state)
	}
	if ec.acceptAdded != nil && !ec.acceptAdded(e.Activity) {
		return unchanged(state)
	}
	if next, ok := reconcile.UpdateActivities(state.Activities, e.Activity); ok {
		state.Activities = next
		return changed(state)
	}
	next, ok := reconcile.Merge([]domain.Activity{e.Activity}, state.Activities, reconcile.ActivityKey, reconcile.Prepend)
	if !ok {
		return unchanged(state)
	}
	state.Activities = next
	return changed(state)
}

func activityUpdated(state FeedState, e domain.ActivityUpdatedEvent) UpdateStateResult {
	next, ok := state.mapActivity(e.Activity.ID, func(current domain.Activity) domain.Activity {
		return reconcile.UpdateActivity(current, e.Activity)
	})
	if !ok {
		return unchanged(state)
	}
	return changed(next)
}

func activityDeleted(state FeedState, e domain.ActivityDeletedEvent) UpdateStateResult {
	id := e.Activity.ID
	flat, a := reconcile.RemoveActivity(state.Activities, id)
	groups, g := reconcile.RemoveActivityFromGroups(state.AggregatedActivities, id)
	comments, c := reconcile.RemoveEntity(state.CommentsByEntityID, id)
	if !a && !g && !c {
		return unchanged(state)
	}
	state.Activities = flat
	state.AggregatedActivities = groups
	state.CommentsByEntityID = comments
	return changed(state)
}

func activityReaction(state FeedState, e domain.ActivityReactionEvent, ec eventContext) UpdateStateResult {
	own := ec.own(e.Reaction.User)
	fold := reconcile.ReactionAdded
	if e.Type == domain.EventActivityReactionDeleted {
		fold = reconcile.ReactionDeleted
	}
	next, ok := state.mapActivity(e.Activity.ID, func(current domain.Activity) domain.Activity {
		return fold(current, e.Activity, e.Reaction, own)
	})
	if !ok {
		return unchanged(state)
	}
	return changed(next)
}

func bookmark(state FeedState, e domain.BookmarkEvent, ec eventContext) UpdateStateResult {
	own := ec.own(e.Bookmark.User)
	id := e.Bookmark.ActivityID
	if id == "" && e.Bookmark.Activity != nil {
		id = e.Bookmark.Activity.ID
	}
	b := e.Bookmark
	b.Activity = nil
	fold := reconcile.BookmarkAdded
	if e.Type == domain.EventBookmarkDeleted {
		fold = reconcile.BookmarkDeleted
	}
	next, ok := state.mapActivity(id, func(current domain.Activity) domain.Activity {
		payload := current
		if e.Bookmark.Activity != nil {
			payload = *e.Bookmark.Activity
		}
		return fold(current, payload, b, own)
	})
	if !ok {
		return unchanged(state)
	}
	return changed(next)
}

func commentAdded(state FeedState, e domain.CommentAddedEvent) UpdateStateResult {
	c := e.Comment
	_, known := state.comment(c.ID)

	result := unchanged(state)
	if comments, ok := reconcile.AddComment(state.CommentsByEntityID, c); ok {
		state.CommentsByEntityID = comments
		result = changed(state)
	}
	if known {
		return result
	}

	if c.ParentID != "" {
		if comments, ok := reconcile.MapComment(state.CommentsByEntityID, c.ParentID, func(parent domain.Comment) domain.Comment {
			parent.ReplyCount++
			return parent
		}); ok {
			state.CommentsByEntityID = comments
			result = changed(state)
		}
	}

	var bump func(domain.Activity) domain.Activity
	if e.Activity != nil {
		payload := *e.Activity
		bump = func(current domain.Activity) domain.Activity {
			return reconcile.UpdateActivity(current, payload)
		}
	} else if c.ParentID == "" && c.ObjectType == domain.ObjectTypeActivity {
		bump = func(current domain.Activity) domain.Activity {
			current.CommentCount++
			return current
		}
	}
	if bump != nil {
		if next, ok := state.mapActivity(c.ObjectID, bump); ok {
			state = next
			result = changed(state)
		}
	}
	return result
}

func commentUpdated(state FeedState, e domain.CommentUpdatedEvent) UpdateStateResult {
	comments, ok := reconcile.UpdateCachedComment(state.CommentsByEntityID, e.Comment)
	if !ok {
		return unchanged(state)
	}
	state.CommentsByEntityID = comments
	return changed(state)
}

// commentDeleted mirrors commentAdded: counts drop whenever the delete may be
// new to this state, whether or not the comment's list is cached. Only a
// fully loaded list that no longer holds the comment marks a repeat.
func commentDeleted(state FeedState, e domain.CommentDeletedEvent) UpdateStateResult {
	c := e.Comment
	list, listed := state.CommentsByEntityID[c.EntityID()]
	comments, removed := reconcile.RemoveComment(state.CommentsByEntityID, c)
	if !removed && listed && !list.HasNextPage() {
		return unchanged(state)
	}

	result := unchanged(state)
	if removed {
		state.CommentsByEntityID = comments
		result = changed(state)
	}
	if c.ParentID != "" {
		if comments, ok := reconcile.MapComment(state.CommentsByEntityID, c.ParentID, func(parent domain.Comment) domain.Comment {
			parent.ReplyCount = max(parent.ReplyCount-1, 0)
			return parent
		}); ok {
			state.CommentsByEntityID = comments
			result = changed(state)
		}
	} else if c.ObjectType == domain.ObjectTypeActivity {
		if next, ok := state.mapActivity(c.ObjectID, func(a domain.Activity) domain.Activity {
			a.CommentCount = max(a.CommentCount-1, 0)
			return a
		}); ok {
			state = next
			result = changed(state)
		}
	}
	return result
}

func commentReaction(state FeedState, e domain.CommentReactionEvent, ec eventContext) UpdateStateResult {
	own := ec.own(e.Reaction.User)
	fold := reconcile.CommentReactionAdded
	if e.Type == domain.EventCommentReactionDeleted {
		fold = reconcile.CommentReactionDeleted
	}
	comments, ok := reconcile.MapComment(state.CommentsByEntityID, e.Comment.ID, func(current domain.Comment) domain.Comment {
		return fold(current, e.Comment, e.Reaction, own)
	})
	if !ok {
		return unchanged(state)
	}
	state.CommentsByEntityID = comments
	return changed(state)
}

func feedUpdated(state FeedState, e domain.FeedUpdatedEvent) UpdateStateResult {
	if !state.Loaded {
		return unchanged(state)
	}
	feed := e.Feed
	state.Feed = &feed
	state.FollowerCount = feed.FollowerCount
	state.FollowingCount = feed.FollowingCount
	state.MemberCount = feed.MemberCount
	return changed(state)
}

func follow(state FeedState, e domain.FollowEvent) UpdateStateResult {
	fid := state.FID.String()
	result := unchanged(state)
	if e.Follow.TargetFeed.FID == fid {
		state.FollowerCount = e.Follow.TargetFeed.FollowerCount
		result = changed(state)
	}
	if e.Follow.SourceFeed.FID == fid {
		state.FollowingCount = e.Follow.SourceFeed.FollowingCount
		result = changed(state)
	}
	return result
}

func notificationFeedUpdated(state FeedState, e domain.NotificationFeedUpdatedEvent) UpdateStateResult {
	if !state.Loaded {
		return unchanged(state)
	}
	groups, ok := reconcile.AggregatedActivities(e.AggregatedActivities, state.AggregatedActivities, reconcile.Prepend)
	if !ok {
		return unchanged(state)
	}
	state.AggregatedActivities = groups
	return changed(state)
}

func storiesFeedUpdated(state FeedState, e domain.StoriesFeedUpdatedEvent) UpdateStateResult {
	t, ok := reconcile.StoriesUpdate(state.timeline(), e.Activities, e.AggregatedActivities)
	if !ok {
		return unchanged(state)
	}
	return changed(state.withTimeline(t))
}

// comment finds a cached comment by id.
func (s FeedState) comment(id string) (domain.Comment, bool) {
	for _, l := range s.CommentsByEntityID {
		for _, c := range l.Comments {
			if c.ID == id {
				return c, true
			}
		}
	}
	return domain.Comment{}, false
}
