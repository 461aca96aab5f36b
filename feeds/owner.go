package feeds

import (
	"context"
	"fmt"

	"github.com/CrestNiraj12/feedmirror/domain"
)

// OwnerKind says which kind of container a CommentOwner wraps.
type OwnerKind int

const (
	// OwnerFeed is a feed holding comments of its activities.
	OwnerFeed OwnerKind = iota + 1
	// OwnerActivity is an activity view linked to its feed.
	OwnerActivity
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerFeed:
		return "feed"
	case OwnerActivity:
		return "activity"
	default:
		return fmt.Sprintf("OwnerKind(%d)", int(k))
	}
}

// CommentOwner is whatever holds a comment cache: a feed or an activity
// view. Exactly one of Feed and Activity is set, as named by Kind.
type CommentOwner struct {
	Kind     OwnerKind
	Feed     *Feed
	Activity *ActivityView
}

// FeedOwner wraps a feed.
func FeedOwner(f *Feed) CommentOwner { return CommentOwner{Kind: OwnerFeed, Feed: f} }

// ActivityOwner wraps an activity view.
func ActivityOwner(v *ActivityView) CommentOwner {
	return CommentOwner{Kind: OwnerActivity, Activity: v}
}

// Comments returns the cached comment list of an entity.
func (o CommentOwner) Comments(entityID string) (domain.CommentList, bool) {
	switch o.Kind {
	case OwnerFeed:
		return o.Feed.State().Comments(entityID)
	case OwnerActivity:
		return o.Activity.State().Comments(entityID)
	default:
		return domain.CommentList{}, false
	}
}

// LoadNextPageComments loads the next page of top-level comments of an
// activity. For an activity owner, activityID must be the view's activity.
func (o CommentOwner) LoadNextPageComments(ctx context.Context, activityID string, params *domain.CommentsParams) error {
	switch o.Kind {
	case OwnerFeed:
		return o.Feed.LoadNextPageActivityComments(ctx, activityID, params)
	case OwnerActivity:
		if activityID != o.Activity.ID() {
			return fmt.Errorf("activity view %s cannot page comments of %s: %w", o.Activity.ID(), activityID, domain.ErrNotInitialized)
		}
		return o.Activity.LoadNextPageActivityComments(ctx, params)
	default:
		return fmt.Errorf("comment owner: unknown kind %v", o.Kind)
	}
}

// LoadNextPageReplies loads the next page of replies to parent.
func (o CommentOwner) LoadNextPageReplies(ctx context.Context, parent domain.Comment, params *domain.CommentsParams) error {
	switch o.Kind {
	case OwnerFeed:
		return o.Feed.LoadNextPageCommentReplies(ctx, parent, params)
	case OwnerActivity:
		return o.Activity.LoadNextPageCommentReplies(ctx, parent, params)
	default:
		return fmt.Errorf("comment owner: unknown kind %v", o.Kind)
	}
}
