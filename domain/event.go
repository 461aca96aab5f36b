package domain

import "time"

// Push event types.
const (
	EventActivityAdded           = "activity.added"
	EventActivityUpdated         = "activity.updated"
	EventActivityDeleted         = "activity.deleted"
	EventActivityReactionAdded   = "activity.reaction.added"
	EventActivityReactionDeleted = "activity.reaction.deleted"
	EventBookmarkAdded           = "bookmark.added"
	EventBookmarkDeleted         = "bookmark.deleted"
	EventCommentAdded            = "comment.added"
	EventCommentUpdated          = "comment.updated"
	EventCommentDeleted          = "comment.deleted"
	EventCommentReactionAdded    = "comment.reaction.added"
	EventCommentReactionDeleted  = "comment.reaction.deleted"
	EventFeedUpdated             = "feed.updated"
	EventFollowCreated           = "follow.created"
	EventFollowDeleted           = "follow.deleted"
	EventNotificationFeedUpdated = "notification_feed.updated"
	EventStoriesFeedUpdated      = "stories_feed.updated"
)

// Event is a decoded push event. Every concrete event embeds EventBase.
type Event interface {
	EventType() string
	FeedID() string
}

// EventBase carries the fields every push event has.
type EventBase struct {
	Type      string    `json:"type"`
	FID       string    `json:"fid"`
	CreatedAt time.Time `json:"created_at"`
}

func (e EventBase) EventType() string { return e.Type }
func (e EventBase) FeedID() string    { return e.FID }

type ActivityAddedEvent struct {
	EventBase
	Activity Activity `json:"activity"`
}

type ActivityUpdatedEvent struct {
	EventBase
	Activity Activity `json:"activity"`
}

type ActivityDeletedEvent struct {
	EventBase
	Activity Activity `json:"activity"`
}

// ActivityReactionEvent is used for both activity.reaction.added and
// activity.reaction.deleted.
type ActivityReactionEvent struct {
	EventBase
	Activity Activity `json:"activity"`
	Reaction Reaction `json:"reaction"`
}

// BookmarkEvent is used for both bookmark.added and bookmark.deleted.
type BookmarkEvent struct {
	EventBase
	Bookmark Bookmark `json:"bookmark"`
}

type CommentAddedEvent struct {
	EventBase
	Comment  Comment   `json:"comment"`
	Activity *Activity `json:"activity,omitempty"`
}

type CommentUpdatedEvent struct {
	EventBase
	Comment Comment `json:"comment"`
}

type CommentDeletedEvent struct {
	EventBase
	Comment Comment `json:"comment"`
}

// CommentReactionEvent is used for both comment.reaction.added and
// comment.reaction.deleted.
type CommentReactionEvent struct {
	EventBase
	Comment  Comment  `json:"comment"`
	Reaction Reaction `json:"reaction"`
}

type FeedUpdatedEvent struct {
	EventBase
	Feed FeedData `json:"feed"`
}

// FollowEvent is used for both follow.created and follow.deleted.
type FollowEvent struct {
	EventBase
	Follow Follow `json:"follow"`
}

type NotificationFeedUpdatedEvent struct {
	EventBase
	AggregatedActivities []AggregatedActivity `json:"aggregated_activities"`
}

type StoriesFeedUpdatedEvent struct {
	EventBase
	Activities           []Activity           `json:"activities"`
	AggregatedActivities []AggregatedActivity `json:"aggregated_activities"`
}
