package app

import (
	"context"

	"github.com/CrestNiraj12/feedmirror/domain"
)

// GetOrCreateFeedRequest is the request shape of a feed fetch.
type GetOrCreateFeedRequest struct {
	Limit          int            `json:"limit,omitempty"`
	Next           string         `json:"next,omitempty"`
	Watch          bool           `json:"watch,omitempty"`
	FollowerLimit  int            `json:"follower_pagination_limit,omitempty"`
	FollowingLimit int            `json:"following_pagination_limit,omitempty"`
	MemberLimit    int            `json:"member_pagination_limit,omitempty"`
	Filter         map[string]any `json:"filter,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
	View           string         `json:"view,omitempty"`
}

// GetOrCreateFeedResponse is one page of a feed.
type GetOrCreateFeedResponse struct {
	Feed                 domain.FeedData             `json:"feed"`
	Activities           []domain.Activity           `json:"activities"`
	AggregatedActivities []domain.AggregatedActivity `json:"aggregated_activities"`
	Followers            []domain.Follow             `json:"followers"`
	Following            []domain.Follow             `json:"following"`
	Members              []domain.FeedMember         `json:"members"`
	Next                 string                      `json:"next"`
	Prev                 string                      `json:"prev"`
}

// GetCommentsRequest asks for a page of comments on an object or replies to a comment.
type GetCommentsRequest struct {
	ObjectID   string
	ObjectType string
	ParentID   string
	Params     domain.CommentsParams
	Next       string
}

// CommentsPage is one page of comments.
type CommentsPage struct {
	Comments []domain.Comment `json:"comments"`
	Next     string           `json:"next"`
}

// QueryActivitiesRequest filters activities across feeds.
type QueryActivitiesRequest struct {
	Filter map[string]any `json:"filter,omitempty"`
	Sort   []SortParam    `json:"sort,omitempty"`
	Limit  int            `json:"limit,omitempty"`
	Next   string         `json:"next,omitempty"`
}

type SortParam struct {
	Field     string `json:"field"`
	Direction int    `json:"direction"`
}

// ActivitiesPage is one page of an activity query.
type ActivitiesPage struct {
	Activities []domain.Activity `json:"activities"`
	Next       string            `json:"next"`
}

// ReactionResponse is returned by reaction mutations.
type ReactionResponse struct {
	Activity domain.Activity `json:"activity"`
	Reaction domain.Reaction `json:"reaction"`
}

// BookmarkResponse is returned by bookmark mutations.
type BookmarkResponse struct {
	Bookmark domain.Bookmark `json:"bookmark"`
}

// AddCommentRequest posts a comment or a reply.
type AddCommentRequest struct {
	ObjectID   string `json:"object_id"`
	ObjectType string `json:"object_type"`
	ParentID   string `json:"parent_id,omitempty"`
	Text       string `json:"comment"`
}

// AddCommentResponse is returned by AddComment.
type AddCommentResponse struct {
	Comment  domain.Comment   `json:"comment"`
	Activity *domain.Activity `json:"activity,omitempty"`
}

// FeedsAPI is the REST surface the state engine reads and mutates through.
// Errors are returned unchanged to callers of the engine.
type FeedsAPI interface {
	// GetOrCreateFeed fetches a page of a feed, creating the feed if needed.
	GetOrCreateFeed(ctx context.Context, fid domain.FeedID, req GetOrCreateFeedRequest) (GetOrCreateFeedResponse, error)

	// GetActivity fetches one activity with the viewer's own fields.
	GetActivity(ctx context.Context, id string) (domain.Activity, error)

	// GetComments fetches a page of top-level comments of an object.
	GetComments(ctx context.Context, req GetCommentsRequest) (CommentsPage, error)

	// GetCommentReplies fetches a page of replies to a comment.
	GetCommentReplies(ctx context.Context, req GetCommentsRequest) (CommentsPage, error)

	// QueryActivities searches activities across feeds.
	QueryActivities(ctx context.Context, req QueryActivitiesRequest) (ActivitiesPage, error)

	AddActivityReaction(ctx context.Context, activityID, reactionType string) (ReactionResponse, error)
	DeleteActivityReaction(ctx context.Context, activityID, reactionType string) (ReactionResponse, error)
	AddBookmark(ctx context.Context, activityID string) (BookmarkResponse, error)
	DeleteBookmark(ctx context.Context, activityID string) (BookmarkResponse, error)
	AddComment(ctx context.Context, req AddCommentRequest) (AddCommentResponse, error)
}
