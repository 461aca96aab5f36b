package domain

import "time"

// Comment sorts understood by the comments endpoint.
const (
	SortFirst         = "first"
	SortLast          = "last"
	SortTop           = "top"
	SortBest          = "best"
	SortControversial = "controversial"
)

// ObjectTypeActivity is the object_type of a top-level comment on an activity.
const ObjectTypeActivity = "activity"

// Comment is a top-level comment on an activity (ParentID empty) or a reply.
type Comment struct {
	ID              string                   `json:"id"`
	ObjectID        string                   `json:"object_id"`
	ObjectType      string                   `json:"object_type"`
	ParentID        string                   `json:"parent_id,omitempty"`
	Text            string                   `json:"text"`
	User            User                     `json:"user"`
	ReactionGroups  map[string]ReactionGroup `json:"reaction_groups,omitempty"`
	ReactionCount   int                      `json:"reaction_count"`
	LatestReactions []Reaction               `json:"latest_reactions,omitempty"`
	OwnReactions    []Reaction               `json:"own_reactions,omitempty"`
	ReplyCount      int                      `json:"reply_count"`
	Replies         []Comment                `json:"replies,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	DeletedAt       *time.Time               `json:"deleted_at,omitempty"`
}

// EntityID is the comment-cache key of the list this comment belongs to:
// the parent comment for replies, the object for top-level comments.
func (c Comment) EntityID() string {
	if c.ParentID != "" {
		return c.ParentID
	}
	return c.ObjectID
}

// CommentsParams is the request shape of a comment page. A cursor is only
// valid for the params that produced it.
type CommentsParams struct {
	Sort  string `json:"sort,omitempty"`
	Limit int    `json:"limit,omitempty"`
	Depth int    `json:"depth,omitempty"`
}

// NewestFirst reports whether new comments belong at the top of the list.
func (p CommentsParams) NewestFirst() bool {
	return p.Sort == SortLast
}

// Pagination is the cursor bookkeeping of one comment list. Loaded is false
// until the first page for Params has arrived.
type Pagination struct {
	Next            string
	LoadingNextPage bool
	Loaded          bool
	Params          CommentsParams
}

// CommentList is one entry of the comment cache, keyed by parent entity id.
type CommentList struct {
	EntityParentID string
	Comments       []Comment
	Pagination     Pagination
}

// HasNextPage reports whether another page can be requested.
func (l CommentList) HasNextPage() bool {
	return !l.Pagination.Loaded || l.Pagination.Next != ""
}
