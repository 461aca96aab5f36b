package domain

import "time"

// User is the author of an activity, comment, or reaction.
type User struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Image     string         `json:"image,omitempty"`
	Custom    map[string]any `json:"custom,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DisplayName returns the name, falling back to the id.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// Reaction is one user's reaction to an activity or comment.
type Reaction struct {
	Type       string    `json:"type"`
	ActivityID string    `json:"activity_id,omitempty"`
	CommentID  string    `json:"comment_id,omitempty"`
	User       User      `json:"user"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReactionGroup aggregates reactions of one type.
type ReactionGroup struct {
	Count           int       `json:"count"`
	FirstReactionAt time.Time `json:"first_reaction_at"`
	LastReactionAt  time.Time `json:"last_reaction_at"`
}

// Bookmark is a user's bookmark of an activity. Activity is only set on
// bookmark responses and events, never on cached own bookmarks.
type Bookmark struct {
	ActivityID string    `json:"activity_id"`
	Activity   *Activity `json:"activity,omitempty"`
	Folder     string    `json:"folder,omitempty"`
	User       User      `json:"user"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Activity is one feed item.
//
// OwnReactions and OwnBookmarks are viewer scoped: only responses made on behalf
// of the current user carry them. Payloads that omit them say nothing about the
// viewer, so reconcilers keep the previous value.
type Activity struct {
	ID              string                   `json:"id"`
	Type            string                   `json:"type"`
	User            User                     `json:"user"`
	Text            string                   `json:"text"`
	Feeds           []string                 `json:"feeds"`
	Visibility      string                   `json:"visibility,omitempty"`
	ReactionGroups  map[string]ReactionGroup `json:"reaction_groups,omitempty"`
	ReactionCount   int                      `json:"reaction_count"`
	LatestReactions []Reaction               `json:"latest_reactions,omitempty"`
	OwnReactions    []Reaction               `json:"own_reactions,omitempty"`
	BookmarkCount   int                      `json:"bookmark_count"`
	OwnBookmarks    []Bookmark               `json:"own_bookmarks,omitempty"`
	CommentCount    int                      `json:"comment_count"`
	Comments        []Comment                `json:"comments,omitempty"`
	Custom          map[string]any           `json:"custom,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	EditedAt        *time.Time               `json:"edited_at,omitempty"`
	DeletedAt       *time.Time               `json:"deleted_at,omitempty"`
}

// FirstFeed returns the first feed the activity appears in.
func (a Activity) FirstFeed() (FeedID, bool) {
	for _, fid := range a.Feeds {
		if parsed, err := ParseFeedID(fid); err == nil {
			return parsed, true
		}
	}
	return FeedID{}, false
}

// HasOwnReaction reports whether the viewer reacted with the given type.
func (a Activity) HasOwnReaction(reactionType string) bool {
	for _, r := range a.OwnReactions {
		if r.Type == reactionType {
			return true
		}
	}
	return false
}

// IsBookmarked reports whether the viewer bookmarked the activity.
func (a Activity) IsBookmarked() bool {
	return len(a.OwnBookmarks) > 0
}

// AggregatedActivity is a server-grouped bundle of activities sharing a group key,
// used by notification feeds. Group is the merge key.
type AggregatedActivity struct {
	Group         string     `json:"group"`
	Activities    []Activity `json:"activities"`
	ActivityCount int        `json:"activity_count"`
	UserCount     int        `json:"user_count"`
	Score         float64    `json:"score"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
