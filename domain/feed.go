package domain

import (
	"fmt"
	"strings"
	"time"
)

// FeedID identifies a feed by its group and id.
type FeedID struct {
	Group string
	ID    string
}

func (f FeedID) String() string {
	return f.Group + ":" + f.ID
}

// IsZero reports whether the feed id is unset.
func (f FeedID) IsZero() bool {
	return f.Group == "" && f.ID == ""
}

// ParseFeedID parses "group:id".
func ParseFeedID(s string) (FeedID, error) {
	group, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || group == "" || id == "" {
		return FeedID{}, fmt.Errorf("%w: %q", ErrInvalidFeedID, s)
	}
	return FeedID{Group: group, ID: id}, nil
}

// FeedData is the server-side description of a feed.
type FeedData struct {
	FID            string    `json:"fid"`
	Group          string    `json:"group_id"`
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Visibility     string    `json:"visibility"`
	FollowerCount  int       `json:"follower_count"`
	FollowingCount int       `json:"following_count"`
	MemberCount    int       `json:"member_count"`
	CreatedBy      User      `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FeedMember is one member of a feed.
type FeedMember struct {
	User      User      `json:"user"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow links a source feed to a target feed.
type Follow struct {
	SourceFeed FeedData  `json:"source_feed"`
	TargetFeed FeedData  `json:"target_feed"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
