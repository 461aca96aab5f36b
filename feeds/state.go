package feeds

import (
	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/reconcile"
)

// FeedState is the published state of one feed. Values are never mutated in
// place: every change produces a new FeedState with copied slices and maps.
type FeedState struct {
	FID  domain.FeedID
	Feed *domain.FeedData

	// Loaded is set by the first successful GetOrCreate.
	Loaded               bool
	Activities           []domain.Activity
	AggregatedActivities []domain.AggregatedActivity
	Next                 string
	Prev                 string
	IsLoadingActivities  bool

	CommentsByEntityID reconcile.CommentCache

	Followers      []domain.Follow
	Following      []domain.Follow
	Members        []domain.FeedMember
	FollowerCount  int
	FollowingCount int
	MemberCount    int

	Watch       bool
	LastRequest *app.GetOrCreateFeedRequest
}

// HasNextPage reports whether GetNextPage has anything to fetch.
func (s FeedState) HasNextPage() bool {
	return s.Loaded && s.Next != ""
}

// Activity finds an activity by id in the flat list, then inside groups.
func (s FeedState) Activity(id string) (domain.Activity, bool) {
	for _, a := range s.Activities {
		if a.ID == id {
			return a, true
		}
	}
	for _, g := range s.AggregatedActivities {
		for _, a := range g.Activities {
			if a.ID == id {
				return a, true
			}
		}
	}
	return domain.Activity{}, false
}

// Comments returns the cached comment list of an entity.
func (s FeedState) Comments(entityID string) (domain.CommentList, bool) {
	l, ok := s.CommentsByEntityID[entityID]
	return l, ok
}

func (s FeedState) timeline() reconcile.Timeline {
	return reconcile.Timeline{
		Loaded:               s.Loaded,
		Activities:           s.Activities,
		AggregatedActivities: s.AggregatedActivities,
	}
}

func (s FeedState) withTimeline(t reconcile.Timeline) FeedState {
	s.Activities = t.Activities
	s.AggregatedActivities = t.AggregatedActivities
	return s
}

// mapActivity applies fn to the activity with the given id wherever the feed
// holds it.
func (s FeedState) mapActivity(id string, fn func(domain.Activity) domain.Activity) (FeedState, bool) {
	flat, a := reconcile.MapActivity(s.Activities, id, fn)
	groups, g := reconcile.MapActivityInGroups(s.AggregatedActivities, id, fn)
	if !a && !g {
		return s, false
	}
	s.Activities = flat
	s.AggregatedActivities = groups
	return s, true
}

// UpdateStateResult is what a push handler returns: the next state and
// whether anything changed. Unchanged results are not published.
type UpdateStateResult struct {
	Changed bool
	State   FeedState
}

func unchanged(s FeedState) UpdateStateResult { return UpdateStateResult{State: s} }
func changed(s FeedState) UpdateStateResult   { return UpdateStateResult{Changed: true, State: s} }

// ActivityState is the slice of a feed an ActivityView publishes.
type ActivityState struct {
	Activity *domain.Activity
	// CommentsByEntityID holds the activity's own comment list and the reply
	// lists of its comments.
	CommentsByEntityID reconcile.CommentCache
}

// Comments returns the cached comment list of the activity or one of its comments.
func (s ActivityState) Comments(entityID string) (domain.CommentList, bool) {
	l, ok := s.CommentsByEntityID[entityID]
	return l, ok
}

// selectActivity builds the ActivityState of activity id from a feed state.
func selectActivity(id string) func(FeedState) ActivityState {
	return func(s FeedState) ActivityState {
		var out ActivityState
		if a, ok := s.Activity(id); ok {
			out.Activity = &a
		}
		for key, l := range s.CommentsByEntityID {
			if key != id && l.EntityParentID != id {
				continue
			}
			if out.CommentsByEntityID == nil {
				out.CommentsByEntityID = make(reconcile.CommentCache)
			}
			out.CommentsByEntityID[key] = l
		}
		return out
	}
}
