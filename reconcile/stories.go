package reconcile

import "github.com/CrestNiraj12/feedmirror/domain"

// Timeline is the list part of a feed that push updates may touch.
// Loaded is false until an explicit fetch has initialized the feed.
type Timeline struct {
	Loaded               bool
	Activities           []domain.Activity
	AggregatedActivities []domain.AggregatedActivity
}

// StoriesUpdate applies a push update carrying activities and/or aggregated
// groups to an already loaded timeline.
//
// An update for a timeline that was never fetched is rejected rather than
// partially initializing it out of order. Activities are only updated in
// place; ones the timeline does not hold are ignored. Groups go through the
// aggregated reconciler with Replace.
func StoriesUpdate(current Timeline, activities []domain.Activity, groups []domain.AggregatedActivity) (Timeline, bool) {
	if len(activities) == 0 && len(groups) == 0 {
		return current, false
	}
	if !current.Loaded {
		return current, false
	}

	next := current
	changed := false
	for _, a := range activities {
		updated, ok := UpdateActivities(next.Activities, a)
		if ok {
			next.Activities = updated
			changed = true
		}
	}
	if merged, ok := AggregatedActivities(groups, next.AggregatedActivities, Replace); ok {
		next.AggregatedActivities = merged
		changed = true
	}
	return next, changed
}
