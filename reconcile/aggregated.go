package reconcile

import "github.com/CrestNiraj12/feedmirror/domain"

// AggregatedActivities reconciles incoming notification groups with existing
// ones. Groups are matched by their Group key; an activity inside a matched
// group keeps the viewer fields of its cached copy, while the group's own
// counters (activity_count, score, updated_at) are taken from incoming.
func AggregatedActivities(incoming, existing []domain.AggregatedActivity, pos Position) ([]domain.AggregatedActivity, bool) {
	if len(incoming) == 0 {
		return existing, false
	}

	byGroup := make(map[string]domain.AggregatedActivity, len(existing))
	for _, g := range existing {
		if _, ok := byGroup[g.Group]; !ok {
			byGroup[g.Group] = g
		}
	}

	merged := make([]domain.AggregatedActivity, len(incoming))
	for i, g := range incoming {
		prev, ok := byGroup[g.Group]
		if !ok {
			merged[i] = g
			continue
		}
		activities := make([]domain.Activity, len(g.Activities))
		for j, a := range g.Activities {
			if k := indexOf(prev.Activities, ActivityKey, a.ID); k >= 0 {
				a = UpdateActivity(prev.Activities[k], a)
			}
			activities[j] = a
		}
		g.Activities = activities
		merged[i] = g
	}

	return Merge(merged, existing, GroupKey, pos)
}
