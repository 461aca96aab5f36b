package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/feedmirror/domain"
)

func TestAggregatedActivities_SameGroupIsOneNotification(t *testing.T) {
	existing := []domain.AggregatedActivity{{Group: "g1", ActivityCount: 1, Score: 10}}
	incoming := []domain.AggregatedActivity{{Group: "g1", ActivityCount: 3, Score: 30}}

	got, changed := AggregatedActivities(incoming, existing, Prepend)
	require.True(t, changed)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ActivityCount)
	assert.Equal(t, 30.0, got[0].Score)
}

func TestAggregatedActivities_NestedActivitiesKeepOwnFields(t *testing.T) {
	updated := time.Unix(200, 0)
	existing := []domain.AggregatedActivity{{
		Group: "g1",
		Activities: []domain.Activity{
			{ID: "a1", OwnReactions: []domain.Reaction{{Type: "like"}}},
		},
	}}
	incoming := []domain.AggregatedActivity{{
		Group:         "g1",
		ActivityCount: 2,
		UpdatedAt:     updated,
		Activities: []domain.Activity{
			{ID: "a2"},
			{ID: "a1", ReactionCount: 4},
		},
	}}

	got, _ := AggregatedActivities(incoming, existing, Replace)
	require.Len(t, got, 1)
	require.Len(t, got[0].Activities, 2)
	assert.Equal(t, "a2", got[0].Activities[0].ID)
	assert.Equal(t, 4, got[0].Activities[1].ReactionCount)
	assert.True(t, got[0].Activities[1].HasOwnReaction("like"))
	assert.Equal(t, updated, got[0].UpdatedAt)
}

func TestAggregatedActivities_PositionPolicies(t *testing.T) {
	existing := []domain.AggregatedActivity{{Group: "g1"}, {Group: "g2"}}
	incoming := []domain.AggregatedActivity{{Group: "g3"}, {Group: "g2", Score: 1}}

	groupsOf := func(list []domain.AggregatedActivity) []string {
		out := make([]string, len(list))
		for i, g := range list {
			out[i] = g.Group
		}
		return out
	}

	got, _ := AggregatedActivities(incoming, existing, Prepend)
	assert.Equal(t, []string{"g3", "g2", "g1"}, groupsOf(got))

	got, _ = AggregatedActivities(incoming, existing, Append)
	assert.Equal(t, []string{"g1", "g2", "g3"}, groupsOf(got))

	got, _ = AggregatedActivities(incoming, existing, Replace)
	assert.Equal(t, []string{"g1", "g2", "g3"}, groupsOf(got))
	assert.Equal(t, 1.0, got[1].Score)

	got, changed := AggregatedActivities(nil, existing, Prepend)
	assert.False(t, changed)
	assert.Equal(t, existing, got)
}

func TestStoriesUpdate_RejectsUnloadedTimeline(t *testing.T) {
	current := Timeline{}
	got, changed := StoriesUpdate(current, []domain.Activity{{ID: "a"}}, nil)
	assert.False(t, changed)
	assert.Equal(t, current, got)
}

func TestStoriesUpdate_UpdatesInPlaceWithoutInserting(t *testing.T) {
	current := Timeline{
		Loaded: true,
		Activities: []domain.Activity{
			{ID: "a", OwnBookmarks: []domain.Bookmark{{ActivityID: "a"}}},
			{ID: "b"},
		},
	}
	got, changed := StoriesUpdate(current, []domain.Activity{{ID: "a", Text: "seen"}, {ID: "zzz"}}, nil)
	require.True(t, changed)
	require.Len(t, got.Activities, 2)
	assert.Equal(t, "seen", got.Activities[0].Text)
	assert.True(t, got.Activities[0].IsBookmarked())

	_, changed = StoriesUpdate(current, []domain.Activity{{ID: "zzz"}}, nil)
	assert.False(t, changed)

	got, changed = StoriesUpdate(current, nil, []domain.AggregatedActivity{{Group: "g"}})
	require.True(t, changed)
	assert.Len(t, got.AggregatedActivities, 1)
}
