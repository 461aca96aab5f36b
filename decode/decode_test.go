package decode

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/feedmirror/domain"
)

func TestDecodeDatetime_TruncatesToMilliseconds(t *testing.T) {
	const n int64 = 1_700_000_000_123_456_789
	got := DecodeDatetime(n)
	assert.Equal(t, int64(1_700_000_000_123), got.UnixMilli())
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(DecodeDatetime(n-n%1_000_000)))
}

func TestDecodeDatetime_FloorsNegatives(t *testing.T) {
	assert.Equal(t, int64(-2), DecodeDatetime(-1_500_000).UnixMilli())
	assert.Equal(t, int64(-1), DecodeDatetime(-1_000_000).UnixMilli())
}

func TestDecode_NestedTypesAndKeyedCollections(t *testing.T) {
	r := NewRegistry()
	raw := map[string]any{
		"id":         "a1",
		"created_at": json.Number("1700000000123456789"),
		"user":       map[string]any{"id": "u1", "created_at": json.Number("1000000")},
		"reaction_groups": map[string]any{
			"like": map[string]any{"count": json.Number("2"), "last_reaction_at": json.Number("2000000")},
		},
		"own_reactions": []any{map[string]any{"type": "like", "created_at": json.Number("3000000")}},
		"text":          "untouched",
	}

	out, err := r.Decode("ActivityResponse", raw)
	require.NoError(t, err)
	assert.Equal(t, DecodeDatetime(1700000000123456789), out["created_at"])
	assert.Equal(t, "untouched", out["text"])
	assert.Equal(t, DecodeDatetime(1_000_000), out["user"].(map[string]any)["created_at"])
	groups := out["reaction_groups"].(map[string]any)
	assert.Equal(t, DecodeDatetime(2_000_000), groups["like"].(map[string]any)["last_reaction_at"])
	own := out["own_reactions"].([]any)
	assert.Equal(t, DecodeDatetime(3_000_000), own[0].(map[string]any)["created_at"])

	_, isNumber := raw["created_at"].(json.Number)
	assert.True(t, isNumber, "input must not be mutated")
}

func TestInto_TypedActivity(t *testing.T) {
	r := NewRegistry()
	body := []byte(`{"activity":{"id":"a1","type":"post","text":"hi","feeds":["user:alice"],
		"created_at":1700000000123456789,"edited_at":null,
		"own_reactions":[{"type":"like","user":{"id":"me"},"created_at":1700000000000000000}],
		"reaction_groups":{"like":{"count":1,"first_reaction_at":1700000000000000000}}}}`)

	var resp struct {
		Activity domain.Activity `json:"activity"`
	}
	require.NoError(t, r.Into("GetActivityResponse", body, &resp))
	a := resp.Activity
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, int64(1700000000123), a.CreatedAt.UnixMilli())
	assert.Nil(t, a.EditedAt)
	require.Len(t, a.OwnReactions, 1)
	assert.Equal(t, "me", a.OwnReactions[0].User.ID)
	assert.Equal(t, 1, a.ReactionGroups["like"].Count)
	fid, ok := a.FirstFeed()
	require.True(t, ok)
	assert.Equal(t, domain.FeedID{Group: "user", ID: "alice"}, fid)
}

func TestDecode_Errors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode("Nope", map[string]any{})
	assert.ErrorIs(t, err, domain.ErrDecode)

	_, err = r.Decode("ActivityResponse", map[string]any{"created_at": true})
	assert.ErrorIs(t, err, domain.ErrDecode)

	_, err = r.Decode("ActivityResponse", map[string]any{"user": "not an object"})
	assert.ErrorIs(t, err, domain.ErrDecode)

	assert.ErrorIs(t, r.Into("ActivityResponse", []byte("{"), &struct{}{}), domain.ErrDecode)
}

func TestRegistry_CustomDecoder(t *testing.T) {
	r := NewRegistry()
	r.RegisterDecoder("Upper", func(v any) (any, error) { return "X", nil })
	r.RegisterType("Thing", map[string]Field{"name": {Decoder: "Upper", Single: true}})

	out, err := r.Decode("Thing", map[string]any{"name": "x", "other": 1})
	require.NoError(t, err)
	assert.Equal(t, "X", out["name"])
	assert.Equal(t, 1, out["other"])

	other := NewRegistry()
	_, err = other.Decode("Thing", map[string]any{})
	assert.Error(t, err, "registries must not share tables")
}

func TestEvent_DecodesByType(t *testing.T) {
	r := NewRegistry()
	ev, err := r.Event([]byte(`{"type":"activity.reaction.added","fid":"user:alice","created_at":1700000000000000000,
		"activity":{"id":"a1","reaction_count":3},
		"reaction":{"type":"like","activity_id":"a1","user":{"id":"bob"},"created_at":1700000000000000000}}`))
	require.NoError(t, err)

	re, ok := ev.(domain.ActivityReactionEvent)
	require.True(t, ok, "got %T", ev)
	assert.Equal(t, domain.EventActivityReactionAdded, re.EventType())
	assert.Equal(t, "user:alice", re.FeedID())
	assert.Equal(t, 3, re.Activity.ReactionCount)
	assert.Equal(t, "bob", re.Reaction.User.ID)
	assert.Equal(t, int64(1700000000000), re.CreatedAt.UnixMilli())

	_, err = r.Event([]byte(`{"type":"health.check"}`))
	assert.ErrorIs(t, err, domain.ErrUnknownEvent)
}

func TestEvent_StoriesUpdate(t *testing.T) {
	r := NewRegistry()
	ev, err := r.Event([]byte(`{"type":"stories_feed.updated","fid":"stories:me",
		"activities":[{"id":"a1","created_at":1000000}],
		"aggregated_activities":[{"group":"g1","activity_count":2,"updated_at":2000000,"activities":[{"id":"a2"}]}]}`))
	require.NoError(t, err)
	st := ev.(domain.StoriesFeedUpdatedEvent)
	require.Len(t, st.Activities, 1)
	require.Len(t, st.AggregatedActivities, 1)
	assert.Equal(t, 2, st.AggregatedActivities[0].ActivityCount)
	assert.Equal(t, "a2", st.AggregatedActivities[0].Activities[0].ID)
}
