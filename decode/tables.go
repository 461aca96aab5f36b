package decode

import "github.com/CrestNiraj12/feedmirror/domain"

var (
	dt       = Field{Decoder: DatetimeDecoder, Single: true}
	user     = Field{Decoder: "UserResponse", Single: true}
	reaction = Field{Decoder: "FeedsReactionResponse", Single: true}
	activity = Field{Decoder: "ActivityResponse", Single: true}
	comment  = Field{Decoder: "CommentResponse", Single: true}
	feed     = Field{Decoder: "FeedResponse", Single: true}

	reactions      = Field{Decoder: "FeedsReactionResponse"}
	reactionGroups = Field{Decoder: "ReactionGroupResponse"}
	activities     = Field{Decoder: "ActivityResponse"}
	comments       = Field{Decoder: "CommentResponse"}
	bookmarks      = Field{Decoder: "BookmarkResponse"}
	aggregated     = Field{Decoder: "AggregatedActivityResponse"}
	follows        = Field{Decoder: "FollowResponse"}
	members        = Field{Decoder: "FeedMemberResponse"}
)

func registerDefaults(r *Registry) {
	r.RegisterType("UserResponse", map[string]Field{
		"created_at":     dt,
		"updated_at":     dt,
		"last_active":    dt,
		"deactivated_at": dt,
	})
	r.RegisterType("ReactionGroupResponse", map[string]Field{
		"first_reaction_at": dt,
		"last_reaction_at":  dt,
	})
	r.RegisterType("FeedsReactionResponse", map[string]Field{
		"created_at": dt,
		"updated_at": dt,
		"user":       user,
	})
	r.RegisterType("BookmarkResponse", map[string]Field{
		"created_at": dt,
		"updated_at": dt,
		"user":       user,
		"activity":   activity,
	})
	r.RegisterType("CommentResponse", map[string]Field{
		"created_at":       dt,
		"updated_at":       dt,
		"deleted_at":       dt,
		"user":             user,
		"own_reactions":    reactions,
		"latest_reactions": reactions,
		"reaction_groups":  reactionGroups,
		"replies":          comments,
	})
	r.RegisterType("ActivityResponse", map[string]Field{
		"created_at":       dt,
		"updated_at":       dt,
		"edited_at":        dt,
		"deleted_at":       dt,
		"user":             user,
		"own_reactions":    reactions,
		"latest_reactions": reactions,
		"reaction_groups":  reactionGroups,
		"own_bookmarks":    bookmarks,
		"comments":         comments,
	})
	r.RegisterType("AggregatedActivityResponse", map[string]Field{
		"created_at": dt,
		"updated_at": dt,
		"activities": activities,
	})
	r.RegisterType("FeedResponse", map[string]Field{
		"created_at": dt,
		"updated_at": dt,
		"created_by": user,
	})
	r.RegisterType("FeedMemberResponse", map[string]Field{
		"created_at": dt,
		"updated_at": dt,
		"user":       user,
	})
	r.RegisterType("FollowResponse", map[string]Field{
		"created_at":  dt,
		"updated_at":  dt,
		"source_feed": feed,
		"target_feed": feed,
	})

	// REST responses.
	r.RegisterType("GetOrCreateFeedResponse", map[string]Field{
		"feed":                  feed,
		"activities":            activities,
		"aggregated_activities": aggregated,
		"followers":             follows,
		"following":             follows,
		"members":               members,
	})
	r.RegisterType("GetActivityResponse", map[string]Field{"activity": activity})
	r.RegisterType("QueryActivitiesResponse", map[string]Field{"activities": activities})
	r.RegisterType("GetCommentsResponse", map[string]Field{"comments": comments})
	r.RegisterType("GetCommentRepliesResponse", map[string]Field{"comments": comments})
	r.RegisterType("AddCommentResponse", map[string]Field{"comment": comment, "activity": activity})
	r.RegisterType("ActivityReactionResponse", map[string]Field{"activity": activity, "reaction": reaction})
	r.RegisterType("BookmarkMutationResponse", map[string]Field{
		"bookmark": Field{Decoder: "BookmarkResponse", Single: true},
	})

	// Push events.
	base := func(extra map[string]Field) map[string]Field {
		out := map[string]Field{"created_at": dt}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}
	events := []struct {
		eventType, typeName string
		fields              map[string]Field
	}{
		{domain.EventActivityAdded, "ActivityAddedEvent", map[string]Field{"activity": activity}},
		{domain.EventActivityUpdated, "ActivityUpdatedEvent", map[string]Field{"activity": activity}},
		{domain.EventActivityDeleted, "ActivityDeletedEvent", map[string]Field{"activity": activity}},
		{domain.EventActivityReactionAdded, "ActivityReactionAddedEvent", map[string]Field{"activity": activity, "reaction": reaction}},
		{domain.EventActivityReactionDeleted, "ActivityReactionDeletedEvent", map[string]Field{"activity": activity, "reaction": reaction}},
		{domain.EventBookmarkAdded, "BookmarkAddedEvent", map[string]Field{"bookmark": {Decoder: "BookmarkResponse", Single: true}}},
		{domain.EventBookmarkDeleted, "BookmarkDeletedEvent", map[string]Field{"bookmark": {Decoder: "BookmarkResponse", Single: true}}},
		{domain.EventCommentAdded, "CommentAddedEvent", map[string]Field{"comment": comment, "activity": activity}},
		{domain.EventCommentUpdated, "CommentUpdatedEvent", map[string]Field{"comment": comment}},
		{domain.EventCommentDeleted, "CommentDeletedEvent", map[string]Field{"comment": comment}},
		{domain.EventCommentReactionAdded, "CommentReactionAddedEvent", map[string]Field{"comment": comment, "reaction": reaction}},
		{domain.EventCommentReactionDeleted, "CommentReactionDeletedEvent", map[string]Field{"comment": comment, "reaction": reaction}},
		{domain.EventFeedUpdated, "FeedUpdatedEvent", map[string]Field{"feed": feed}},
		{domain.EventFollowCreated, "FollowCreatedEvent", map[string]Field{"follow": {Decoder: "FollowResponse", Single: true}}},
		{domain.EventFollowDeleted, "FollowDeletedEvent", map[string]Field{"follow": {Decoder: "FollowResponse", Single: true}}},
		{domain.EventNotificationFeedUpdated, "NotificationFeedUpdatedEvent", map[string]Field{"aggregated_activities": aggregated}},
		{domain.EventStoriesFeedUpdated, "StoriesFeedUpdatedEvent", map[string]Field{"activities": activities, "aggregated_activities": aggregated}},
	}
	for _, e := range events {
		r.RegisterType(e.typeName, base(e.fields))
		r.RegisterEvent(e.eventType, e.typeName)
	}
}
