package reconcile

import (
	"maps"

	"github.com/CrestNiraj12/feedmirror/domain"
)

// ActivityKey is the merge key of activities.
func ActivityKey(a domain.Activity) string { return a.ID }

// GroupKey is the merge key of notification groups: the server's group id.
func GroupKey(g domain.AggregatedActivity) string { return g.Group }

// CommentKey is the merge key of comments.
func CommentKey(c domain.Comment) string { return c.ID }

func reactionTypeKey(r domain.Reaction) string   { return r.Type }
func bookmarkFolderKey(b domain.Bookmark) string { return b.Folder }

// UpdateActivity returns incoming with the viewer's own reactions and bookmarks
// carried over from current. Every reconciler runs an activity through here
// before it enters a merged collection.
func UpdateActivity(current, incoming domain.Activity) domain.Activity {
	incoming.OwnReactions = current.OwnReactions
	incoming.OwnBookmarks = current.OwnBookmarks
	return incoming
}

// UpdateComment is UpdateActivity for comments.
func UpdateComment(current, incoming domain.Comment) domain.Comment {
	incoming.OwnReactions = current.OwnReactions
	return incoming
}

// MapActivity replaces the activity with the given id by fn(activity).
func MapActivity(list []domain.Activity, id string, fn func(domain.Activity) domain.Activity) ([]domain.Activity, bool) {
	i := indexOf(list, ActivityKey, id)
	if i < 0 {
		return list, false
	}
	return replaceAt(list, i, fn(list[i])), true
}

// MapActivityInGroups applies fn to the activity with the given id inside every
// aggregated group that holds it. Group counters are left alone.
func MapActivityInGroups(groups []domain.AggregatedActivity, id string, fn func(domain.Activity) domain.Activity) ([]domain.AggregatedActivity, bool) {
	var out []domain.AggregatedActivity
	for gi, g := range groups {
		activities, ok := MapActivity(g.Activities, id, fn)
		if !ok {
			continue
		}
		if out == nil {
			out = make([]domain.AggregatedActivity, len(groups))
			copy(out, groups)
		}
		g.Activities = activities
		out[gi] = g
	}
	if out == nil {
		return groups, false
	}
	return out, true
}

// UpdateActivities merges incoming over the cached copy with the same id.
// Activities that are not cached are ignored.
func UpdateActivities(list []domain.Activity, incoming domain.Activity) ([]domain.Activity, bool) {
	return MapActivity(list, incoming.ID, func(current domain.Activity) domain.Activity {
		return UpdateActivity(current, incoming)
	})
}

// RemoveActivity drops the activity with the given id.
func RemoveActivity(list []domain.Activity, id string) ([]domain.Activity, bool) {
	i := indexOf(list, ActivityKey, id)
	if i < 0 {
		return list, false
	}
	return removeAt(list, i), true
}

// RemoveActivityFromGroups drops the activity from every group holding it.
func RemoveActivityFromGroups(groups []domain.AggregatedActivity, id string) ([]domain.AggregatedActivity, bool) {
	var out []domain.AggregatedActivity
	for gi, g := range groups {
		activities, ok := RemoveActivity(g.Activities, id)
		if !ok {
			continue
		}
		if out == nil {
			out = make([]domain.AggregatedActivity, len(groups))
			copy(out, groups)
		}
		g.Activities = activities
		out[gi] = g
	}
	if out == nil {
		return groups, false
	}
	return out, true
}

// ReactionAdded folds a reaction payload into current. The server aggregates
// come from payload; the own list changes only when the reaction is the viewer's.
func ReactionAdded(current, payload domain.Activity, reaction domain.Reaction, own bool) domain.Activity {
	next := UpdateActivity(current, payload)
	if own {
		next.OwnReactions, _ = Merge([]domain.Reaction{reaction}, current.OwnReactions, reactionTypeKey, Prepend)
	}
	return next
}

// ReactionDeleted is the inverse of ReactionAdded.
func ReactionDeleted(current, payload domain.Activity, reaction domain.Reaction, own bool) domain.Activity {
	next := UpdateActivity(current, payload)
	if own {
		next.OwnReactions = withoutKey(current.OwnReactions, reactionTypeKey, reaction.Type)
	}
	return next
}

// BookmarkAdded folds a bookmark payload into current.
func BookmarkAdded(current, payload domain.Activity, bookmark domain.Bookmark, own bool) domain.Activity {
	next := UpdateActivity(current, payload)
	if own {
		next.OwnBookmarks, _ = Merge([]domain.Bookmark{bookmark}, current.OwnBookmarks, bookmarkFolderKey, Prepend)
	}
	return next
}

// BookmarkDeleted is the inverse of BookmarkAdded.
func BookmarkDeleted(current, payload domain.Activity, bookmark domain.Bookmark, own bool) domain.Activity {
	next := UpdateActivity(current, payload)
	if own {
		next.OwnBookmarks = withoutKey(current.OwnBookmarks, bookmarkFolderKey, bookmark.Folder)
	}
	return next
}

// OptimisticReaction applies the viewer's reaction locally, before the server
// has confirmed it. add=false removes it.
func OptimisticReaction(a domain.Activity, reaction domain.Reaction, add bool) domain.Activity {
	has := a.HasOwnReaction(reaction.Type)
	if has == add {
		return a
	}
	delta := 1
	if !add {
		delta = -1
	}
	groups := maps.Clone(a.ReactionGroups)
	if groups == nil {
		groups = make(map[string]domain.ReactionGroup)
	}
	g := groups[reaction.Type]
	g.Count = max(g.Count+delta, 0)
	if g.Count == 0 {
		delete(groups, reaction.Type)
	} else {
		if g.FirstReactionAt.IsZero() {
			g.FirstReactionAt = reaction.CreatedAt
		}
		if add {
			g.LastReactionAt = reaction.CreatedAt
		}
		groups[reaction.Type] = g
	}
	a.ReactionGroups = groups
	a.ReactionCount = max(a.ReactionCount+delta, 0)
	if add {
		a.OwnReactions, _ = Merge([]domain.Reaction{reaction}, a.OwnReactions, reactionTypeKey, Prepend)
	} else {
		a.OwnReactions = withoutKey(a.OwnReactions, reactionTypeKey, reaction.Type)
	}
	return a
}

// OptimisticBookmark applies or removes the viewer's bookmark locally.
func OptimisticBookmark(a domain.Activity, bookmark domain.Bookmark, add bool) domain.Activity {
	if a.IsBookmarked() == add {
		return a
	}
	if add {
		a.BookmarkCount++
		a.OwnBookmarks, _ = Merge([]domain.Bookmark{bookmark}, a.OwnBookmarks, bookmarkFolderKey, Prepend)
		return a
	}
	a.BookmarkCount = max(a.BookmarkCount-1, 0)
	a.OwnBookmarks = nil
	return a
}

func withoutKey[T any](list []T, key func(T) string, k string) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if key(item) != k {
			out = append(out, item)
		}
	}
	return out
}
