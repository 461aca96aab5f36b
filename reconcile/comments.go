package reconcile

import (
	"maps"

	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/equal"
)

// CommentCache maps a parent entity id (activity or comment) to its list of
// child comments.
type CommentCache = map[string]domain.CommentList

func withEntry(m CommentCache, key string, entry domain.CommentList) CommentCache {
	out := maps.Clone(m)
	if out == nil {
		out = make(CommentCache, 1)
	}
	out[key] = entry
	return out
}

// ResolveCommentsParams returns the params a page request should use: the
// explicit ones if given, else the ones last used for the entity.
func ResolveCommentsParams(m CommentCache, entityID string, params *domain.CommentsParams) domain.CommentsParams {
	if params != nil {
		return *params
	}
	if entry, ok := m[entityID]; ok {
		return entry.Pagination.Params
	}
	return domain.CommentsParams{}
}

// BeginCommentPage marks the list of entityID as loading a page for params.
// Changed params drop the old cursor so paging restarts from the first page.
// ok is false when nothing should be fetched: a page is already loading or
// the last page has been reached. cursor is the next token to request.
func BeginCommentPage(m CommentCache, entityID, entityParentID string, params domain.CommentsParams) (next CommentCache, cursor string, ok bool) {
	entry, exists := m[entityID]
	if exists && equal.Equal(entry.Pagination.Params, params) {
		if entry.Pagination.LoadingNextPage || !entry.HasNextPage() {
			return m, "", false
		}
	} else {
		entry.Pagination = domain.Pagination{Params: params}
	}
	if entityParentID != "" {
		entry.EntityParentID = entityParentID
	}
	entry.Pagination.LoadingNextPage = true
	return withEntry(m, entityID, entry), entry.Pagination.Next, true
}

// RestartCommentPage drops the cursor of entityID so the next page starts
// from the first one with params. Cached comments stay until it arrives.
func RestartCommentPage(m CommentCache, entityID string, params domain.CommentsParams) CommentCache {
	entry, ok := m[entityID]
	if !ok {
		return m
	}
	entry.Pagination = domain.Pagination{Params: params}
	return withEntry(m, entityID, entry)
}

// ApplyCommentPage stores a fetched page. A first page replaces the list, a
// later page is appended by comment id. A page whose params no longer match
// the list (params changed while it was in flight) is dropped and leaves the
// loading flag to the newer load.
func ApplyCommentPage(m CommentCache, entityID string, params domain.CommentsParams, page []domain.Comment, next string) CommentCache {
	entry, ok := m[entityID]
	if !ok {
		return m
	}
	if !equal.Equal(entry.Pagination.Params, params) {
		return m
	}
	if entry.Pagination.Loaded {
		entry.Comments, _ = Merge(page, entry.Comments, CommentKey, Append)
	} else {
		entry.Comments, _ = Merge(page, nil, CommentKey, Append)
		if entry.Comments == nil {
			entry.Comments = []domain.Comment{}
		}
	}
	entry.Pagination.Next = next
	entry.Pagination.Loaded = true
	entry.Pagination.LoadingNextPage = false
	return withEntry(m, entityID, entry)
}

// EndCommentPage clears the loading flag of entityID after a failed load
// with params. A load whose params were replaced in the meantime leaves the
// flag alone.
func EndCommentPage(m CommentCache, entityID string, params domain.CommentsParams) CommentCache {
	entry, ok := m[entityID]
	if !ok || !entry.Pagination.LoadingNextPage || !equal.Equal(entry.Pagination.Params, params) {
		return m
	}
	entry.Pagination.LoadingNextPage = false
	return withEntry(m, entityID, entry)
}

// AddComment inserts c into the list of its parent entity, if that list has
// been loaded. Newest-first lists get it at the top, others at the bottom.
// A comment already present is updated in place.
func AddComment(m CommentCache, c domain.Comment) (CommentCache, bool) {
	key := c.EntityID()
	entry, ok := m[key]
	if !ok {
		return m, false
	}
	if i := indexOf(entry.Comments, CommentKey, c.ID); i >= 0 {
		entry.Comments = replaceAt(entry.Comments, i, UpdateComment(entry.Comments[i], c))
		return withEntry(m, key, entry), true
	}
	pos := Append
	if entry.Pagination.Params.NewestFirst() {
		pos = Prepend
	}
	entry.Comments, _ = Merge([]domain.Comment{c}, entry.Comments, CommentKey, pos)
	return withEntry(m, key, entry), true
}

// MapComment replaces the comment with the given id, wherever it is cached,
// by fn(comment).
func MapComment(m CommentCache, id string, fn func(domain.Comment) domain.Comment) (CommentCache, bool) {
	var out CommentCache
	for key, entry := range m {
		i := indexOf(entry.Comments, CommentKey, id)
		if i < 0 {
			continue
		}
		if out == nil {
			out = maps.Clone(m)
		}
		entry.Comments = replaceAt(entry.Comments, i, fn(entry.Comments[i]))
		out[key] = entry
	}
	if out == nil {
		return m, false
	}
	return out, true
}

// UpdateCachedComment merges c over its cached copy.
func UpdateCachedComment(m CommentCache, c domain.Comment) (CommentCache, bool) {
	return MapComment(m, c.ID, func(current domain.Comment) domain.Comment {
		return UpdateComment(current, c)
	})
}

// ReplaceComment swaps the comment oldID in the list of entityID for c. Used
// to swap an optimistic local comment for the server's copy.
func ReplaceComment(m CommentCache, entityID, oldID string, c domain.Comment) (CommentCache, bool) {
	entry, ok := m[entityID]
	if !ok {
		return m, false
	}
	i := indexOf(entry.Comments, CommentKey, oldID)
	if i < 0 {
		return AddComment(m, c)
	}
	comments := removeAt(entry.Comments, i)
	if j := indexOf(comments, CommentKey, c.ID); j >= 0 {
		// the server copy already arrived through a push event
		entry.Comments = comments
		return withEntry(m, entityID, entry), true
	}
	entry.Comments = replaceAt(entry.Comments, i, c)
	return withEntry(m, entityID, entry), true
}

// RemoveComment drops c from its parent list and forgets its replies.
func RemoveComment(m CommentCache, c domain.Comment) (CommentCache, bool) {
	changed := false
	out := m
	key := c.EntityID()
	if entry, ok := m[key]; ok {
		if i := indexOf(entry.Comments, CommentKey, c.ID); i >= 0 {
			entry.Comments = removeAt(entry.Comments, i)
			out = withEntry(out, key, entry)
			changed = true
		}
	}
	if _, ok := out[c.ID]; ok {
		if !changed {
			out = maps.Clone(out)
		}
		delete(out, c.ID)
		changed = true
	}
	return out, changed
}

// RemoveEntity forgets the comment list of an entity.
func RemoveEntity(m CommentCache, entityID string) (CommentCache, bool) {
	if _, ok := m[entityID]; !ok {
		return m, false
	}
	out := maps.Clone(m)
	delete(out, entityID)
	return out, true
}

// CommentReactionAdded folds a comment reaction payload into current.
func CommentReactionAdded(current, payload domain.Comment, reaction domain.Reaction, own bool) domain.Comment {
	next := UpdateComment(current, payload)
	if own {
		next.OwnReactions, _ = Merge([]domain.Reaction{reaction}, current.OwnReactions, reactionTypeKey, Prepend)
	}
	return next
}

// CommentReactionDeleted is the inverse of CommentReactionAdded.
func CommentReactionDeleted(current, payload domain.Comment, reaction domain.Reaction, own bool) domain.Comment {
	next := UpdateComment(current, payload)
	if own {
		next.OwnReactions = withoutKey(current.OwnReactions, reactionTypeKey, reaction.Type)
	}
	return next
}
