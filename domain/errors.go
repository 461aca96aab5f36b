package domain

import "errors"

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotInitialized indicates an operation that needs a fetched activity or feed
	// was called before the first fetch completed.
	ErrNotInitialized = errors.New("not initialized: fetch the activity or feed first")

	// ErrUnknownEvent indicates a push frame whose type has no decoder.
	ErrUnknownEvent = errors.New("unknown event type")

	// ErrDecode indicates a wire payload that does not match its type table.
	ErrDecode = errors.New("decode failed")

	// ErrEmptyComment indicates the user submitted an empty comment.
	ErrEmptyComment = errors.New("comment cannot be empty")

	// ErrInvalidFeedID indicates a feed id not in group:id form.
	ErrInvalidFeedID = errors.New("feed id must be group:id")
)
