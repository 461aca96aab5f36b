package decode

import (
	"fmt"

	"github.com/CrestNiraj12/feedmirror/domain"
)

// Event decodes one push frame.
func (r *Registry) Event(body []byte) (domain.Event, error) {
	raw, err := parse(body)
	if err != nil {
		return nil, err
	}
	eventType, _ := raw["type"].(string)
	typeName, ok := r.events[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, eventType)
	}

	switch eventType {
	case domain.EventActivityAdded:
		return as[domain.ActivityAddedEvent](r, typeName, raw)
	case domain.EventActivityUpdated:
		return as[domain.ActivityUpdatedEvent](r, typeName, raw)
	case domain.EventActivityDeleted:
		return as[domain.ActivityDeletedEvent](r, typeName, raw)
	case domain.EventActivityReactionAdded, domain.EventActivityReactionDeleted:
		return as[domain.ActivityReactionEvent](r, typeName, raw)
	case domain.EventBookmarkAdded, domain.EventBookmarkDeleted:
		return as[domain.BookmarkEvent](r, typeName, raw)
	case domain.EventCommentAdded:
		return as[domain.CommentAddedEvent](r, typeName, raw)
	case domain.EventCommentUpdated:
		return as[domain.CommentUpdatedEvent](r, typeName, raw)
	case domain.EventCommentDeleted:
		return as[domain.CommentDeletedEvent](r, typeName, raw)
	case domain.EventCommentReactionAdded, domain.EventCommentReactionDeleted:
		return as[domain.CommentReactionEvent](r, typeName, raw)
	case domain.EventFeedUpdated:
		return as[domain.FeedUpdatedEvent](r, typeName, raw)
	case domain.EventFollowCreated, domain.EventFollowDeleted:
		return as[domain.FollowEvent](r, typeName, raw)
	case domain.EventNotificationFeedUpdated:
		return as[domain.NotificationFeedUpdatedEvent](r, typeName, raw)
	case domain.EventStoriesFeedUpdated:
		return as[domain.StoriesFeedUpdatedEvent](r, typeName, raw)
	}
	return nil, fmt.Errorf("%w: %q has a table but no event type", domain.ErrUnknownEvent, eventType)
}

func as[E domain.Event](r *Registry, typeName string, raw map[string]any) (domain.Event, error) {
	var e E
	if err := r.into(typeName, raw, &e); err != nil {
		return nil, err
	}
	return e, nil
}
