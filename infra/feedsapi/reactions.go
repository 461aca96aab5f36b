package feedsapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/CrestNiraj12/feedmirror/app"
)

func activityPath(id string) string {
	return "/api/v2/feeds/activities/" + url.PathEscape(id)
}

func (s *feedsService) AddActivityReaction(ctx context.Context, activityID, reactionType string) (app.ReactionResponse, error) {
	body := map[string]string{"type": reactionType}
	data, err := s.client.Post(ctx, activityPath(activityID)+"/reactions", body)
	if err != nil {
		return app.ReactionResponse{}, fmt.Errorf("reacting to %s: %w", activityID, err)
	}
	return s.parseReaction(data)
}

func (s *feedsService) DeleteActivityReaction(ctx context.Context, activityID, reactionType string) (app.ReactionResponse, error) {
	path := activityPath(activityID) + "/reactions/" + url.PathEscape(reactionType)
	data, err := s.client.Delete(ctx, path, nil)
	if err != nil {
		return app.ReactionResponse{}, fmt.Errorf("removing reaction from %s: %w", activityID, err)
	}
	return s.parseReaction(data)
}

func (s *feedsService) parseReaction(data []byte) (app.ReactionResponse, error) {
	var resp app.ReactionResponse
	if err := s.client.decoder.Into("ActivityReactionResponse", data, &resp); err != nil {
		return app.ReactionResponse{}, fmt.Errorf("parsing reaction: %w", err)
	}
	return resp, nil
}

func (s *feedsService) AddBookmark(ctx context.Context, activityID string) (app.BookmarkResponse, error) {
	data, err := s.client.Post(ctx, activityPath(activityID)+"/bookmarks", map[string]string{})
	if err != nil {
		return app.BookmarkResponse{}, fmt.Errorf("bookmarking %s: %w", activityID, err)
	}
	return s.parseBookmark(data)
}

func (s *feedsService) DeleteBookmark(ctx context.Context, activityID string) (app.BookmarkResponse, error) {
	data, err := s.client.Delete(ctx, activityPath(activityID)+"/bookmarks", nil)
	if err != nil {
		return app.BookmarkResponse{}, fmt.Errorf("removing bookmark from %s: %w", activityID, err)
	}
	return s.parseBookmark(data)
}

func (s *feedsService) parseBookmark(data []byte) (app.BookmarkResponse, error) {
	var resp app.BookmarkResponse
	if err := s.client.decoder.Into("BookmarkMutationResponse", data, &resp); err != nil {
		return app.BookmarkResponse{}, fmt.Errorf("parsing bookmark: %w", err)
	}
	return resp, nil
}
