package feedsapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
)

// feedsService implements app.FeedsAPI over the REST client.
type feedsService struct {
	client *Client
}

// NewFeedsService creates a FeedsAPI backed by the REST API.
func NewFeedsService(client *Client) *feedsService {
	return &feedsService{client: client}
}

var _ app.FeedsAPI = (*feedsService)(nil)

func (s *feedsService) GetOrCreateFeed(ctx context.Context, fid domain.FeedID, req app.GetOrCreateFeedRequest) (app.GetOrCreateFeedResponse, error) {
	path := fmt.Sprintf("/api/v2/feeds/feed_groups/%s/feeds/%s", url.PathEscape(fid.Group), url.PathEscape(fid.ID))
	data, err := s.client.Post(ctx, path, req)
	if err != nil {
		return app.GetOrCreateFeedResponse{}, fmt.Errorf("fetching feed %s: %w", fid, err)
	}

	var resp app.GetOrCreateFeedResponse
	if err := s.client.decoder.Into("GetOrCreateFeedResponse", data, &resp); err != nil {
		return app.GetOrCreateFeedResponse{}, fmt.Errorf("parsing feed %s: %w", fid, err)
	}
	return resp, nil
}

func (s *feedsService) GetActivity(ctx context.Context, id string) (domain.Activity, error) {
	data, err := s.client.Get(ctx, "/api/v2/feeds/activities/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("fetching activity %s: %w", id, err)
	}

	var resp struct {
		Activity domain.Activity `json:"activity"`
	}
	if err := s.client.decoder.Into("GetActivityResponse", data, &resp); err != nil {
		return domain.Activity{}, fmt.Errorf("parsing activity %s: %w", id, err)
	}
	return resp.Activity, nil
}

func (s *feedsService) QueryActivities(ctx context.Context, req app.QueryActivitiesRequest) (app.ActivitiesPage, error) {
	data, err := s.client.Post(ctx, "/api/v2/feeds/activities/query", req)
	if err != nil {
		return app.ActivitiesPage{}, fmt.Errorf("querying activities: %w", err)
	}

	var page app.ActivitiesPage
	if err := s.client.decoder.Into("QueryActivitiesResponse", data, &page); err != nil {
		return app.ActivitiesPage{}, fmt.Errorf("parsing activities: %w", err)
	}
	return page, nil
}
