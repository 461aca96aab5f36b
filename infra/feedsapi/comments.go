package feedsapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
)

func commentsQuery(req app.GetCommentsRequest) url.Values {
	q := url.Values{}
	if req.Params.Sort != "" {
		q.Set("sort", req.Params.Sort)
	}
	if req.Params.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Params.Limit))
	}
	if req.Params.Depth > 0 {
		q.Set("depth", strconv.Itoa(req.Params.Depth))
	}
	if req.Next != "" {
		q.Set("next", req.Next)
	}
	return q
}

func (s *feedsService) GetComments(ctx context.Context, req app.GetCommentsRequest) (app.CommentsPage, error) {
	q := commentsQuery(req)
	q.Set("object_id", req.ObjectID)
	q.Set("object_type", req.ObjectType)

	data, err := s.client.Get(ctx, "/api/v2/feeds/comments", q)
	if err != nil {
		return app.CommentsPage{}, fmt.Errorf("fetching comments of %s: %w", req.ObjectID, err)
	}

	var page app.CommentsPage
	if err := s.client.decoder.Into("GetCommentsResponse", data, &page); err != nil {
		return app.CommentsPage{}, fmt.Errorf("parsing comments of %s: %w", req.ObjectID, err)
	}
	return page, nil
}

func (s *feedsService) GetCommentReplies(ctx context.Context, req app.GetCommentsRequest) (app.CommentsPage, error) {
	path := fmt.Sprintf("/api/v2/feeds/comments/%s/replies", url.PathEscape(req.ParentID))
	data, err := s.client.Get(ctx, path, commentsQuery(req))
	if err != nil {
		return app.CommentsPage{}, fmt.Errorf("fetching replies of %s: %w", req.ParentID, err)
	}

	var page app.CommentsPage
	if err := s.client.decoder.Into("GetCommentRepliesResponse", data, &page); err != nil {
		return app.CommentsPage{}, fmt.Errorf("parsing replies of %s: %w", req.ParentID, err)
	}
	return page, nil
}

func (s *feedsService) AddComment(ctx context.Context, req app.AddCommentRequest) (app.AddCommentResponse, error) {
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return app.AddCommentResponse{}, domain.ErrEmptyComment
	}

	data, err := s.client.Post(ctx, "/api/v2/feeds/comments", req)
	if err != nil {
		return app.AddCommentResponse{}, fmt.Errorf("posting comment: %w", err)
	}

	var resp app.AddCommentResponse
	if err := s.client.decoder.Into("AddCommentResponse", data, &resp); err != nil {
		return app.AddCommentResponse{}, fmt.Errorf("parsing comment: %w", err)
	}
	return resp, nil
}
