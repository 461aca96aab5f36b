package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/feeds"
)

type stubAPI struct {
	activities []domain.Activity
	next       string
	comments   []domain.Comment
	reactErr   error

	mu    sync.Mutex
	calls map[string]int
	last  app.GetCommentsRequest
}

func (s *stubAPI) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[op]++
}

func (s *stubAPI) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *stubAPI) GetOrCreateFeed(_ context.Context, fid domain.FeedID, _ app.GetOrCreateFeedRequest) (app.GetOrCreateFeedResponse, error) {
	s.record("GetOrCreateFeed")
	return app.GetOrCreateFeedResponse{
		Feed:       domain.FeedData{FID: fid.String(), FollowerCount: 3},
		Activities: s.activities,
		Next:       s.next,
	}, nil
}

func (s *stubAPI) GetActivity(context.Context, string) (domain.Activity, error) {
	return domain.Activity{}, nil
}

func (s *stubAPI) GetComments(_ context.Context, req app.GetCommentsRequest) (app.CommentsPage, error) {
	s.record("GetComments")
	s.mu.Lock()
	s.last = req
	s.mu.Unlock()
	return app.CommentsPage{Comments: s.comments}, nil
}

func (s *stubAPI) GetCommentReplies(context.Context, app.GetCommentsRequest) (app.CommentsPage, error) {
	return app.CommentsPage{}, nil
}

func (s *stubAPI) QueryActivities(context.Context, app.QueryActivitiesRequest) (app.ActivitiesPage, error) {
	return app.ActivitiesPage{}, nil
}

func (s *stubAPI) AddActivityReaction(context.Context, string, string) (app.ReactionResponse, error) {
	s.record("AddActivityReaction")
	return app.ReactionResponse{}, s.reactErr
}

func (s *stubAPI) DeleteActivityReaction(context.Context, string, string) (app.ReactionResponse, error) {
	s.record("DeleteActivityReaction")
	return app.ReactionResponse{}, s.reactErr
}

func (s *stubAPI) AddBookmark(context.Context, string) (app.BookmarkResponse, error) {
	s.record("AddBookmark")
	return app.BookmarkResponse{}, nil
}

func (s *stubAPI) DeleteBookmark(context.Context, string) (app.BookmarkResponse, error) {
	s.record("DeleteBookmark")
	return app.BookmarkResponse{}, nil
}

func (s *stubAPI) AddComment(_ context.Context, req app.AddCommentRequest) (app.AddCommentResponse, error) {
	s.record("AddComment")
	return app.AddCommentResponse{Comment: domain.Comment{ID: "c-new", ObjectID: req.ObjectID, Text: req.Text}}, nil
}

var createdAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func makeActivity(id, userID string) domain.Activity {
	return domain.Activity{
		ID:        id,
		User:      domain.User{ID: userID, Name: "Name " + userID},
		Text:      "hello " + id,
		Feeds:     []string{"user:alice"},
		CreatedAt: createdAt,
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedModel returns a model whose feed has fetched api's first page and
// whose view has caught up with the engine.
func loadedModel(t *testing.T, api *stubAPI) (Model, *feeds.Feed) {
	t.Helper()
	client := feeds.NewClient(api, feeds.Options{CurrentUserID: "alice"})
	f := client.Feed(domain.FeedID{Group: "user", ID: "alice"})
	m := New(f)
	m, _ = m.Update(m.fetchFeed()())
	m = catchUp(m)
	if !m.state.Loaded {
		t.Fatalf("feed must be loaded")
	}
	return m, f
}

// catchUp applies the latest published state to m. It blocks until one is
// pending.
func catchUp(m Model) Model {
	m, _ = m.Update(waitForState(m.updates)())
	return m
}

// run executes cmd and feeds its message back into m.
func run(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Msg) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg := cmd()
	m, _ = m.Update(msg)
	return m, msg
}
