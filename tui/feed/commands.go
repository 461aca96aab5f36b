package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/feeds"
)

func waitForState(updates <-chan feeds.FeedState) tea.Cmd {
	return func() tea.Msg {
		return StateChangedMsg{State: <-updates}
	}
}

func (m Model) fetchFeed() tea.Cmd {
	f, req := m.feed, m.request
	return func() tea.Msg {
		_, err := f.GetOrCreate(context.Background(), req)
		return LoadedMsg{Err: err}
	}
}

func (m Model) fetchNextPage() tea.Cmd {
	f := m.feed
	return func() tea.Msg {
		return PageLoadedMsg{Err: f.GetNextPage(context.Background())}
	}
}

func (m Model) toggleLike(a domain.Activity) tea.Cmd {
	f := m.feed
	liked := a.HasOwnReaction(likeReaction)
	return func() tea.Msg {
		var err error
		if liked {
			err = f.DeleteReaction(context.Background(), a.ID, likeReaction)
		} else {
			err = f.AddReaction(context.Background(), a.ID, likeReaction)
		}
		return ActionResultMsg{Action: "like", Err: err}
	}
}

func (m Model) toggleBookmark(a domain.Activity) tea.Cmd {
	f := m.feed
	bookmarked := a.IsBookmarked()
	return func() tea.Msg {
		var err error
		if bookmarked {
			err = f.DeleteBookmark(context.Background(), a.ID)
		} else {
			err = f.AddBookmark(context.Background(), a.ID)
		}
		return ActionResultMsg{Action: "bookmark", Err: err}
	}
}

func (m Model) loadComments(activityID string, first bool) tea.Cmd {
	f, params := m.feed, m.params
	return func() tea.Msg {
		var err error
		if first {
			err = f.LoadFirstPageComments(context.Background(), activityID, params)
		} else {
			err = f.LoadNextPageActivityComments(context.Background(), activityID, nil)
		}
		return CommentsLoadedMsg{ActivityID: activityID, Err: err}
	}
}
