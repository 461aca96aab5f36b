package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/feeds"
	"github.com/CrestNiraj12/feedmirror/infra/config"
	"github.com/CrestNiraj12/feedmirror/infra/editor"
	"github.com/CrestNiraj12/feedmirror/tui/common"
	"github.com/CrestNiraj12/feedmirror/tui/compose"
	"github.com/CrestNiraj12/feedmirror/tui/feed"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Feed      *feeds.Feed
	Editor    *editor.EnvEditor
	StatePath string
	Logger    *slog.Logger
}

type activeView int

const (
	feedView activeView = iota
	composeView
)

// CommentResultMsg is sent when a composed comment has been confirmed or
// rejected by the server.
type CommentResultMsg struct {
	Comment domain.Comment
	Err     error
}

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps    Deps
	active  activeView
	feed    feed.Model
	compose compose.Model
	keys    common.KeyMap
	status  string // Transient status message (e.g. "Comment posted.")
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return App{
		deps:   deps,
		active: feedView,
		feed:   feed.New(deps.Feed),
		keys:   common.DefaultKeyMap(),
	}
}

// Init delegates to the feed view.
func (a App) Init() tea.Cmd {
	return a.feed.Init()
}

// Close releases the feed subscription. Call it after the program exits.
func (a App) Close() {
	a.feed.Close()
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.active == feedView && key.Matches(msg, a.keys.Quit) {
			a.saveState()
			return a, tea.Quit
		}

	case feed.ComposeCommentMsg:
		a.active = composeView
		a.status = ""
		if msg.Inline {
			a.compose = compose.NewInline(msg.ActivityID, msg.Target)
		} else {
			a.compose = compose.NewEditor(a.deps.Editor, msg.ActivityID, msg.Target)
		}
		return a, a.compose.Init()

	case compose.DoneMsg:
		a.active = feedView
		if msg.Err != nil {
			a.status = "Error: " + msg.Err.Error()
			return a, nil
		}
		if msg.Content == "" {
			a.status = "Cancelled."
			return a, nil
		}
		// The engine shows the comment at once and replaces it when the
		// server confirms it.
		a.status = "Sending comment..."
		f := a.deps.Feed
		req := app.AddCommentRequest{
			ObjectID:   msg.ActivityID,
			ObjectType: domain.ObjectTypeActivity,
			Text:       msg.Content,
		}
		return a, func() tea.Msg {
			c, err := f.AddComment(context.Background(), req)
			return CommentResultMsg{Comment: c, Err: err}
		}

	case CommentResultMsg:
		if msg.Err != nil {
			a.status = "Error: " + msg.Err.Error()
		} else {
			a.status = "Comment posted."
		}
		return a, nil

	case spinner.TickMsg, feed.StateChangedMsg, feed.LoadedMsg, feed.PageLoadedMsg, feed.ActionResultMsg, feed.CommentsLoadedMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd
	}

	switch a.active {
	case feedView:
		updated, cmd := a.feed.Update(msg)
		a.feed = updated
		return a, cmd
	case composeView:
		updated, cmd := a.compose.Update(msg)
		a.compose = updated
		return a, cmd
	}

	return a, nil
}

func (a App) saveState() {
	if a.deps.StatePath == "" {
		return
	}
	st := config.UIState{Feed: a.feed.FID().String()}
	if err := config.SaveUIState(a.deps.StatePath, st); err != nil {
		a.deps.Logger.Warn("saving ui state failed", "error", err)
	}
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case feedView:
		s = a.feed.View()
	case composeView:
		s = a.compose.View()
	}

	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render(a.status)
	}

	return s
}
