package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/feeds"
	"github.com/CrestNiraj12/feedmirror/tui/common"
)

const (
	defaultLimit = 20
	likeReaction = "like"
)

// --- Messages ---

// StateChangedMsg carries the latest published state of the watched feed.
type StateChangedMsg struct {
	State feeds.FeedState
}

// LoadedMsg is sent when a first-page fetch finishes.
type LoadedMsg struct {
	Err error
}

// PageLoadedMsg is sent when a next-page fetch finishes.
type PageLoadedMsg struct {
	Err error
}

// ActionResultMsg reports the server outcome of a like or bookmark toggle.
// The optimistic change is already visible; on error it has been rolled back.
type ActionResultMsg struct {
	Action string
	Err    error
}

// CommentsLoadedMsg is sent when a page of comments finishes loading.
type CommentsLoadedMsg struct {
	ActivityID string
	Err        error
}

// ComposeCommentMsg asks the root model to open the comment composer.
type ComposeCommentMsg struct {
	ActivityID string
	Target     string
	Inline     bool
}

// --- Model ---

// Model is the inspector for one feed. It never mutates feed state itself:
// every change goes through the engine and comes back as a StateChangedMsg.
type Model struct {
	feed        *feeds.Feed
	request     app.GetOrCreateFeedRequest
	params      domain.CommentsParams
	updates     chan feeds.FeedState
	unsubscribe func()

	state        feeds.FeedState
	keys         common.KeyMap
	spinner      spinner.Model
	cursor       int
	startIndex   int
	width        int
	height       int
	loading      bool
	err          error
	notice       string
	showComments bool
	showHints    bool
}

// New creates a feed model watching f. The subscription stays active until
// Close is called.
func New(f *feeds.Feed) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	updates := make(chan feeds.FeedState, 1)
	unsubscribe := f.Subscribe(func(next, _ feeds.FeedState) {
		// Latest state wins; a pending older state is replaced.
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- next:
		default:
		}
	})

	return Model{
		feed:        f,
		request:     app.GetOrCreateFeedRequest{Limit: defaultLimit, Watch: true},
		params:      domain.CommentsParams{Sort: domain.SortLast, Limit: 10},
		updates:     updates,
		unsubscribe: unsubscribe,
		state:       f.State(),
		keys:        common.DefaultKeyMap(),
		spinner:     s,
		loading:     true,
		width:       80,
		height:      24,
	}
}

// Init starts the first-page fetch and listens for state changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchFeed(),
		waitForState(m.updates),
		m.spinner.Tick,
	)
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

// Close stops listening for state changes.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// FID is the id of the watched feed.
func (m Model) FID() domain.FeedID { return m.feed.FID() }

// IsInCommentsView reports whether the comments pane has focus.
func (m Model) IsInCommentsView() bool { return m.showComments }

// items is what the list shows: the flat activities, or the activities of
// aggregated groups for notification-style feeds.
func (m Model) items() []domain.Activity {
	if len(m.state.Activities) > 0 || len(m.state.AggregatedActivities) == 0 {
		return m.state.Activities
	}
	var out []domain.Activity
	for _, g := range m.state.AggregatedActivities {
		out = append(out, g.Activities...)
	}
	return out
}

func (m Model) selected() (domain.Activity, bool) {
	items := m.items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return domain.Activity{}, false
	}
	return items[m.cursor], true
}
