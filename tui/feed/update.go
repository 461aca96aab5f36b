package feed

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// rows an activity box takes: 3 content lines plus the border.
const itemHeight = 5

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StateChangedMsg:
		m.state = msg.State
		m.clampCursor()
		return m, waitForState(m.updates)

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.notice = ""
		}
		return m, nil

	case PageLoadedMsg:
		if msg.Err != nil {
			m.notice = "Error loading page: " + msg.Err.Error()
		}
		return m, nil

	case ActionResultMsg:
		if msg.Err != nil {
			m.notice = "Error (" + msg.Action + "): " + msg.Err.Error()
		} else {
			m.notice = ""
		}
		return m, nil

	case CommentsLoadedMsg:
		if msg.Err != nil {
			m.notice = "Error loading comments: " + msg.Err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleHints):
		m.showHints = !m.showHints
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.showComments = false
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.notice = ""
		return m, m.fetchFeed()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureCursorVisible()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items())-1 {
			m.cursor++
		}
		m.ensureCursorVisible()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if !m.state.HasNextPage() || m.state.IsLoadingActivities {
			m.notice = "No more activities."
			return m, nil
		}
		return m, m.fetchNextPage()
	}

	a, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Like):
		return m, m.toggleLike(a)

	case key.Matches(msg, m.keys.Bookmark):
		return m, m.toggleBookmark(a)

	case key.Matches(msg, m.keys.Comments):
		m.showComments = !m.showComments
		if !m.showComments {
			return m, nil
		}
		if l, cached := m.state.Comments(a.ID); cached && l.Pagination.Loaded {
			return m, nil
		}
		return m, m.loadComments(a.ID, true)

	case key.Matches(msg, m.keys.MoreComments):
		if !m.showComments {
			return m, nil
		}
		l, cached := m.state.Comments(a.ID)
		if !cached {
			return m, m.loadComments(a.ID, true)
		}
		if !l.HasNextPage() || l.Pagination.LoadingNextPage {
			return m, nil
		}
		return m, m.loadComments(a.ID, false)

	case key.Matches(msg, m.keys.AddComment), key.Matches(msg, m.keys.AddCommentInline):
		compose := ComposeCommentMsg{
			ActivityID: a.ID,
			Target:     "@" + a.User.DisplayName(),
			Inline:     key.Matches(msg, m.keys.AddCommentInline),
		}
		m.showComments = true
		return m, func() tea.Msg { return compose }
	}

	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m *Model) visibleCount() int {
	// header, status bar and padding take about 9 lines
	available := m.height - 9
	if m.showComments {
		available /= 2
	}
	if available < itemHeight {
		return 1
	}
	return available / itemHeight
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleCount()
	if m.cursor < m.startIndex {
		m.startIndex = m.cursor
	}
	if m.cursor >= m.startIndex+visible {
		m.startIndex = m.cursor - visible + 1
	}
	if m.startIndex < 0 {
		m.startIndex = 0
	}
}
