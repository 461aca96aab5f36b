package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/feeds"
	"github.com/CrestNiraj12/feedmirror/tui/common"
)

// View renders the feed as a string.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())

	items := m.items()
	switch {
	case m.loading && len(items) == 0:
		b.WriteString(fmt.Sprintf("  %s Loading %s...\n", m.spinner.View(), m.FID()))
	case m.err != nil && len(items) == 0:
		b.WriteString(common.ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n\n  Press r to retry.\n")
	case len(items) == 0:
		b.WriteString("  Nothing here yet.\n")
	default:
		b.WriteString(m.renderList(items))
		if m.showComments {
			if a, ok := m.selected(); ok {
				b.WriteString("\n" + m.renderComments(a))
			}
		}
	}

	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := common.AppTitleStyle.Padding(1, 0, 0, 1).Render("feedmirror")
	badge := common.FeedBadgeStyle.MarginLeft(2).Render(m.FID().String())

	var counts string
	if m.state.Feed != nil || m.state.Loaded {
		counts = common.TaglineStyle.Render(fmt.Sprintf("%s followers · %s following",
			common.FormatCount(m.state.FollowerCount), common.FormatCount(m.state.FollowingCount)))
	}
	return title + badge + counts + "\n\n"
}

func (m Model) renderList(items []domain.Activity) string {
	contentWidth := m.width - 8
	if contentWidth < 20 {
		contentWidth = 20
	}

	end := m.startIndex + m.visibleCount()
	if end > len(items) {
		end = len(items)
	}

	var b strings.Builder
	for i := m.startIndex; i < end; i++ {
		box := common.UnselectedStyle
		if i == m.cursor {
			box = common.SelectedStyle
		}
		b.WriteString(box.Width(contentWidth + 2).Render(m.renderActivity(items[i], contentWidth)))
		b.WriteString("\n")
	}
	if m.state.IsLoadingActivities {
		b.WriteString(fmt.Sprintf("  %s Loading more...\n", m.spinner.View()))
	} else if m.state.HasNextPage() && end == len(items) {
		b.WriteString(common.MetadataStyle.Render("  n: load more") + "\n")
	}
	return b.String()
}

func (m Model) renderActivity(a domain.Activity, width int) string {
	author := common.AuthorStyle.Render("@" + a.User.DisplayName())
	if a.User.ID == m.feed.Client().CurrentUserID() {
		author += common.OwnBadgeStyle.Render("(you)")
	}
	timestamp := common.TimestampStyle.Render(a.CreatedAt.Local().Format("Jan 02 15:04"))
	header := author + "  " + timestamp

	body := common.ContentStyle.Render(common.TruncateLines(a.Text, width, 1))
	return header + "\n" + body + "\n" + renderMeta(a)
}

func renderMeta(a domain.Activity) string {
	likeIcon, likeStyle := "♡", common.MetadataStyle
	if a.HasOwnReaction(likeReaction) {
		likeIcon, likeStyle = "♥", common.LikeActiveStyle
	}
	markIcon, markStyle := "☆", common.MetadataStyle
	if a.IsBookmarked() {
		markIcon, markStyle = "★", common.LikeActiveStyle
	}
	likes := a.ReactionGroups[likeReaction].Count
	return fmt.Sprintf("%s %s  %s %s  💬 %s",
		likeStyle.Render(likeIcon), common.FormatCount(likes),
		markStyle.Render(markIcon), common.FormatCount(a.BookmarkCount),
		common.FormatCount(a.CommentCount))
}

func (m Model) renderComments(a domain.Activity) string {
	l, ok := m.state.Comments(a.ID)
	var b strings.Builder
	b.WriteString(common.AuthorStyle.Render(fmt.Sprintf("Comments (%d)", a.CommentCount)) + "\n")

	switch {
	case !ok || (!l.Pagination.Loaded && l.Pagination.LoadingNextPage):
		b.WriteString(fmt.Sprintf("%s Loading comments...", m.spinner.View()))
	case len(l.Comments) == 0:
		b.WriteString(common.MetadataStyle.Render("No comments yet. Press a to add one."))
	default:
		width := m.width - 12
		if width < 20 {
			width = 20
		}
		for _, c := range l.Comments {
			b.WriteString(renderComment(c, width) + "\n")
		}
		if l.Pagination.LoadingNextPage {
			b.WriteString(m.spinner.View() + " Loading more...")
		} else if l.HasNextPage() {
			b.WriteString(common.MetadataStyle.Render("m: more comments"))
		}
	}
	return common.CommentPaneStyle.Render(strings.TrimSuffix(b.String(), "\n")) + "\n"
}

func renderComment(c domain.Comment, width int) string {
	line := common.AuthorStyle.Render(c.User.DisplayName()) + " " +
		common.ContentStyle.Render(common.TruncateLines(c.Text, width, 2))
	if feeds.IsLocalComment(c) {
		line += " " + common.PendingStyle.Render("(sending...)")
	}
	if c.ReplyCount > 0 {
		line += common.MetadataStyle.Render(fmt.Sprintf("  ↩ %d", c.ReplyCount))
	}
	return line
}

func (m Model) renderStatusBar() string {
	var parts []string
	if m.notice != "" {
		style := common.StatusBarStyle
		if strings.HasPrefix(m.notice, "Error") {
			style = style.Inherit(common.ErrorStyle)
		}
		parts = append(parts, style.Render(m.notice))
	}
	if m.showHints {
		parts = append(parts, common.StatusBarStyle.Render(
			"j/k: move • n: next page • l: like • b: bookmark • c: comments • m: more comments • a/A: comment • r: refresh • q: quit"))
	} else {
		parts = append(parts, common.StatusBarStyle.Render("?: keys • q: quit"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
