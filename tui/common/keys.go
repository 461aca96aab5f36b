package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit             key.Binding
	Refresh          key.Binding
	Up               key.Binding
	Down             key.Binding
	NextPage         key.Binding // n - load the next page of the feed
	Like             key.Binding // l - toggle like
	Bookmark         key.Binding // b - toggle bookmark
	Comments         key.Binding // c - show/hide comments of the selected activity
	MoreComments     key.Binding // m - next page of comments
	AddComment       key.Binding // a - comment via $EDITOR
	AddCommentInline key.Binding // A - comment inline
	Back             key.Binding
	ToggleHints      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next page"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bookmark"),
		),
		Comments: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comments"),
		),
		MoreComments: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "more comments"),
		),
		AddComment: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "comment ($EDITOR)"),
		),
		AddCommentInline: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "comment (inline)"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		ToggleHints: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "keys"),
		),
	}
}
