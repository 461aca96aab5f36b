package compose

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/feedmirror/infra/editor"
)

const charLimit = 500

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

// --- Messages ---

// DoneMsg is sent when composing is complete (success or cancel).
type DoneMsg struct {
	ActivityID string
	Content    string // Empty if cancelled
	Err        error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Model ---

// Model holds the state for composing one comment on an activity.
type Model struct {
	mode       mode
	editor     *editor.EnvEditor
	activityID string
	target     string
	status     string
	textarea   textarea.Model // Only used in inline mode
}

// NewEditor creates a compose model that opens $EDITOR via tea.Exec.
func NewEditor(ed *editor.EnvEditor, activityID, target string) Model {
	return Model{
		mode:       editorMode,
		editor:     ed,
		activityID: activityID,
		target:     target,
		status:     "Opening editor...",
	}
}

// NewInline creates a compose model with an inline Bubble Tea textarea.
func NewInline(activityID, target string) Model {
	ta := textarea.New()
	ta.Placeholder = "Write a comment..."
	ta.CharLimit = charLimit
	ta.SetWidth(72)
	ta.SetHeight(4)
	ta.Focus()

	return Model{
		mode:       inlineMode,
		activityID: activityID,
		target:     target,
		textarea:   ta,
	}
}

// Init returns the initial command for the active mode.
func (m Model) Init() tea.Cmd {
	switch m.mode {
	case editorMode:
		return m.launchEditor()
	case inlineMode:
		return textarea.Blink
	}
	return nil
}

// launchEditor uses tea.ExecProcess so Bubble Tea gives up the terminal
// while the editor runs and resumes with the callback message.
func (m Model) launchEditor() tea.Cmd {
	cmd, tmpPath, err := m.editor.Cmd("", m.target)
	if err != nil {
		return done(DoneMsg{ActivityID: m.activityID, Err: fmt.Errorf("preparing editor: %w", err)})
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editorFinishedMsg:
		if msg.err != nil {
			return m, done(DoneMsg{ActivityID: m.activityID, Err: fmt.Errorf("editor: %w", msg.err)})
		}
		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			return m, done(DoneMsg{ActivityID: m.activityID, Err: err})
		}
		return m, done(DoneMsg{ActivityID: m.activityID, Content: content})

	case tea.KeyMsg:
		if m.mode != inlineMode {
			break
		}
		switch msg.String() {
		case "esc":
			return m, done(DoneMsg{ActivityID: m.activityID})
		case "ctrl+d":
			content := strings.TrimSpace(m.textarea.Value())
			return m, done(DoneMsg{ActivityID: m.activityID, Content: content})
		}
	}

	if m.mode == inlineMode {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
