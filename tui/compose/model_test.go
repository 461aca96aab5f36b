package compose

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/feedmirror/infra/editor"
)

func runDone(t *testing.T, cmd tea.Cmd) DoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg, ok := cmd().(DoneMsg)
	if !ok {
		t.Fatalf("expected DoneMsg")
	}
	return msg
}

func TestInline_SendTrimsContent(t *testing.T) {
	m := NewInline("a1", "@bob")
	m.textarea.SetValue("  nice post  ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	msg := runDone(t, cmd)
	if msg.ActivityID != "a1" || msg.Content != "nice post" || msg.Err != nil {
		t.Fatalf("unexpected done msg: %#v", msg)
	}
}

func TestInline_EscCancels(t *testing.T) {
	m := NewInline("a1", "")
	m.textarea.SetValue("draft")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if msg := runDone(t, cmd); msg.Content != "" {
		t.Fatalf("esc must cancel, got %#v", msg)
	}
}

func TestInline_ViewShowsTarget(t *testing.T) {
	view := NewInline("a1", "@bob").View()
	if !strings.Contains(view, "@bob") || !strings.Contains(view, "ctrl+d: send") {
		t.Fatalf("unexpected view: %q", view)
	}
}

func TestEditor_FinishedReadsContent(t *testing.T) {
	ed := editor.NewEnvEditor()
	f, err := os.CreateTemp("", "feedmirror-compose-*.md")
	if err != nil {
		t.Fatalf("create temp failed: %v", err)
	}
	_, _ = f.WriteString("<!-- help -->\nfrom editor\n")
	_ = f.Close()

	m := NewEditor(ed, "a1", "@bob")
	_, cmd := m.Update(editorFinishedMsg{tmpPath: f.Name()})
	msg := runDone(t, cmd)
	if msg.Content != "from editor" || msg.ActivityID != "a1" {
		t.Fatalf("unexpected done msg: %#v", msg)
	}
	if _, err := os.Stat(f.Name()); !os.IsNotExist(err) {
		t.Fatalf("temp file must be removed")
	}
}
