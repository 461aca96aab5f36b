package compose

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/feedmirror/tui/common"
)

// View renders the compose view based on the active mode.
func (m Model) View() string {
	switch m.mode {
	case editorMode:
		return m.status + "\n"

	case inlineMode:
		var b strings.Builder
		b.WriteString(common.AppTitleStyle.Render("feedmirror"))
		b.WriteString("  Comment")
		if m.target != "" {
			b.WriteString(" on " + common.AuthorStyle.Render(m.target))
		}
		b.WriteString("\n\n")
		b.WriteString(m.textarea.View())
		b.WriteString("\n\n")
		b.WriteString(common.StatusBarStyle.Render(
			fmt.Sprintf("  ctrl+d: send • esc: cancel • %d/%d chars",
				len([]rune(m.textarea.Value())), charLimit),
		))
		return b.String()
	}

	return ""
}
