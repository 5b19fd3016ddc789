package assistant

import (
	"fmt"
	"strings"

	"voicepanel/internal/domain"
)

// enrich prepends a formatted code-context block to the user's question.
// A nil snapshot leaves the prompt untouched.
func enrich(prompt string, snapshot *domain.CodeContext) string {
	if snapshot == nil {
		return prompt
	}

	var b strings.Builder
	b.WriteString("Code context:\n")
	if snapshot.Workspace != "" {
		fmt.Fprintf(&b, "Workspace: %s\n", snapshot.Workspace)
	}
	fmt.Fprintf(&b, "File: %s (%s)\n", snapshot.RelativePath, snapshot.LanguageID)
	fmt.Fprintf(&b, "Cursor: line %d, column %d\n", snapshot.CursorLine, snapshot.CursorColumn)
	if snapshot.Selection != "" {
		fmt.Fprintf(&b, "Selected text:\n%s\n", snapshot.Selection)
	}
	if snapshot.Excerpt != "" {
		label := "File content"
		if snapshot.Windowed {
			label = "File excerpt around the cursor"
		}
		fmt.Fprintf(&b, "%s:\n%s\n", label, snapshot.Excerpt)
	}
	b.WriteString("\nQuestion:\n")
	b.WriteString(prompt)
	return b.String()
}
