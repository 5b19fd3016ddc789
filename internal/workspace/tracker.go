// Package workspace tracks the active editor document reported by the panel
// and produces best-effort code-context snapshots for prompt enrichment.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"voicepanel/internal/domain"
)

// Excerpt policy: files at or under the threshold ship whole; larger files
// ship a line window grown outward from the cursor, capped in bytes.
const (
	fullContentThreshold = 8000
	excerptLineRadius    = 30
	excerptByteCap       = 8000
)

// EditorState is the latest document position reported over the relay.
type EditorState struct {
	Workspace    string
	Path         string
	LanguageID   string
	CursorLine   int
	CursorColumn int
	Selection    string
}

// Tracker holds the most recent editor state. Snapshots re-read file content
// from disk, so the context reflects the document at request time.
type Tracker struct {
	mu    sync.Mutex
	state EditorState
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Update replaces the tracked editor state wholesale.
func (t *Tracker) Update(state EditorState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
}

// Snapshot builds a code-context snapshot for the tracked document. It
// returns nil with no error when no document has been reported yet.
func (t *Tracker) Snapshot() (*domain.CodeContext, error) {
	t.mu.Lock()
	state := t.state
	t.mu.Unlock()

	if state.Path == "" {
		return nil, nil
	}

	content, err := os.ReadFile(state.Path)
	if err != nil {
		return nil, fmt.Errorf("read active document: %w", err)
	}

	ctx := &domain.CodeContext{
		FileName:     filepath.Base(state.Path),
		LanguageID:   state.LanguageID,
		CursorLine:   state.CursorLine,
		CursorColumn: state.CursorColumn,
		Selection:    state.Selection,
	}
	if ctx.LanguageID == "" {
		ctx.LanguageID = languageFromPath(state.Path)
	}
	if ctx.CursorLine < 1 {
		ctx.CursorLine = 1
	}
	if ctx.CursorColumn < 1 {
		ctx.CursorColumn = 1
	}

	if state.Workspace != "" {
		ctx.Workspace = filepath.Base(state.Workspace)
		if rel, err := filepath.Rel(state.Workspace, state.Path); err == nil && !strings.HasPrefix(rel, "..") {
			ctx.RelativePath = rel
		}
	}
	if ctx.RelativePath == "" {
		ctx.RelativePath = ctx.FileName
	}

	text := string(content)
	if len(text) <= fullContentThreshold {
		ctx.Excerpt = text
		return ctx, nil
	}

	lines := strings.Split(text, "\n")
	cursor := ctx.CursorLine
	if cursor > len(lines) {
		cursor = len(lines)
	}
	ctx.Excerpt = windowAround(lines, cursor, excerptLineRadius, excerptByteCap)
	ctx.Windowed = true
	return ctx, nil
}

// windowAround grows a line window outward from the cursor line, adding one
// line above and one below per step while the byte budget allows. cursor is
// one-based and must be within lines.
func windowAround(lines []string, cursor int, radius int, budget int) string {
	center := lines[cursor-1]
	if len(center) > budget {
		return truncateBytes(center, budget)
	}

	lo, hi := cursor, cursor
	size := len(center)
	growUp, growDown := true, true
	for offset := 1; offset <= radius && (growUp || growDown); offset++ {
		if growUp && lo > 1 {
			cost := len(lines[lo-2]) + 1
			if size+cost <= budget {
				lo--
				size += cost
			} else {
				growUp = false
			}
		} else {
			growUp = false
		}
		if growDown && hi < len(lines) {
			cost := len(lines[hi]) + 1
			if size+cost <= budget {
				hi++
				size += cost
			} else {
				growDown = false
			}
		} else {
			growDown = false
		}
	}
	return strings.Join(lines[lo-1:hi], "\n")
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

var languagesByExtension = map[string]string{
	".go":   "go",
	".js":   "javascript",
	".jsx":  "javascriptreact",
	".ts":   "typescript",
	".tsx":  "typescriptreact",
	".py":   "python",
	".rs":   "rust",
	".rb":   "ruby",
	".java": "java",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".sh":   "shellscript",
	".md":   "markdown",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".html": "html",
	".css":  "css",
	".sql":  "sql",
}

func languageFromPath(path string) string {
	if lang, ok := languagesByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "plaintext"
}
