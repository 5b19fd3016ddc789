package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDocument(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return path
}

func numberedLines(count int, width int) []string {
	lines := make([]string, count)
	for i := range lines {
		lines[i] = fmt.Sprintf("line-%04d %s", i+1, strings.Repeat("x", width))
	}
	return lines
}

func TestSnapshotNilWithoutDocument(t *testing.T) {
	t.Parallel()
	tracker := NewTracker()

	ctx, err := tracker.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if ctx != nil {
		t.Fatalf("expected nil context, got %+v", ctx)
	}
}

func TestSnapshotSmallFileShipsWhole(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	content := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	path := writeDocument(t, dir, "main.go", content)

	tracker := NewTracker()
	tracker.Update(EditorState{
		Workspace:    dir,
		Path:         path,
		CursorLine:   3,
		CursorColumn: 1,
	})

	ctx, err := tracker.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if ctx == nil {
		t.Fatalf("expected context")
	}
	if ctx.Excerpt != content {
		t.Fatalf("excerpt must equal full content for small files")
	}
	if ctx.Windowed {
		t.Fatalf("small file must not be windowed")
	}
	if ctx.FileName != "main.go" || ctx.RelativePath != "main.go" {
		t.Fatalf("unexpected names: %+v", ctx)
	}
	if ctx.Workspace != filepath.Base(dir) {
		t.Fatalf("unexpected workspace: %q", ctx.Workspace)
	}
	if ctx.LanguageID != "go" {
		t.Fatalf("unexpected language: %q", ctx.LanguageID)
	}
}

func TestSnapshotLargeFileWindowsAroundCursor(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	lines := numberedLines(500, 30)
	path := writeDocument(t, dir, "big.txt", strings.Join(lines, "\n"))

	tracker := NewTracker()
	tracker.Update(EditorState{Path: path, CursorLine: 250, CursorColumn: 4})

	ctx, err := tracker.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if !ctx.Windowed {
		t.Fatalf("expected windowed excerpt")
	}
	if len(ctx.Excerpt) > excerptByteCap {
		t.Fatalf("excerpt exceeds byte cap: %d", len(ctx.Excerpt))
	}

	got := strings.Split(ctx.Excerpt, "\n")
	if len(got) != 2*excerptLineRadius+1 {
		t.Fatalf("expected %d lines, got %d", 2*excerptLineRadius+1, len(got))
	}
	if got[0] != lines[250-excerptLineRadius-1] {
		t.Fatalf("window start wrong: %q", got[0])
	}
	if got[len(got)-1] != lines[250+excerptLineRadius-1] {
		t.Fatalf("window end wrong: %q", got[len(got)-1])
	}
	if !strings.Contains(ctx.Excerpt, "line-0250") {
		t.Fatalf("cursor line missing from excerpt")
	}
}

func TestSnapshotWindowRespectsByteCap(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	lines := numberedLines(100, 290)
	path := writeDocument(t, dir, "wide.txt", strings.Join(lines, "\n"))

	tracker := NewTracker()
	tracker.Update(EditorState{Path: path, CursorLine: 50})

	ctx, err := tracker.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(ctx.Excerpt) > excerptByteCap {
		t.Fatalf("excerpt exceeds byte cap: %d", len(ctx.Excerpt))
	}

	got := strings.Split(ctx.Excerpt, "\n")
	first := got[0]
	last := got[len(got)-1]
	if !strings.Contains(ctx.Excerpt, "line-0050") {
		t.Fatalf("cursor line missing from excerpt")
	}
	// cursor stays centered: distance to both edges differs by at most one line
	up := 50 - lineNumber(t, first)
	down := lineNumber(t, last) - 50
	if up < 0 || down < 0 {
		t.Fatalf("cursor outside window: %q .. %q", first, last)
	}
	if diff := up - down; diff < -1 || diff > 1 {
		t.Fatalf("window off-center: %d above, %d below", up, down)
	}
}

func lineNumber(t *testing.T, line string) int {
	t.Helper()
	var n int
	if _, err := fmt.Sscanf(line, "line-%04d", &n); err != nil {
		t.Fatalf("unparseable line %q: %v", line, err)
	}
	return n
}

func TestSnapshotClampsCursorPastEOF(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	lines := numberedLines(300, 30)
	path := writeDocument(t, dir, "tail.txt", strings.Join(lines, "\n"))

	tracker := NewTracker()
	tracker.Update(EditorState{Path: path, CursorLine: 9999})

	ctx, err := tracker.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if !strings.Contains(ctx.Excerpt, "line-0300") {
		t.Fatalf("expected excerpt to reach final line")
	}
}

func TestSnapshotMissingFileErrors(t *testing.T) {
	t.Parallel()
	tracker := NewTracker()
	tracker.Update(EditorState{Path: filepath.Join(t.TempDir(), "gone.go")})

	if _, err := tracker.Snapshot(); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestSnapshotLanguageHandling(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	cases := map[string]struct {
		file     string
		reported string
		want     string
	}{
		"inferred from extension": {file: "app.py", want: "python"},
		"uppercase extension":     {file: "APP.RS", want: "rust"},
		"unknown extension":       {file: "notes.xyz", want: "plaintext"},
		"reported wins":           {file: "conf.txt", reported: "ini", want: "ini"},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := writeDocument(t, dir, tc.file, "content\n")
			tracker := NewTracker()
			tracker.Update(EditorState{Path: path, LanguageID: tc.reported})

			ctx, err := tracker.Snapshot()
			if err != nil {
				t.Fatalf("snapshot failed: %v", err)
			}
			if ctx.LanguageID != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, ctx.LanguageID)
			}
		})
	}
}

func TestSnapshotRelativePathOutsideWorkspace(t *testing.T) {
	t.Parallel()
	docDir := t.TempDir()
	otherWorkspace := t.TempDir()
	path := writeDocument(t, docDir, "stray.go", "package stray\n")

	tracker := NewTracker()
	tracker.Update(EditorState{Workspace: otherWorkspace, Path: path})

	ctx, err := tracker.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if ctx.RelativePath != "stray.go" {
		t.Fatalf("expected base-name fallback, got %q", ctx.RelativePath)
	}
}
