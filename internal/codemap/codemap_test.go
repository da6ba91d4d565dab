package codemap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cdeniger/agentkit/internal/filesystem"
	"github.com/cdeniger/agentkit/internal/types"
)

var fixedTime = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.Local)

func fixedClock() time.Time { return fixedTime }

type recordingWriter struct {
	paths    []string
	contents []string
	err      error
}

func (writer *recordingWriter) WriteFile(path string, content string) error {
	writer.paths = append(writer.paths, path)
	writer.contents = append(writer.contents, content)
	return writer.err
}

func (writer *recordingWriter) EnsureDirectory(path string) error { return nil }

func writeFixture(t *testing.T, root string, relativePaths ...string) {
	t.Helper()
	for _, relativePath := range relativePaths {
		absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
		if err := os.MkdirAll(filepath.Dir(absolutePath), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(absolutePath, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", absolutePath, err)
		}
	}
}

func TestBuildComposesDocument(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "src/App.tsx", "package-lock.json", "node_modules/react/index.js")

	settings := Settings{
		ExcludedNames:        []string{"node_modules", "package-lock.json"},
		KeyFilenames:         []string{"App.tsx"},
		RecognizedExtensions: []string{".tsx"},
		Structure:            []types.StructureEntry{{Path: "/src", Description: "Frontend Application (React/Vite)"}},
		Now:                  fixedClock,
	}
	document, err := NewGenerator(&recordingWriter{}, nil).Build(root, settings)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	expected := strings.Join([]string{
		"# 🗺️ Project Codebase Map",
		"> **Last Updated:** " + fixedTime.Format(time.UnixDate),
		"> **Auto-Generated:** Do not edit manually. Run `agentkit map` to refresh.",
		"",
		"## 🏗️ high-Level Structure",
		"- **`/src`**: Frontend Application (React/Vite)",
		"",
		"## 📂 Complete File Tree",
		"```plaintext",
		"└── src",
		"    └── App.tsx 🔑 (.tsx)",
		"```",
	}, "\n")
	if document.Content != expected {
		t.Fatalf("unexpected document:\n%s\nwant:\n%s", document.Content, expected)
	}
	if document.EntryCount != 2 {
		t.Fatalf("expected 2 entries, got %d", document.EntryCount)
	}
}

func TestBuildWithoutStructureKeepsSectionHeading(t *testing.T) {
	root := t.TempDir()
	document, err := NewGenerator(&recordingWriter{}, nil).Build(root, Settings{Now: fixedClock})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(document.Content, "## 🏗️ high-Level Structure\n\n## 📂 Complete File Tree\n```plaintext\n```") {
		t.Fatalf("unexpected empty document:\n%s", document.Content)
	}
	if document.EntryCount != 0 {
		t.Fatalf("expected no entries, got %d", document.EntryCount)
	}
}

func TestGenerateWritesOutputAndNeverListsItself(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "README.md", "MAP.md")

	writer := filesystem.NewLockingWriter()
	generator := NewGenerator(writer, nil)
	settings := Settings{OutputFileName: "MAP.md", Now: fixedClock}

	for attempt := 0; attempt < 2; attempt++ {
		result, err := generator.Generate(root, settings)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if result.OutputPath != filepath.Join(root, "MAP.md") {
			t.Fatalf("unexpected output path %s", result.OutputPath)
		}
		if strings.Contains(result.Document.Content, "MAP.md") {
			t.Fatalf("map lists itself:\n%s", result.Document.Content)
		}
		written, readErr := os.ReadFile(result.OutputPath)
		if readErr != nil {
			t.Fatalf("read output: %v", readErr)
		}
		if string(written) != result.Document.Content {
			t.Fatalf("written content differs from document")
		}
		if !strings.HasSuffix(string(written), "└── README.md\n```") {
			t.Fatalf("unexpected tree tail:\n%s", string(written))
		}
	}
}

func TestGenerateDefaultsOutputFileName(t *testing.T) {
	root := t.TempDir()
	writer := &recordingWriter{}
	result, err := NewGenerator(writer, nil).Generate(root, Settings{Now: fixedClock})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.OutputPath != filepath.Join(root, DefaultOutputFileName) {
		t.Fatalf("unexpected output path %s", result.OutputPath)
	}
	if len(writer.paths) != 1 || writer.paths[0] != result.OutputPath {
		t.Fatalf("expected one write to %s, got %v", result.OutputPath, writer.paths)
	}
}

func TestGeneratePropagatesErrors(t *testing.T) {
	root := t.TempDir()
	writeFailure := errors.New("read-only filesystem")
	if _, err := NewGenerator(&recordingWriter{err: writeFailure}, nil).Generate(root, Settings{}); !errors.Is(err, writeFailure) {
		t.Fatalf("expected write failure, got %v", err)
	}

	writer := &recordingWriter{}
	if _, err := NewGenerator(writer, nil).Generate(filepath.Join(root, "missing"), Settings{}); err == nil {
		t.Fatalf("expected error for missing root")
	}
	if len(writer.paths) != 0 {
		t.Fatalf("expected no write for missing root, got %v", writer.paths)
	}
}
