// Package codemap builds the Markdown codebase map of a project and writes it to the project root.
package codemap

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cdeniger/agentkit/internal/filesystem"
	"github.com/cdeniger/agentkit/internal/tree"
	"github.com/cdeniger/agentkit/internal/types"
	"github.com/cdeniger/agentkit/internal/utils"
)

const (
	// DefaultOutputFileName is used when Settings.OutputFileName is empty.
	DefaultOutputFileName = "CODEBASE.md"

	titleLine           = "# 🗺️ Project Codebase Map"
	lastUpdatedFormat   = "> **Last Updated:** %s"
	autoGeneratedLine   = "> **Auto-Generated:** Do not edit manually. Run `agentkit map` to refresh."
	structureHeading    = "## 🏗️ high-Level Structure"
	structureLineFormat = "- **`%s`**: %s"
	treeHeading         = "## 📂 Complete File Tree"
	fenceOpen           = "```plaintext"
	fenceClose          = "```"
	lineSeparator       = "\n"
)

// Settings configures map generation. Settings is passed explicitly into every call.
type Settings struct {
	OutputFileName       string
	ExcludedNames        []string
	KeyFilenames         []string
	RecognizedExtensions []string
	Structure            []types.StructureEntry
	Now                  func() time.Time
}

// Document is a rendered codebase map.
type Document struct {
	Content    string
	EntryCount int
}

// Result describes a written codebase map.
type Result struct {
	OutputPath string
	Document   Document
}

// Generator renders codebase maps and writes them through a filesystem.Writer.
type Generator struct {
	writer filesystem.Writer
	logger *zap.Logger
}

// NewGenerator constructs a Generator. A nil logger disables logging.
func NewGenerator(writer filesystem.Writer, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{writer: writer, logger: logger}
}

// Build renders the codebase map for root without writing it.
func (generator *Generator) Build(root string, settings Settings) (Document, error) {
	outputFileName := settings.outputFileName()
	options := tree.Options{
		ExcludedNames:        utils.NameSet(settings.ExcludedNames, []string{filepath.Base(outputFileName)}),
		KeyFilenames:         utils.NameSet(settings.KeyFilenames),
		RecognizedExtensions: utils.NameSet(settings.RecognizedExtensions),
		OnUnreadable: func(directoryPath string, err error) {
			generator.logger.Debug("skipping unreadable directory", zap.String("path", directoryPath), zap.Error(err))
		},
	}
	lines, renderError := tree.Render(root, options)
	if renderError != nil {
		return Document{}, renderError
	}
	return Document{
		Content:    composeDocument(lines, settings),
		EntryCount: len(lines),
	}, nil
}

// Generate renders the codebase map for root and writes it to the output file inside root.
func (generator *Generator) Generate(root string, settings Settings) (Result, error) {
	document, buildError := generator.Build(root, settings)
	if buildError != nil {
		return Result{}, buildError
	}
	outputPath := filepath.Join(root, settings.outputFileName())
	if writeError := generator.writer.WriteFile(outputPath, document.Content); writeError != nil {
		return Result{}, fmt.Errorf("write codebase map %s: %w", outputPath, writeError)
	}
	generator.logger.Debug("codebase map written", zap.String("path", outputPath), zap.Int("entries", document.EntryCount))
	return Result{OutputPath: outputPath, Document: document}, nil
}

func composeDocument(treeLines []string, settings Settings) string {
	now := time.Now
	if settings.Now != nil {
		now = settings.Now
	}
	content := []string{
		titleLine,
		fmt.Sprintf(lastUpdatedFormat, utils.FormatTimestamp(now())),
		autoGeneratedLine,
		"",
		structureHeading,
	}
	for _, entry := range settings.Structure {
		content = append(content, fmt.Sprintf(structureLineFormat, entry.Path, entry.Description))
	}
	content = append(content, "", treeHeading, fenceOpen)
	content = append(content, treeLines...)
	content = append(content, fenceClose)
	return strings.Join(content, lineSeparator)
}

func (settings Settings) outputFileName() string {
	if strings.TrimSpace(settings.OutputFileName) == "" {
		return DefaultOutputFileName
	}
	return strings.TrimSpace(settings.OutputFileName)
}
