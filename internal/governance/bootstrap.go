// Package governance writes the agent governance documents, artifact folders and execution
// placeholders that bootstrap the agent operating convention in a project.
package governance

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cdeniger/agentkit/internal/filesystem"
)

//go:embed templates/*.md
var embeddedTemplates embed.FS

const (
	// PlaceholderContent is written into every execution placeholder script.
	PlaceholderContent = "# Placeholder for agent execution script"
	// DraftsDirectory receives scripts drafted under the growth clause.
	DraftsDirectory = "execution/drafts"

	startMessage            = "🚀 Initializing Antigravity Governance Environment..."
	createdMessageFormat    = "✅ Created: %s\n"
	skippedMessageFormat    = "⏭️ Skipped: %s\n"
	artifactFoldersMessage  = "✅ Created Artifact folders: _plans/, _logs/, _research/"
	executionFoldersMessage = "✅ Created Execution folders: execution/ [ops, react, data, drafts]"
	readyMessage            = "\n✨ Environment Ready!"
	templateDirectory       = "templates"
	errorReadTemplateFormat = "read template %s: %w"
	errorInspectPathFormat  = "inspect %s: %w"
)

// ErrRootRequired is returned when no target root is provided.
var ErrRootRequired = errors.New("bootstrap root is required")

// Document pairs a governance file with the embedded template providing its content.
type Document struct {
	RelativePath string
	TemplateName string
}

// Documents lists the governance files in the order they are written.
func Documents() []Document {
	return []Document{
		{RelativePath: "agents.md", TemplateName: "agents.md"},
		{RelativePath: "governance/skills.md", TemplateName: "skills.md"},
		{RelativePath: "governance/debugging.md", TemplateName: "debugging.md"},
		{RelativePath: "governance/artifacts.md", TemplateName: "artifacts.md"},
		{RelativePath: "governance/tech_stack.md", TemplateName: "tech_stack.md"},
	}
}

// ArtifactDirectories lists the folders agents put plans, logs and research briefs into.
func ArtifactDirectories() []string {
	return []string{"_plans", "_logs", "_research"}
}

// PlaceholderScripts lists the execution-layer scripts registered in governance/skills.md.
func PlaceholderScripts() []string {
	return []string{
		"execution/ops/firebase_deploy.py",
		"execution/ops/check_env.py",
		"execution/react/new_component.py",
		"execution/react/run_tests.py",
		"execution/data/fetch_url.py",
		"execution/data/optimize_images.py",
	}
}

// Options configures a bootstrap run.
type Options struct {
	Root         string
	SkipExisting bool
}

// Result reports the slash-separated paths, relative to the root, touched by a run.
type Result struct {
	Created     []string
	Skipped     []string
	Directories []string
}

// Bootstrapper writes the governance environment through a filesystem.Writer.
type Bootstrapper struct {
	writer filesystem.Writer
	output io.Writer
	logger *zap.Logger
}

// NewBootstrapper constructs a Bootstrapper. Progress lines go to output; a nil logger disables logging.
func NewBootstrapper(writer filesystem.Writer, output io.Writer, logger *zap.Logger) *Bootstrapper {
	if output == nil {
		output = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrapper{writer: writer, output: output, logger: logger}
}

// Run writes the governance documents, artifact folders, placeholder scripts and drafts folder.
// Existing files are overwritten unless options.SkipExisting is set.
func (bootstrapper *Bootstrapper) Run(options Options) (Result, error) {
	var result Result
	if strings.TrimSpace(options.Root) == "" {
		return result, ErrRootRequired
	}
	fmt.Fprintln(bootstrapper.output, startMessage)

	for _, document := range Documents() {
		content, readError := fs.ReadFile(embeddedTemplates, templateDirectory+"/"+document.TemplateName)
		if readError != nil {
			return result, fmt.Errorf(errorReadTemplateFormat, document.TemplateName, readError)
		}
		if writeError := bootstrapper.writeFile(options, document.RelativePath, string(content), &result); writeError != nil {
			return result, writeError
		}
	}

	for _, directory := range ArtifactDirectories() {
		if ensureError := bootstrapper.ensureDirectory(options.Root, directory, &result); ensureError != nil {
			return result, ensureError
		}
	}
	fmt.Fprintln(bootstrapper.output, artifactFoldersMessage)

	for _, script := range PlaceholderScripts() {
		if writeError := bootstrapper.writeFile(options, script, PlaceholderContent, &result); writeError != nil {
			return result, writeError
		}
	}

	if ensureError := bootstrapper.ensureDirectory(options.Root, DraftsDirectory, &result); ensureError != nil {
		return result, ensureError
	}
	fmt.Fprintln(bootstrapper.output, executionFoldersMessage)
	fmt.Fprintln(bootstrapper.output, readyMessage)

	bootstrapper.logger.Debug("governance bootstrap finished",
		zap.String("root", options.Root),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (bootstrapper *Bootstrapper) writeFile(options Options, relativePath string, content string, result *Result) error {
	absolutePath := filepath.Join(options.Root, filepath.FromSlash(relativePath))
	if options.SkipExisting {
		_, statError := os.Stat(absolutePath)
		if statError == nil {
			result.Skipped = append(result.Skipped, relativePath)
			fmt.Fprintf(bootstrapper.output, skippedMessageFormat, relativePath)
			return nil
		}
		if !os.IsNotExist(statError) {
			return fmt.Errorf(errorInspectPathFormat, absolutePath, statError)
		}
	}
	if writeError := bootstrapper.writer.WriteFile(absolutePath, content); writeError != nil {
		return writeError
	}
	bootstrapper.logger.Debug("wrote governance file", zap.String("path", absolutePath))
	result.Created = append(result.Created, relativePath)
	fmt.Fprintf(bootstrapper.output, createdMessageFormat, relativePath)
	return nil
}

func (bootstrapper *Bootstrapper) ensureDirectory(root string, relativePath string, result *Result) error {
	if ensureError := bootstrapper.writer.EnsureDirectory(filepath.Join(root, filepath.FromSlash(relativePath))); ensureError != nil {
		return ensureError
	}
	result.Directories = append(result.Directories, relativePath)
	return nil
}
