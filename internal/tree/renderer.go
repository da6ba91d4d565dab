// Package tree renders a directory as the lines of a conventional tree diagram.
package tree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	branchConnector = "├── "
	lastConnector   = "└── "
	branchPadding   = "│   "
	lastPadding     = "    "

	// KeyMarker is appended to entries whose name is a key filename.
	KeyMarker = " 🔑"
	// extensionTagFormat wraps a recognized extension.
	extensionTagFormat = " (%s)"

	errorStatRootFormat = "stat root %s: %w"
)

// ErrRootNotDirectory is returned when the render root exists but is not a directory.
var ErrRootNotDirectory = errors.New("root is not a directory")

// Options configures a render. The zero value lists everything without annotations.
type Options struct {
	// ExcludedNames holds literal entry names that are neither listed nor traversed.
	ExcludedNames map[string]struct{}
	// KeyFilenames holds names that receive KeyMarker.
	KeyFilenames map[string]struct{}
	// RecognizedExtensions holds extensions, including the leading dot, that receive a tag.
	RecognizedExtensions map[string]struct{}
	// OnUnreadable observes directories that could not be listed. It does not affect the output.
	OnUnreadable func(directoryPath string, err error)
}

// Render lists rootPath recursively and returns one line per reachable, non-excluded entry.
// Only a missing or non-directory root is reported as an error; any directory below the
// root that cannot be listed is rendered as empty.
func Render(rootPath string, options Options) ([]string, error) {
	rootInfo, statError := os.Stat(rootPath)
	if statError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, rootPath, statError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf("%s: %w", rootPath, ErrRootNotDirectory)
	}
	return renderDirectory(rootPath, "", options), nil
}

func renderDirectory(directoryPath string, prefix string, options Options) []string {
	entries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		if options.OnUnreadable != nil {
			options.OnUnreadable(directoryPath, readError)
		}
		return nil
	}

	visibleEntries := make([]os.DirEntry, 0, len(entries))
	for _, entry := range entries {
		if _, excluded := options.ExcludedNames[entry.Name()]; excluded {
			continue
		}
		visibleEntries = append(visibleEntries, entry)
	}
	sort.Slice(visibleEntries, func(left, right int) bool {
		return visibleEntries[left].Name() < visibleEntries[right].Name()
	})

	var lines []string
	for index, entry := range visibleEntries {
		isLast := index == len(visibleEntries)-1
		connector, padding := branchConnector, branchPadding
		if isLast {
			connector, padding = lastConnector, lastPadding
		}
		lines = append(lines, prefix+connector+entry.Name()+Annotate(entry.Name(), options))
		// DirEntry.IsDir does not follow symbolic links, so link cycles cannot recurse.
		if entry.IsDir() {
			lines = append(lines, renderDirectory(filepath.Join(directoryPath, entry.Name()), prefix+padding, options)...)
		}
	}
	return lines
}

// Annotate returns the suffix shown after name: the key marker when name is a key filename,
// followed by the extension tag when its extension is recognized.
func Annotate(name string, options Options) string {
	var annotation strings.Builder
	if _, isKey := options.KeyFilenames[name]; isKey {
		annotation.WriteString(KeyMarker)
	}
	if extension := Extension(name); extension != "" {
		if _, recognized := options.RecognizedExtensions[extension]; recognized {
			annotation.WriteString(fmt.Sprintf(extensionTagFormat, extension))
		}
	}
	return annotation.String()
}

// Extension returns the final dot-suffix of name. Dotfiles such as ".gitignore" and names
// ending in a dot have no extension.
func Extension(name string) string {
	dotIndex := strings.LastIndex(name, ".")
	if dotIndex <= 0 || dotIndex == len(name)-1 {
		return ""
	}
	return name[dotIndex:]
}
