package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cdeniger/agentkit/internal/utils"
)

const (
	commentPrefix      = "#"
	negationPrefix     = "!"
	globMetacharacters = "*?[\\"
	pathSeparator      = "/"
)

// LoadGitignoreNames reads the .gitignore at the root of directoryPath and returns the entries
// that name a single file or directory literally. Patterns with wildcards, negations or inner
// path separators cannot be expressed as literal names and are skipped. A missing file yields no names.
//
// #nosec G304
func LoadGitignoreNames(directoryPath string) ([]string, error) {
	ignoreFilePath := filepath.Join(directoryPath, utils.GitIgnoreFileName)
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var names []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		if name, literal := literalName(scanner.Text()); literal {
			names = append(names, name)
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("read %s: %w", ignoreFilePath, scanError)
	}
	return utils.DeduplicateNames(names), nil
}

func literalName(line string) (string, bool) {
	trimmedLine := strings.TrimSpace(line)
	if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) || strings.HasPrefix(trimmedLine, negationPrefix) {
		return "", false
	}
	if strings.ContainsAny(trimmedLine, globMetacharacters) {
		return "", false
	}
	name := strings.Trim(trimmedLine, pathSeparator)
	if name == "" || strings.Contains(name, pathSeparator) {
		return "", false
	}
	return name, true
}
