package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/cdeniger/agentkit/internal/utils"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	options := InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal}
	path, err := InitializeConfiguration(options)
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, utils.LocalConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read config: %v", readErr)
	}
	for _, snippet := range []string{"map:", "excluded_directories:", "- node_modules", "bootstrap:", "skip_existing: false"} {
		if !strings.Contains(string(content), snippet) {
			t.Fatalf("expected %q in configuration content:\n%s", snippet, string(content))
		}
	}
}

func TestInitializedConfigurationRoundTripsThroughViper(t *testing.T) {
	workingDirectory := t.TempDir()
	path, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		t.Fatalf("read generated configuration: %v", readErr)
	}
	var decoded ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&decoded); decodeErr != nil {
		t.Fatalf("decode generated configuration: %v", decodeErr)
	}
	defaults := DefaultConfiguration()
	if !reflect.DeepEqual(decoded.Map.ExcludedDirectories, defaults.Map.ExcludedDirectories) {
		t.Fatalf("excluded directories differ: %v", decoded.Map.ExcludedDirectories)
	}
	if !reflect.DeepEqual(decoded.Map.Structure, defaults.Map.Structure) {
		t.Fatalf("structure differs: %v", decoded.Map.Structure)
	}
}

func TestInitializeConfigurationHonorsGlobalTarget(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	path, err := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, Force: true})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	if !strings.HasPrefix(path, homeDir) {
		t.Fatalf("expected configuration under home dir, got %s", path)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected file to exist at %s: %v", path, statErr)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(t *testing.T) {
	workingDirectory := t.TempDir()
	path := filepath.Join(workingDirectory, utils.LocalConfigFileName)
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	_, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: false})
	if err == nil {
		t.Fatalf("expected error when configuration already exists")
	}
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Force: true}); err != nil {
		t.Fatalf("expected forced overwrite to succeed: %v", err)
	}
}

func TestInitializeConfigurationRejectsUnknownTarget(t *testing.T) {
	if _, err := InitializeConfiguration(InitOptions{Target: "elsewhere", WorkingDirectory: t.TempDir()}); err == nil {
		t.Fatalf("expected error for unsupported target")
	}
}
