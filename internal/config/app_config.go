// Package config loads agentkit configuration from global and local YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/cdeniger/agentkit/internal/types"
	"github.com/cdeniger/agentkit/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration.
type ApplicationConfiguration struct {
	Map       MapConfiguration       `mapstructure:"map" yaml:"map"`
	Bootstrap BootstrapConfiguration `mapstructure:"bootstrap" yaml:"bootstrap"`
}

// MapConfiguration configures codebase map generation.
type MapConfiguration struct {
	Output               string                 `mapstructure:"output" yaml:"output"`
	ExcludedDirectories  []string               `mapstructure:"excluded_directories" yaml:"excluded_directories"`
	ExcludedFiles        []string               `mapstructure:"excluded_files" yaml:"excluded_files"`
	KeyFilenames         []string               `mapstructure:"key_filenames" yaml:"key_filenames"`
	RecognizedExtensions []string               `mapstructure:"recognized_extensions" yaml:"recognized_extensions"`
	UseGitignore         *bool                  `mapstructure:"use_gitignore" yaml:"use_gitignore"`
	Structure            []types.StructureEntry `mapstructure:"structure" yaml:"structure"`
}

// BootstrapConfiguration configures the governance bootstrap.
type BootstrapConfiguration struct {
	SkipExisting *bool `mapstructure:"skip_existing" yaml:"skip_existing"`
}

// LoadApplicationConfiguration loads the global file, overlays the local one and fills
// anything left unset from DefaultConfiguration.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	return DefaultConfiguration().Merge(merged).normalized(), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Map = result.Map.merge(override.Map)
	result.Bootstrap = result.Bootstrap.merge(override.Bootstrap)
	return result
}

func (config MapConfiguration) merge(override MapConfiguration) MapConfiguration {
	result := config
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.ExcludedDirectories != nil {
		result.ExcludedDirectories = append([]string{}, override.ExcludedDirectories...)
	}
	if override.ExcludedFiles != nil {
		result.ExcludedFiles = append([]string{}, override.ExcludedFiles...)
	}
	if override.KeyFilenames != nil {
		result.KeyFilenames = append([]string{}, override.KeyFilenames...)
	}
	if override.RecognizedExtensions != nil {
		result.RecognizedExtensions = append([]string{}, override.RecognizedExtensions...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.Structure != nil {
		result.Structure = append([]types.StructureEntry{}, override.Structure...)
	}
	return result
}

func (config BootstrapConfiguration) merge(override BootstrapConfiguration) BootstrapConfiguration {
	result := config
	if override.SkipExisting != nil {
		result.SkipExisting = cloneBool(override.SkipExisting)
	}
	return result
}

func (config ApplicationConfiguration) normalized() ApplicationConfiguration {
	result := config
	result.Map.ExcludedDirectories = utils.DeduplicateNames(result.Map.ExcludedDirectories)
	result.Map.ExcludedFiles = utils.DeduplicateNames(result.Map.ExcludedFiles)
	result.Map.KeyFilenames = utils.DeduplicateNames(result.Map.KeyFilenames)
	result.Map.RecognizedExtensions = utils.DeduplicateNames(result.Map.RecognizedExtensions)
	return result
}

// BoolValue dereferences value, returning fallback when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
