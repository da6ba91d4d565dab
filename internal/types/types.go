// Package types defines the data structures shared across agentkit packages.
package types

const (
	CommandMap       = "map"
	CommandBootstrap = "bootstrap"
	CommandInit      = "init"
)

// StructureEntry describes one top-level area listed in the high-level structure section of a codebase map.
type StructureEntry struct {
	Path        string `mapstructure:"path" yaml:"path"`
	Description string `mapstructure:"description" yaml:"description"`
}
