// Package utils contains general helpers shared by the agentkit packages.
package utils

import (
	"strings"
)

// DeduplicateNames trims every name, drops empty ones and removes duplicates while preserving order.
// The first occurrence of each unique name is kept.
func DeduplicateNames(names []string) []string {
	encounteredNames := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == "" {
			continue
		}
		if _, exists := encounteredNames[trimmedName]; !exists {
			encounteredNames[trimmedName] = struct{}{}
			result = append(result, trimmedName)
		}
	}
	return result
}

// NameSet converts the provided names into a lookup set.
func NameSet(names ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, group := range names {
		for _, name := range DeduplicateNames(group) {
			set[name] = struct{}{}
		}
	}
	return set
}
