package utils_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/cdeniger/agentkit/internal/utils"
)

// TestDeduplicateNames verifies that DeduplicateNames trims, drops blanks and removes duplicates.
func TestDeduplicateNames(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		names    []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			names:    []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			names:    []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			testName: "trims and drops blanks",
			names:    []string{" node_modules ", "", "  ", "node_modules"},
			expected: []string{"node_modules"},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicateNames(testCase.names)
		if !reflect.DeepEqual(actual, testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected %v, got %v", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestNameSetUnionsGroups verifies that NameSet merges every group into one set.
func TestNameSetUnionsGroups(testingInstance *testing.T) {
	set := utils.NameSet([]string{".git", "dist"}, []string{"yarn.lock", ".git"})
	if len(set) != 3 {
		testingInstance.Fatalf("expected 3 names, got %d: %v", len(set), set)
	}
	for _, name := range []string{".git", "dist", "yarn.lock"} {
		if _, ok := set[name]; !ok {
			testingInstance.Errorf("expected %s in set", name)
		}
	}
}

// TestFormatTimestamp verifies the date(1) style layout.
func TestFormatTimestamp(testingInstance *testing.T) {
	if formatted := utils.FormatTimestamp(time.Time{}); formatted != "" {
		testingInstance.Fatalf("expected empty string for zero time, got %q", formatted)
	}
	value := time.Date(2026, time.October, 19, 9, 5, 7, 0, time.Local)
	formatted := utils.FormatTimestamp(value)
	if !strings.HasPrefix(formatted, "Mon Oct 19 09:05:07 ") || !strings.HasSuffix(formatted, " 2026") {
		testingInstance.Fatalf("unexpected timestamp %q", formatted)
	}
}

// TestGetApplicationVersionPrefersLinkedVersion verifies that the link-time version wins.
func TestGetApplicationVersionPrefersLinkedVersion(testingInstance *testing.T) {
	previousVersion := utils.Version
	utils.Version = "v9.9.9"
	defer func() { utils.Version = previousVersion }()
	if version := utils.GetApplicationVersion(); version != "v9.9.9" {
		testingInstance.Fatalf("expected linked version, got %q", version)
	}
}
