package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "sets_true_without_value", arguments: []string{"--copy"}, expected: true},
		{name: "sets_false_with_equals", defaultValue: true, arguments: []string{"--copy=false"}, expected: false},
		{name: "sets_false_with_no_literal", defaultValue: true, arguments: []string{"--copy", "no"}, expected: false},
		{name: "sets_true_with_on_literal", arguments: []string{"--copy", "on"}, expected: true},
		{name: "ignores_non_boolean_trailing_value", arguments: []string{"--copy", "src"}, expected: true},
		{name: "rejects_unknown_literal_with_equals", arguments: []string{"--copy=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "toggle-test"}
			flagValue := !testCase.defaultValue
			registerBooleanFlag(command.Flags(), &flagValue, "copy", testCase.defaultValue, "copy the result")
			parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeBooleanFlagArgumentsVisitsSubcommands(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "root"}
	var verbose, skip bool
	registerBooleanFlag(root.PersistentFlags(), &verbose, "verbose", false, "")
	child := &cobra.Command{Use: "bootstrap"}
	registerBooleanFlag(child.Flags(), &skip, "skip-existing", false, "")
	root.AddCommand(child)

	arguments := []string{"bootstrap", "--skip-existing", "yes", "--verbose", "off", "--", "--verbose", "on"}
	expected := []string{"bootstrap", "--skip-existing=yes", "--verbose=off", "--", "--verbose", "on"}
	if normalized := normalizeBooleanFlagArguments(root, arguments); !reflect.DeepEqual(normalized, expected) {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
}
