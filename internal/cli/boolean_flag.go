package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "bool"
	toggleImplicitValue      = "true"
	toggleFlagPrefix         = "--"
	toggleTerminator         = "--"
	toggleAcceptedValues     = "true, false, yes, no, on, off, 1, 0"
	toggleInvalidValueFormat = "invalid boolean value %q for --%s; accepted values: %s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseToggleLiteral maps a user supplied literal to a boolean. An empty literal means true.
func parseToggleLiteral(literal string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(literal))
	if normalized == "" {
		return true, true
	}
	value, known := toggleLiterals[normalized]
	return value, known
}

// toggleValue is a pflag.Value that accepts the literals in toggleLiterals.
type toggleValue struct {
	target *bool
	name   string
}

func (value *toggleValue) Set(input string) error {
	parsed, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(toggleInvalidValueFormat, input, value.name, toggleAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleValue) String() string {
	if value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Type() string {
	return toggleFlagTypeName
}

// registerBooleanFlag defines a boolean flag that also accepts yes/no style literals.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flag := flagSet.VarPF(&toggleValue{target: target, name: name}, name, "", usage)
	flag.DefValue = strconv.FormatBool(defaultValue)
	flag.NoOptDefVal = toggleImplicitValue
}

// normalizeBooleanFlagArguments joins "--flag <literal>" pairs into "--flag=<literal>" for every
// boolean flag of the command tree. pflag would otherwise treat the literal as a positional argument.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := collectBooleanFlagNames(command)
	if len(toggleNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == toggleTerminator {
			return append(normalized, arguments[index:]...)
		}
		name, isLongFlag := strings.CutPrefix(argument, toggleFlagPrefix)
		if !isLongFlag || strings.Contains(name, "=") || index+1 >= len(arguments) {
			normalized = append(normalized, argument)
			continue
		}
		if _, isToggle := toggleNames[name]; !isToggle {
			normalized = append(normalized, argument)
			continue
		}
		next := arguments[index+1]
		if _, known := parseToggleLiteral(next); known && strings.TrimSpace(next) != "" && !strings.HasPrefix(next, "-") {
			normalized = append(normalized, toggleFlagPrefix+name+"="+next)
			index++
			continue
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command) map[string]struct{} {
	names := map[string]struct{}{}
	var visit func(*cobra.Command)
	visit = func(current *cobra.Command) {
		record := func(flag *pflag.Flag) {
			if flag.Value.Type() == toggleFlagTypeName {
				names[flag.Name] = struct{}{}
			}
		}
		current.PersistentFlags().VisitAll(record)
		current.Flags().VisitAll(record)
		for _, child := range current.Commands() {
			visit(child)
		}
	}
	visit(command)
	return names
}
