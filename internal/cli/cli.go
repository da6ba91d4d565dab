// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cdeniger/agentkit/internal/codemap"
	"github.com/cdeniger/agentkit/internal/config"
	"github.com/cdeniger/agentkit/internal/filesystem"
	"github.com/cdeniger/agentkit/internal/governance"
	"github.com/cdeniger/agentkit/internal/services/clipboard"
	"github.com/cdeniger/agentkit/internal/types"
	"github.com/cdeniger/agentkit/internal/utils"
)

const (
	exclusionFlagName    = "exclude"
	exclusionShorthand   = "e"
	outputFlagName       = "output"
	gitignoreFlagName    = "gitignore"
	printFlagName        = "print"
	copyFlagName         = "copy"
	skipExistingFlagName = "skip-existing"
	globalFlagName       = "global"
	forceFlagName        = "force"
	configFlagName       = "config"
	verboseFlagName      = "verbose"
	versionFlagName      = "version"
	versionTemplate      = "agentkit version: %s\n"
	defaultPath          = "."
	pathArgumentUsage    = " [path]"
	rootUse              = "agentkit"
	rootShortDescription = "agentkit command line interface"
	rootLongDescription  = `agentkit prepares a project for AI agents.
It maps the project's file tree into a Markdown document and bootstraps the governance documents agents follow.
Use --config to point at a configuration file, --verbose for debug logging and --version to print the application version.`
	versionFlagDescription = "display application version"
	configFlagDescription  = "configuration file (defaults to " + utils.LocalConfigFileName + " in the working directory)"
	verboseFlagDescription = "enable debug logging"

	mapAlias            = "m"
	mapShortDescription = "write the codebase map (" + mapAlias + ")"
	// mapLongDescription provides detailed help for the map command.
	mapLongDescription = `Render the directory tree of a project into a Markdown codebase map written at its root.
Key files and recognized extensions are annotated. Excluded names are skipped at every depth.`
	// mapUsageExample demonstrates map command usage.
	mapUsageExample = `  # Refresh CODEBASE.md in the current project
  agentkit map

  # Also skip the tmp directory and copy the result to the clipboard
  agentkit map -e tmp --copy .`

	bootstrapAlias            = "b"
	bootstrapShortDescription = "write governance documents and placeholders (" + bootstrapAlias + ")"
	// bootstrapLongDescription provides detailed help for the bootstrap command.
	bootstrapLongDescription = `Write agents.md, the governance/ documents, artifact folders and execution placeholder scripts.
Existing files are overwritten unless --skip-existing is set.`
	// bootstrapUsageExample demonstrates bootstrap command usage.
	bootstrapUsageExample = `  # Bootstrap the current project
  agentkit bootstrap

  # Keep files that already exist
  agentkit bootstrap --skip-existing ./my-project`

	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write the default configuration to ` + utils.LocalConfigFileName + ` in the working directory,
or to ~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + ` with --global.`

	exclusionFlagDescription    = "exclude an entry name (repeatable)"
	outputFlagDescription       = "output file name relative to the mapped root"
	gitignoreFlagDescription    = "also exclude literal names listed in the root .gitignore"
	printFlagDescription        = "print the map to stdout instead of writing it"
	copyFlagDescription         = "copy the map to the system clipboard"
	skipExistingFlagDescription = "leave existing files untouched"
	globalFlagDescription       = "write the global configuration"
	forceFlagDescription        = "overwrite an existing configuration file"

	mapUpdatedFormat         = "✅ Codebase map updated: %s\n"
	mapCopiedMessage         = "📋 Codebase map copied to clipboard"
	configurationWrittenFmt  = "✅ Configuration written: %s\n"
	workingDirectoryErrorFmt = "unable to determine working directory: %w"
	loadGitignoreErrorFormat = "load %s names: %w"
	copyErrorFormat          = "copy codebase map to clipboard: %w"
)

// errVersionShown stops command execution after the version has been printed.
var errVersionShown = errors.New("version shown")

// LoggerFactory builds the application logger once flags are parsed.
type LoggerFactory func(verbose bool) (*zap.Logger, error)

// Dependencies holds the collaborators the commands use. Zero fields fall back to production implementations.
type Dependencies struct {
	Stdout           io.Writer
	WorkingDirectory string
	Writer           filesystem.Writer
	Copier           clipboard.Copier
	LoggerFactory    LoggerFactory
}

func (dependencies Dependencies) withDefaults() Dependencies {
	result := dependencies
	if result.Stdout == nil {
		result.Stdout = os.Stdout
	}
	if result.Writer == nil {
		result.Writer = filesystem.NewLockingWriter()
	}
	if result.Copier == nil {
		result.Copier = clipboard.NewService()
	}
	if result.LoggerFactory == nil {
		result.LoggerFactory = utils.NewApplicationLogger
	}
	return result
}

// application carries state shared by the commands of one invocation.
type application struct {
	dependencies Dependencies
	configPath   string
	verbose      bool
	logger       *zap.Logger
}

// Execute runs the agentkit application with the process arguments.
func Execute() error {
	return ExecuteWithArguments(os.Args[1:], Dependencies{})
}

// ExecuteWithArguments runs the agentkit application with explicit arguments and dependencies.
func ExecuteWithArguments(arguments []string, dependencies Dependencies) error {
	app := &application{dependencies: dependencies.withDefaults(), logger: zap.NewNop()}
	rootCommand := app.createRootCommand()
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	rootCommand.SetOut(app.dependencies.Stdout)
	defer func() {
		_ = app.logger.Sync()
	}()
	if executionError := rootCommand.Execute(); executionError != nil && !errors.Is(executionError, errVersionShown) {
		return executionError
	}
	return nil
}

// createRootCommand builds the root Cobra command.
func (app *application) createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				return app.printVersion()
			}
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				return app.printVersion()
			}
			logger, loggerError := app.dependencies.LoggerFactory(app.verbose)
			if loggerError != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
			}
			app.logger = logger
			return nil
		},
	}
	registerBooleanFlag(rootCommand.PersistentFlags(), &showVersion, versionFlagName, false, versionFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &app.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&app.configPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		app.createMapCommand(),
		app.createBootstrapCommand(),
		app.createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func (app *application) printVersion() error {
	fmt.Fprintf(app.dependencies.Stdout, versionTemplate, utils.GetApplicationVersion())
	return errVersionShown
}

// mapOptions stores the map command flags.
type mapOptions struct {
	exclusions   []string
	outputName   string
	useGitignore bool
	printOnly    bool
	copy         bool
}

// createMapCommand returns the map subcommand.
func (app *application) createMapCommand() *cobra.Command {
	var options mapOptions

	mapCommand := &cobra.Command{
		Use:     types.CommandMap + pathArgumentUsage,
		Aliases: []string{mapAlias},
		Short:   mapShortDescription,
		Long:    mapLongDescription,
		Example: mapUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			root := defaultPath
			if len(arguments) == 1 {
				root = arguments[0]
			}
			return app.runMap(command, root, options)
		},
	}

	mapCommand.Flags().StringArrayVarP(&options.exclusions, exclusionFlagName, exclusionShorthand, nil, exclusionFlagDescription)
	mapCommand.Flags().StringVar(&options.outputName, outputFlagName, "", outputFlagDescription)
	registerBooleanFlag(mapCommand.Flags(), &options.useGitignore, gitignoreFlagName, false, gitignoreFlagDescription)
	registerBooleanFlag(mapCommand.Flags(), &options.printOnly, printFlagName, false, printFlagDescription)
	registerBooleanFlag(mapCommand.Flags(), &options.copy, copyFlagName, false, copyFlagDescription)
	return mapCommand
}

// createBootstrapCommand returns the bootstrap subcommand.
func (app *application) createBootstrapCommand() *cobra.Command {
	var skipExisting bool

	bootstrapCommand := &cobra.Command{
		Use:     types.CommandBootstrap + pathArgumentUsage,
		Aliases: []string{bootstrapAlias},
		Short:   bootstrapShortDescription,
		Long:    bootstrapLongDescription,
		Example: bootstrapUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			root := defaultPath
			if len(arguments) == 1 {
				root = arguments[0]
			}
			configuration, configurationError := app.loadConfiguration()
			if configurationError != nil {
				return configurationError
			}
			if !command.Flags().Changed(skipExistingFlagName) {
				skipExisting = config.BoolValue(configuration.Bootstrap.SkipExisting, false)
			}
			bootstrapper := governance.NewBootstrapper(app.dependencies.Writer, app.dependencies.Stdout, app.logger)
			_, runError := bootstrapper.Run(governance.Options{Root: root, SkipExisting: skipExisting})
			return runError
		},
	}

	registerBooleanFlag(bootstrapCommand.Flags(), &skipExisting, skipExistingFlagName, false, skipExistingFlagDescription)
	return bootstrapCommand
}

// createInitCommand returns the init subcommand.
func (app *application) createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   types.CommandInit,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: app.dependencies.WorkingDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(app.dependencies.Stdout, configurationWrittenFmt, destinationPath)
			return nil
		},
	}

	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// runMap builds the map settings from configuration and flags, then prints, writes or copies the map.
func (app *application) runMap(command *cobra.Command, root string, options mapOptions) error {
	configuration, configurationError := app.loadConfiguration()
	if configurationError != nil {
		return configurationError
	}
	mapConfiguration := configuration.Map

	useGitignore := config.BoolValue(mapConfiguration.UseGitignore, false)
	if command.Flags().Changed(gitignoreFlagName) {
		useGitignore = options.useGitignore
	}
	excludedNames := append([]string{}, mapConfiguration.ExcludedDirectories...)
	excludedNames = append(excludedNames, mapConfiguration.ExcludedFiles...)
	excludedNames = append(excludedNames, options.exclusions...)
	if useGitignore {
		gitignoreNames, loadError := config.LoadGitignoreNames(root)
		if loadError != nil {
			return fmt.Errorf(loadGitignoreErrorFormat, utils.GitIgnoreFileName, loadError)
		}
		excludedNames = append(excludedNames, gitignoreNames...)
	}

	outputName := mapConfiguration.Output
	if options.outputName != "" {
		outputName = options.outputName
	}

	settings := codemap.Settings{
		OutputFileName:       outputName,
		ExcludedNames:        utils.DeduplicateNames(excludedNames),
		KeyFilenames:         mapConfiguration.KeyFilenames,
		RecognizedExtensions: mapConfiguration.RecognizedExtensions,
		Structure:            mapConfiguration.Structure,
	}
	app.logger.Debug("rendering codebase map",
		zap.String("root", root),
		zap.String("output", settings.OutputFileName),
		zap.Strings("excluded", settings.ExcludedNames),
	)

	generator := codemap.NewGenerator(app.dependencies.Writer, app.logger)
	var document codemap.Document
	if options.printOnly {
		builtDocument, buildError := generator.Build(root, settings)
		if buildError != nil {
			return buildError
		}
		document = builtDocument
		fmt.Fprintln(app.dependencies.Stdout, document.Content)
	} else {
		result, generateError := generator.Generate(root, settings)
		if generateError != nil {
			return generateError
		}
		document = result.Document
		fmt.Fprintf(app.dependencies.Stdout, mapUpdatedFormat, result.OutputPath)
	}

	if options.copy {
		if copyError := app.dependencies.Copier.Copy(document.Content); copyError != nil {
			return fmt.Errorf(copyErrorFormat, copyError)
		}
		if !options.printOnly {
			fmt.Fprintln(app.dependencies.Stdout, mapCopiedMessage)
		}
	}
	return nil
}

func (app *application) loadConfiguration() (config.ApplicationConfiguration, error) {
	workingDirectory := app.dependencies.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return config.ApplicationConfiguration{}, fmt.Errorf(workingDirectoryErrorFmt, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}
	return config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: app.configPath,
	})
}
