// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treedoc/internal/config"
	"github.com/temirov/treedoc/internal/document"
	"github.com/temirov/treedoc/internal/language"
	"github.com/temirov/treedoc/internal/output"
	"github.com/temirov/treedoc/internal/services/clipboard"
	"github.com/temirov/treedoc/internal/tokenizer"
	"github.com/temirov/treedoc/internal/utils"
)

const (
	configFlagName        = "config"
	outputFlagName        = "output"
	outputFlagShorthand   = "o"
	exclusionFlagName     = "e"
	stdoutFlagName        = "stdout"
	previewFlagName       = "preview"
	checkFlagName         = "check"
	copyFlagName          = "copy"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	verboseFlagName       = "verbose"
	versionFlagName       = "version"
	globalFlagName        = "global"
	forceFlagName         = "force"
	versionTemplate       = "treedoc version: %s\n"
	savedConfirmation     = "Saved file as: %s\n"
	upToDateConfirmation  = "Up to date: %s\n"
	configWrittenTemplate = "Configuration written to %s\n"
	languageLineTemplate  = "%s\t%s\n"

	rootUse              = "treedoc [path]"
	rootShortDescription = "snapshot a project directory into one Markdown file"
	rootLongDescription  = `treedoc walks a project directory and writes a Markdown document containing
an outline of the directory tree followed by the contents of every file in
fenced code blocks. Entries whose names appear in the ignore list are skipped.
Without arguments it documents the current directory into project.md.`
	rootUsageExample = `  # Snapshot the current directory into project.md
  treedoc

  # Snapshot ./service into docs/service.md, skipping the dist directory
  treedoc ./service -o docs/service.md -e dist

  # Fail when project.md no longer matches the directory
  treedoc --check`

	initUse              = "init"
	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write treedoc.yaml with the default settings into the working directory,
or into ~/.treedoc with --global.`

	languagesUse              = "languages"
	languagesShortDescription = "list the extensions that receive a language tag"

	configFlagDescription    = "configuration file (default ./treedoc.yaml)"
	outputFlagDescription    = "output document path"
	exclusionFlagDescription = "additional name to ignore (repeatable)"
	stdoutFlagDescription    = "print the document instead of writing the output file"
	previewFlagDescription   = "render the document in the terminal instead of writing the output file"
	checkFlagDescription     = "compare the output file with a fresh document without writing"
	copyFlagDescription      = "copy the document to the clipboard"
	tokensFlagDescription    = "report the token count of the document"
	modelFlagDescription     = "tokenizer model to use for token counting"
	verboseFlagDescription   = "log run details"
	versionFlagDescription   = "display application version"
	globalFlagDescription    = "write into the global configuration directory"
	forceFlagDescription     = "overwrite an existing configuration file"

	errorStaleDocumentFormat = "%s: %w"

	warningClipboardFormat   = "clipboard copy failed: %v"
	warningTokenCountFormat  = "token counting failed: %v"
	infoTokenCountMessage    = "document tokens"
	debugSummaryMessage      = "snapshot generated"
	debugConfigurationLoaded = "configuration loaded"
)

// runOptions stores the flag values of the root command.
type runOptions struct {
	configPath        string
	outputPath        string
	exclusionPatterns []string
	printToStdout     bool
	preview           bool
	check             bool
	copyToClipboard   bool
	tokensEnabled     bool
	tokenModel        string
	verbose           bool
	showVersion       bool
}

// application carries the collaborators shared by all commands.
type application struct {
	logger       *zap.Logger
	copier       clipboard.Copier
	counterMaker func(model string) (tokenizer.Counter, string, error)
	terminal     *os.File
}

// Execute runs the treedoc application.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(logger, clipboard.NewService())
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(logger *zap.Logger, copier clipboard.Copier) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newRootCommand(&application{
		logger:       logger,
		copier:       copier,
		counterMaker: tokenizer.NewCounter,
		terminal:     os.Stdout,
	})
}

func newRootCommand(app *application) *cobra.Command {
	var options runOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if !options.verbose {
				return nil
			}
			verboseLogger, loggerError := utils.NewApplicationLogger(true)
			if loggerError != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
			}
			app.logger = verboseLogger
			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return app.runSnapshot(command, arguments, options)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&options.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.Flags().BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	rootCommand.Flags().StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, config.DefaultOutputPath, outputFlagDescription)
	rootCommand.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	rootCommand.Flags().BoolVar(&options.printToStdout, stdoutFlagName, false, stdoutFlagDescription)
	rootCommand.Flags().BoolVar(&options.preview, previewFlagName, false, previewFlagDescription)
	rootCommand.Flags().BoolVar(&options.check, checkFlagName, false, checkFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	rootCommand.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenModel, modelFlagName, config.DefaultTokenModel, modelFlagDescription)
	rootCommand.MarkFlagsMutuallyExclusive(checkFlagName, stdoutFlagName, previewFlagName)

	rootCommand.AddCommand(
		createInitCommand(),
		createLanguagesCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runSnapshot loads configuration, generates the document, and delivers it.
func (app *application) runSnapshot(command *cobra.Command, arguments []string, options runOptions) error {
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configPath})
	if loadError != nil {
		return loadError
	}
	applicationConfiguration = applyFlagOverrides(command, applicationConfiguration, arguments, options)
	app.logger.Debug(debugConfigurationLoaded,
		zap.String("base_path", applicationConfiguration.BasePath),
		zap.String("output", applicationConfiguration.Output),
		zap.Strings("ignore", applicationConfiguration.EffectiveIgnoreNames()),
	)

	generator := document.Generator{
		IgnoreNames: applicationConfiguration.EffectiveIgnoreNames(),
		Headings:    applicationConfiguration.DocumentHeadings(),
		Warn:        func(message string) { app.logger.Warn(message) },
	}
	result, generateError := generator.Generate(applicationConfiguration.BasePath)
	if generateError != nil {
		return generateError
	}
	app.logger.Debug(debugSummaryMessage,
		zap.Int("files", len(result.Files)),
		zap.Int("undecodable", len(result.UndecodableFiles)),
		zap.String("size", utils.FormatFileSize(int64(len(result.Markdown)))),
	)

	if err := app.deliver(command.OutOrStdout(), applicationConfiguration.Output, result.Markdown, options); err != nil {
		return err
	}

	if applicationConfiguration.Tokens.Enabled != nil && *applicationConfiguration.Tokens.Enabled {
		app.reportTokens(applicationConfiguration.Tokens.Model, result.Markdown)
	}
	if applicationConfiguration.Clipboard != nil && *applicationConfiguration.Clipboard && app.copier != nil {
		if copyError := app.copier.Copy(result.Markdown); copyError != nil {
			app.logger.Warn(fmt.Sprintf(warningClipboardFormat, copyError))
		}
	}
	return nil
}

// deliver writes, prints, previews, or checks the generated document.
func (app *application) deliver(writer io.Writer, outputPath string, markdown string, options runOptions) error {
	switch {
	case options.check:
		checkResult, checkError := output.CheckDocument(outputPath, markdown)
		if checkError != nil {
			return checkError
		}
		if checkResult.UpToDate {
			fmt.Fprintf(writer, upToDateConfirmation, outputPath)
			return nil
		}
		fmt.Fprint(writer, checkResult.Diff)
		return fmt.Errorf(errorStaleDocumentFormat, outputPath, output.ErrDocumentStale)
	case options.preview && output.IsTerminal(app.terminal):
		return output.RenderPreview(writer, markdown, output.TerminalWidth(app.terminal))
	case options.preview, options.printToStdout:
		return output.WritePlain(writer, markdown)
	default:
		if writeError := output.WriteDocument(outputPath, markdown); writeError != nil {
			return writeError
		}
		fmt.Fprintf(writer, savedConfirmation, outputPath)
		return nil
	}
}

func (app *application) reportTokens(model string, markdown string) {
	counter, resolvedModel, counterError := app.counterMaker(model)
	if counterError != nil {
		app.logger.Warn(fmt.Sprintf(warningTokenCountFormat, counterError))
		return
	}
	tokenCount, countError := tokenizer.CountText(counter, markdown)
	if countError != nil {
		app.logger.Warn(fmt.Sprintf(warningTokenCountFormat, countError))
		return
	}
	app.logger.Info(infoTokenCountMessage, zap.String("model", resolvedModel), zap.Int("tokens", tokenCount))
}

// applyFlagOverrides layers explicitly set flags and the positional path over the configuration.
func applyFlagOverrides(command *cobra.Command, applicationConfiguration config.ApplicationConfiguration, arguments []string, options runOptions) config.ApplicationConfiguration {
	override := config.ApplicationConfiguration{}
	if len(arguments) > 0 {
		override.BasePath = arguments[0]
	}
	flags := command.Flags()
	if flags.Changed(outputFlagName) {
		override.Output = options.outputPath
	}
	if len(options.exclusionPatterns) > 0 {
		override.ExtraIgnore = options.exclusionPatterns
	}
	if flags.Changed(tokensFlagName) {
		tokensEnabled := options.tokensEnabled
		override.Tokens.Enabled = &tokensEnabled
	}
	if flags.Changed(modelFlagName) {
		override.Tokens.Model = options.tokenModel
	}
	if flags.Changed(copyFlagName) {
		copyEnabled := options.copyToClipboard
		override.Clipboard = &copyEnabled
	}
	return applicationConfiguration.Merge(override)
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configWrittenTemplate, destinationPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// createLanguagesCommand returns the languages subcommand.
func createLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   languagesUse,
		Short: languagesShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			for _, extension := range language.Extensions() {
				fmt.Fprintf(command.OutOrStdout(), languageLineTemplate, extension, language.ForPath(extension))
			}
			return nil
		},
	}
}
