// Package config loads treedoc configuration from global, local, and explicit YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/treedoc/internal/document"
	"github.com/temirov/treedoc/internal/utils"
)

const (
	// DefaultBasePath is the directory documented when none is configured.
	DefaultBasePath = "."
	// DefaultOutputPath is the file the document is written to when none is configured.
	DefaultOutputPath = "project.md"
	// DefaultTokenModel selects the tokenizer used for token estimates.
	DefaultTokenModel = "gpt-4o"
)

// defaultIgnoreNames lists the basenames excluded from every run unless overridden.
var defaultIgnoreNames = []string{
	"swagger",
	"test.html",
	"project.md",
	".git",
	".DS_Store",
	"node_modules",
	"uploads",
	".env",
	"databese.sqlite3",
	"generator.py",
	"package.json",
	"package-lock.json",
	"SequelizeSummery.md",
	"StartSummery.md",
	"Summery2.0.md",
	"output.md",
	"MulterSummery.md",
	"login.html",
	"profile.html",
	"register.html",
	"test.html",
}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds every setting of a treedoc run.
type ApplicationConfiguration struct {
	BasePath    string               `mapstructure:"base_path" yaml:"base_path"`
	Output      string               `mapstructure:"output" yaml:"output"`
	Ignore      []string             `mapstructure:"ignore" yaml:"ignore"`
	ExtraIgnore []string             `mapstructure:"extra_ignore" yaml:"extra_ignore"`
	Headings    HeadingConfiguration `mapstructure:"headings" yaml:"headings"`
	Tokens      TokenConfiguration   `mapstructure:"tokens" yaml:"tokens"`
	Clipboard   *bool                `mapstructure:"clipboard" yaml:"clipboard"`
}

// HeadingConfiguration sets the section titles of the document.
type HeadingConfiguration struct {
	Outline  string `mapstructure:"outline" yaml:"outline"`
	Contents string `mapstructure:"contents" yaml:"contents"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled" yaml:"enabled"`
	Model   string `mapstructure:"model" yaml:"model"`
}

// DefaultConfiguration returns the settings used when no configuration file exists.
func DefaultConfiguration() ApplicationConfiguration {
	return ApplicationConfiguration{
		BasePath:    DefaultBasePath,
		Output:      DefaultOutputPath,
		Ignore:      utils.DeduplicatePatterns(defaultIgnoreNames),
		ExtraIgnore: []string{},
		Headings: HeadingConfiguration{
			Outline:  document.DefaultOutlineHeading,
			Contents: document.DefaultContentsHeading,
		},
		Tokens: TokenConfiguration{
			Enabled: boolPointer(false),
			Model:   DefaultTokenModel,
		},
		Clipboard: boolPointer(false),
	}
}

// DefaultIgnoreNames returns a copy of the built-in ignore list.
func DefaultIgnoreNames() []string {
	return append([]string{}, defaultIgnoreNames...)
}

// LoadApplicationConfiguration overlays the global file, then the local or
// explicit file, onto DefaultConfiguration.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	merged := DefaultConfiguration()

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	return merged, nil
}

// EffectiveIgnoreNames returns Ignore followed by ExtraIgnore and the output
// file's basename, without duplicates.
func (config ApplicationConfiguration) EffectiveIgnoreNames() []string {
	combined := make([]string, 0, len(config.Ignore)+len(config.ExtraIgnore)+1)
	for _, name := range append(append([]string{}, config.Ignore...), config.ExtraIgnore...) {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == "" {
			continue
		}
		combined = append(combined, trimmedName)
	}
	if config.Output != "" {
		combined = append(combined, filepath.Base(config.Output))
	}
	return utils.DeduplicatePatterns(combined)
}

// DocumentHeadings returns the document section titles.
func (config ApplicationConfiguration) DocumentHeadings() document.Headings {
	return document.Headings{Outline: config.Headings.Outline, Contents: config.Headings.Contents}
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
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
// A non-empty ignore list replaces the current one; extra ignore names accumulate.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.BasePath != "" {
		result.BasePath = override.BasePath
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if len(override.Ignore) > 0 {
		result.Ignore = utils.DeduplicatePatterns(override.Ignore)
	}
	if len(override.ExtraIgnore) > 0 {
		result.ExtraIgnore = utils.DeduplicatePatterns(append(append([]string{}, result.ExtraIgnore...), override.ExtraIgnore...))
	}
	result.Headings = result.Headings.merge(override.Headings)
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config HeadingConfiguration) merge(override HeadingConfiguration) HeadingConfiguration {
	result := config
	if override.Outline != "" {
		result.Outline = override.Outline
	}
	if override.Contents != "" {
		result.Contents = override.Contents
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func boolPointer(value bool) *bool {
	return &value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
