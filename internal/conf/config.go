// Package conf loads squeakmerge settings from defaults, an optional
// settings file, environment variables and command line flags.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/tphakala/squeakmerge/internal/errors"
)

// Settings file lookup and environment variable prefix.
const (
	SettingsName = "squeakmerge"
	SettingsType = "yaml"
	EnvPrefix    = "SQUEAKMERGE"
)

// Output file names when no prefix is given.
const (
	DefaultCombinedName = "Combined_calls.csv"
	DefaultAcceptedName = "Accepted_calls.csv"
)

// Settings is the resolved configuration for one run.
type Settings struct {
	ConfigFile string         `mapstructure:"config_file"` // experiment configuration (JSON with comments)
	Debug      bool           `mapstructure:"debug"`
	Output     OutputSettings `mapstructure:"output"`
	Log        LogSettings    `mapstructure:"log"`
}

// OutputSettings controls where merged tables are written.
type OutputSettings struct {
	Prefix  string `mapstructure:"prefix"`  // prepended to output file names
	Dir     string `mapstructure:"dir"`     // output directory, created if missing
	Summary bool   `mapstructure:"summary"` // print a per group summary table
}

// LogSettings controls console level and the optional rotated log file.
type LogSettings struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`        // empty disables file logging
	MaxSize    int    `mapstructure:"max_size"`    // megabytes
	MaxBackups int    `mapstructure:"max_backups"` // rotated files kept
	MaxAge     int    `mapstructure:"max_age"`     // days
	Compress   bool   `mapstructure:"compress"`
}

// DefaultSearchPaths returns the directories searched for squeakmerge.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", SettingsName))
	}
	return paths
}

// Load resolves settings from v. Flags must already be bound to v. The
// settings file is optional and read from fs; searchPaths defaults to
// DefaultSearchPaths.
func Load(v *viper.Viper, fs afero.Fs, searchPaths ...string) (*Settings, error) {
	if len(searchPaths) == 0 {
		searchPaths = DefaultSearchPaths()
	}

	v.SetFs(fs)
	v.SetConfigName(SettingsName)
	v.SetConfigType(SettingsType)
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.New(fmt.Errorf("error reading settings file: %w", err)).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Build()
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling settings: %w", err)).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// OutputNames returns the combined and accepted table paths.
func (s *Settings) OutputNames() (combined, accepted string) {
	combined, accepted = DefaultCombinedName, DefaultAcceptedName
	if s.Output.Prefix != "" {
		combined = s.Output.Prefix + "_combined_calls.csv"
		accepted = s.Output.Prefix + "_accepted_calls.csv"
	}
	return s.outputPath(combined), s.outputPath(accepted)
}

// outputPath places name under the output directory. A prefix may carry its
// own directory, which is relative to the output directory unless absolute.
func (s *Settings) outputPath(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(s.Output.Dir, name)
}
