package conf

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tphakala/squeakmerge/internal/errors"
)

// ErrNoConfigFile is returned when a run is started without an experiment
// configuration file.
var ErrNoConfigFile = errors.NewStd("no config file was entered, please add a config file using the -c option")

// RequireConfigFile returns ErrNoConfigFile when no experiment configuration was given.
func (s *Settings) RequireConfigFile() error {
	if s.ConfigFile == "" {
		return errors.New(ErrNoConfigFile).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return nil
}

// ConfigCandidates lists the JSON files in dir by name, as a hint for
// users who forgot the -c flag.
func ConfigCandidates(fs afero.Fs, dir string) ([]string, error) {
	matches, err := afero.Glob(fs, filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	return names, nil
}
