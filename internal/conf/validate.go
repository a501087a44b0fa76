package conf

import (
	"fmt"
	"strings"

	"github.com/tphakala/squeakmerge/internal/errors"
	"github.com/tphakala/squeakmerge/internal/logger"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// Validate checks settings that would otherwise fail late in a run.
func (s *Settings) Validate() error {
	ve := ValidationError{}

	if err := validateOutputSettings(&s.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateLogSettings(&s.Log); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return errors.New(ve).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

func validateOutputSettings(o *OutputSettings) error {
	if strings.TrimSpace(o.Dir) == "" {
		return errors.NewStd("output.dir must not be empty")
	}
	return nil
}

func validateLogSettings(l *LogSettings) error {
	if !logger.IsValidLevel(strings.ToLower(l.Level)) {
		return fmt.Errorf("log.level %q is not one of trace, debug, info, warn, error", l.Level)
	}
	if l.MaxSize < 0 || l.MaxBackups < 0 || l.MaxAge < 0 {
		return errors.NewStd("log.max_size, log.max_backups and log.max_age must not be negative")
	}
	return nil
}
