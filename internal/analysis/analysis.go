// Package analysis runs the merge from an experiment configuration to the
// two CSV tables.
package analysis

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/tphakala/squeakmerge/internal/buildinfo"
	"github.com/tphakala/squeakmerge/internal/calls"
	"github.com/tphakala/squeakmerge/internal/catalog"
	"github.com/tphakala/squeakmerge/internal/conf"
	"github.com/tphakala/squeakmerge/internal/errors"
	"github.com/tphakala/squeakmerge/internal/experiment"
	"github.com/tphakala/squeakmerge/internal/logger"
	"github.com/tphakala/squeakmerge/internal/merge"
	"github.com/tphakala/squeakmerge/internal/output"
)

// Result describes a finished merge.
type Result struct {
	*merge.Result
	CombinedPath string
	AcceptedPath string
	Catalog      *catalog.Catalog
}

// NewLogger creates the central logger for a run and a root logger carrying
// a fresh run id. The caller closes the central logger.
func NewLogger(settings *conf.Settings, console io.Writer) (*logger.CentralLogger, logger.Logger, error) {
	cl, err := logger.NewCentralLoggerWithConsole(settings.LoggingConfig(), console)
	if err != nil {
		return nil, nil, errors.New(err).
			Component("analysis").
			Category(errors.CategoryConfiguration).
			Build()
	}
	log := cl.Module("squeakmerge").With(
		logger.String("run_id", uuid.NewString()),
		logger.String("version", buildinfo.Current().Version()))
	return cl, log, nil
}

// BuildCatalog loads the experiment configuration and catalogs its files.
func BuildCatalog(settings *conf.Settings, fs afero.Fs, log logger.Logger) (*catalog.Catalog, error) {
	if log == nil {
		log = logger.Discard()
	}
	if err := settings.RequireConfigFile(); err != nil {
		return nil, err
	}

	entries, err := experiment.Load(fs, settings.ConfigFile)
	if err != nil {
		return nil, err
	}
	groups := experiment.Groups(entries)
	log.Info("experiment configuration loaded",
		logger.String("file", settings.ConfigFile),
		logger.Int("entries", len(entries)),
		logger.Int("groups", len(groups)))

	return catalog.NewBuilder(fs, log).Build(groups)
}

// Merge builds the catalog, merges every sheet and writes both tables.
// Nothing is written when any spreadsheet fails to load.
func Merge(ctx context.Context, settings *conf.Settings, fs afero.Fs, log logger.Logger) (*Result, error) {
	if log == nil {
		log = logger.Discard()
	}
	cat, err := BuildCatalog(settings, fs, log)
	if err != nil {
		return nil, err
	}

	res, err := merge.New(calls.NewReader(fs, log), log).Run(ctx, cat)
	if err != nil {
		return nil, err
	}

	combinedPath, acceptedPath := settings.OutputNames()
	w := output.NewWriter(fs, log)
	if err := w.WriteCSV(combinedPath, res.Combined); err != nil {
		return nil, err
	}
	if err := w.WriteCSV(acceptedPath, res.Accepted); err != nil {
		return nil, err
	}

	return &Result{
		Result:       res,
		CombinedPath: combinedPath,
		AcceptedPath: acceptedPath,
		Catalog:      cat,
	}, nil
}

// ErrorFields describes err for logging. Enhanced errors add their category,
// component and context.
func ErrorFields(err error) []logger.Field {
	fields := []logger.Field{logger.Error(err)}
	var ee *errors.EnhancedError
	if !errors.As(err, &ee) {
		return fields
	}
	fields = append(fields,
		logger.String("category", string(ee.Category)),
		logger.String("component", ee.Component))
	ctx := ee.GetContext()
	for _, key := range slices.Sorted(maps.Keys(ctx)) {
		fields = append(fields, logger.String(key, fmt.Sprint(ctx[key])))
	}
	return fields
}
