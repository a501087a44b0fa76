package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/tphakala/squeakmerge/internal/errors"
	"github.com/tphakala/squeakmerge/internal/experiment"
	"github.com/tphakala/squeakmerge/internal/logger"
	"github.com/tphakala/squeakmerge/internal/metadata"
)

// spreadsheetPattern matches DeepSqueak exports directly inside a directory.
const spreadsheetPattern = "*.xlsx"

// excelLockPrefix marks the owner files Excel leaves next to open workbooks.
const excelLockPrefix = "~$"

// Builder discovers spreadsheets and fills a Catalog.
type Builder struct {
	fs  afero.Fs
	log logger.Logger
}

// NewBuilder returns a builder reading directories from fs.
func NewBuilder(fs afero.Fs, log logger.Logger) *Builder {
	if log == nil {
		log = logger.Discard()
	}
	return &Builder{fs: fs, log: log.Module("catalog")}
}

// Build scans every group's long and short directories in order.
// A missing directory aborts the build; a file whose name carries no
// metadata is logged and skipped.
func (b *Builder) Build(groups []experiment.Group) (*Catalog, error) {
	c := New()
	for _, g := range groups {
		if err := b.scan(c, g, metadata.ClassLong, g.LongFilesPath); err != nil {
			return nil, err
		}
		if err := b.scan(c, g, metadata.ClassShort, g.ShortFilesPath); err != nil {
			return nil, err
		}
	}

	b.log.Info("catalog built",
		logger.Int("subjects", c.Len()),
		logger.Int("skipped", len(c.skipped)),
		logger.Int("collisions", c.collisions))
	return c, nil
}

func (b *Builder) scan(c *Catalog, g experiment.Group, class metadata.CallClass, dir string) error {
	paths, err := b.listSpreadsheets(dir)
	if err != nil {
		return errors.New(fmt.Errorf("group %q %s files: %w", g.Name, class, err)).
			Component("catalog").
			Category(errors.CategoryConfiguration).
			Context("group", g.Name).
			Context("dir", dir).
			Build()
	}

	b.log.Debug("scanning directory",
		logger.String("group", g.Name),
		logger.String("class", string(class)),
		logger.String("dir", dir),
		logger.Int("files", len(paths)))

	for _, path := range paths {
		b.add(c, path, class, g)
	}
	return nil
}

// add registers one file. Nothing here is fatal.
func (b *Builder) add(c *Catalog, path string, class metadata.CallClass, g experiment.Group) {
	subject, err := metadata.Extract(path)
	if err != nil {
		b.log.Warn("No information was obtained for file",
			logger.String("file", path),
			logger.String("group", g.Name))
		c.skip(path, err.Error())
		return
	}

	replaced, err := c.Register(subject, class, path, g.Name, g.StimulusFrequency)
	if err != nil {
		b.log.Error("file not registered", logger.String("file", path), logger.Error(err))
		return
	}
	if replaced != "" {
		b.log.Warn("file replaces an earlier match for the same subject and group",
			logger.String("subject", subject.ID),
			logger.String("group", g.Name),
			logger.String("class", string(class)),
			logger.String("replaced", replaced),
			logger.String("file", path))
	}
}

// listSpreadsheets returns the .xlsx files directly inside dir, sorted by name.
func (b *Builder) listSpreadsheets(dir string) ([]string, error) {
	ok, err := afero.DirExists(b.fs, dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(fmt.Errorf("directory %s does not exist", dir)).
			Category(errors.CategoryNotFound).
			Build()
	}

	matches, err := afero.Glob(b.fs, filepath.Join(dir, spreadsheetPattern))
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), excelLockPrefix) {
			b.log.Debug("ignoring Excel lock file", logger.String("file", m))
			continue
		}
		if isDir, err := afero.IsDir(b.fs, m); err != nil || isDir {
			continue
		}
		paths = append(paths, m)
	}
	return paths, nil
}
