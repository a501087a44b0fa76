// Package catalog maps subjects to the long and short call spreadsheets of
// each configured group.
package catalog

import (
	"github.com/tphakala/squeakmerge/internal/errors"
	"github.com/tphakala/squeakmerge/internal/metadata"
)

// ErrInvalidCallClass is returned by Register for a class other than long or short.
var ErrInvalidCallClass = errors.NewStd("call class must be long or short")

// Files is the per subject and group record. Empty paths mean absent.
type Files struct {
	LongFile          string `yaml:"long_file,omitempty"`
	ShortFile         string `yaml:"short_file,omitempty"`
	StimulusFrequency string `yaml:"mstim"`
}

// GroupFiles pairs a group name with its files.
type GroupFiles struct {
	Name string
	Files
}

// Entry holds every group registered for one subject.
type Entry struct {
	Subject metadata.Subject
	groups  map[string]*Files
	order   []string
}

// Groups returns the subject's groups in first-registration order.
func (e *Entry) Groups() []GroupFiles {
	out := make([]GroupFiles, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, GroupFiles{Name: name, Files: *e.groups[name]})
	}
	return out
}

// Skipped records a discovered file left out of the catalog.
type Skipped struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
}

// Catalog is built once by a Builder and read-only afterwards.
type Catalog struct {
	subjects   map[string]*Entry
	order      []string
	collisions int
	skipped    []Skipped
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{subjects: make(map[string]*Entry)}
}

// Register records path as the class file of subject in group.
//
// Last write wins: when the slot is already taken the previous path is
// replaced, the collision counter is incremented and the replaced path is
// returned. The stimulus frequency is recorded when the subject and group
// pair is first seen and is not changed by later registrations.
func (c *Catalog) Register(subject metadata.Subject, class metadata.CallClass, path, group, mstim string) (string, error) {
	if !class.Valid() {
		return "", errors.New(ErrInvalidCallClass).
			Component("catalog").
			Category(errors.CategoryValidation).
			Context("class", string(class)).
			Context("path", path).
			Build()
	}

	entry, ok := c.subjects[subject.ID]
	if !ok {
		entry = &Entry{Subject: subject, groups: make(map[string]*Files)}
		c.subjects[subject.ID] = entry
		c.order = append(c.order, subject.ID)
	}

	files, ok := entry.groups[group]
	if !ok {
		files = &Files{StimulusFrequency: mstim}
		entry.groups[group] = files
		entry.order = append(entry.order, group)
	}

	slot := &files.LongFile
	if class == metadata.ClassShort {
		slot = &files.ShortFile
	}

	replaced := *slot
	if replaced != "" {
		c.collisions++
	}
	*slot = path
	return replaced, nil
}

func (c *Catalog) skip(path, reason string) {
	c.skipped = append(c.skipped, Skipped{Path: path, Reason: reason})
}

// Subjects returns the entries in first-registration order.
func (c *Catalog) Subjects() []*Entry {
	out := make([]*Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.subjects[id])
	}
	return out
}

// Len returns the number of subjects.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Collisions returns how many registrations replaced an earlier file.
func (c *Catalog) Collisions() int {
	return c.collisions
}

// Skipped returns the files left out while building.
func (c *Catalog) Skipped() []Skipped {
	return c.skipped
}
