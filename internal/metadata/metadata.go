// Package metadata extracts experimental metadata (stripe, treatment, cage)
// from DeepSqueak output file names.
package metadata

import (
	"path/filepath"
	"regexp"

	"github.com/tphakala/squeakmerge/internal/errors"
)

// CallClass identifies which detector network produced a file.
type CallClass string

const (
	ClassLong  CallClass = "long"
	ClassShort CallClass = "short"
)

// Label returns the value written to the "Long or Short" output column.
func (c CallClass) Label() string {
	switch c {
	case ClassLong:
		return "Long"
	case ClassShort:
		return "Short"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the known call classes.
func (c CallClass) Valid() bool {
	return c == ClassLong || c == ClassShort
}

// ErrNoMatch is returned when a file name does not carry the
// Str<d>_<treatment>_Cage<w> pattern.
var ErrNoMatch = errors.NewStd("file name does not match Str<digit>_<treatment>_Cage<word> pattern")

// The treatment capture is greedy: it runs to the last "_Cage" anchor that
// still leaves a word character after it.
var subjectPattern = regexp.MustCompile(`(Str\d)_(.+)_(Cage\w)`)

// Subject identifies one animal and its experimental condition.
type Subject struct {
	ID        string `yaml:"id"`
	Stripe    string `yaml:"stripe"`
	Treatment string `yaml:"treatment"`
	Cage      string `yaml:"cage"`
}

// SubjectID builds the composite identifier treatment_cage_stripe.
func SubjectID(treatment, cage, stripe string) string {
	return treatment + "_" + cage + "_" + stripe
}

// Extract parses the base name of path. On failure the returned error wraps
// ErrNoMatch; callers are expected to skip the file and continue.
func Extract(path string) (Subject, error) {
	name := filepath.Base(path)
	m := subjectPattern.FindStringSubmatch(name)
	if m == nil {
		return Subject{}, errors.New(ErrNoMatch).
			Component("metadata").
			Category(errors.CategoryFileParsing).
			Context("file", name).
			Build()
	}

	stripe, treatment, cage := m[1], m[2], m[3]
	return Subject{
		ID:        SubjectID(treatment, cage, stripe),
		Stripe:    stripe,
		Treatment: treatment,
		Cage:      cage,
	}, nil
}
