// Package experiment loads the experiment configuration: an ordered list of
// entries, each mapping group names to the directories holding the long and
// short call spreadsheets of that group.
//
// The document is JSON5. Comments and trailing commas are the common case:
//
//	[
//	  {
//	    // first session
//	    "2021-05-01": {
//	      "long_files_path": "data/0501/long/",
//	      "short_files_path": "data/0501/short/",
//	      "mstim_treatment": "10Hz",
//	    },
//	  },
//	]
//
// Such documents keep the group order of each entry. Documents that need the
// rest of JSON5, such as single-quoted strings or unquoted keys, are decoded
// too, and their groups are ordered by name.
package experiment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/afero"
	"github.com/tailscale/hujson"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/tphakala/squeakmerge/internal/errors"
)

// Group is one configured unit of work.
type Group struct {
	Name              string
	LongFilesPath     string
	ShortFilesPath    string
	StimulusFrequency string
}

// Entry is one object of the top-level array. Groups keep document order.
type Entry struct {
	Groups []Group
}

type groupSpec struct {
	LongFilesPath  *string `json:"long_files_path"`
	ShortFilesPath *string `json:"short_files_path"`
	MstimTreatment *string `json:"mstim_treatment"`
}

// Load reads and parses the experiment configuration at path.
func Load(fs afero.Fs, path string) ([]Entry, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("reading experiment config: %w", err)).
			Component("experiment").
			Category(errors.CategoryConfiguration).
			Context("path", path).
			Build()
	}

	entries, err := Parse(data)
	if err != nil {
		return nil, errors.New(fmt.Errorf("parsing experiment config %s: %w", path, err)).
			Component("experiment").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return entries, nil
}

// Parse decodes an experiment configuration document.
func Parse(data []byte) ([]Entry, error) {
	// Standardize rewrites its input in place.
	std, err := hujson.Standardize(slices.Clone(data))
	if err != nil {
		return parseJSON5(data)
	}
	return parseStandard(std)
}

// parseStandard walks a standard JSON document token by token.
func parseStandard(std []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(std))
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var entries []Entry
	for dec.More() {
		entry, err := parseEntry(dec, len(entries))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.NewStd("unexpected data after top-level array")
	}
	return entries, nil
}

// parseEntry walks the keys of one object so group order is preserved.
func parseEntry(dec *json.Decoder, index int) (Entry, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return Entry{}, fmt.Errorf("entry %d: %w", index, err)
	}

	var entry Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Entry{}, fmt.Errorf("entry %d: %w", index, err)
		}
		name, ok := tok.(string)
		if !ok {
			return Entry{}, fmt.Errorf("entry %d: expected group name, got %v", index, tok)
		}

		var spec groupSpec
		if err := dec.Decode(&spec); err != nil {
			return Entry{}, fmt.Errorf("entry %d group %q: %w", index, name, err)
		}
		group, err := spec.toGroup(name)
		if err != nil {
			return Entry{}, fmt.Errorf("entry %d: %w", index, err)
		}
		entry.Groups = append(entry.Groups, group)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return Entry{}, fmt.Errorf("entry %d: %w", index, err)
	}
	return entry, nil
}

// parseJSON5 decodes documents outside the JSON-with-comments subset.
func parseJSON5(data []byte) ([]Entry, error) {
	var doc []map[string]map[string]any
	if err := json5.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(doc))
	for i, obj := range doc {
		var entry Entry
		for _, name := range slices.Sorted(maps.Keys(obj)) {
			spec, err := specFromMap(obj[name])
			if err != nil {
				return nil, fmt.Errorf("entry %d group %q: %w", i, name, err)
			}
			group, err := spec.toGroup(name)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			entry.Groups = append(entry.Groups, group)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func specFromMap(m map[string]any) (groupSpec, error) {
	var spec groupSpec
	for _, field := range []struct {
		key string
		dst **string
	}{
		{"long_files_path", &spec.LongFilesPath},
		{"short_files_path", &spec.ShortFilesPath},
		{"mstim_treatment", &spec.MstimTreatment},
	} {
		v, ok := m[field.key]
		if !ok {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return groupSpec{}, fmt.Errorf("%s must be a string, got %v", field.key, v)
		}
		*field.dst = &str
	}
	return spec, nil
}

func (s groupSpec) toGroup(name string) (Group, error) {
	missing := func(field string) error {
		return errors.New(fmt.Errorf("group %q: missing %s", name, field)).
			Component("experiment").
			Category(errors.CategoryValidation).
			Build()
	}
	switch {
	case s.LongFilesPath == nil:
		return Group{}, missing("long_files_path")
	case s.ShortFilesPath == nil:
		return Group{}, missing("short_files_path")
	case s.MstimTreatment == nil:
		return Group{}, missing("mstim_treatment")
	}
	return Group{
		Name:              name,
		LongFilesPath:     *s.LongFilesPath,
		ShortFilesPath:    *s.ShortFilesPath,
		StimulusFrequency: *s.MstimTreatment,
	}, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// Groups flattens entries into one ordered list.
func Groups(entries []Entry) []Group {
	var groups []Group
	for _, e := range entries {
		groups = append(groups, e.Groups...)
	}
	return groups
}
