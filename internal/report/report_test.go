package report

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/squeakmerge/internal/calls"
	"github.com/tphakala/squeakmerge/internal/catalog"
	"github.com/tphakala/squeakmerge/internal/experiment"
	"github.com/tphakala/squeakmerge/internal/merge"
	"github.com/tphakala/squeakmerge/internal/metadata"
)

func buildCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, p := range []string{
		"long/Str1_AIR_CageA.xlsx",
		"short/Str1_AIR_CageA.xlsx",
		"short/Str2_EtOH_CageB.xlsx",
		"short/session.xlsx",
	} {
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0o644))
	}

	cat, err := catalog.NewBuilder(fs, nil).Build([]experiment.Group{
		{Name: "2021-05-01", LongFilesPath: "long", ShortFilesPath: "short", StimulusFrequency: "10Hz"},
	})
	require.NoError(t, err)
	return cat
}

func TestCatalogTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Catalog(&buf, buildCatalog(t), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "AIR_CageA_Str1")
	assert.Contains(t, out, "EtOH_CageB_Str2")
	assert.Contains(t, out, "long/Str1_AIR_CageA.xlsx")
	assert.Contains(t, out, "1 files skipped")
	assert.Contains(t, out, "short/session.xlsx")
	assert.Contains(t, out, "2 subjects, 0 replaced files")
}

func TestCatalogYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Catalog(&buf, buildCatalog(t), FormatYAML))

	var doc catalogDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Subjects, 2)
	assert.Equal(t, "AIR_CageA_Str1", doc.Subjects[0].ID)
	assert.Equal(t, "Str1", doc.Subjects[0].Stripe)
	require.Len(t, doc.Subjects[0].Groups, 1)
	assert.Equal(t, groupDoc{
		Name: "2021-05-01",
		Files: catalog.Files{
			LongFile:          "long/Str1_AIR_CageA.xlsx",
			ShortFile:         "short/Str1_AIR_CageA.xlsx",
			StimulusFrequency: "10Hz",
		},
	}, doc.Subjects[0].Groups[0])
	assert.Empty(t, doc.Subjects[1].Groups[0].LongFile)
	require.Len(t, doc.Skipped, 1)
	assert.Equal(t, "short/session.xlsx", doc.Skipped[0].Path)

	assert.NotContains(t, buf.String(), "long_file: \"\"")
}

func TestCatalogUnknownFormat(t *testing.T) {
	t.Parallel()

	err := Catalog(&bytes.Buffer{}, catalog.New(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestSummary(t *testing.T) {
	t.Parallel()

	combined := merge.NewTable()
	sheet := &calls.Sheet{
		Columns: []string{"", calls.ColumnBegin, calls.ColumnEnd, calls.ColumnAccepted},
		Calls: []calls.Call{
			{Begin: 0, End: 1, Accepted: true, Values: []string{"0", "0", "1", "True"}},
			{Begin: 2, End: 3, Accepted: false, Values: []string{"1", "2", "3", "False"}},
		},
	}
	combined.Append(sheet, merge.Annotation{Class: metadata.ClassShort}, []bool{true, true})

	res := &merge.Result{
		Combined: combined,
		Accepted: combined.Filter(merge.AcceptedAndUnique),
		Groups: []merge.GroupSummary{{
			Subject:           "AIR_CageA_Str1",
			Group:             "2021-05-01",
			StimulusFrequency: "Sham",
			HasShort:          true,
			ShortCalls:        2,
			ShortUnique:       2,
			AcceptedUnique:    1,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "AIR_CageA_Str1")
	assert.Contains(t, out, "Sham")
	assert.Contains(t, out, "2 combined rows, 1 accepted and unique rows")
}
