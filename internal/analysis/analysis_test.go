package analysis

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/squeakmerge/internal/calls"
	"github.com/tphakala/squeakmerge/internal/conf"
	"github.com/tphakala/squeakmerge/internal/errors"
	"github.com/tphakala/squeakmerge/internal/merge"
	"github.com/tphakala/squeakmerge/internal/testutil"
)

const experimentConfig = `[
	// one session
	{
		"2021-05-01": {
			"long_files_path": "data/long",
			"short_files_path": "data/short",
			"mstim_treatment": "10Hz",
		},
	},
]`

func fixture(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "experiments.json", []byte(experimentConfig), 0o644))

	testutil.WriteWorkbook(t, fs, "data/long/Str1_EtOH_CageA_long.xlsx",
		[]any{"", calls.ColumnBegin, calls.ColumnEnd, calls.ColumnAccepted, "Score"},
		[]any{0, 0, 5, true, 0.9},
		[]any{1, 10, 12, false, 0.2},
	)
	testutil.WriteWorkbook(t, fs, "data/short/Str1_EtOH_CageA_short.xlsx",
		[]any{"", calls.ColumnBegin, calls.ColumnEnd, calls.ColumnAccepted},
		[]any{0, 2, 3, true},
		[]any{1, 11, 13, true},
		[]any{2, 20, 21, false},
	)
	// no metadata in the name, skipped before it is ever opened
	require.NoError(t, afero.WriteFile(fs, "data/short/notes.xlsx", []byte("x"), 0o644))
	return fs
}

func readCSV(t *testing.T, fs afero.Fs, path string) [][]string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestMerge(t *testing.T) {
	t.Parallel()

	fs := fixture(t)
	settings := &conf.Settings{
		ConfigFile: "experiments.json",
		Output:     conf.OutputSettings{Dir: "out", Prefix: "run"},
	}

	res, err := Merge(context.Background(), settings, fs, nil)
	require.NoError(t, err)

	assert.Equal(t, "out/run_combined_calls.csv", res.CombinedPath)
	assert.Equal(t, "out/run_accepted_calls.csv", res.AcceptedPath)
	assert.Len(t, res.Catalog.Skipped(), 1)

	combined := readCSV(t, fs, res.CombinedPath)
	require.Len(t, combined, 6)

	header := combined[0]
	wantHeader := append([]string{"", calls.ColumnBegin, calls.ColumnEnd, calls.ColumnAccepted, "Score"}, merge.DerivedColumns...)
	assert.Equal(t, wantHeader, header)

	unique := len(header) - 1
	class := len(header) - 3
	var got [][2]string
	for _, rec := range combined[1:] {
		got = append(got, [2]string{rec[class], rec[unique]})
	}
	assert.Equal(t, [][2]string{
		{"Long", "True"},
		{"Long", "True"},
		{"Short", "False"},
		{"Short", "True"},
		{"Short", "True"},
	}, got)

	assert.Equal(t, []string{
		"0", "0", "5", "True", "0.9",
		"EtOH_CageA_Str1", "EtOH", "Str1", "CageA", "EtOH_CageA_Str1_10Hz",
		"10Hz", "2021-05-01", "Long", "EtOH_10Hz", "True",
	}, combined[1])
	// short sheets have no Score column
	assert.Empty(t, combined[3][4])

	accepted := readCSV(t, fs, res.AcceptedPath)
	require.Len(t, accepted, 3)
	assert.Equal(t, header, accepted[0])
	assert.Equal(t, "Long", accepted[1][class])
	assert.Equal(t, "Short", accepted[2][class])
	assert.Equal(t, "11", accepted[2][1])
}

func TestMergeDefaultNames(t *testing.T) {
	t.Parallel()

	fs := fixture(t)
	res, err := Merge(context.Background(), &conf.Settings{
		ConfigFile: "experiments.json",
		Output:     conf.OutputSettings{Dir: "."},
	}, fs, nil)
	require.NoError(t, err)

	assert.Equal(t, conf.DefaultCombinedName, res.CombinedPath)
	assert.Equal(t, conf.DefaultAcceptedName, res.AcceptedPath)
	exists, err := afero.Exists(fs, conf.DefaultAcceptedName)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMergeNoConfigFile(t *testing.T) {
	t.Parallel()

	_, err := Merge(context.Background(), &conf.Settings{Output: conf.OutputSettings{Dir: "."}}, afero.NewMemMapFs(), nil)
	require.ErrorIs(t, err, conf.ErrNoConfigFile)
}

func TestMergeUnreadableSheetWritesNothing(t *testing.T) {
	t.Parallel()

	fs := fixture(t)
	require.NoError(t, afero.WriteFile(fs, "data/short/Str2_AIR_CageB.xlsx", []byte("not a workbook"), 0o644))

	settings := &conf.Settings{ConfigFile: "experiments.json", Output: conf.OutputSettings{Dir: "out"}}
	_, err := Merge(context.Background(), settings, fs, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))

	exists, err := afero.DirExists(fs, "out")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBuildCatalogMissingDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "experiments.json", []byte(experimentConfig), 0o644))

	_, err := BuildCatalog(&conf.Settings{ConfigFile: "experiments.json"}, fs, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestErrorFields(t *testing.T) {
	t.Parallel()

	plain := ErrorFields(errors.NewStd("boom"))
	require.Len(t, plain, 1)
	assert.Equal(t, "error", plain[0].Key)
	assert.Equal(t, "boom", plain[0].Value)

	err := errors.New(errors.NewStd("missing")).
		Component("catalog").
		Category(errors.CategoryConfiguration).
		Context("group", "2021-05-01").
		Context("dir", "data/long").
		Build()
	fields := ErrorFields(fmt.Errorf("wrapped: %w", err))

	got := make(map[string]any, len(fields))
	var keys []string
	for _, f := range fields {
		got[f.Key] = f.Value
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"error", "category", "component", "dir", "group"}, keys)
	assert.Equal(t, "configuration", got["category"])
	assert.Equal(t, "catalog", got["component"])
	assert.Equal(t, "data/long", got["dir"])
	assert.Equal(t, "2021-05-01", got["group"])
}
