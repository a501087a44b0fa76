package experiment

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/squeakmerge/internal/errors"
)

const sampleConfig = `[
	// first week
	{
		"2021-05-01": {
			"long_files_path": "data/0501/long/",
			"short_files_path": "data/0501/short/",
			"mstim_treatment": "10Hz",
		},
		"2021-04-01": {
			"long_files_path": "data/0401/long/",
			"short_files_path": "data/0401/short/",
			"mstim_treatment": "Sham",
		},
	},
	/* second week */
	{
		"2021-05-08": {
			"long_files_path": "data/0508/long/",
			"short_files_path": "data/0508/short/",
			"mstim_treatment": "20Hz"
		}
	},
]`

func TestParsePreservesOrder(t *testing.T) {
	t.Parallel()

	entries, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Len(t, entries[0].Groups, 2)
	assert.Equal(t, Group{
		Name:              "2021-05-01",
		LongFilesPath:     "data/0501/long/",
		ShortFilesPath:    "data/0501/short/",
		StimulusFrequency: "10Hz",
	}, entries[0].Groups[0])
	assert.Equal(t, "2021-04-01", entries[0].Groups[1].Name)
	assert.Equal(t, "Sham", entries[0].Groups[1].StimulusFrequency)

	groups := Groups(entries)
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"2021-05-01", "2021-04-01", "2021-05-08"}, names)
}

func TestParseJSON5(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Group
	}{
		{
			name:  "single quotes",
			input: `[{'g1': {'long_files_path': 'a/', 'short_files_path': 'b/', 'mstim_treatment': '10Hz'}}]`,
			want:  []Group{{Name: "g1", LongFilesPath: "a/", ShortFilesPath: "b/", StimulusFrequency: "10Hz"}},
		},
		{
			name:  "unquoted keys",
			input: `[{g1: {long_files_path: "a/", short_files_path: "b/", mstim_treatment: "10Hz"}}]`,
			want:  []Group{{Name: "g1", LongFilesPath: "a/", ShortFilesPath: "b/", StimulusFrequency: "10Hz"}},
		},
		{
			name: "groups ordered by name",
			input: `[
				// second session first
				{
					g2: {long_files_path: 'l2/', short_files_path: 's2/', mstim_treatment: 'Sham',},
					g1: {long_files_path: 'l1/', short_files_path: 's1/', mstim_treatment: '10Hz'},
				},
				{g3: {long_files_path: 'l3/', short_files_path: 's3/', mstim_treatment: '20Hz'}},
			]`,
			want: []Group{
				{Name: "g1", LongFilesPath: "l1/", ShortFilesPath: "s1/", StimulusFrequency: "10Hz"},
				{Name: "g2", LongFilesPath: "l2/", ShortFilesPath: "s2/", StimulusFrequency: "Sham"},
				{Name: "g3", LongFilesPath: "l3/", ShortFilesPath: "s3/", StimulusFrequency: "20Hz"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			entries, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, Groups(entries))
		})
	}
}

func TestParseJSON5Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"missing mstim", `[{g: {long_files_path: 'a', short_files_path: 'b'}}]`, "mstim_treatment"},
		{"not a string", `[{g: {long_files_path: 'a', short_files_path: 'b', mstim_treatment: 10}}]`, "must be a string"},
		{"unterminated", `[{g: {long_files_path: 'a`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLeavesInputUntouched(t *testing.T) {
	t.Parallel()

	data := []byte(sampleConfig)
	_, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, sampleConfig, string(data))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"not an array", `{"a": {}}`, "expected"},
		{"entry not an object", `["x"]`, "entry 0"},
		{"missing mstim", `[{"g": {"long_files_path": "a", "short_files_path": "b"}}]`, "mstim_treatment"},
		{"missing long path", `[{"g": {"short_files_path": "b", "mstim_treatment": "c"}}]`, "long_files_path"},
		{"group not an object", `[{"g": "oops"}]`, `group "g"`},
		{"trailing data", `[] []`, ""},
		{"malformed", `[{"g": }]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseEmptyArray(t *testing.T) {
	t.Parallel()

	entries, err := Parse([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "experiments.json", []byte(sampleConfig), 0o644))

	entries, err := Load(fs, "experiments.json")
	require.NoError(t, err)
	assert.Len(t, Groups(entries), 3)

	_, err = Load(fs, "missing.json")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	require.NoError(t, afero.WriteFile(fs, "bad.json", []byte(`[{]`), 0o644))
	_, err = Load(fs, "bad.json")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}
