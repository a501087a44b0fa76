// Package testutil provides shared test utilities for squeakmerge.
// These helpers reduce duplication across test files and ensure consistent test patterns.
package testutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the first worksheet of a new excelize workbook.
const DefaultSheet = "Sheet1"

// WriteWorkbook writes an xlsx file with rows on its first sheet, starting at A1.
func WriteWorkbook(t *testing.T, fs afero.Fs, path string, rows ...[]any) {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(DefaultSheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, path, buf.Bytes(), 0o644))
}

// Touch creates files holding placeholder content, for tests that only
// look at names.
func Touch(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0o644))
	}
}
