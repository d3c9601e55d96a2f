package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solareda/internal/shared/testutil"
	"solareda/pkg/contracts"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEDAReport(t *testing.T) {
	dir := t.TempDir()

	t.Run("full station export", func(t *testing.T) {
		path := testutil.WriteCSVFixture(t, dir, "benin-malanville.csv", testutil.SolarHeader, testutil.SolarRecords())

		out, _, err := execute(t, path)
		require.NoError(t, err)

		assert.Contains(t, out, "Dataset: benin-malanville.csv (6 rows, 19 columns)")
		for _, section := range []string{"Schema", "Descriptive statistics", "Summary statistics",
			"Missing values", "Negative values", "Negative-row filter", "Wind", "Temperature"} {
			assert.Contains(t, out, section)
		}
		assert.NotContains(t, out, "Skipped sections")
	})

	t.Run("xlsx input", func(t *testing.T) {
		path := testutil.WriteXLSXFixture(t, dir, "togo-dapaong.xlsx", testutil.SolarHeader, testutil.SolarRecords())

		out, _, err := execute(t, path)
		require.NoError(t, err)
		assert.Contains(t, out, "Dataset: togo-dapaong.xlsx (6 rows, 19 columns)")
	})

	t.Run("optional sections skipped", func(t *testing.T) {
		header := []string{"Timestamp", "GHI", "DNI", "DHI"}
		records := [][]string{
			{"2021-08-09 12:00", "812.5", "640.1", "210.3"},
			{"2021-08-09 00:01", "-1.2", "-0.2", "-1.1"},
		}
		path := testutil.WriteCSVFixture(t, dir, "irradiance.csv", header, records)

		out, _, err := execute(t, path)
		require.NoError(t, err)
		assert.Contains(t, out, "Skipped sections")
		assert.Contains(t, out, "wind")
		assert.Contains(t, out, "temperature")
	})
}

func TestEDAFailures(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"does-not-exist.csv"}},
		{"unsupported format", []string{"notes.txt"}},
		{"too many arguments", []string{"a.csv", "b.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := execute(t, tt.args...)
			assert.Error(t, err)
			assert.Empty(t, out)
			assert.Contains(t, errOut, "Error:")
		})
	}
}

func TestEDAVersion(t *testing.T) {
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "eda version "+contracts.Version)
}
