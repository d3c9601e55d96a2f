package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "solareda/internal/errors"
	"solareda/internal/validation"
)

func touch(t *testing.T, dir, name string, mod time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("GHI\n1\n"), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestDiscovery_FindDatasets(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	touch(t, dir, "togo-dapaong.csv", base)
	touch(t, dir, "benin-malanville.csv", base.Add(time.Hour))
	touch(t, dir, "sierraleone.xlsx", base.Add(2*time.Hour))
	touch(t, dir, "notes.txt", base)
	touch(t, dir, "~$sierraleone.xlsx", base)
	touch(t, dir, "report.pdf", base)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.csv"), 0755))

	files, err := NewDiscovery(dir).FindDatasets()
	require.NoError(t, err)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"benin-malanville.csv", "sierraleone.xlsx", "togo-dapaong.csv"}, names)
	assert.Equal(t, validation.FormatXLSX, files[1].Format)
	assert.Equal(t, filepath.Join(dir, "benin-malanville.csv"), files[0].Path)
	assert.EqualValues(t, 6, files[0].Size)

	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, "sierraleone.xlsx", latest.Name)
}

func TestDiscovery_FindDatasets_MissingDir(t *testing.T) {
	files, err := NewDiscovery(filepath.Join(t.TempDir(), "absent")).FindDatasets()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscovery_Resolve(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "benin.csv", time.Now())
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.csv"), 0755))
	d := NewDiscovery(dir)

	path, err := d.Resolve("benin.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "benin.csv"), path)

	tests := []struct {
		name    string
		errType apperrors.ErrorType
	}{
		{"", apperrors.ErrTypeValidation},
		{"../benin.csv", apperrors.ErrTypeValidation},
		{"sub/benin.csv", apperrors.ErrTypeValidation},
		{"..", apperrors.ErrTypeValidation},
		{"notes.txt", apperrors.ErrTypeValidation},
		{"missing.csv", apperrors.ErrTypeNotFound},
		{"folder.csv", apperrors.ErrTypeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Resolve(tt.name)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.errType), err.Error())
		})
	}
}

func TestGetLatestFile_Empty(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)
}
