package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photos.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadReferencePhotos(t *testing.T) {
	path := writeFile(t, "photos:\n  keys: https://img/keys.jpg\n  other: https://img/other.jpg\n")
	photos, err := LoadReferencePhotos(path)
	require.NoError(t, err)
	assert.Equal(t, "https://img/keys.jpg", photos["keys"])
	assert.Equal(t, "https://img/other.jpg", photos["other"])
}

func TestLoadReferencePhotos_Errors(t *testing.T) {
	_, err := LoadReferencePhotos(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadReferencePhotos(writeFile(t, "photos: [not, a, map]\n"))
	assert.Error(t, err)

	_, err = LoadReferencePhotos(writeFile(t, "photos:\n  keys: https://img/keys.jpg\n"))
	assert.ErrorContains(t, err, `no "other" entry`)
}
