package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	large := make([]byte, 1024*1024)
	for i := range large {
		large[i] = byte('a' + (i % 26))
	}

	tests := []struct {
		name    string
		content []byte
	}{
		{name: "cfg file", content: []byte("app_name = reporter\n\n[database]\ndb_server = db1\n")},
		{name: "empty file", content: []byte{}},
		{name: "large file", content: large},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), "service.cfg", string(tt.content))

			fetcher, err := NewFetcher(path)()
			require.NoError(t, err)
			assert.Equal(t, path, fetcher.Path())

			data, err := fetcher.Fetch()
			require.NoError(t, err)
			assert.Equal(t, tt.content, data)
		})
	}
}

func TestNewFetcher_Errors(t *testing.T) {
	t.Parallel()

	fetcher, err := NewFetcher("/nonexistent/path/service.cfg")()
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, fetcher)
	assert.Contains(t, err.Error(), "stat file")

	fetcher, err = NewFetcher(t.TempDir())()
	require.ErrorIs(t, err, ErrPathIsDirectory)
	assert.Nil(t, fetcher)
}

func TestNewFetcher_CleansPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "service.cfg", "a = 1\n")

	fetcher, err := NewFetcher(dir + "/./nested/../service.cfg")()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "service.cfg"), fetcher.Path())
}

func TestFetcher_Fetch_Cached(t *testing.T) {
	t.Parallel()

	original := []byte("version = 1\n")
	path := writeFile(t, t.TempDir(), "service.cfg", string(original))

	fetcher, err := NewFetcher(path)()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("version = 2\n"), 0o600))

	data, err := fetcher.Fetch()
	require.NoError(t, err)
	assert.Equal(t, original, data, "Fetch should return the data read at construction")

	data[0] = 'X'

	again, err := fetcher.Fetch()
	require.NoError(t, err)
	assert.Equal(t, original, again, "mutating a returned slice must not change the cache")
}
