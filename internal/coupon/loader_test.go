package coupon

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGzippedCodes writes codes one per line into a gzipped temp file.
func writeGzippedCodes(t *testing.T, codes []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "codes.gz")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	gz := gzip.NewWriter(file)
	for _, code := range codes {
		_, err := gz.Write([]byte(code + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gz.Close())

	return path
}

func TestFileLoader_Load(t *testing.T) {
	path := writeGzippedCodes(t, []string{"LAUNCH2026", "WELCOME10", "", "  ", "LAUNCH2026"})

	loader := NewFileLoader(zerolog.Nop())
	set, err := loader.Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Contains("LAUNCH2026"))
	assert.True(t, set.Contains("WELCOME10"))
	assert.False(t, set.Contains("MISSING"))
	assert.ElementsMatch(t, []string{"LAUNCH2026", "WELCOME10"}, set.Codes())
}

func TestFileLoader_MissingFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "nope.gz"))
	assert.Error(t, err)
}

func TestFileLoader_NotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("CODE1\n"), 0o644))

	loader := NewFileLoader(zerolog.Nop())
	_, err := loader.Load(context.Background(), path)
	assert.Error(t, err)
}
