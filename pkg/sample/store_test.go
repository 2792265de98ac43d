package sample

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Open(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titanic.csv")
	content := []byte("PassengerId,Survived\n1,0\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	asset, err := LocalStore{Path: path}.Open(context.Background())
	require.NoError(t, err)
	defer asset.Body.Close()

	got, err := io.ReadAll(asset.Body)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, "titanic.csv", asset.Name)
	assert.Equal(t, int64(len(content)), asset.Size)
}

func TestLocalStore_Missing(t *testing.T) {
	_, err := LocalStore{Path: filepath.Join(t.TempDir(), "nope.csv")}.Open(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewS3Store_Validation(t *testing.T) {
	_, err := NewS3Store(S3Config{Bucket: "b", Object: "o"})
	assert.Error(t, err)

	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000", Object: "o"})
	assert.Error(t, err)

	s, err := NewS3Store(S3Config{Endpoint: "localhost:9000", Bucket: "samples", Object: "data/titanic.csv"})
	require.NoError(t, err)
	assert.Equal(t, "samples", s.bucket)
}
