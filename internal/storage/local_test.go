package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutDelete(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/files/")
	require.NoError(t, err)

	key := NewKey("vehicles", "jpg")
	assert.True(t, strings.HasPrefix(key, "vehicles/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	require.NoError(t, s.Put(key, []byte("data")))

	full, err := s.FullPath(key)
	require.NoError(t, err)
	content, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	assert.Equal(t, "http://localhost:8080/files/"+key, s.URL(key))

	require.NoError(t, s.Delete(key))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Delete(key), "deleting a missing object is not an error")
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	for _, key := range []string{"../etc/passwd", "vehicles/../../x", "", "/"} {
		_, err := s.FullPath(key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestImageExtension(t *testing.T) {
	ext, ok := ImageExtension("image/PNG")
	assert.True(t, ok)
	assert.Equal(t, ".png", ext)

	_, ok = ImageExtension("application/pdf")
	assert.False(t, ok)
}
