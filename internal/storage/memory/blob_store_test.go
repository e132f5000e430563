package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutObject_StoresCopyAndReturnsURI(t *testing.T) {
	t.Parallel()

	s := NewBlobStore()
	body := []byte("<html>snapshot</html>")

	uri, err := s.PutObject(context.Background(), "pages/abc.html", "text/html", body)
	require.NoError(t, err)
	require.Equal(t, "memory://pages/abc.html", uri)

	// Mutating the caller's slice must not affect the stored copy.
	body[0] = 'X'
	stored, ok := s.GetObject("pages/abc.html")
	require.True(t, ok)
	require.Equal(t, byte('<'), stored[0])
}

func TestPutObject_EmptyPathFails(t *testing.T) {
	t.Parallel()

	s := NewBlobStore()
	_, err := s.PutObject(context.Background(), "", "text/html", []byte("x"))
	require.Error(t, err)
}
