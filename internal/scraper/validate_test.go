package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeRaw_ObjectPayload(t *testing.T) {
	t.Parallel()

	data := []byte(`{"projects":[{"title":"T","description":"D","date":null,"author":null,"content":"C","tags":["a"]}]}`)

	raw, err := DecodeRaw(data)
	require.NoError(t, err)
	require.Len(t, raw.Projects, 1)
	require.Nil(t, raw.Projects[0].Date)
	require.Equal(t, "T", *raw.Projects[0].Title)
}

func TestDecodeRaw_BareArrayIsWrapped(t *testing.T) {
	t.Parallel()

	data := []byte(`[{"title":"T","content":"C","tags":[]}]`)

	raw, err := DecodeRaw(data)
	require.NoError(t, err)
	require.Len(t, raw.Projects, 1)
}

func TestDecodeRaw_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	data := []byte(`{"projects":[{"title":"T","summary":"nope"}]}`)

	_, err := DecodeRaw(data)
	require.Error(t, err)
}

func TestDecodeRaw_RejectsMistypedFields(t *testing.T) {
	t.Parallel()

	data := []byte(`{"projects":[{"title":42}]}`)

	_, err := DecodeRaw(data)
	require.Error(t, err)
}

func TestDecodeRaw_RejectsEmptyAndTrailingData(t *testing.T) {
	t.Parallel()

	_, err := DecodeRaw([]byte("  "))
	require.Error(t, err)

	_, err = DecodeRaw([]byte(`{"projects":[]} extra`))
	require.Error(t, err)
}

func TestValidate_NormalizedPayloadPasses(t *testing.T) {
	t.Parallel()

	raw := RawProjects{Projects: []RawProject{{}}}
	normalized := Normalize(raw, "https://example.com")

	require.NoError(t, Validate(normalized))
}

func TestValidate_NilTagsFails(t *testing.T) {
	t.Parallel()

	p := Projects{Projects: []Project{{Title: "T"}}}

	require.Error(t, Validate(p))
}

func TestValidate_MissingListFails(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(Projects{}))
}
