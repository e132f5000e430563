package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalize_FillsMissingFieldsWithDefaults(t *testing.T) {
	t.Parallel()

	raw := RawProjects{Projects: []RawProject{
		{
			Title: strPtr("Example Title"),
			Tags:  nil,
		},
	}}

	got := Normalize(raw, "https://example.com/post")

	require.Len(t, got.Projects, 1)
	p := got.Projects[0]
	require.Equal(t, "Example Title", p.Title)
	require.Equal(t, "", p.Description)
	require.Equal(t, "", p.Date)
	require.Equal(t, "", p.Author)
	require.Equal(t, "", p.Content)
	require.NotNil(t, p.Tags)
	require.Empty(t, p.Tags)
	require.Equal(t, "https://example.com/post", p.URL)
}

func TestNormalize_KeepsPopulatedFields(t *testing.T) {
	t.Parallel()

	raw := RawProjects{Projects: []RawProject{
		{
			Title:       strPtr("Title"),
			Description: strPtr("Desc"),
			Date:        strPtr("2024-06-24"),
			Author:      strPtr("Jane Doe"),
			Content:     strPtr("Body"),
			Tags:        []string{"tag1", "tag2"},
			URL:         strPtr("https://other.example.com"),
		},
	}}

	got := Normalize(raw, "https://source.example.com")

	p := got.Projects[0]
	require.Equal(t, "2024-06-24", p.Date)
	require.Equal(t, "Jane Doe", p.Author)
	require.Equal(t, []string{"tag1", "tag2"}, p.Tags)
	// An explicit url from the model wins over the source URL.
	require.Equal(t, "https://other.example.com", p.URL)
}

func TestNormalize_EmptyInputYieldsEmptyList(t *testing.T) {
	t.Parallel()

	got := Normalize(RawProjects{}, "https://example.com")

	require.NotNil(t, got.Projects)
	require.Empty(t, got.Projects)
}

func TestMerge_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	a := Projects{Projects: []Project{{Title: "first"}}}
	b := Projects{Projects: []Project{{Title: "second"}, {Title: "third"}}}

	merged := Merge([]Projects{a, b})

	require.Len(t, merged.Projects, 3)
	require.Equal(t, "first", merged.Projects[0].Title)
	require.Equal(t, "third", merged.Projects[2].Title)
}
