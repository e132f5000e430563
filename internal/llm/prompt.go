package llm

// extractionPrompt instructs the model to organize page content into the
// fixed Projects shape. Absent fields come back as empty strings so the
// normalizer has less to repair.
const extractionPrompt = `You organize scraped web content into structured JSON with the following fields:

1. "title": the main title or headline of the page.
2. "description": a brief summary or description of the content.
3. "date": the date when the content was published or last updated.
4. "author": the name of the author or organization that published the content.
5. "content": the main body of the content, organized into paragraphs or sections.
6. "tags": relevant tags or categories that describe the content.

Categorize the information accurately and keep only content that is valuable and relevant. If a field is not available, return an empty string for it (an empty list for "tags"). Respond with a JSON object of the form:

{"projects": [{"title": "...", "description": "...", "date": "...", "author": "...", "content": "...", "tags": ["..."]}]}

with one object per page. Respond with JSON only, no prose.`

// projectsSchema is the JSON schema sent with the structured-output
// request. Models that honor json_schema response formats are forced
// into the exact Projects shape.
func projectsSchema() map[string]any {
	projectProperties := map[string]any{
		"title":       map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"date":        map[string]any{"type": "string"},
		"author":      map[string]any{"type": "string"},
		"content":     map[string]any{"type": "string"},
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"projects": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"properties":           projectProperties,
					"required":             []string{"title", "description", "date", "author", "content", "tags"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"projects"},
		"additionalProperties": false,
	}
}
