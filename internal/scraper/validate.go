package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeRaw strictly decodes an LLM response body into RawProjects.
// Unknown keys or mistyped fields are schema violations. A bare JSON
// array is accepted and wrapped, since smaller models often omit the
// top-level object.
func DecodeRaw(data []byte) (RawProjects, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return RawProjects{}, fmt.Errorf("empty extraction result")
	}

	if trimmed[0] == '[' {
		var list []RawProject
		if err := strictDecode(trimmed, &list); err != nil {
			return RawProjects{}, fmt.Errorf("decode project list: %w", err)
		}
		return RawProjects{Projects: list}, nil
	}

	var raw RawProjects
	if err := strictDecode(trimmed, &raw); err != nil {
		return RawProjects{}, fmt.Errorf("decode projects object: %w", err)
	}
	return raw, nil
}

// Validate checks a normalized payload against the fixed Projects schema.
func Validate(p Projects) error {
	if p.Projects == nil {
		return fmt.Errorf("projects list is missing")
	}
	for i, project := range p.Projects {
		if project.Tags == nil {
			return fmt.Errorf("project %d: tags must not be null", i)
		}
	}
	return nil
}

func strictDecode(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Trailing content after the first JSON value means the model kept
	// talking; treat it the same as a malformed document.
	if dec.More() {
		return fmt.Errorf("trailing data after JSON document")
	}
	return nil
}
