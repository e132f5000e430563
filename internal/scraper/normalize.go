package scraper

// Normalize converts raw LLM output into canonical Projects, filling any
// missing field with its type-appropriate default so validation never
// fails on absent keys. It is a pure transformation.
func Normalize(raw RawProjects, sourceURL string) Projects {
	out := Projects{Projects: make([]Project, 0, len(raw.Projects))}
	for _, rp := range raw.Projects {
		p := Project{
			Title:       stringOrEmpty(rp.Title),
			Description: stringOrEmpty(rp.Description),
			Date:        stringOrEmpty(rp.Date),
			Author:      stringOrEmpty(rp.Author),
			Content:     stringOrEmpty(rp.Content),
			Tags:        rp.Tags,
			URL:         stringOrEmpty(rp.URL),
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		if p.URL == "" {
			p.URL = sourceURL
		}
		out.Projects = append(out.Projects, p)
	}
	return out
}

// Merge concatenates per-URL results in input order into one payload.
func Merge(results []Projects) Projects {
	merged := Projects{Projects: []Project{}}
	for _, r := range results {
		merged.Projects = append(merged.Projects, r.Projects...)
	}
	return merged
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
