package models

// SearchParams captures the normalized inputs handed to a single provider or scraper call.
type SearchParams struct {
	Query    string
	Location string
	Platform string
	Limit    int
	DaysAgo  int
}

// SearchCriteria is what the user fills in before a search.
type SearchCriteria struct {
	Keywords        string   `json:"keywords"`
	Location        string   `json:"location"`
	JobTypes        []string `json:"job_types,omitempty"`
	Experience      string   `json:"experience,omitempty"`
	Recency         string   `json:"recency,omitempty"`
	Platforms       []string `json:"platforms,omitempty"`
	JobsPerPlatform int      `json:"jobs_per_platform,omitempty"`
	UseAPI          bool     `json:"use_api"`
}
