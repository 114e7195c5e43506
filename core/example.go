package core

// ExampleQuery is one entry in the curated query library. Selecting an
// example replaces the console's query text but never auto-executes.
type ExampleQuery struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Text        string `json:"text"`
	Description string `json:"description"`
}
