package core

// Snapshot identifies one immutable database file. A new revision always
// means a new Snapshot value; the URL is never re-resolved in place.
type Snapshot struct {
	URL        string `json:"url"`
	RevisionID string `json:"revisionId"`
}

// Resolved reports whether the snapshot has a fetchable URL. An
// unresolved snapshot leaves the session unloaded and surfaces a
// "source unavailable" state instead of attempting a fetch.
func (s Snapshot) Resolved() bool {
	return s.URL != ""
}
