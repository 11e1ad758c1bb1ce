package search

import "context"

// Result is a single ranked search hit. Ordering follows provider relevance;
// results are not deduplicated.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider issues one outbound web search per call.
//
// Search never fails from the caller's point of view: network, parsing, and
// rate-limit problems are logged and yield an empty slice, so one bad query
// cannot abort a research batch. Callers must throttle externally; providers
// add their own client-side throttle as a second line of defense.
type Provider interface {
	Search(ctx context.Context, query string, limit int) []Result
}
