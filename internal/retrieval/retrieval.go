package retrieval

import "context"

// Retriever fetches resume passages relevant to a query. The core treats it
// as a black box: any failure is degraded to an empty result at the call
// site, never surfaced to the candidate.
type Retriever interface {
	// RelevantPassages returns up to k text chunks for the candidate's
	// resume, most relevant first.
	RelevantPassages(ctx context.Context, candidateID, query string, k int) ([]string, error)
}
