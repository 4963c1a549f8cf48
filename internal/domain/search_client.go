package domain

import "context"

// SearchClient is the similarity-search service boundary: given a text query
// and a metadata filter, it returns up to k passages in the service's native
// relevance order. An empty predicate means unrestricted search.
type SearchClient interface {
	Search(ctx context.Context, query string, filter Predicate, k int) ([]RetrievedPassage, error)
}

// CorpusLister exposes the document identities backing the search index.
// Read once at process start; the pipeline never re-reads it per request.
type CorpusLister interface {
	ListDocuments(ctx context.Context) ([]DocumentIdentity, error)
}
