package domain

// RetrievedPassage is one similarity-search hit together with its provenance.
// Read-only, request-scoped.
type RetrievedPassage struct {
	Text    string
	Company string
	Year    int
	Quarter string
	Page    int
	Score   float32
}

// DocumentName returns the corpus listing name of the filing this passage
// came from.
func (p RetrievedPassage) DocumentName() string {
	return DocumentIdentity{Company: p.Company, Year: p.Year, Quarter: p.Quarter}.Name()
}
