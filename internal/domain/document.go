package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DocumentIdentity uniquely identifies one filing in the corpus:
// one company, one fiscal year, one quarter.
type DocumentIdentity struct {
	Company string
	Year    int
	Quarter string
}

// Name renders the canonical corpus listing form "{year} {quarter} {ticker}".
func (d DocumentIdentity) Name() string {
	return fmt.Sprintf("%d %s %s", d.Year, d.Quarter, d.Company)
}

// ParseDocumentName parses a corpus listing entry of the form
// "{year} {quarter} {ticker}" back into a DocumentIdentity.
func ParseDocumentName(name string) (DocumentIdentity, error) {
	parts := strings.Fields(name)
	if len(parts) != 3 {
		return DocumentIdentity{}, fmt.Errorf("invalid document name %q: want \"{year} {quarter} {ticker}\"", name)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return DocumentIdentity{}, fmt.Errorf("invalid year in document name %q: %w", name, err)
	}

	return DocumentIdentity{
		Year:    year,
		Quarter: parts[1],
		Company: parts[2],
	}, nil
}

// DocumentNames renders the corpus listing for a set of identities,
// preserving order.
func DocumentNames(docs []DocumentIdentity) []string {
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name()
	}
	return names
}
