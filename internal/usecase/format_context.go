package usecase

import (
	"fmt"
	"strings"

	"financeqa/internal/domain"
)

// FormatContext renders retrieved passages into the knowledge-base block fed
// to the answer generator. Order-preserving and deterministic: each passage's
// text is followed by its provenance line, passages separated by a blank
// line. Zero passages render as the empty string; the system prompt handles
// the empty-knowledge-base case.
func FormatContext(passages []domain.RetrievedPassage) string {
	blocks := make([]string, len(passages))
	for i, p := range passages {
		blocks[i] = p.Text + fmt.Sprintf("\n Reference: %s, page %d", p.DocumentName(), p.Page)
	}
	return strings.Join(blocks, "\n\n")
}
