package domain

// Reference is one citation emitted by the answer generator. It must point at
// information actually present in the answer text; the system prompt enforces
// this best-effort, not programmatically.
type Reference struct {
	Year    int    `json:"year"`
	Quarter string `json:"quarter"`
	Company string `json:"company"`
	Page    int    `json:"page"`
}

// AnswerResult is the externally visible answer contract. References may be
// empty only when no company-specific claim is made.
type AnswerResult struct {
	Response   string      `json:"response"`
	References []Reference `json:"references"`
}
