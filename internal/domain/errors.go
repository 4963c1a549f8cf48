package domain

import "errors"

// Stage sentinels. Every pipeline error wraps exactly one of these so the
// request handler can log which stage failed while keeping the external
// response generic.
var (
	ErrExtraction    = errors.New("filter extraction failed")
	ErrRetrieval     = errors.New("passage retrieval failed")
	ErrGeneration    = errors.New("answer generation failed")
	ErrConfiguration = errors.New("invalid configuration")
)
