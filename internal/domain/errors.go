package domain

import "errors"

// Failure classes for calls to the AI completion service. The ranking
// usecase converts all of them into a fallback execution; they are never
// surfaced to callers as a ranking failure.
var (
	ErrUpstream          = errors.New("upstream service error")
	ErrTimeout           = errors.New("upstream call timed out")
	ErrMalformedResponse = errors.New("malformed upstream response")
	ErrRateLimited       = errors.New("local rate limit exceeded")
)
