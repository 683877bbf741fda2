package stash

import "errors"

var (
	// ErrConnection marks transport-level failures reaching the host.
	ErrConnection = errors.New("stash connection error")
	// ErrGraphQL marks requests the GraphQL endpoint rejected or answered
	// with an errors payload.
	ErrGraphQL = errors.New("stash graphql error")
	// ErrFetch marks screenshot download failures.
	ErrFetch = errors.New("screenshot fetch error")
	// ErrUpload marks cover image replacement failures.
	ErrUpload = errors.New("screenshot upload error")
)
