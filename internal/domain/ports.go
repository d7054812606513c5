package domain

import "context"

// TextExtractor turns an uploaded document into plain text. Every failure,
// whatever its origin, counts as an extraction failure.
type TextExtractor interface {
	Extract(ctx context.Context, file UploadedFile) (string, error)
}

// ModelClient calls the generative model endpoint and returns the single
// text payload of its reply. A reply without a payload yields ErrMalformedReply.
type ModelClient interface {
	Generate(ctx context.Context, credential string, prompt string) (string, error)
	// RequiresCredential is false for endpoints that need no API key (e.g. a local Ollama).
	RequiresCredential() bool
}

// IDGenerator issues question identities.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string { return f() }
