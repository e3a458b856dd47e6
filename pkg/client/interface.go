package client

import (
	"context"
	"encoding/json"
)

// VisionClient is the capability injected into components that need a
// judgment from a vision model. Implementations return an error for any
// transport or protocol failure; deciding the fallback is the caller's job.
type VisionClient interface {
	// SimpleQuery sends an image and a prompt and returns the raw text reply.
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)

	// ConstrainedQuery sends an image and a prompt together with a JSON
	// schema the reply must conform to, and returns the raw reply text.
	ConstrainedQuery(ctx context.Context, model, prompt, imgB64 string, format json.RawMessage) (string, error)
}
