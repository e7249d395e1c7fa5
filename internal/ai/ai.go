// Package ai holds the external model collaborators: text embedding and
// text generation. Both are plain interfaces so the retrieval core never
// knows which implementation it is talking to.
package ai

import "context"

// Embedder turns text into a fixed-dimension vector. Any error means
// "no vector available"; callers decide how to degrade.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces an answer for a fully built prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
