package ai

import "context"

// Embedder turns texts into fixed-length vectors. Implementations must be
// deterministic for identical input within a process and return vectors of
// the same dimension for every call.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Provider() string
	Model() string
}
