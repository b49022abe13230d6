// Package embed wraps an OpenAI-compatible embeddings endpoint.
//
// Requests are issued exactly once; a failed embedding call fails the
// operation that needed it rather than being retried.
package embed
