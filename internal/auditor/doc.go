// Package auditor sends a transcript and its retrieved policy context to the
// audit model and parses the structured verdict.
//
// The client speaks the OpenRouter chat completions API and requests
// JSON-only output. Audit calls are issued exactly once; a failure fails the
// audit rather than being retried.
package auditor
