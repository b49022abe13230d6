// Package pipeline sequences a full audit run: classify the artifact,
// produce a speaker-attributed transcript, retrieve policy context, call the
// audit model, then persist, report, and alert on the verdict.
//
// Failures are classified with the sentinel markers in internal/services so
// callers can distinguish bad input from empty results and processing
// failures. A failed run never aborts the process.
package pipeline
