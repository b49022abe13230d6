// Package services defines shared utilities consumed by the pipeline stages
// and external model integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so every stage failure
//     carries a class the caller can switch on (bad input, unsupported
//     format, external failure, empty result, configuration).
//   - Context helpers that stamp run and artifact identifiers for logging.
//
// Use these helpers when wiring new stage logic so failure classification
// stays uniform across the pipeline.
package services
