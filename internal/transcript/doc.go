// Package transcript defines the speaker-attributed utterance model shared by
// every pipeline stage, and the normalizer that parses raw chat logs into it.
//
// Utterances are created once per source artifact and never mutated. Audio
// utterances carry start/end seconds; chat utterances may carry the raw
// bracketed timestamp token from the source line. Render flattens a transcript
// back into the line-oriented text handed to retrieval and the audit model.
package transcript
