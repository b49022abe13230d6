// Package whisperx invokes WhisperX to transcribe call audio into timed
// segments.
//
// WhisperX runs via uvx so no Python environment management is needed on the
// host. The service writes its JSON output next to the source audio and
// parses it into Segment values for the aligner.
package whisperx
