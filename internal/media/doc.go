// Package media wraps the ffmpeg invocations the pipeline needs: converting
// arbitrary audio into the mono 16kHz WAV form the diarizer accepts.
package media
