// Package diarize invokes Senko to segment call audio by speaker.
//
// Senko runs via uvx like the transcription tool. Format rejections (missing
// RIFF header, wrong sample rate or channel count) are classified into a
// typed error so the aligner can convert the audio and retry once; every
// other failure surfaces unchanged.
package diarize
