// Package align turns call audio into a speaker-attributed transcript by
// combining transcription segments with diarization turns.
//
// Attribution uses each segment's temporal midpoint: the first diarization
// turn whose inclusive bounds contain the midpoint supplies the speaker, and
// segments no turn covers are labeled Unknown. When the diarizer rejects the
// audio's format the aligner converts it to mono 16kHz WAV and retries
// exactly once.
package align
