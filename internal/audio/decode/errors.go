package decode

import "errors"

var (
	// ErrUnsupportedFormat is returned by Open for extensions with no
	// registered decoder.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrNotWavFile is returned when a .wav file fails header validation.
	ErrNotWavFile = errors.New("not a valid WAV file")

	// ErrSeekerRequired is returned by the WAV decoder when the input
	// does not support seeking.
	ErrSeekerRequired = errors.New("wav decoding requires a seekable reader")
)
