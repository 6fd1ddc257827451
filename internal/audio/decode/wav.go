package decode

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func init() {
	Register("wav", WAVDecoder{})
}

// WAVDecoder decodes PCM WAV files via go-audio/wav.
type WAVDecoder struct{}

func (WAVDecoder) Decode(r io.Reader) (Stream, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nil, ErrSeekerRequired
	}
	d := wav.NewDecoder(rs)
	if !d.IsValidFile() {
		return nil, ErrNotWavFile
	}
	d.ReadInfo()
	if d.BitDepth == 0 || d.NumChans == 0 || d.SampleRate == 0 {
		return nil, fmt.Errorf("%w: missing format info", ErrNotWavFile)
	}
	return &wavStream{
		d:     d,
		scale: float32(int(1) << (d.BitDepth - 1)),
	}, nil
}

type wavStream struct {
	d     *wav.Decoder
	buf   *audio.IntBuffer
	scale float32
}

func (s *wavStream) SampleRate() int { return int(s.d.SampleRate) }
func (s *wavStream) Channels() int   { return int(s.d.NumChans) }
func (s *wavStream) Close() error    { return nil }

func (s *wavStream) ReadSamples(dst []float32) (int, error) {
	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: int(s.d.NumChans),
				SampleRate:  int(s.d.SampleRate),
			},
			Data:           make([]int, len(dst)),
			SourceBitDepth: int(s.d.BitDepth),
		}
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.d.PCMBuffer(s.buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("wav read: %w", err)
	}
	for i := 0; i < n; i++ {
		dst[i] = float32(s.buf.Data[i]) / s.scale
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
